package calculator

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

const (
	clvHorizonDays     = 730
	highValueThreshold = 10000.0
	midValueThreshold  = 3000.0
)

// ClassifyValue buckets a lifetime value.
func ClassifyValue(ltv float64) models.ValueSegment {
	switch {
	case ltv >= highValueThreshold:
		return models.ValueHigh
	case ltv >= midValueThreshold:
		return models.ValueMedium
	default:
		return models.ValueLow
	}
}

// PredictCLV projects the lifetime value of every customer with qualifying orders,
// highest LTV first.
//
// The future value assumes the observed purchase rate holds for two more years and is
// discounted by a churn risk that grows linearly to 100 after a year without orders.
func PredictCLV(customers []models.Customer, ref time.Time) []models.CLVRecord {
	out := make([]models.CLVRecord, 0, len(customers))
	for _, c := range customers {
		orders := qualifyingAsOf(c.Orders, ref)
		if len(orders) == 0 {
			continue
		}
		first := lo.MinBy(orders, func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) })
		last := lo.MaxBy(orders, func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) })

		current := sumTotals(orders)
		count := float64(len(orders))
		aov := current / count
		lifetimeDays := math.Max(1, float64(timebucket.DaysBetween(first.CreatedAt, ref)+1))
		perDay := count / lifetimeDays
		predicted := aov * perDay * clvHorizonDays

		daysIdle := timebucket.DaysBetween(last.CreatedAt, ref)
		risk := int(clamp(math.Floor(float64(daysIdle)/365*100), 0, 100))
		ltv := round2(current + predicted*(1-float64(risk)/100))

		out = append(out, models.CLVRecord{
			CustomerID:     c.ID,
			CustomerName:   c.Name,
			CurrentValue:   round2(current),
			PredictedValue: round2(predicted),
			ChurnRisk:      risk,
			LTV:            ltv,
			ValueSegment:   ClassifyValue(ltv),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LTV != out[j].LTV {
			return out[i].LTV > out[j].LTV
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// SummarizeCLV counts records per value segment and totals their values.
func SummarizeCLV(records []models.CLVRecord) models.CLVSummary {
	s := models.CLVSummary{TotalCustomers: len(records)}
	for _, r := range records {
		switch r.ValueSegment {
		case models.ValueHigh:
			s.HighValue++
		case models.ValueMedium:
			s.MediumValue++
		default:
			s.LowValue++
		}
	}
	total := lo.SumBy(records, func(r models.CLVRecord) float64 { return r.LTV })
	s.TotalLTV = round2(total)
	s.AverageLTV = round2(safeDiv(total, float64(len(records))))
	s.TotalCurrentValue = round2(lo.SumBy(records, func(r models.CLVRecord) float64 { return r.CurrentValue }))
	return s
}

// FilterCLV keeps the records of one value segment; "all" keeps every record.
func FilterCLV(records []models.CLVRecord, segment string) []models.CLVRecord {
	seg, ok := models.ParseValueSegment(segment)
	if !ok {
		return records
	}
	return lo.Filter(records, func(r models.CLVRecord, _ int) bool { return r.ValueSegment == seg })
}

func listLimit(limit int) int {
	if limit <= 0 {
		return models.DefaultListLimit
	}
	if limit > models.MaxListLimit {
		return models.MaxListLimit
	}
	return limit
}

func truncate[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
