package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

const (
	highChurnThreshold   = 60.0
	mediumChurnThreshold = 35.0
	maxDeclinePoints     = 30.0
	reportMinProbability = 20.0
	reportMinIdleDays    = 180
)

// recencyPoints returns the points of the highest idle bracket reached; brackets do not stack.
func recencyPoints(days int) float64 {
	switch {
	case days > 365:
		return 40
	case days > 180:
		return 25
	case days > 90:
		return 15
	case days > 30:
		return 5
	default:
		return 0
	}
}

func priceShiftPoints(shift float64) float64 {
	switch {
	case shift < -20:
		return 10
	case shift < -10:
		return 5
	default:
		return 0
	}
}

// ClassifyChurnRisk maps a probability to its risk tier.
func ClassifyChurnRisk(p float64) models.ChurnRisk {
	switch {
	case p >= highChurnThreshold:
		return models.ChurnHigh
	case p >= mediumChurnThreshold:
		return models.ChurnMedium
	default:
		return models.ChurnLow
	}
}

// windowStats describes the orders that fall in one comparison window.
type windowStats struct {
	count int
	avg   float64
}

func statsOf(orders []models.Order) windowStats {
	return windowStats{count: len(orders), avg: safeDiv(sumTotals(orders), float64(len(orders)))}
}

// PredictChurn scores repeat customers (two or more qualifying orders) and keeps those with a
// probability above 20 or more than 180 idle days, most likely to churn first.
//
// The last daysThreshold days ("recent") are compared with the window of the same length just
// before it ("older") to detect falling order frequency and order value.
func PredictChurn(customers []models.Customer, ref time.Time, daysThreshold int) []models.ChurnPrediction {
	if daysThreshold <= 0 {
		daysThreshold = models.DefaultDaysThreshold
	}
	window := time.Duration(daysThreshold) * 24 * time.Hour
	threshold := ref.Add(-window)
	olderStart := threshold.Add(-window)

	out := make([]models.ChurnPrediction, 0)
	for _, c := range customers {
		orders := qualifyingAsOf(c.Orders, ref)
		if len(orders) < 2 {
			continue
		}
		sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
		first, last := orders[0], orders[len(orders)-1]
		days := timebucket.DaysBetween(last.CreatedAt, ref)

		recent := statsOf(lo.Filter(orders, func(o models.Order, _ int) bool {
			return !o.CreatedAt.Before(threshold)
		}))
		older := statsOf(lo.Filter(orders, func(o models.Order, _ int) bool {
			return !o.CreatedAt.Before(olderStart) && o.CreatedAt.Before(threshold)
		}))

		decline := 0.0
		if older.count > 0 {
			decline = math.Max(0, float64(older.count-recent.count)/float64(older.count)*100)
		}
		shift := 0.0
		if older.avg > 0 {
			shift = (recent.avg - older.avg) / older.avg * 100
		}

		p := recencyPoints(days) + math.Min(maxDeclinePoints, decline*1.5) + priceShiftPoints(shift)
		p = round2(clamp(p, 0, 100))
		if p <= reportMinProbability && days <= reportMinIdleDays {
			continue
		}

		var factors []string
		if days > 30 {
			factors = append(factors, fmt.Sprintf("No purchase in %d days", days))
		}
		if decline > 0 {
			factors = append(factors, fmt.Sprintf("Purchase frequency declined by %.0f%%", decline))
		}
		if shift < -10 {
			factors = append(factors, fmt.Sprintf("Average order value decreased by %.0f%%", -shift))
		}
		if recent.count == 0 {
			factors = append(factors, "No purchases in recent period")
		}

		var predicted *time.Time
		if gap := last.CreatedAt.Sub(first.CreatedAt) / time.Duration(len(orders)-1); gap > 0 {
			d := last.CreatedAt.Add(2 * gap).UTC()
			predicted = &d
		}

		out = append(out, models.ChurnPrediction{
			CustomerID:         c.ID,
			CustomerName:       c.Name,
			CustomerEmail:      c.Email,
			ChurnProbability:   p,
			ChurnRisk:          ClassifyChurnRisk(p),
			RiskFactors:        factors,
			LastOrderDate:      last.CreatedAt.UTC(),
			DaysSinceLastOrder: days,
			PredictedChurnDate: predicted,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ChurnProbability != b.ChurnProbability {
			return a.ChurnProbability > b.ChurnProbability
		}
		if a.DaysSinceLastOrder != b.DaysSinceLastOrder {
			return a.DaysSinceLastOrder > b.DaysSinceLastOrder
		}
		return a.CustomerID < b.CustomerID
	})
	return out
}

// SummarizeChurn counts predictions per tier.
func SummarizeChurn(preds []models.ChurnPrediction) models.ChurnSummary {
	s := models.ChurnSummary{TotalAtRisk: len(preds)}
	for _, p := range preds {
		switch p.ChurnRisk {
		case models.ChurnHigh:
			s.HighRisk++
		case models.ChurnMedium:
			s.MediumRisk++
		default:
			s.LowRisk++
		}
	}
	total := lo.SumBy(preds, func(p models.ChurnPrediction) float64 { return p.ChurnProbability })
	s.AverageChurnProbability = round2(safeDiv(total, float64(len(preds))))
	return s
}

// FilterChurn keeps the predictions of one risk tier; "all" keeps every prediction.
func FilterChurn(preds []models.ChurnPrediction, riskLevel string) []models.ChurnPrediction {
	tier, ok := models.ParseChurnRisk(riskLevel)
	if !ok {
		return preds
	}
	return lo.Filter(preds, func(p models.ChurnPrediction, _ int) bool { return p.ChurnRisk == tier })
}
