package calculator

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

// Score thresholds are fixed, not derived from population quantiles.

// RecencyScore maps days since the last order to 1..5 (recent is better).
func RecencyScore(days int) int {
	switch {
	case days <= 30:
		return 5
	case days <= 90:
		return 4
	case days <= 180:
		return 3
	case days <= 365:
		return 2
	default:
		return 1
	}
}

// FrequencyScore maps the order count to 1..5.
func FrequencyScore(orders int) int {
	switch {
	case orders >= 10:
		return 5
	case orders >= 5:
		return 4
	case orders >= 3:
		return 3
	case orders >= 2:
		return 2
	default:
		return 1
	}
}

// MonetaryScore maps lifetime spend to 1..5.
func MonetaryScore(spent float64) int {
	switch {
	case spent >= 5000:
		return 5
	case spent >= 2500:
		return 4
	case spent >= 1000:
		return 3
	case spent >= 500:
		return 2
	default:
		return 1
	}
}

type rfmRule struct {
	segment models.RFMSegment
	match   func(r, f, m int) bool
}

// rfmRules is evaluated top to bottom; the first match wins.
var rfmRules = []rfmRule{
	{models.RFMChampions, func(r, f, m int) bool { return r >= 4 && f >= 4 && m >= 4 }},
	{models.RFMLoyalCustomers, func(r, f, m int) bool { return r >= 4 && f >= 3 && m >= 3 }},
	{models.RFMPotentialLoyalists, func(r, f, m int) bool { return r >= 4 && f >= 2 && m >= 3 }},
	{models.RFMNewCustomers, func(r, f, m int) bool { return r >= 4 && f <= 2 }},
	{models.RFMPromising, func(r, f, m int) bool { return r >= 3 && f >= 2 && m <= 2 }},
	{models.RFMNeedAttention, func(r, f, m int) bool { return r >= 3 && f <= 2 && m >= 2 }},
	{models.RFMAtRisk, func(r, f, m int) bool { return r <= 2 && f >= 3 && m >= 3 }},
	{models.RFMCannotLoseThem, func(r, f, m int) bool { return r <= 2 && m >= 4 }},
	{models.RFMAboutToSleep, func(r, f, m int) bool { return r <= 2 && f >= 2 && m >= 2 }},
}

// ClassifyRFM returns the segment of a score triple.
func ClassifyRFM(r, f, m int) models.RFMSegment {
	for _, rule := range rfmRules {
		if rule.match(r, f, m) {
			return rule.segment
		}
	}
	return models.RFMLostCustomers
}

// ScoreRFM scores every customer with at least one qualifying order, in input order.
func ScoreRFM(customers []models.Customer, ref time.Time) []models.RFMScore {
	out := make([]models.RFMScore, 0, len(customers))
	for _, c := range customers {
		orders := qualifyingAsOf(c.Orders, ref)
		if len(orders) == 0 {
			continue
		}
		last := lo.MaxBy(orders, func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) })

		recency := timebucket.DaysBetween(last.CreatedAt, ref)
		frequency := len(orders)
		monetary := round2(sumTotals(orders))

		r, f, m := RecencyScore(recency), FrequencyScore(frequency), MonetaryScore(monetary)
		out = append(out, models.RFMScore{
			CustomerID:     c.ID,
			CustomerName:   c.Name,
			CustomerEmail:  c.Email,
			Recency:        recency,
			Frequency:      frequency,
			Monetary:       monetary,
			RecencyScore:   r,
			FrequencyScore: f,
			MonetaryScore:  m,
			RFMScore:       fmt.Sprintf("%d%d%d", r, f, m),
			Segment:        ClassifyRFM(r, f, m),
		})
	}
	return out
}

// SummarizeRFMSegments aggregates scores per segment, highest revenue first.
func SummarizeRFMSegments(scores []models.RFMScore) []models.RFMSegmentSummary {
	groups := lo.GroupBy(scores, func(s models.RFMScore) models.RFMSegment { return s.Segment })

	out := make([]models.RFMSegmentSummary, 0, len(groups))
	for seg, members := range groups {
		n := float64(len(members))
		revenue := lo.SumBy(members, func(s models.RFMScore) float64 { return s.Monetary })
		out = append(out, models.RFMSegmentSummary{
			Segment:      seg,
			Count:        len(members),
			AvgRecency:   round2(float64(lo.SumBy(members, func(s models.RFMScore) int { return s.Recency })) / n),
			AvgFrequency: round2(float64(lo.SumBy(members, func(s models.RFMScore) int { return s.Frequency })) / n),
			AvgMonetary:  round2(revenue / n),
			Revenue:      round2(revenue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}

// RFMOverviewOf wraps the segment summary with run totals.
func RFMOverviewOf(scores []models.RFMScore) models.RFMOverview {
	segments := SummarizeRFMSegments(scores)
	return models.RFMOverview{
		Segments:       segments,
		TotalCustomers: lo.SumBy(segments, func(s models.RFMSegmentSummary) int { return s.Count }),
		TotalRevenue:   round2(lo.SumBy(segments, func(s models.RFMSegmentSummary) float64 { return s.Revenue })),
	}
}
