package calculator

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"customer-analytics/pkg/models"
)

// round2 rounds half away from zero to cents.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// sumTotals adds order totals without accumulating float drift.
func sumTotals(orders []models.Order) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.Total))
	}
	return sum.InexactFloat64()
}

// safeDiv returns 0 instead of NaN or Inf when den is 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// qualifying drops cancelled orders.
func qualifying(orders []models.Order) []models.Order {
	return lo.Filter(orders, func(o models.Order, _ int) bool { return o.Qualifies() })
}

// qualifyingAsOf drops cancelled orders and orders placed after ref.
func qualifyingAsOf(orders []models.Order, ref time.Time) []models.Order {
	return lo.Filter(orders, func(o models.Order, _ int) bool { return o.Qualifies() && !o.CreatedAt.After(ref) })
}
