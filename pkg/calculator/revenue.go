package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

// Lifecycle thresholds used to attribute revenue to customer segments.
const (
	vipMinSpent       = 5000.0
	loyalMinOrders    = 5
	newCustomerWindow = 30 * 24 * time.Hour
)

type bucketTotals struct {
	revenue decimal.Decimal
	orders  int
}

// RevenueByTime buckets qualifying orders of rng by iv. Every bucket of the range is emitted,
// including the ones without orders.
func RevenueByTime(orders []models.Order, rng models.DateRange, iv timebucket.Interval) []models.RevenuePoint {
	byBucket := map[int64]*bucketTotals{}
	for _, o := range orders {
		if !o.Qualifies() || !rng.Contains(o.CreatedAt) {
			continue
		}
		key := timebucket.Start(o.CreatedAt, iv).Unix()
		acc, ok := byBucket[key]
		if !ok {
			acc = &bucketTotals{}
			byBucket[key] = acc
		}
		acc.revenue = acc.revenue.Add(decimal.NewFromFloat(o.Total))
		acc.orders++
	}

	buckets := timebucket.Enumerate(rng.Start, rng.End, iv)
	out := make([]models.RevenuePoint, 0, len(buckets))
	for _, b := range buckets {
		p := models.RevenuePoint{Date: timebucket.Label(b, iv)}
		if acc, ok := byBucket[b.Unix()]; ok {
			rev := acc.revenue.InexactFloat64()
			p.Revenue = round2(rev)
			p.OrderCount = acc.orders
			p.AverageOrderValue = round2(safeDiv(rev, float64(acc.orders)))
		}
		out = append(out, p)
	}
	return out
}

// SummarizeRevenue totals the qualifying orders of rng.
func SummarizeRevenue(orders []models.Order, rng models.DateRange) models.RevenueSummary {
	total := decimal.Zero
	count := 0
	customers := map[string]struct{}{}
	for _, o := range orders {
		if !o.Qualifies() || !rng.Contains(o.CreatedAt) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(o.Total))
		count++
		if o.CustomerID != nil {
			customers[*o.CustomerID] = struct{}{}
		}
	}
	rev := total.InexactFloat64()
	return models.RevenueSummary{
		TotalRevenue:      round2(rev),
		OrderCount:        count,
		AverageOrderValue: round2(safeDiv(rev, float64(count))),
		UniqueCustomers:   len(customers),
	}
}

// ClassifyLifecycle picks the lifecycle segment of a customer from its lifetime history.
// VIP wins over LOYAL, which wins over NEW.
func ClassifyLifecycle(c models.Customer, ref time.Time) models.LifecycleSegment {
	history := qualifyingAsOf(c.Orders, ref)
	switch {
	case sumTotals(history) >= vipMinSpent:
		return models.LifecycleVIP
	case len(history) >= loyalMinOrders:
		return models.LifecycleLoyal
	case ref.Sub(c.CreatedAt) < newCustomerWindow:
		return models.LifecycleNew
	default:
		return models.LifecycleRegular
	}
}

// RevenueBySegment attributes the qualifying orders of rng to the lifecycle segment of their
// customer. Guest orders and orders of unknown customers count as REGULAR revenue.
func RevenueBySegment(orders []models.Order, customers []models.Customer, rng models.DateRange, ref time.Time) []models.SegmentRevenue {
	segmentOf := make(map[string]models.LifecycleSegment, len(customers))
	for _, c := range customers {
		segmentOf[c.ID] = ClassifyLifecycle(c, ref)
	}

	type acc struct {
		revenue   decimal.Decimal
		orders    int
		customers map[string]struct{}
	}
	totals := map[models.LifecycleSegment]*acc{}
	for _, s := range models.LifecycleSegments {
		totals[s] = &acc{customers: map[string]struct{}{}}
	}

	for _, o := range orders {
		if !o.Qualifies() || !rng.Contains(o.CreatedAt) {
			continue
		}
		seg := models.LifecycleRegular
		if o.CustomerID != nil {
			if s, ok := segmentOf[*o.CustomerID]; ok {
				seg = s
			}
		}
		a := totals[seg]
		a.revenue = a.revenue.Add(decimal.NewFromFloat(o.Total))
		a.orders++
		if o.CustomerID != nil {
			a.customers[*o.CustomerID] = struct{}{}
		}
	}

	out := make([]models.SegmentRevenue, 0, len(models.LifecycleSegments))
	for _, s := range models.LifecycleSegments {
		a := totals[s]
		out = append(out, models.SegmentRevenue{
			Segment:   s,
			Revenue:   round2(a.revenue.InexactFloat64()),
			Orders:    a.orders,
			Customers: len(a.customers),
		})
	}
	return out
}
