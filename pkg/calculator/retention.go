package calculator

import (
	"time"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

// RetentionByPeriod splits the customers who ordered in each bucket of rng into new ones (their
// first qualifying order ever falls in that bucket) and returning ones. Guest orders are not counted.
func RetentionByPeriod(orders []models.Order, customers []models.Customer, rng models.DateRange, iv timebucket.Interval) []models.RetentionPoint {
	first := map[string]time.Time{}
	note := func(id string, at time.Time) {
		if cur, ok := first[id]; !ok || at.Before(cur) {
			first[id] = at
		}
	}
	for _, c := range customers {
		for _, o := range qualifying(c.Orders) {
			note(c.ID, o.CreatedAt)
		}
	}
	for _, o := range orders {
		if o.Qualifies() && o.CustomerID != nil {
			note(*o.CustomerID, o.CreatedAt)
		}
	}

	type seen struct{ fresh, returning map[string]struct{} }
	byBucket := map[int64]*seen{}
	for _, o := range orders {
		if !o.Qualifies() || o.CustomerID == nil || !rng.Contains(o.CreatedAt) {
			continue
		}
		id := *o.CustomerID
		b := timebucket.Start(o.CreatedAt, iv)
		s, ok := byBucket[b.Unix()]
		if !ok {
			s = &seen{fresh: map[string]struct{}{}, returning: map[string]struct{}{}}
			byBucket[b.Unix()] = s
		}
		if timebucket.Start(first[id], iv).Equal(b) {
			s.fresh[id] = struct{}{}
		} else {
			s.returning[id] = struct{}{}
		}
	}

	buckets := timebucket.Enumerate(rng.Start, rng.End, iv)
	out := make([]models.RetentionPoint, 0, len(buckets))
	for _, b := range buckets {
		p := models.RetentionPoint{Period: timebucket.Label(b, iv)}
		if s, ok := byBucket[b.Unix()]; ok {
			p.NewCustomers = len(s.fresh)
			p.ReturningCustomers = len(s.returning)
			p.TotalCustomers = p.NewCustomers + p.ReturningCustomers
			p.RetentionRate = round2(safeDiv(float64(p.ReturningCustomers), float64(p.TotalCustomers)) * 100)
		}
		out = append(out, p)
	}
	return out
}
