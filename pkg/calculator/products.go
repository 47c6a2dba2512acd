package calculator

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"customer-analytics/pkg/models"
)

type productAcc struct {
	perf    models.ProductPerformance
	revenue decimal.Decimal
	prices  []float64
	orders  map[string]struct{}
}

// RankProducts groups the lines of qualifying orders by product and sorts them by metric,
// best first. Lines whose order is not in orders (cancelled or out of range) are ignored.
func RankProducts(orders []models.Order, items []models.OrderItem, metric models.RankMetric) []models.ProductPerformance {
	eligible := lo.SliceToMap(qualifying(orders), func(o models.Order) (string, struct{}) {
		return o.ID, struct{}{}
	})

	byProduct := map[string]*productAcc{}
	for _, it := range items {
		if _, ok := eligible[it.OrderID]; !ok || it.Quantity <= 0 {
			continue
		}
		acc, ok := byProduct[it.ProductID]
		if !ok {
			acc = &productAcc{
				perf: models.ProductPerformance{
					ProductID:   it.ProductID,
					ProductName: it.ProductName,
					Category:    it.Category,
				},
				orders: map[string]struct{}{},
			}
			byProduct[it.ProductID] = acc
		}
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		acc.revenue = acc.revenue.Add(line)
		acc.perf.UnitsSold += it.Quantity
		acc.prices = append(acc.prices, it.Price)
		acc.orders[it.OrderID] = struct{}{}
	}

	out := make([]models.ProductPerformance, 0, len(byProduct))
	for _, acc := range byProduct {
		p := acc.perf
		p.Revenue = round2(acc.revenue.InexactFloat64())
		p.OrderCount = len(acc.orders)
		p.AveragePrice = round2(safeDiv(lo.Sum(acc.prices), float64(len(acc.prices))))
		out = append(out, p)
	}

	key := func(p models.ProductPerformance) float64 {
		if metric == models.RankByUnits {
			return float64(p.UnitsSold)
		}
		return p.Revenue
	}
	sort.Slice(out, func(i, j int) bool {
		if ki, kj := key(out[i]), key(out[j]); ki != kj {
			return ki > kj
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// TopProducts returns the first limit entries of a ranking.
func TopProducts(ranked []models.ProductPerformance, limit int) []models.ProductPerformance {
	limit = productLimit(limit)
	if len(ranked) <= limit {
		return ranked
	}
	return ranked[:limit]
}

// BottomProducts returns the last limit entries of a ranking, weakest first.
func BottomProducts(ranked []models.ProductPerformance, limit int) []models.ProductPerformance {
	limit = productLimit(limit)
	tail := ranked
	if len(ranked) > limit {
		tail = ranked[len(ranked)-limit:]
	}
	return lo.Reverse(append([]models.ProductPerformance(nil), tail...))
}

func productLimit(limit int) int {
	if limit <= 0 {
		return models.DefaultProductLimit
	}
	if limit > models.MaxProductLimit {
		return models.MaxProductLimit
	}
	return limit
}
