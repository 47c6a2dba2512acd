package calculator

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

func TestRevenueByTime_EmptyRangeEmitsZeroBuckets(t *testing.T) {
	rng := models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 3)}

	got := RevenueByTime(nil, rng, timebucket.Day)

	require.Len(t, got, 3, spew.Sdump(got))
	for i, want := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		assert.Equal(t, models.RevenuePoint{Date: want}, got[i])
	}
}

func TestRevenueByTime_GroupsByDay(t *testing.T) {
	orders := []models.Order{
		order("a", "c1", day(2024, 1, 1).Add(9*time.Hour), 100),
		order("b", "c2", day(2024, 1, 1).Add(18*time.Hour), 200),
		order("c", "c1", day(2024, 1, 2), 150),
		cancelled(order("d", "c3", day(2024, 1, 2), 999)),
	}
	rng := models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 2)}

	got := RevenueByTime(orders, rng, timebucket.Day)

	require.Len(t, got, 2)
	assert.Equal(t, 300.0, got[0].Revenue)
	assert.Equal(t, 2, got[0].OrderCount)
	assert.Equal(t, 150.0, got[0].AverageOrderValue)
	assert.Equal(t, models.RevenuePoint{Date: "2024-01-02", Revenue: 150, OrderCount: 1, AverageOrderValue: 150}, got[1])
}

func TestRevenueByTime_MonthlyRoundsToCents(t *testing.T) {
	orders := []models.Order{
		order("a", "c1", day(2024, 2, 10), 10.10),
		order("b", "c1", day(2024, 2, 11), 20.20),
		order("c", "c1", day(2024, 2, 12), 0.03),
	}
	rng := models.DateRange{Start: day(2024, 1, 15), End: day(2024, 3, 1)}

	got := RevenueByTime(orders, rng, timebucket.Month)

	require.Len(t, got, 3)
	assert.Equal(t, "2024-02", got[1].Date)
	assert.Equal(t, 30.33, got[1].Revenue)
	assert.Equal(t, 10.11, got[1].AverageOrderValue)
	assert.Zero(t, got[2].OrderCount)
}

func segmentFixture() ([]models.Customer, []models.Order) {
	june := day(2024, 6, 25)
	vip := customer("vip", day(2023, 1, 1),
		order("", "", day(2024, 1, 10), 2000),
		order("", "", day(2024, 3, 10), 2000),
		order("", "", june, 2000),
	)
	loyal := customer("loyal", day(2023, 1, 1),
		order("", "", day(2024, 2, 1), 100),
		order("", "", day(2024, 3, 1), 100),
		order("", "", day(2024, 4, 1), 100),
		order("", "", day(2024, 5, 1), 100),
		order("", "", june, 100),
		cancelled(order("", "", june, 10000)),
	)
	fresh := customer("new", day(2024, 6, 20), order("", "", june, 50))
	regular := customer("regular", day(2023, 5, 1), order("", "", june, 80))
	customers := []models.Customer{vip, loyal, fresh, regular}
	orders := append(flatten(customers...), order("guest", "", june, 40))
	return customers, orders
}

func TestClassifyLifecycle(t *testing.T) {
	customers, _ := segmentFixture()
	now := day(2024, 6, 30)
	want := []models.LifecycleSegment{models.LifecycleVIP, models.LifecycleLoyal, models.LifecycleNew, models.LifecycleRegular}
	for i, c := range customers {
		assert.Equal(t, want[i], ClassifyLifecycle(c, now), c.ID)
	}
}

func TestRevenueBySegment(t *testing.T) {
	customers, orders := segmentFixture()
	rng := models.DateRange{Start: day(2024, 6, 1), End: day(2024, 6, 30)}

	got := RevenueBySegment(orders, customers, rng, day(2024, 6, 30))

	assert.Equal(t, []models.SegmentRevenue{
		{Segment: models.LifecycleVIP, Revenue: 2000, Orders: 1, Customers: 1},
		{Segment: models.LifecycleLoyal, Revenue: 100, Orders: 1, Customers: 1},
		{Segment: models.LifecycleNew, Revenue: 50, Orders: 1, Customers: 1},
		{Segment: models.LifecycleRegular, Revenue: 120, Orders: 2, Customers: 1},
	}, got)
}

func TestSummarizeRevenue(t *testing.T) {
	_, orders := segmentFixture()
	rng := models.DateRange{Start: day(2024, 6, 1), End: day(2024, 6, 30)}

	got := SummarizeRevenue(orders, rng)

	assert.Equal(t, models.RevenueSummary{TotalRevenue: 2270, OrderCount: 5, AverageOrderValue: 454, UniqueCustomers: 4}, got)
	assert.Equal(t, models.RevenueSummary{}, SummarizeRevenue(nil, rng))
}
