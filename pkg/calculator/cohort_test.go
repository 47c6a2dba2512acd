package calculator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

func monthlyCohortFixture() []models.Customer {
	var customers []models.Customer
	for i := 0; i < 10; i++ {
		signup := day(2024, 1, 3+i)
		orders := []models.Order{order("", "", signup, 100)}
		if i < 4 {
			orders = append(orders, order("", "", day(2024, 2, 10+i), 50))
		}
		if i == 0 {
			orders = append(orders, order("", "", day(2024, 2, 25), 50))
		}
		if i == 1 || i == 5 {
			orders = append(orders, order("", "", day(2024, 3, 12), 50))
		}
		customers = append(customers, customer(fmt.Sprintf("jan-%d", i), signup, orders...))
	}
	customers = append(customers,
		customer("feb-0", day(2024, 2, 5), order("", "", day(2024, 2, 5), 100), order("", "", day(2024, 3, 1), 50)),
		customer("feb-1", day(2024, 2, 28), order("", "", day(2024, 2, 28), 100)),
		// signed up after the range
		customer("mar-0", day(2024, 3, 2), order("", "", day(2024, 3, 2), 100)),
	)
	return customers
}

func TestGenerateCohorts_Monthly(t *testing.T) {
	rng := models.DateRange{Start: day(2024, 1, 1), End: day(2024, 2, 29)}

	got := GenerateCohorts(monthlyCohortFixture(), rng, timebucket.Month, ref)

	require.Len(t, got, 2)
	feb, jan := got[0], got[1]

	assert.Equal(t, "2024-02", feb.Cohort)
	assert.Equal(t, 2, feb.Period0)
	assert.Equal(t, [4]int{100, 50, 0, 0}, feb.Retention)

	assert.Equal(t, "2024-01", jan.Cohort)
	assert.Equal(t, 10, jan.Period0)
	assert.Equal(t, 4, jan.Period1)
	assert.Equal(t, 2, jan.Period2)
	assert.Equal(t, 0, jan.Period3)
	assert.Equal(t, [4]int{100, 40, 20, 0}, jan.Retention)
	assert.Equal(t, 1350.0, jan.Revenue)
	assert.Equal(t, 135.0, jan.AverageLTV)
}

func TestGenerateCohorts_IgnoresCancelledAndFutureOrders(t *testing.T) {
	customers := []models.Customer{
		customer("a", day(2024, 1, 10),
			order("", "", day(2024, 1, 10), 100),
			cancelled(order("", "", day(2024, 2, 10), 500)),
			order("", "", ref.AddDate(0, 0, 1), 900),
		),
	}
	rng := models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	got := GenerateCohorts(customers, rng, timebucket.Month, ref)

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Period1)
	assert.Equal(t, 100.0, got[0].Revenue)
}

func TestGenerateCohorts_Weekly(t *testing.T) {
	// 2024-01-07 is a Sunday.
	customers := []models.Customer{
		customer("a", day(2024, 1, 8), order("", "", day(2024, 1, 8), 10), order("", "", day(2024, 1, 15), 10)),
		customer("b", day(2024, 1, 13), order("", "", day(2024, 1, 28), 10)),
	}
	rng := models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	got := GenerateCohorts(customers, rng, timebucket.Week, ref)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-07 - 2024-01-13", got[0].Cohort)
	assert.Equal(t, 2, got[0].Period0)
	assert.Equal(t, 1, got[0].Period1)
	assert.Equal(t, 1, got[0].Period3)
	assert.Equal(t, [4]int{100, 50, 0, 50}, got[0].Retention)
}

func TestGenerateCohorts_Empty(t *testing.T) {
	rng := models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	got := GenerateCohorts(nil, rng, timebucket.Month, ref)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
