package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-analytics/pkg/models"
)

// 400 idle days and nothing else: only the >365 bracket applies.
func TestPredictChurn_LongIdleOnly(t *testing.T) {
	c := customer("c1", day(2022, 1, 1),
		order("", "", daysAgo(500), 200),
		order("", "", daysAgo(400), 200),
	)

	got := PredictChurn([]models.Customer{c}, ref, 90)

	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, 40.0, p.ChurnProbability)
	assert.Equal(t, models.ChurnMedium, p.ChurnRisk)
	assert.Equal(t, 400, p.DaysSinceLastOrder)
	assert.Equal(t, []string{"No purchase in 400 days", "No purchases in recent period"}, p.RiskFactors)
	assert.Equal(t, daysAgo(400), p.LastOrderDate)
	require.NotNil(t, p.PredictedChurnDate)
	assert.Equal(t, daysAgo(200), *p.PredictedChurnDate)
	assert.Equal(t, "c1@test.com", p.CustomerEmail)
}

func TestPredictChurn_DecliningCustomer(t *testing.T) {
	c := customer("c1", day(2023, 1, 1),
		order("", "", daysAgo(170), 100),
		order("", "", daysAgo(150), 100),
		order("", "", daysAgo(120), 100),
		order("", "", daysAgo(100), 100),
		order("", "", daysAgo(40), 50),
	)

	got := PredictChurn([]models.Customer{c}, ref, 90)

	require.Len(t, got, 1)
	// 5 (idle > 30) + 30 (75% decline capped) + 10 (AOV -50%)
	assert.Equal(t, 45.0, got[0].ChurnProbability)
	assert.Equal(t, models.ChurnMedium, got[0].ChurnRisk)
	assert.Equal(t, []string{
		"No purchase in 40 days",
		"Purchase frequency declined by 75%",
		"Average order value decreased by 50%",
	}, got[0].RiskFactors)
}

func TestPredictChurn_HighRisk(t *testing.T) {
	c := customer("c1", day(2023, 1, 1),
		order("", "", daysAgo(350), 100),
		order("", "", daysAgo(300), 100),
		order("", "", daysAgo(200), 40),
	)

	got := PredictChurn([]models.Customer{c}, ref, 180)

	require.Len(t, got, 1)
	// 25 (idle > 180) + 30 (no recent orders) + 10 (recent AOV 0)
	assert.Equal(t, 65.0, got[0].ChurnProbability)
	assert.Equal(t, models.ChurnHigh, got[0].ChurnRisk)
	assert.Len(t, got[0].RiskFactors, 4)
	assert.Contains(t, got[0].RiskFactors[0], "No purchase")
}

func TestPredictChurn_Exclusions(t *testing.T) {
	customers := []models.Customer{
		customer("single", day(2022, 1, 1), order("", "", daysAgo(400), 100)),
		customer("recent", day(2024, 1, 1),
			order("", "", daysAgo(19), 500),
			order("", "", daysAgo(10), 500),
		),
		customer("cancelled", day(2022, 1, 1),
			order("", "", daysAgo(400), 100),
			cancelled(order("", "", daysAgo(390), 100)),
		),
		// 5 points only: idle 60 days, steady frequency, stable basket.
		customer("steady", day(2024, 1, 1),
			order("", "", daysAgo(150), 100),
			order("", "", daysAgo(60), 100),
		),
	}

	got := PredictChurn(customers, ref, 90)

	assert.Empty(t, got)
}

func TestPredictChurn_SameDayOrdersHaveNoChurnDate(t *testing.T) {
	c := customer("c1", day(2022, 1, 1),
		order("", "", daysAgo(300), 100),
		order("", "", daysAgo(300), 100),
	)

	got := PredictChurn([]models.Customer{c}, ref, 90)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].PredictedChurnDate)
}

func TestPredictChurn_SortedAndBounded(t *testing.T) {
	var customers []models.Customer
	for idle := 0; idle <= 600; idle += 20 {
		customers = append(customers, customer("c", day(2021, 1, 1),
			order("", "", daysAgo(idle+170), 300),
			order("", "", daysAgo(idle+100), 300),
			order("", "", daysAgo(idle), 10),
		))
	}

	got := PredictChurn(customers, ref, 90)

	require.NotEmpty(t, got)
	for i, p := range got {
		require.GreaterOrEqual(t, p.ChurnProbability, 0.0)
		require.LessOrEqual(t, p.ChurnProbability, 100.0)
		require.True(t, p.ChurnProbability > 20 || p.DaysSinceLastOrder > 180)
		if i > 0 {
			require.GreaterOrEqual(t, got[i-1].ChurnProbability, p.ChurnProbability)
		}
	}
}

func TestClassifyChurnRisk(t *testing.T) {
	assert.Equal(t, models.ChurnHigh, ClassifyChurnRisk(60))
	assert.Equal(t, models.ChurnMedium, ClassifyChurnRisk(59.99))
	assert.Equal(t, models.ChurnMedium, ClassifyChurnRisk(35))
	assert.Equal(t, models.ChurnLow, ClassifyChurnRisk(34.99))
}

func TestSummarizeAndFilterChurn(t *testing.T) {
	preds := []models.ChurnPrediction{
		{CustomerID: "a", ChurnProbability: 80, ChurnRisk: models.ChurnHigh},
		{CustomerID: "b", ChurnProbability: 40, ChurnRisk: models.ChurnMedium},
		{CustomerID: "c", ChurnProbability: 30, ChurnRisk: models.ChurnLow},
	}

	s := SummarizeChurn(preds)

	assert.Equal(t, models.ChurnSummary{TotalAtRisk: 3, HighRisk: 1, MediumRisk: 1, LowRisk: 1, AverageChurnProbability: 50}, s)
	assert.Equal(t, "b", FilterChurn(preds, "medium")[0].CustomerID)
	assert.Len(t, FilterChurn(preds, "all"), 3)
}
