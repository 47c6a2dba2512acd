package calculator

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

const trackedPeriods = 3

type cohortAcc struct {
	start    time.Time
	users    int
	returned [trackedPeriods + 1]map[string]struct{}
	revenue  decimal.Decimal
}

// GenerateCohorts groups the customers who signed up in rng by signup bucket and counts, for the
// first three periods after signup, how many of them ordered again. Most recent cohort first.
//
// Revenue and AverageLTV add up what each cohort spent up to ref.
func GenerateCohorts(customers []models.Customer, rng models.DateRange, iv timebucket.Interval, ref time.Time) []models.CohortRecord {
	if iv != timebucket.Week {
		iv = timebucket.Month
	}
	cohorts := map[int64]*cohortAcc{}
	for _, c := range customers {
		if !rng.Contains(c.CreatedAt) {
			continue
		}
		start := timebucket.Start(c.CreatedAt, iv)
		acc, ok := cohorts[start.Unix()]
		if !ok {
			acc = &cohortAcc{start: start}
			for k := range acc.returned {
				acc.returned[k] = map[string]struct{}{}
			}
			cohorts[start.Unix()] = acc
		}
		acc.users++

		for _, o := range qualifyingAsOf(c.Orders, ref) {
			acc.revenue = acc.revenue.Add(decimal.NewFromFloat(o.Total))
			off := timebucket.Offset(start, o.CreatedAt, iv)
			if off >= 1 && off <= trackedPeriods {
				acc.returned[off][c.ID] = struct{}{}
			}
		}
	}

	out := make([]models.CohortRecord, 0, len(cohorts))
	for _, acc := range cohorts {
		n := float64(acc.users)
		rev := acc.revenue.InexactFloat64()
		rec := models.CohortRecord{
			Cohort:     timebucket.Label(acc.start, iv),
			Period0:    acc.users,
			Period1:    len(acc.returned[1]),
			Period2:    len(acc.returned[2]),
			Period3:    len(acc.returned[3]),
			Revenue:    round2(rev),
			AverageLTV: round2(safeDiv(rev, n)),
			Start:      acc.start,
		}
		rec.Retention[0] = 100
		for k, p := range []int{rec.Period1, rec.Period2, rec.Period3} {
			rec.Retention[k+1] = int(math.Round(float64(p) / n * 100))
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out
}
