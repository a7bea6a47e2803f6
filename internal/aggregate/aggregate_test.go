package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/rtd-traffic/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(date time.Time, views int64) models.TrafficRecord {
	return models.TrafficRecord{Date: date, Views: views}
}

func TestDaily_TwoFileScenario(t *testing.T) {
	// A.csv = [(2021-01-01,5),(2021-01-02,3)], B.csv = [(2021-01-01,2)], already date-sorted.
	records := []models.TrafficRecord{
		rec(day(2021, 1, 1), 5),
		rec(day(2021, 1, 1), 2),
		rec(day(2021, 1, 2), 3),
	}

	got := Daily(records)
	assert.Equal(t, []models.DailyTrafficStat{
		{Date: day(2021, 1, 1), TotalViews: 7},
		{Date: day(2021, 1, 2), TotalViews: 3},
	}, got)
}

func TestDaily_DuplicateDatesCollapse(t *testing.T) {
	d := day(2021, 3, 4)
	got := Daily([]models.TrafficRecord{rec(d, 1), rec(d, 2), rec(d, 3)})

	require.Len(t, got, 1)
	assert.Equal(t, d, got[0].Date)
	assert.Equal(t, int64(6), got[0].TotalViews)
	assert.Equal(t, "2021-03-04 00:00:00", got[0].DateString())
}

func TestDaily_Empty(t *testing.T) {
	got := Daily(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDaily_SubsecondTruncated(t *testing.T) {
	base := time.Date(2021, 5, 6, 7, 8, 9, 0, time.UTC)
	got := Daily([]models.TrafficRecord{
		rec(base.Add(250*time.Millisecond), 1),
		rec(base.Add(900*time.Millisecond), 1),
	})
	require.Len(t, got, 1)
	assert.Equal(t, base, got[0].Date)
	assert.Equal(t, int64(2), got[0].TotalViews)
}

func TestDaily_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		n := rng.Intn(200)
		records := make([]models.TrafficRecord, n)
		var total int64
		distinct := make(map[time.Time]struct{})
		for i := range records {
			d := day(2021, 1, 1).AddDate(0, 0, rng.Intn(60))
			v := int64(rng.Intn(50))
			records[i] = rec(d, v)
			total += v
			distinct[d] = struct{}{}
		}

		stats := Daily(records)

		var sum int64
		for i, s := range stats {
			sum += s.TotalViews
			if i > 0 {
				assert.True(t, stats[i-1].Date.Before(s.Date), "run %d: not strictly ascending at %d", run, i)
			}
		}
		assert.Equal(t, total, sum, "run %d: totals not conserved", run)
		assert.Len(t, stats, len(distinct), "run %d: wrong number of days", run)
	}
}

func TestDaily_Deterministic(t *testing.T) {
	records := []models.TrafficRecord{
		rec(day(2021, 2, 1), 4),
		rec(day(2021, 1, 1), 1),
		rec(day(2021, 3, 1), 9),
		rec(day(2021, 1, 1), 2),
	}
	first := Daily(records)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Daily(records))
	}
}

func TestSummarize(t *testing.T) {
	stats := []models.DailyTrafficStat{
		{Date: day(2021, 1, 1), TotalViews: 4},
		{Date: day(2021, 1, 2), TotalViews: 10},
		{Date: day(2021, 1, 3), TotalViews: 10},
		{Date: day(2021, 1, 4), TotalViews: 0},
	}

	s := Summarize(stats)
	assert.Equal(t, 4, s.Days)
	assert.Equal(t, int64(24), s.TotalViews)
	assert.Equal(t, day(2021, 1, 1), s.First)
	assert.Equal(t, day(2021, 1, 4), s.Last)
	assert.Equal(t, day(2021, 1, 2), s.PeakDate)
	assert.Equal(t, int64(10), s.PeakViews)
	assert.InDelta(t, 6.0, s.MeanViews, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.False(t, s.HasData())
	assert.Equal(t, models.TrafficSummary{}, s)
}

func TestValues(t *testing.T) {
	stats := []models.DailyTrafficStat{
		{Date: day(2021, 1, 1), TotalViews: 4},
		{Date: day(2021, 1, 2), TotalViews: 7},
	}
	assert.Equal(t, []float64{4, 7}, Values(stats))
	assert.Empty(t, Values(nil))
}
