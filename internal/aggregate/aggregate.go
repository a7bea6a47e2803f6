// Package aggregate turns per-page traffic records into per-day totals.
package aggregate

import (
	"slices"
	"time"

	"github.com/j-veylop/rtd-traffic/internal/models"
)

// Daily sums Views per distinct date. The result is ordered by date
// ascending whatever the input order, and is empty (not nil) for no input.
func Daily(records []models.TrafficRecord) []models.DailyTrafficStat {
	totals := make(map[int64]int64, len(records))
	for _, r := range records {
		totals[r.Date.Truncate(time.Second).Unix()] += r.Views
	}

	stats := make([]models.DailyTrafficStat, 0, len(totals))
	for sec, views := range totals {
		stats = append(stats, models.DailyTrafficStat{
			Date:       time.Unix(sec, 0).UTC(),
			TotalViews: views,
		})
	}
	slices.SortFunc(stats, func(a, b models.DailyTrafficStat) int {
		return a.Date.Compare(b.Date)
	})
	return stats
}

// Summarize computes headline figures. Ties for the peak go to the earliest day.
func Summarize(stats []models.DailyTrafficStat) models.TrafficSummary {
	var s models.TrafficSummary
	if len(stats) == 0 {
		return s
	}

	s.Days = len(stats)
	s.First = stats[0].Date
	s.Last = stats[0].Date
	s.PeakDate = stats[0].Date
	s.PeakViews = stats[0].TotalViews

	for _, d := range stats {
		s.TotalViews += d.TotalViews
		if d.Date.Before(s.First) {
			s.First = d.Date
		}
		if d.Date.After(s.Last) {
			s.Last = d.Date
		}
		if d.TotalViews > s.PeakViews || (d.TotalViews == s.PeakViews && d.Date.Before(s.PeakDate)) {
			s.PeakViews = d.TotalViews
			s.PeakDate = d.Date
		}
	}
	s.MeanViews = float64(s.TotalViews) / float64(s.Days)
	return s
}

// Values returns the TotalViews column as float64, for charting.
func Values(stats []models.DailyTrafficStat) []float64 {
	values := make([]float64, len(stats))
	for i, d := range stats {
		values[i] = float64(d.TotalViews)
	}
	return values
}
