// Package models defines data structures and domain types.
package models

import "time"

// TrafficSummary holds headline figures over a daily traffic series.
type TrafficSummary struct {
	First      time.Time
	Last       time.Time
	PeakDate   time.Time
	Days       int
	TotalViews int64
	PeakViews  int64
	MeanViews  float64
}

// HasData returns true if the summary covers at least one day.
func (s TrafficSummary) HasData() bool {
	return s.Days > 0
}
