// Package models defines data structures and domain types.
package models

import "time"

// DateLayout is the canonical text form of a traffic date.
const DateLayout = "2006-01-02 15:04:05"

// TrafficRecord is one exported row: the views of a single page on a date.
// Several records usually share a date, one per page.
type TrafficRecord struct {
	Date   time.Time
	Source string // basename of the file the row was read from
	Views  int64
}

// DailyTrafficStat is the total number of views across all pages for one date.
type DailyTrafficStat struct {
	Date       time.Time
	TotalViews int64
}

// DateString formats the stat date in DateLayout.
func (d DailyTrafficStat) DateString() string {
	return d.Date.Format(DateLayout)
}

// FileSummary reports how many rows were read from one input file.
type FileSummary struct {
	Name string
	Rows int
}
