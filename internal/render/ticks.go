package render

import (
	"math"
	"time"

	"gonum.org/v1/plot"
)

// TickLayout is the label format of the monthly date ticks.
const TickLayout = "2006-01-02"

const oneDay = 24 * time.Hour

// MonthlyTicks places a labelled major tick on the first day of every month
// inside the axis range. Axis values are Unix seconds in UTC.
// A range that contains no month start is labelled on whole days only.
type MonthlyTicks struct{}

var _ plot.Ticker = MonthlyTicks{}

// Ticks implements plot.Ticker.
func (MonthlyTicks) Ticks(minVal, maxVal float64) []plot.Tick {
	if maxVal < minVal {
		return nil
	}
	start := unixTime(math.Ceil(minVal))
	end := unixTime(math.Floor(maxVal))

	var ticks []plot.Tick
	m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if m.Before(start) {
		m = m.AddDate(0, 1, 0)
	}
	for ; !m.After(end); m = m.AddDate(0, 1, 0) {
		ticks = append(ticks, dateTick(m))
	}

	if len(ticks) == 0 {
		ticks = dayTicks(start, end)
	}
	return ticks
}

// dayTicks labels the first and last midnights inside [start, end].
// A range without a midnight is labelled at its centre.
func dayTicks(start, end time.Time) []plot.Tick {
	first := start.Truncate(oneDay)
	if first.Before(start) {
		first = first.Add(oneDay)
	}
	last := end.Truncate(oneDay)

	if first.After(last) {
		mid := start.Add(end.Sub(start) / 2)
		return []plot.Tick{{Value: float64(mid.Unix()), Label: mid.Format(TickLayout)}}
	}
	ticks := []plot.Tick{dateTick(first)}
	if last.After(first) {
		ticks = append(ticks, dateTick(last))
	}
	return ticks
}

func dateTick(t time.Time) plot.Tick {
	return plot.Tick{Value: float64(t.Unix()), Label: t.Format(TickLayout)}
}

func unixTime(v float64) time.Time {
	return time.Unix(int64(v), 0).UTC()
}
