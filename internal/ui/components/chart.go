// Package components provides reusable console renderers for traffic reports.
package components

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/rtd-traffic/internal/aggregate"
	"github.com/j-veylop/rtd-traffic/internal/models"
)

// NoDataText is shown in place of a chart with nothing to plot.
const NoDataText = "No data available"

// previewDateLayout labels the preview caption.
const previewDateLayout = "2006-01-02"

// sparkChars are the sparkline levels, low to high.
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return NoDataText
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	)
}

// RenderTrafficPreview plots total views per day in the terminal,
// captioned with the covered date range.
func RenderTrafficPreview(stats []models.DailyTrafficStat, width, height int) string {
	if len(stats) == 0 {
		return NoDataText
	}

	caption := fmt.Sprintf("visits per day, %s to %s",
		stats[0].Date.Format(previewDateLayout),
		stats[len(stats)-1].Date.Format(previewDateLayout))
	return RenderLineChart(aggregate.Values(stats), width, height, caption)
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		if normalized >= len(sparkChars) {
			normalized = len(sparkChars) - 1
		}
		if normalized < 0 {
			normalized = 0
		}
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}
