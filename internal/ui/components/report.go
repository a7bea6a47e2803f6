package components

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/rtd-traffic/internal/aggregate"
	"github.com/j-veylop/rtd-traffic/internal/models"
	"github.com/j-veylop/rtd-traffic/internal/ui/styles"
)

// Table column headers.
const (
	DateHeader  = "Date"
	ViewsHeader = "Views"
)

const summarySparkWidth = 30

// RenderFileLine reports one loaded file. The first file is "read",
// later ones are "read concat" onto the running set.
func RenderFileLine(f models.FileSummary, first bool) string {
	verb := "Read concat"
	if first {
		verb = "Read"
	}
	return fmt.Sprintf("%s %s with %d entries", verb, f.Name, f.Rows)
}

// RenderDailyTable draws the per-day totals as a bordered table.
func RenderDailyTable(stats []models.DailyTrafficStat, st styles.Styles) string {
	rows := make([][]string, len(stats))
	for i, d := range stats {
		rows[i] = []string{d.DateString(), strconv.FormatInt(d.TotalViews, 10)}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.TableBorder).
		Headers(DateHeader, ViewsHeader).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.TableHeader
			case col == 1:
				return st.TableNumber
			default:
				return st.TableCell
			}
		})

	return t.Render()
}

// RenderSummary is a one-line footer with totals, mean and peak day.
func RenderSummary(s models.TrafficSummary, st styles.Styles, values []float64) string {
	if !s.HasData() {
		return st.Help.Render("0 days, 0 total views")
	}

	text := fmt.Sprintf("%d days, %d total views (%.1f/day), peak %s with %s",
		s.Days, s.TotalViews, s.MeanViews,
		s.PeakDate.Format(previewDateLayout),
		st.Highlight.Render(strconv.FormatInt(s.PeakViews, 10)))

	if spark := RenderSparkline(values, summarySparkWidth); spark != "" {
		text += "  " + st.Help.Render(spark)
	}
	return text
}

// RenderReport combines the table and the summary footer.
func RenderReport(stats []models.DailyTrafficStat, st styles.Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderDailyTable(stats, st),
		RenderSummary(aggregate.Summarize(stats), st, aggregate.Values(stats)),
	)
}

// Plain removes terminal escape sequences from s.
func Plain(s string) string {
	return ansi.Strip(s)
}
