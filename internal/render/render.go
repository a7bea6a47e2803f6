// Package render draws the daily traffic series as a PNG line chart.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/j-veylop/rtd-traffic/internal/logger"
	"github.com/j-veylop/rtd-traffic/internal/models"
)

// FileName is the name of the chart written into the output directory.
const FileName = "tomtoolkit_RTD_visits_per_day.png"

// Chart text.
const (
	Title  = "TOM Toolkit ReadTheDocs visitors per day"
	XLabel = "Date"
	YLabel = "N total visits"
)

const (
	tickFontSize  = 10
	tickRotation  = 30 * math.Pi / 180
	markerRadius  = 1.5
	lineThickness = 1.5
	halfDay       = 12 * 60 * 60
)

// seriesColor is the line and marker colour.
var seriesColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Options controls the raster size of the chart.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultOptions returns a 6.4x4.8 inch canvas at 100 DPI.
func DefaultOptions() Options {
	return Options{
		Width:  6.4 * vg.Inch,
		Height: 4.8 * vg.Inch,
		DPI:    100,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	return o
}

// Chart builds the visits-per-day plot. Each call returns a new plot.
func Chart(stats []models.DailyTrafficStat) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel

	p.X.Tick.Marker = MonthlyTicks{}
	p.X.Tick.Label.Rotation = tickRotation
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(tickFontSize)
	p.Y.Tick.Label.Font.Size = vg.Points(tickFontSize)

	p.Add(plotter.NewGrid())

	if len(stats) == 0 {
		// Nothing to fit the axes to: an empty unlabelled frame.
		p.X.Min, p.X.Max = 0, float64(24*60*60)
		p.Y.Min, p.Y.Max = 0, 1
		p.X.Tick.Marker = plot.ConstantTicks{}
		return p, nil
	}

	line, points, err := plotter.NewLinePoints(toXYs(stats))
	if err != nil {
		return nil, fmt.Errorf("failed to build series: %w", err)
	}
	line.Color = seriesColor
	line.Width = vg.Points(lineThickness)
	points.Shape = draw.CircleGlyph{}
	points.Color = seriesColor
	points.Radius = vg.Points(markerRadius)
	p.Add(line, points)

	if first, last := stats[0].Date, stats[len(stats)-1].Date; first.Equal(last) {
		// One day: centre it in a day-wide axis with a single label.
		x := float64(first.Unix())
		p.X.Min, p.X.Max = x-halfDay, x+halfDay
		p.X.Tick.Marker = plot.ConstantTicks{{Value: x, Label: first.Format(TickLayout)}}
	}

	return p, nil
}

// Encode draws p on a fresh image canvas and writes it to w as PNG.
func Encode(w io.Writer, p *plot.Plot, opts Options) error {
	opts = opts.withDefaults()
	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WritePNG renders stats to dir/FileName, replacing any existing file.
// It returns the path of the written image.
func WritePNG(stats []models.DailyTrafficStat, dir string, opts Options) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", &OutputWriteError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return "", &OutputWriteError{Path: dir, Err: fmt.Errorf("not a directory")}
	}

	p, err := Chart(stats)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", &OutputWriteError{Path: path, Err: err}
	}
	if err := Encode(f, p, opts); err != nil {
		_ = f.Close()
		return "", &OutputWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &OutputWriteError{Path: path, Err: err}
	}

	logger.Info("wrote chart", "path", path, "days", len(stats))
	return path, nil
}

func toXYs(stats []models.DailyTrafficStat) plotter.XYs {
	xys := make(plotter.XYs, len(stats))
	for i, d := range stats {
		xys[i].X = float64(d.Date.Unix())
		xys[i].Y = float64(d.TotalViews)
	}
	return xys
}
