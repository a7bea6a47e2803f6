// Package app wires the traffic pipeline: load, aggregate, report, render, archive.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/rtd-traffic/internal/aggregate"
	"github.com/j-veylop/rtd-traffic/internal/config"
	"github.com/j-veylop/rtd-traffic/internal/db"
	"github.com/j-veylop/rtd-traffic/internal/loader"
	"github.com/j-veylop/rtd-traffic/internal/logger"
	"github.com/j-veylop/rtd-traffic/internal/models"
	"github.com/j-veylop/rtd-traffic/internal/render"
	"github.com/j-veylop/rtd-traffic/internal/ui/components"
	"github.com/j-veylop/rtd-traffic/internal/ui/styles"
)

// previewWidth is the asciigraph plot width in columns.
const previewWidth = 72

// App runs the pipeline once per call to Run.
type App struct {
	cfg    *config.Config
	out    io.Writer
	styles styles.Styles
}

// Result is what a successful run produced.
type Result struct {
	Files     []models.FileSummary
	Stats     []models.DailyTrafficStat
	Summary   models.TrafficSummary
	ChartPath string
	Records   int

	// Archive is set when an archive path is configured.
	Archive *ArchiveResult
}

// ArchiveResult describes the archive after a run was recorded.
type ArchiveResult struct {
	Run         db.Run
	TotalViews  int64
	PreviousRun *db.Run
}

// New creates an App writing its console report to out.
// A nil cfg uses config.Default().
func New(cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		cfg:    cfg,
		out:    out,
		styles: styles.New(lipgloss.NewRenderer(out)),
	}
}

// Run processes every <rootname>*.csv file in dataDir and writes the chart there.
func (a *App) Run(dataDir, rootname string) (*Result, error) {
	logger.Info("loading traffic data", "dir", dataDir, "rootname", rootname)

	loaded, err := loader.Load(dataDir, rootname)
	if err != nil {
		return nil, fmt.Errorf("failed to load traffic data: %w", err)
	}
	for i, f := range loaded.Files {
		a.println(components.RenderFileLine(f, i == 0))
	}

	stats := aggregate.Daily(loaded.Records)
	summary := aggregate.Summarize(stats)
	logger.Info("aggregated traffic",
		"records", len(loaded.Records),
		"record_views", loaded.TotalViews(),
		"days", summary.Days,
		"total_views", summary.TotalViews)

	a.println(components.RenderReport(stats, a.styles))
	if a.cfg.Preview {
		a.println(components.RenderTrafficPreview(stats, previewWidth, a.cfg.PreviewHeight))
	}

	chartPath, err := render.WritePNG(stats, dataDir, render.Options{
		Width:  a.cfg.ChartWidth,
		Height: a.cfg.ChartHeight,
		DPI:    a.cfg.ChartDPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	res := &Result{
		Files:     loaded.Files,
		Stats:     stats,
		Summary:   summary,
		ChartPath: chartPath,
		Records:   len(loaded.Records),
	}

	if a.cfg.ArchivePath != "" {
		archived, err := a.archive(dataDir, rootname, res)
		if err != nil {
			return nil, fmt.Errorf("failed to archive traffic: %w", err)
		}
		res.Archive = archived
	}

	return res, nil
}

func (a *App) archive(dataDir, rootname string, res *Result) (*ArchiveResult, error) {
	store, err := db.New(a.cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("error closing archive", "path", a.cfg.ArchivePath, "error", closeErr)
		}
	}()

	if err := store.SaveDailyStats(res.Stats); err != nil {
		return nil, err
	}

	run := &db.Run{
		DataDir:    dataDir,
		Rootname:   rootname,
		Files:      len(res.Files),
		Records:    res.Records,
		Days:       res.Summary.Days,
		TotalViews: res.Summary.TotalViews,
	}
	if res.Summary.HasData() {
		run.FirstDate = res.Summary.First.Format(models.DateLayout)
		run.LastDate = res.Summary.Last.Format(models.DateLayout)
	}
	if err := store.RecordRun(run); err != nil {
		return nil, err
	}

	out := &ArchiveResult{Run: *run}
	if out.TotalViews, err = store.GetTotalViews(); err != nil {
		return nil, err
	}
	recent, err := store.GetRecentRuns(2)
	if err != nil {
		return nil, err
	}
	if len(recent) > 1 {
		out.PreviousRun = &recent[1]
		logger.Info("previous archived run",
			"run", recent[1].ID,
			"created_at", recent[1].CreatedAt,
			"total_views", recent[1].TotalViews)
	}

	logger.Info("archived traffic",
		"path", store.Path(),
		"run", run.ID,
		"archive_total_views", out.TotalViews)
	return out, nil
}

func (a *App) println(s string) {
	if a.cfg.NoColor {
		s = components.Plain(s)
	}
	_, _ = fmt.Fprintln(a.out, s)
}
