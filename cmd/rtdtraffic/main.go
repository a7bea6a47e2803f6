// Package main is the entry point for rtd-traffic.
// It sums documentation traffic exports per day and plots visits over time.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/rtd-traffic/internal/app"
	"github.com/j-veylop/rtd-traffic/internal/config"
	"github.com/j-veylop/rtd-traffic/internal/logger"
	"github.com/j-veylop/rtd-traffic/internal/ui/styles"
	"github.com/j-veylop/rtd-traffic/internal/version"
)

// errUsage marks a wrong command line.
var errUsage = errors.New("expected exactly two arguments: <data_dir> <file_rootname>")

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage(os.Stdout)
		os.Exit(0)
	}

	// Run the application
	if err := run(os.Args[1:], os.Stdout); err != nil {
		printError(os.Stderr, err)
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	dataDir, rootname := args[0], args[1]

	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Configure logging
	logger.Setup(os.Stderr, cfg.LogLevel)

	// 3. Load, aggregate, print and plot
	res, err := app.New(cfg, stdout).Run(dataDir, rootname)
	if err != nil {
		return err
	}

	logger.Info("done", "chart", res.ChartPath, "days", res.Summary.Days)
	return nil
}

// printError reports err on w, coloured when w is a terminal.
func printError(w io.Writer, err error) {
	st := styles.New(lipgloss.NewRenderer(w))
	fmt.Fprintln(w, st.Error.Render("Error: "+err.Error()))
}

// printUsage prints the command-line usage information.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, `rtd-traffic - documentation traffic per day

Usage:
  rtdtraffic <data_dir> <file_rootname>

Arguments:
  data_dir        Directory holding the CSV exports; the chart is written here
  file_rootname   Prefix of the input files, matched as <file_rootname>*.csv

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Output:
  <data_dir>/tomtoolkit_RTD_visits_per_day.png

Environment Variables (optional):
  RTD_LOG_LEVEL        debug, info, warn or error (default: warn)
  RTD_CHART_WIDTH      Image width, e.g. 6.4in, 800pt, 16cm (default: 6.4in)
  RTD_CHART_HEIGHT     Image height (default: 4.8in)
  RTD_CHART_DPI        Raster resolution (default: 100)
  RTD_PREVIEW          Print a terminal chart after the table (default: false)
  RTD_PREVIEW_HEIGHT   Terminal chart rows (default: 10)
  RTD_ARCHIVE_PATH     SQLite file to archive daily totals into (default: off)
  NO_COLOR             Disable coloured output

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/rtd-traffic/.env
  - ~/.rtd-traffic/.env`)
}
