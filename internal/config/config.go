// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gonum.org/v1/plot/vg"
)

// Config holds the application configuration. The positional CLI
// arguments are not part of it; everything here is optional tuning.
type Config struct {
	LogLevel      string
	ArchivePath   string
	ChartWidth    vg.Length
	ChartHeight   vg.Length
	ChartDPI      int
	PreviewHeight int
	Preview       bool
	NoColor       bool
}

// Default values
const (
	defaultLogLevel      = "warn"
	defaultChartWidth    = 6.4 * vg.Inch
	defaultChartHeight   = 4.8 * vg.Inch
	defaultChartDPI      = 100
	defaultPreviewHeight = 10
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		LogLevel:      getEnvString("RTD_LOG_LEVEL", defaultLogLevel),
		ArchivePath:   getEnvString("RTD_ARCHIVE_PATH", ""),
		ChartWidth:    getEnvLength("RTD_CHART_WIDTH", defaultChartWidth),
		ChartHeight:   getEnvLength("RTD_CHART_HEIGHT", defaultChartHeight),
		ChartDPI:      getEnvInt("RTD_CHART_DPI", defaultChartDPI),
		Preview:       getEnvBool("RTD_PREVIEW", false),
		PreviewHeight: getEnvInt("RTD_PREVIEW_HEIGHT", defaultPreviewHeight),
		NoColor:       os.Getenv("NO_COLOR") != "",
	}

	// Ensure archive directory exists
	if cfg.ArchivePath != "" {
		if err := ensureDir(filepath.Dir(cfg.ArchivePath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		LogLevel:      defaultLogLevel,
		ChartWidth:    defaultChartWidth,
		ChartHeight:   defaultChartHeight,
		ChartDPI:      defaultChartDPI,
		PreviewHeight: defaultPreviewHeight,
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "rtd-traffic", ".env"),
			filepath.Join(home, ".rtd-traffic", ".env"),
		)
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves a positive integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the values understood by strconv.ParseBool plus "yes"/"no".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvLength retrieves a length like "800pt", "6in" or "12cm".
// A bare number is taken as points.
func getEnvLength(key string, defaultValue vg.Length) vg.Length {
	if value := os.Getenv(key); value != "" {
		if l, err := vg.ParseLength(strings.TrimSpace(value)); err == nil && l > 0 {
			return l
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
