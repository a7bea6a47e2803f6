// Package loader discovers traffic CSV exports and parses them into records.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/rtd-traffic/internal/logger"
	"github.com/j-veylop/rtd-traffic/internal/models"
)

// Required column names.
const (
	DateColumn  = "Date"
	ViewsColumn = "Views"
)

// Extension is the suffix of loadable files.
const Extension = ".csv"

const utf8BOM = "\ufeff"

// dateFormats are tried in order; the first one is what the exports use.
var dateFormats = []string{
	models.DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Result is the concatenated, date-sorted content of every matched file.
type Result struct {
	Records []models.TrafficRecord
	Files   []models.FileSummary
}

// TotalViews sums Views over all records.
func (r *Result) TotalViews() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.Views
	}
	return total
}

// Discover returns the files in dir named <rootname>*.csv, in lexical order.
// Symlinks to regular files are included.
func Discover(dir, rootname string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w in %s: %w", ErrNoInputFiles, dir, err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, rootname) || !strings.HasSuffix(name, Extension) {
			continue
		}
		// Hidden files only match a rootname that is itself hidden.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(rootname, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if !isFile(path, e) {
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoInputFiles, rootname+"*"+Extension, dir)
	}
	return paths, nil
}

// isFile reports whether e is a regular file, following symlinks.
func isFile(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("skipping unreadable link", "path", path, "error", err)
		return false
	}
	return info.Mode().IsRegular()
}

// Load discovers and parses every matching file, then sorts all records by date.
// The sort is stable, so rows sharing a date keep their file and row order.
func Load(dir, rootname string) (*Result, error) {
	paths, err := Discover(dir, rootname)
	if err != nil {
		return nil, err
	}

	res := &Result{Files: make([]models.FileSummary, 0, len(paths))}
	for _, path := range paths {
		records, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		logger.Debug("loaded traffic file", "file", name, "rows", len(records))
		res.Files = append(res.Files, models.FileSummary{Name: name, Rows: len(records)})
		res.Records = append(res.Records, records...)
	}

	slices.SortStableFunc(res.Records, func(a, b models.TrafficRecord) int {
		return a.Date.Compare(b.Date)
	})
	return res, nil
}

// LoadFile parses a single traffic export.
func LoadFile(path string) ([]models.TrafficRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MalformedInputError{File: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	records, err := parse(f, filepath.Base(path))
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) {
			malformed.File = path
			return nil, malformed
		}
		return nil, &MalformedInputError{File: path, Err: err}
	}
	return records, nil
}

// parse reads CSV rows from r. source is stamped on every record.
func parse(r io.Reader, source string) ([]models.TrafficRecord, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedInputError{Err: fmt.Errorf("%w: empty file, expected header with %s and %s",
			ErrMissingColumn, DateColumn, ViewsColumn)}
	}
	if err != nil {
		return nil, csvError(err)
	}

	dateIdx, viewsIdx, err := columnIndexes(header)
	if err != nil {
		return nil, &MalformedInputError{Line: 1, Err: err}
	}
	// Every row must be as wide as the header.
	reader.FieldsPerRecord = len(header)

	var records []models.TrafficRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := reader.FieldPos(dateIdx)

		date, err := ParseDate(row[dateIdx])
		if err != nil {
			return nil, &MalformedInputError{Line: line, Err: err}
		}
		views, err := parseViews(row[viewsIdx])
		if err != nil {
			return nil, &MalformedInputError{Line: line, Err: err}
		}
		records = append(records, models.TrafficRecord{Date: date, Views: views, Source: source})
	}
	return records, nil
}

func columnIndexes(header []string) (dateIdx, viewsIdx int, err error) {
	dateIdx, viewsIdx = -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		switch name {
		case DateColumn:
			if dateIdx < 0 {
				dateIdx = i
			}
		case ViewsColumn:
			if viewsIdx < 0 {
				viewsIdx = i
			}
		}
	}

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, DateColumn)
	}
	if viewsIdx < 0 {
		missing = append(missing, ViewsColumn)
	}
	if len(missing) > 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return dateIdx, viewsIdx, nil
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return &MalformedInputError{Err: err}
}

// ParseDate parses a traffic date in any accepted layout.
// The result is in UTC and truncated to whole seconds.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s %q", ErrInvalidValue, DateColumn, s)
}

func parseViews(s string) (int64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidValue, ViewsColumn, s)
	}
	return v, nil
}
