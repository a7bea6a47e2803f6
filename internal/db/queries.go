package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/rtd-traffic/internal/logger"
	"github.com/j-veylop/rtd-traffic/internal/models"
)

// Run describes one pipeline execution recorded in the archive.
type Run struct {
	CreatedAt  time.Time
	DataDir    string
	Rootname   string
	ID         int64
	Files      int
	Records    int
	Days       int
	TotalViews int64
	FirstDate  string
	LastDate   string
}

// SaveDailyStats upserts every per-day total in a single transaction.
func (db *DB) SaveDailyStats(stats []models.DailyTrafficStat) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_traffic (date, total_views, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			total_views = excluded.total_views,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily traffic upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range stats {
		if _, err := stmt.ExecContext(ctx, s.DateString(), s.TotalViews); err != nil {
			return fmt.Errorf("failed to save daily traffic for %s: %w", s.DateString(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily traffic: %w", err)
	}
	logger.Debug("archived daily traffic", "days", len(stats), "path", db.path)
	return nil
}

// GetDailyStats returns every archived day in ascending date order.
func (db *DB) GetDailyStats() ([]models.DailyTrafficStat, error) {
	rows, err := db.QueryContext(context.Background(),
		`SELECT date, total_views FROM daily_traffic ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily traffic: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := make([]models.DailyTrafficStat, 0)
	for rows.Next() {
		var dateStr string
		var s models.DailyTrafficStat
		if err := rows.Scan(&dateStr, &s.TotalViews); err != nil {
			return nil, fmt.Errorf("failed to scan daily traffic: %w", err)
		}
		s.Date, err = time.ParseInLocation(models.DateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid archived date %q: %w", dateStr, err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetTotalViews returns the sum of all archived daily totals.
func (db *DB) GetTotalViews() (int64, error) {
	var total sql.NullInt64
	err := db.QueryRowContext(context.Background(),
		`SELECT SUM(total_views) FROM daily_traffic`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum daily traffic: %w", err)
	}
	return total.Int64, nil
}

// RecordRun stores a summary of one pipeline execution.
func (db *DB) RecordRun(run *Run) error {
	result, err := db.ExecContext(context.Background(), `
		INSERT INTO archive_runs (
			data_dir, rootname, files, records, days, total_views, first_date, last_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.DataDir,
		run.Rootname,
		run.Files,
		run.Records,
		run.Days,
		run.TotalViews,
		nullString(run.FirstDate),
		nullString(run.LastDate),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		run.ID = id
	}
	return nil
}

// GetRecentRuns returns the most recent runs, newest first.
func (db *DB) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT id, data_dir, rootname, files, records, days, total_views,
			   first_date, last_date, created_at
		FROM archive_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var first, last sql.NullString
		var created sql.NullString
		if err := rows.Scan(&r.ID, &r.DataDir, &r.Rootname, &r.Files, &r.Records,
			&r.Days, &r.TotalViews, &first, &last, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.FirstDate = first.String
		r.LastDate = last.String
		if t, ok := parseTimeString(created.String); ok {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	models.DateLayout,
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
