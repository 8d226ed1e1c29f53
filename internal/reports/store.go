// Package reports archives QC reports to SQLite so past runs can be listed
// and compared from the CLI.
package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"techsprint/internal/config"
	"techsprint/internal/qc"
)

// ErrNotFound indicates no archived report matches the query.
var ErrNotFound = errors.New("report not found")

// Entry is one archived QC run.
type Entry struct {
	ID        int64
	RunID     string
	CreatedAt time.Time
	Mode      string
	Profile   string
	CueCount  int
	Passed    bool
	Failures  int
	Report    *qc.Report
}

// Store manages report persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS qc_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	mode TEXT NOT NULL,
	profile TEXT NOT NULL,
	cue_count INTEGER NOT NULL,
	passed INTEGER NOT NULL,
	failure_count INTEGER NOT NULL,
	report_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_qc_reports_run_id ON qc_reports(run_id);
`

// Open initializes or connects to the report database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	dbPath := cfg.Paths.ReportDB
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Paths.WorkDir, "reports.db")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Save archives one QC report under a run identifier.
func (s *Store) Save(ctx context.Context, runID, profile string, report *qc.Report) (int64, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("marshal report: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO qc_reports (run_id, created_at, mode, profile, cue_count, passed, failure_count, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		time.Now().UTC().Format(time.RFC3339),
		report.Mode,
		profile,
		report.CueCount,
		boolInt(report.Passed),
		len(report.Failures),
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first, without the full
// report payload.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, created_at, mode, profile, cue_count, passed, failure_count
		 FROM qc_reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return entries, nil
}

// Get loads one archived report with its full payload.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, created_at, mode, profile, cue_count, passed, failure_count, report_json
		 FROM qc_reports WHERE id = ?`, id)
	if err != nil {
		return Entry{}, fmt.Errorf("load report: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Entry{}, fmt.Errorf("load report: %w", err)
		}
		return Entry{}, ErrNotFound
	}
	return scanEntry(rows, true)
}

func scanEntry(rows *sql.Rows, withPayload bool) (Entry, error) {
	var (
		entry   Entry
		created string
		passed  int
		payload string
	)
	dest := []any{
		&entry.ID, &entry.RunID, &created, &entry.Mode,
		&entry.Profile, &entry.CueCount, &passed, &entry.Failures,
	}
	if withPayload {
		dest = append(dest, &payload)
	}
	if err := rows.Scan(dest...); err != nil {
		return Entry{}, fmt.Errorf("scan report: %w", err)
	}
	entry.Passed = passed != 0
	if ts, err := time.Parse(time.RFC3339, created); err == nil {
		entry.CreatedAt = ts
	}
	if withPayload {
		var report qc.Report
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return Entry{}, fmt.Errorf("decode report payload: %w", err)
		}
		entry.Report = &report
	}
	return entry, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
