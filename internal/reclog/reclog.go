// Package reclog persists a summary of every recommendation run to a small
// SQLite database. The ranking pipeline itself never touches this package;
// the API layer records runs after the fact so thin-signal situations can be
// diagnosed from what users were actually shown.
package reclog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/id"
)

//go:embed schema.sql
var schemaSQL string

// Run modes.
const (
	ModePersonalized = "personalized"
	ModeFallback     = "fallback"
	ModePreview      = "preview"
)

// ResultSummary is the per-book slice of a run that gets logged: ID and
// final score, nothing else.
type ResultSummary struct {
	BookID string  `json:"book_id"`
	Score  float64 `json:"score"`
}

// Run is one logged ranking call.
type Run struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Mode        string          `json:"mode"`
	Limit       int             `json:"limit"`
	ResultCount int             `json:"result_count"`
	Results     []ResultSummary `json:"results"`
	Duration    time.Duration   `json:"duration_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store provides SQLite-backed persistence for the recommendation log.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the recommendation log at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows one writer; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	// Run schema migration.
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record logs one ranking run. The run's ID and CreatedAt are assigned here
// when absent so callers only fill in what they know.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		generated, err := id.Generate("run")
		if err != nil {
			return fmt.Errorf("generate run id: %w", err)
		}
		run.ID = generated
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recommendation_runs
			(id, user_id, mode, request_limit, result_count, results, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.UserID, run.Mode, run.Limit, run.ResultCount,
		string(results), run.Duration.Milliseconds(), run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// RecordResults is a convenience that builds and records a Run from ranked
// results. Failures are logged, not returned: the log is best-effort and
// must never fail a recommendation response.
func (s *Store) RecordResults(ctx context.Context, userID, mode string, limit int, results []domain.RankedResult, duration time.Duration) {
	run := &Run{
		UserID:      userID,
		Mode:        mode,
		Limit:       limit,
		ResultCount: len(results),
		Results:     make([]ResultSummary, 0, len(results)),
		Duration:    duration,
	}
	for _, r := range results {
		run.Results = append(run.Results, ResultSummary{BookID: r.BookID, Score: r.Score})
	}

	if err := s.Record(ctx, run); err != nil {
		s.logger.Warn("failed to record recommendation run",
			"user_id", userID, "mode", mode, "error", err)
	}
}

// Recent returns up to limit runs, newest first. A userID narrows the list
// to one user; empty means all users.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, mode, request_limit, result_count, results, duration_ms, created_at
		FROM recommendation_runs`
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var results string
		var durationMS int64
		var createdAt string

		if err := rows.Scan(&run.ID, &run.UserID, &run.Mode, &run.Limit,
			&run.ResultCount, &results, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		if err := json.Unmarshal([]byte(results), &run.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results for run %s: %w", run.ID, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			run.CreatedAt = ts
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// PurgeOlderThan deletes runs older than the given age and returns the
// number of rows removed. Housekeeping; safe to call on a timer.
func (s *Store) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age).Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recommendation_runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}

	return res.RowsAffected()
}
