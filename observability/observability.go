// CLAUDE:SUMMARY SQLite-native run log for grouping invocations, with retention cleanup.
// Package observability records grouping runs in SQLite so the service's
// behavior over time can be inspected with plain SQL instead of an external
// metrics stack.
//
// All writes are non-blocking for the caller: a failing observability store
// logs a warning and never fails the request that triggered it.
package observability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/feldrik/tabd/idgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS grouping_runs (
    run_id          TEXT PRIMARY KEY,
    strategy        TEXT NOT NULL,
    tab_count       INTEGER NOT NULL,
    group_count     INTEGER NOT NULL,
    ungrouped_count INTEGER NOT NULL,
    degraded        INTEGER NOT NULL DEFAULT 0,
    duration_ms     INTEGER NOT NULL,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_grouping_runs_created ON grouping_runs(created_at);
`

// Init applies the observability schema to db.
func Init(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("observability: init: %w", err)
	}
	return nil
}

// Run describes one grouping invocation.
type Run struct {
	RunID          string    `json:"run_id"`
	Strategy       string    `json:"strategy"`
	TabCount       int       `json:"tab_count"`
	GroupCount     int       `json:"group_count"`
	UngroupedCount int       `json:"ungrouped_count"`
	Degraded       bool      `json:"degraded"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunLogger writes grouping runs.
type RunLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// RunLoggerOption configures a RunLogger.
type RunLoggerOption func(*RunLogger)

// WithRunIDGenerator sets a custom ID generator for run IDs.
func WithRunIDGenerator(gen idgen.Generator) RunLoggerOption {
	return func(l *RunLogger) { l.newID = gen }
}

// NewRunLogger creates a logger backed by the given database, which must
// have been passed through Init.
func NewRunLogger(db *sql.DB, opts ...RunLoggerOption) *RunLogger {
	l := &RunLogger{
		db:    db,
		newID: idgen.Prefixed("run_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Record persists one run. Errors are logged, never returned — a failing
// store must not fail the grouping request.
func (l *RunLogger) Record(ctx context.Context, run Run) {
	if run.RunID == "" {
		run.RunID = l.newID()
	}
	degraded := 0
	if run.Degraded {
		degraded = 1
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO grouping_runs (
			run_id, strategy, tab_count, group_count, ungrouped_count,
			degraded, duration_ms, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		run.RunID, run.Strategy, run.TabCount, run.GroupCount, run.UngroupedCount,
		degraded, run.DurationMs, time.Now().Unix())
	if err != nil {
		slog.Warn("grouping run log failed", "error", err, "strategy", run.Strategy)
	}
}

// Recent returns the latest runs, newest first.
func (l *RunLogger) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, strategy, tab_count, group_count, ungrouped_count,
		       degraded, duration_ms, created_at
		FROM grouping_runs ORDER BY created_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("observability: recent: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var degraded int
		var created int64
		if err := rows.Scan(&r.RunID, &r.Strategy, &r.TabCount, &r.GroupCount,
			&r.UngroupedCount, &degraded, &r.DurationMs, &created); err != nil {
			return nil, fmt.Errorf("observability: scan run: %w", err)
		}
		r.Degraded = degraded != 0
		r.CreatedAt = time.Unix(created, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Cleanup deletes runs older than retentionDays and returns the count removed.
func Cleanup(ctx context.Context, db *sql.DB, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
	res, err := db.ExecContext(ctx, `DELETE FROM grouping_runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("observability: cleanup: %w", err)
	}
	return res.RowsAffected()
}
