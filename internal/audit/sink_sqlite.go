package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS triage_audit (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    ts               TEXT NOT NULL,
    request_id       TEXT NOT NULL,
    band             TEXT NOT NULL,
    raw_band         TEXT NOT NULL,
    rule_ids         TEXT NOT NULL DEFAULT '',
    unmatched_terms  TEXT NOT NULL DEFAULT '',
    locale_fallback  INTEGER NOT NULL DEFAULT 0,
    latency_ms       REAL NOT NULL DEFAULT 0
);
`

const auditIndex = `
CREATE INDEX IF NOT EXISTS idx_triage_audit_request
ON triage_audit(request_id);
`

// SQLiteSink persists audit events to a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// audit table exists. Use ":memory:" for tests.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(auditIndex); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) Deliver(ctx context.Context, ev *Event) error {
	if ev == nil {
		return nil
	}
	fallback := 0
	if ev.LocaleFallback {
		fallback = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO triage_audit
		(ts, request_id, band, raw_band, rule_ids, unmatched_terms, locale_fallback, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Timestamp.Format(time.RFC3339Nano),
		ev.RequestID,
		ev.Band,
		ev.RawBand,
		strings.Join(ev.RuleIDs, ","),
		strings.Join(ev.UnmatchedTerms, ","),
		fallback,
		ev.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// CountByBand reports how many recorded events landed in the given band.
func (s *SQLiteSink) CountByBand(ctx context.Context, band string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM triage_audit WHERE band = ?`, band).Scan(&n)
	return n, err
}

func (s *SQLiteSink) Close(context.Context) error {
	return s.db.Close()
}
