// Package storage keeps a local SQLite ledger of sync runs and the match
// decisions made in each, backing the history command.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	tsync "timebridge/pkg/sync"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sync_runs (
  id          INTEGER PRIMARY KEY,
  started_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  source      TEXT NOT NULL,
  dry_run     INTEGER NOT NULL CHECK (dry_run IN (0,1)),
  total       INTEGER NOT NULL,
  success     INTEGER NOT NULL,
  failure     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS match_decisions (
  id           INTEGER PRIMARY KEY,
  run_id       INTEGER NOT NULL REFERENCES sync_runs(id),
  kind         TEXT NOT NULL CHECK (kind IN ('client','service')),
  query        TEXT NOT NULL,
  matched_id   TEXT,
  matched_name TEXT,
  match_type   TEXT NOT NULL,
  score        REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_run ON match_decisions(run_id);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Run is one persisted pipeline execution.
type Run struct {
	ID        int64
	StartedAt time.Time
	Source    string
	DryRun    bool
	Total     int
	Success   int
	Failure   int
}

// Decision is one persisted match-report row.
type Decision struct {
	RunID       int64
	Kind        string
	Query       string
	MatchedID   string
	MatchedName string
	MatchType   string
	Score       float64
}

// RecordRun persists one pipeline result with its deduplicated match
// reports, all in one transaction.
func (d *DB) RecordRun(ctx context.Context, source string, dryRun bool, result tsync.BatchResult) (int64, error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sync_runs(source, dry_run, total, success, failure) VALUES(?,?,?,?,?)`,
		source, boolToInt(dryRun), result.Stats.Total, result.Stats.Success, result.Stats.Failure)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	insert := func(kind string, reports []tsync.MatchReport) error {
		for _, r := range reports {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO match_decisions(run_id, kind, query, matched_id, matched_name, match_type, score) VALUES(?,?,?,?,?,?,?)`,
				runID, kind, r.Query, nullIfEmpty(r.MatchedID), nullIfEmpty(r.MatchedName), string(r.Type), r.Score); err != nil {
				return err
			}
		}
		return nil
	}
	if err = insert("client", result.ClientMatches); err != nil {
		return 0, err
	}
	if err = insert("service", result.ServiceMatches); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, started_at, source, dry_run, total, success, failure FROM sync_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			startedAt string
			dryRun    int
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.Source, &dryRun, &run.Total, &run.Success, &run.Failure); err != nil {
			return nil, err
		}
		run.DryRun = dryRun == 1
		run.StartedAt = parseTimestamp(startedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Decisions returns the match reports persisted for one run.
func (d *DB) Decisions(ctx context.Context, runID int64) ([]Decision, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT run_id, kind, query, matched_id, matched_name, match_type, score FROM match_decisions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var (
			dec              Decision
			matchedID, mName sql.NullString
		)
		if err := rows.Scan(&dec.RunID, &dec.Kind, &dec.Query, &matchedID, &mName, &dec.MatchType, &dec.Score); err != nil {
			return nil, err
		}
		dec.MatchedID = matchedID.String
		dec.MatchedName = mName.String
		decisions = append(decisions, dec)
	}
	return decisions, rows.Err()
}

func parseTimestamp(s string) time.Time {
	// Try "2006-01-02 15:04:05" then RFC3339
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
