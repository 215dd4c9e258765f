package storage

import (
	"context"
	"path/filepath"
	"testing"

	"timebridge/pkg/match"
	tsync "timebridge/pkg/sync"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult() tsync.BatchResult {
	return tsync.BatchResult{
		Stats: tsync.Stats{Total: 3, Success: 2, Failure: 1},
		ClientMatches: []tsync.MatchReport{
			{Query: "acme", MatchedID: "c1", MatchedName: "Acme Corp", Type: match.MatchFuzzy, Score: 0.95},
		},
		ServiceMatches: []tsync.MatchReport{
			{Query: "development", MatchedID: "s1", MatchedName: "Development", Type: match.MatchExact, Score: 1},
			{Query: "zzz", Type: match.MatchNone},
		},
	}
}

func TestRecordRunAndRecentRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.RecordRun(ctx, "timeular", true, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.RecordRun(ctx, "entries.csv", false, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	if second <= first {
		t.Fatalf("run ids not increasing: %d then %d", first, second)
	}

	runs, err := db.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	// newest first
	if runs[0].ID != second || runs[0].Source != "entries.csv" || runs[0].DryRun {
		t.Fatalf("first row = %+v", runs[0])
	}
	if runs[1].ID != first || !runs[1].DryRun {
		t.Fatalf("second row = %+v", runs[1])
	}
	if runs[0].Total != 3 || runs[0].Success != 2 || runs[0].Failure != 1 {
		t.Fatalf("stats = %+v", runs[0])
	}
	if runs[0].StartedAt.IsZero() {
		t.Fatal("started_at not parsed")
	}

	limited, err := db.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != second {
		t.Fatalf("limited rows = %+v", limited)
	}
}

func TestDecisions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := db.RecordRun(ctx, "timeular", false, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	decisions, err := db.Decisions(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) != 3 {
		t.Fatalf("got %d decisions", len(decisions))
	}

	if decisions[0].Kind != "client" || decisions[0].Query != "acme" || decisions[0].MatchedID != "c1" {
		t.Fatalf("client decision = %+v", decisions[0])
	}
	if decisions[1].Kind != "service" || decisions[1].MatchType != string(match.MatchExact) {
		t.Fatalf("service decision = %+v", decisions[1])
	}
	// unmatched rows keep empty id and name
	if decisions[2].MatchedID != "" || decisions[2].MatchedName != "" {
		t.Fatalf("unmatched decision = %+v", decisions[2])
	}

	if other, err := db.Decisions(ctx, runID+100); err != nil || len(other) != 0 {
		t.Fatalf("unknown run returned %v, %v", other, err)
	}
}
