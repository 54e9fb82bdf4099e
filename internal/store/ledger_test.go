package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ixentbench/capsicaps/internal/game"
)

func openTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "results.db")
	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l, path
}

func TestLedgerMigrationsIdempotent(t *testing.T) {
	l, path := openTestLedger(t)
	_ = l.Close()

	again, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()

	var n int
	if err := again.db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("_migrations has %d rows, want 2", n)
	}
}

func TestLedgerRecordAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	l, _ := openTestLedger(t)

	rows := []Result{
		{MatchID: "a", LevelID: "1", AgentID: "x", Result: "VICTORY", RawPoints: 50, BenchmarkScore: 40, MovesUsed: 10, IdealMoves: 8, MaxMoves: 20, CompletionPercent: 100, Seed: "s1"},
		{MatchID: "b", LevelID: "1", AgentID: "y", Result: "TIMEOUT", RawPoints: 20, BenchmarkScore: 8, MovesUsed: 20, IdealMoves: 8, MaxMoves: 20, CompletionPercent: 50, Seed: "s2"},
		{MatchID: "c", LevelID: "1", AgentID: "z", Result: "VICTORY", RawPoints: 50, BenchmarkScore: 40, MovesUsed: 9, IdealMoves: 8, MaxMoves: 20, CompletionPercent: 100, Seed: "s3"},
		{MatchID: "d", LevelID: "2", AgentID: "x", Result: "VICTORY", RawPoints: 90, BenchmarkScore: 99, MovesUsed: 5, IdealMoves: 5, MaxMoves: 20, CompletionPercent: 100, Seed: "s4"},
	}
	for _, r := range rows {
		if err := l.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	// Duplicate match ids are ignored.
	dup := rows[1]
	dup.BenchmarkScore = 1000
	if err := l.Record(ctx, dup); err != nil {
		t.Fatal(err)
	}

	got, err := l.Leaderboard(ctx, "1", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].MatchID != id {
			t.Errorf("row %d = %s, want %s", i, got[i].MatchID, id)
		}
	}
	if got[2].BenchmarkScore != 8 || got[0].Seed != "s3" || got[0].CreatedAt.IsZero() {
		t.Errorf("unexpected row contents: %+v", got)
	}

	top, err := l.Leaderboard(ctx, "1", 1)
	if err != nil || len(top) != 1 {
		t.Fatalf("limit 1: %v, %d rows", err, len(top))
	}
}

func TestResultOf(t *testing.T) {
	m := game.New(testLevel(), game.Options{ID: "m1", AgentID: "bot", Seed: "seed"})
	r := ResultOf(m)
	if r.MatchID != "m1" || r.AgentID != "bot" || r.Seed != "seed" || r.Result != "IN_PROGRESS" || r.MaxMoves != 5 {
		t.Fatalf("ResultOf = %+v", r)
	}
}
