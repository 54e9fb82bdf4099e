// internal/store/ledger.go
//
// SQLite results ledger.
// Responsibilities:
//   - Opening the SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Recording one summary row per finished match and serving per-level leaderboards.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/ixentbench/capsicaps/assets"
	"github.com/ixentbench/capsicaps/internal/game"
)

// DefaultLeaderboardLimit applies when a caller passes limit <= 0.
const DefaultLeaderboardLimit = 20

// Result is the ledger row written when a match ends.
type Result struct {
	MatchID           string    `json:"match_id"`
	LevelID           string    `json:"level_id"`
	AgentID           string    `json:"agent_id"`
	Result            string    `json:"result"`
	RawPoints         int       `json:"raw_points"`
	BenchmarkScore    int       `json:"benchmark_score"`
	MovesUsed         int       `json:"moves_used"`
	IdealMoves        int       `json:"ideal_moves"`
	MaxMoves          int       `json:"max_moves"`
	CompletionPercent float64   `json:"completion_percent"`
	Seed              string    `json:"seed"`
	CreatedAt         time.Time `json:"created_at"`
}

// ResultOf summarises a match for the ledger.
func ResultOf(m *game.Match) Result {
	return Result{
		MatchID:           m.ID,
		LevelID:           m.LevelID,
		AgentID:           m.AgentID,
		Result:            string(m.Result),
		RawPoints:         m.RawPoints,
		BenchmarkScore:    m.BenchmarkScore(),
		MovesUsed:         m.Turn,
		IdealMoves:        m.IdealMoves,
		MaxMoves:          m.MaxMoves,
		CompletionPercent: m.CompletionPercent(),
		Seed:              m.Seed,
	}
}

// Ledger stores finished match summaries.
type Ledger struct{ db *sql.DB }

// OpenLedger opens (creating if missing) the SQLite file at path and applies
// pending migrations.
func OpenLedger(path string) (*Ledger, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error { return l.db.Close() }

/**
 * Record inserts a finished match.
 *
 * - match_id is the primary key; recording the same match twice is ignored.
 */
func (l *Ledger) Record(ctx context.Context, r Result) error {
	_, err := l.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO match_results
            (match_id, level_id, agent_id, result, raw_points, benchmark_score,
             moves_used, ideal_moves, max_moves, completion_percent, seed)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.LevelID, r.AgentID, r.Result, r.RawPoints, r.BenchmarkScore,
		r.MovesUsed, r.IdealMoves, r.MaxMoves, r.CompletionPercent, r.Seed,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", r.MatchID, err)
	}
	return nil
}

/**
 * Leaderboard fetches the best results for a level.
 *
 * - Ordered by benchmark score DESC, then moves used ASC, then created_at ASC.
 * - Default limit is DefaultLeaderboardLimit if not specified.
 */
func (l *Ledger) Leaderboard(ctx context.Context, levelID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT match_id, level_id, agent_id, result, raw_points, benchmark_score,
               moves_used, ideal_moves, max_moves, completion_percent, seed, created_at
        FROM match_results
        WHERE level_id=?
        ORDER BY benchmark_score DESC, moves_used ASC, created_at ASC, match_id ASC
        LIMIT ?`, levelID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.MatchID, &r.LevelID, &r.AgentID, &r.Result, &r.RawPoints,
			&r.BenchmarkScore, &r.MovesUsed, &r.IdealMoves, &r.MaxMoves,
			&r.CompletionPercent, &r.Seed, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

/**
 * openDB opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative paths (e.g. ./data/results.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 */
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * migrate applies the embedded SQL migrations.
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each file in lexical order, skipping those already applied.
 * - Scripts that manage their own transaction (BEGIN TRANSACTION or
 *   PRAGMA FOREIGN_KEYS=OFF) run outside an outer transaction.
 */
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		upper := strings.ToUpper(f.SQL)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if _, err := db.Exec(f.SQL); err != nil {
				return fmt.Errorf("apply %s: %w", f.Name, err)
			}
			if _, err := db.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f.Name); err != nil {
				return fmt.Errorf("record %s: %w", f.Name, err)
			}
			log.Info().Str("migration", f.Name).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(f.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f.Name, err)
		}
		log.Info().Str("migration", f.Name).Msg("applied")
	}
	return nil
}
