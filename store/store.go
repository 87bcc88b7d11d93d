// Package store persists run records to a local sqlite database so that
// long jackpot searches and backtests leave an inspectable trail.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/search"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	kind        TEXT NOT NULL,
	series      INTEGER NOT NULL,
	strategy    TEXT NOT NULL DEFAULT '',
	tries       INTEGER NOT NULL DEFAULT 0,
	combination TEXT NOT NULL DEFAULT '',
	best        INTEGER NOT NULL DEFAULT 0,
	found       INTEGER NOT NULL DEFAULT 0,
	seconds     REAL NOT NULL DEFAULT 0
);`

// Run is one persisted record.
type Run struct {
	ID          int64
	CreatedAt   time.Time
	Kind        string
	Series      int
	Strategy    string
	Tries       int
	Combination draw.Set
	Best        int
	Found       bool
	Seconds     float64
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the results database at path. Pass
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db %s: %w", path, err)
	}
	// A single connection keeps :memory: databases coherent and sidesteps
	// sqlite write locking under the connection pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (st *Store) Close() error {
	return st.db.Close()
}

// SaveSearch records the terminal summary of a jackpot search.
func (st *Store) SaveSearch(series int, sum search.Summary) (int64, error) {
	return st.insert(&Run{
		Kind:        "search",
		Series:      series,
		Tries:       sum.Tries,
		Combination: setFromNumbers(sum.Combination),
		Best:        sum.BestMatch,
		Found:       sum.Found,
		Seconds:     sum.TimeSeconds,
	})
}

// SaveBacktest records one per-series backtest outcome.
func (st *Store) SaveBacktest(strategy string, series int, best int, cand draw.Set) (int64, error) {
	return st.insert(&Run{
		Kind:        "backtest",
		Series:      series,
		Strategy:    strategy,
		Combination: cand,
		Best:        best,
		Found:       best == draw.DrawSize,
	})
}

func (st *Store) insert(r *Run) (int64, error) {
	found := 0
	if r.Found {
		found = 1
	}
	res, err := st.db.Exec(
		`INSERT INTO runs (created_at, kind, series, strategy, tries, combination, best, found, seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), r.Kind, r.Series, r.Strategy,
		r.Tries, combinationText(r.Combination), r.Best, found, r.Seconds)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Debug().Int64("id", id).Str("kind", r.Kind).Int("series", r.Series).Msg("run saved")
	return id, nil
}

// Recent returns the newest runs, up to limit.
func (st *Store) Recent(limit int) ([]Run, error) {
	rows, err := st.db.Query(
		`SELECT id, created_at, kind, series, strategy, tries, combination, best, found, seconds
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var created, comb string
		var found int
		if err := rows.Scan(&r.ID, &created, &r.Kind, &r.Series, &r.Strategy,
			&r.Tries, &comb, &r.Best, &found, &r.Seconds); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		r.Found = found == 1
		if comb != "" {
			r.Combination, err = draw.ParseSet(comb)
			if err != nil {
				return nil, fmt.Errorf("run %d: bad combination %q: %w", r.ID, comb, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func combinationText(s draw.Set) string {
	if s == 0 {
		return ""
	}
	nums := s.Numbers()
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " ")
}

func setFromNumbers(nums []int) draw.Set {
	s, err := draw.FromNumbers(nums)
	if err != nil {
		return 0
	}
	return s
}
