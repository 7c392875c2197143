// Package store keeps a history of solved mulligans in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/mulligan"
)

var ErrNoEntries = errors.New("mulligan report has no simulated patterns")

const schema = `CREATE TABLE IF NOT EXISTS solves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	solved_at INTEGER NOT NULL,
	play_order TEXT NOT NULL,
	hand TEXT NOT NULL,
	pattern TEXT NOT NULL,
	kept TEXT NOT NULL,
	score REAL NOT NULL,
	repetitions INTEGER NOT NULL
)`

// Record is one solved mulligan: the hand and the best keep found for it.
type Record struct {
	ID          int64
	SolvedAt    time.Time
	Order       string
	Hand        string
	Pattern     string
	Kept        string
	Score       float64
	Repetitions int
}

func (r Record) String() string {
	return fmt.Sprintf("%4d %s going %-6s hand %-16s keep %-5s %-12s %.3f",
		r.ID, r.SolvedAt.Format(time.DateTime), r.Order, r.Hand, r.Pattern, r.Kept, r.Score)
}

type Store struct {
	db       *sql.DB
	attempts uint
	now      func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps writers from racing each other for the lock.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, attempts: 5, now: time.Now}
	err = s.withRetry(ctx, func() error {
		_, err := db.ExecContext(ctx, schema)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	logger := zerolog.Ctx(ctx)
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			logger.Debug().Err(err).Uint("n", n).Msg("history-db-busy-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// RecordSolve stores the best pattern of a mulligan report and returns the
// new record's id.
func (s *Store) RecordSolve(ctx context.Context, r *mulligan.Report) (int64, error) {
	if len(r.Entries) == 0 {
		return 0, ErrNoEntries
	}
	best := r.Best()
	reps := 0
	if best.Result != nil {
		reps = best.Result.Repetitions
	}
	var id int64
	err := s.withRetry(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO solves (solved_at, play_order, hand, pattern, kept, score, repetitions)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.now().UnixNano(), r.Order.String(), card.Key(r.Hand), best.Pattern,
			card.Key(best.Kept), best.Score(), reps)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	zerolog.Ctx(ctx).Debug().Int64("id", id).Str("pattern", best.Pattern).Msg("solve-recorded")
	return id, nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	var records []Record
	err := s.withRetry(ctx, func() error {
		records = records[:0]
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, solved_at, play_order, hand, pattern, kept, score, repetitions
			FROM solves ORDER BY id DESC LIMIT ?`, n)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec Record
			var nanos int64
			if err := rows.Scan(&rec.ID, &nanos, &rec.Order, &rec.Hand, &rec.Pattern,
				&rec.Kept, &rec.Score, &rec.Repetitions); err != nil {
				return err
			}
			rec.SolvedAt = time.Unix(0, nanos)
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
