package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/montecarlo"
	"github.com/mullsim/mullsim/mulligan"
)

func testCtx() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func cards(t *testing.T, tokens ...string) []card.Card {
	c, err := card.ParseList(tokens)
	require.NoError(t, err)
	return c
}

func report(t *testing.T, pattern string, score float64, hand ...string) *mulligan.Report {
	return &mulligan.Report{
		Order: deck.First,
		Hand:  cards(t, hand...),
		Entries: []mulligan.Entry{{
			Pattern: pattern,
			Kept:    cards(t, hand[:1]...),
			Result:  &montecarlo.Result{Mean: score, Repetitions: 4000},
		}},
	}
}

func TestRecordAndRecent(t *testing.T) {
	ctx := testCtx()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer s.Close()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	id1, err := s.RecordSolve(ctx, report(t, "100", 41.5, "n1", "n3", "n7"))
	require.NoError(t, err)
	id2, err := s.RecordSolve(ctx, report(t, "110", 43.25, "n2", "n2", "s4"))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	recs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, id2, recs[0].ID)
	assert.Equal(t, "n2 n2 s4", recs[0].Hand)
	assert.Equal(t, "110", recs[0].Pattern)
	assert.Equal(t, "n2", recs[0].Kept)
	assert.Equal(t, "first", recs[0].Order)
	assert.InDelta(t, 43.25, recs[0].Score, 1e-9)
	assert.Equal(t, 4000, recs[0].Repetitions)
	assert.True(t, recs[1].SolvedAt.Equal(base.Add(time.Minute)))

	recs, err = s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := testCtx()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.RecordSolve(ctx, report(t, "000", 30, "n9", "n9", "n9"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	recs, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestEmptyReport(t *testing.T) {
	ctx := testCtx()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer s.Close()
	_, err = s.RecordSolve(ctx, &mulligan.Report{})
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestRetryOnlyWhenBusy(t *testing.T) {
	s := &Store{attempts: 3}
	calls := 0
	err := s.withRetry(testCtx(), func() error {
		calls++
		return errors.New("database is locked (5) (SQLITE_BUSY)")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = s.withRetry(testCtx(), func() error {
		calls++
		return errors.New("no such table: solves")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
