package montecarlo

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/game"
)

func seeded(thread int) deck.Rand {
	seed := make([]byte, 32)
	seed[0] = byte(thread + 1)
	return frand.NewCustom(seed, 1024, 12)
}

func testCtx() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func newGame(is *is.I, session config.Session, tokens ...string) *game.Game {
	g := game.NewGame(session)
	cards, err := card.ParseGroups(tokens)
	is.NoErr(err)
	g.Deck().InsertAll(cards)
	return g
}

func newSimmer(g *game.Game, threads int) *Simmer {
	s := NewSimmer(g, nil)
	s.SetThreads(threads)
	s.SetRandSource(seeded)
	return s
}

func TestSplit(t *testing.T) {
	is := is.New(t)
	is.Equal(split(10, 4), []int{3, 3, 2, 2})
	is.Equal(split(8, 4), []int{2, 2, 2, 2})
	is.Equal(split(2, 4), []int{1, 1})
	is.Equal(split(5, 1), []int{5})
}

func TestUniformDeckIsDeterministic(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 10, MaxTurn: 3, MaxSearchDepth: 1, PlayCardBonus: 1}
	g := newGame(is, sess, "30n1")
	s := newSimmer(g, 4)

	r, err := s.Simulate(testCtx(), nil)
	is.NoErr(err)
	// 11 + 12 + 13: every turn spends all its mana on 1-drops.
	is.Equal(r.Mean, 36.0)
	is.Equal(r.Stdev, 0.0)
	is.Equal(r.Repetitions, 10)
	is.Equal(len(r.Scores), 10)
	is.Equal(s.Iterations(), 10)
	// the real game is never touched.
	is.Equal(g.Deck().CountIn(deck.InDeck, nil), 30)
}

func TestSimSingleThread(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 5, MaxTurn: 3, MaxSearchDepth: 1, PlayCardBonus: 1}
	g := newGame(is, sess, "30n1")
	s := newSimmer(g, 4)

	r, err := s.SimSingleThread(testCtx(), []int{0})
	is.NoErr(err)
	is.Equal(r.Mean, 36.0)
	is.Equal(r.Repetitions, 5)
	is.Equal(s.Threads(), 4)
}

func TestCoinOnTheDraw(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 7, MaxTurn: 1, MaxSearchDepth: 1, PlayCardBonus: 1}
	g := newGame(is, sess, "30n1")
	g.SetPlayOrder(deck.Second)
	r, err := newSimmer(g, 3).Simulate(testCtx(), nil)
	is.NoErr(err)
	// two 1-drops and the coin on turn one.
	is.Equal(r.Mean, 13.0)
}

func TestKeptCardIsHonored(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 12, MaxTurn: 5, MaxSearchDepth: 1, PlayCardBonus: 1}
	g := newGame(is, sess, "s5", "29n9")
	pos, ok := g.Deck().Locate(card.New(5, card.Strong), deck.InDeck, nil)
	is.True(ok)

	r, err := newSimmer(g, 4).Simulate(testCtx(), []int{pos})
	is.NoErr(err)
	// four empty turns, then the strong 5-drop.
	is.Equal(r.Mean, 9+8+7+6+11.5)
	is.Equal(card.Key(r.Kept), "s5")

	lo, hi := r.CI(95)
	is.Equal(lo, r.Mean)
	is.Equal(hi, r.Mean)
}

func TestValidation(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 4, MaxTurn: 6, MaxSearchDepth: 2, PlayCardBonus: 1}
	g := newGame(is, sess, "9n1")
	s := newSimmer(g, 2)

	_, err := s.Simulate(testCtx(), []int{0, 0})
	is.True(errors.Is(err, ErrBadPosition))
	_, err = s.Simulate(testCtx(), []int{9})
	is.True(errors.Is(err, ErrBadPosition))
	_, err = s.Simulate(testCtx(), []int{0, 1, 2, 3})
	is.True(errors.Is(err, ErrBadPosition))

	// 3 opening + 6 turns + 1 lookahead draw.
	_, err = s.Simulate(testCtx(), []int{0})
	is.True(errors.Is(err, ErrDeckTooSmall))

	sess.MaxSearchDepth = 1
	g.SetSession(sess)
	_, err = s.Simulate(testCtx(), []int{0})
	is.NoErr(err)
}

func TestCanceled(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 100, MaxTurn: 3, MaxSearchDepth: 2, PlayCardBonus: 1}
	g := newGame(is, sess, "10n1", "10n2", "10n3")
	ctx, cancel := context.WithCancel(testCtx())
	cancel()
	r, err := newSimmer(g, 4).Simulate(ctx, nil)
	is.True(errors.Is(err, context.Canceled))
	is.True(r == nil)
}

func TestLogStream(t *testing.T) {
	is := is.New(t)
	sess := config.Session{CycleReps: 3, MaxTurn: 2, MaxSearchDepth: 1, PlayCardBonus: 1}
	g := newGame(is, sess, "30n1")
	s := newSimmer(g, 2)
	var buf bytes.Buffer
	s.SetLogStream(&buf)
	s.SetCollectPlayouts(true)

	r, err := s.Simulate(testCtx(), nil)
	is.NoErr(err)

	var iters []LogIteration
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &iters))
	is.Equal(len(iters), 3)
	for _, it := range iters {
		is.Equal(len(it.Turns), 2)
		is.Equal(it.Score, 23.0)
		is.Equal(it.Turns[1].Play, "[1, 1]")
		is.Equal(it.Turns[1].Waste, 0)
	}
	is.Equal(len(r.Playouts), 3)
}

func TestHistogram(t *testing.T) {
	is := is.New(t)
	r := &Result{Scores: []float64{1, 2, 2, 3, 5}}
	var buf bytes.Buffer
	is.NoErr(r.Histogram(&buf, 4))
	is.True(buf.Len() > 0)

	buf.Reset()
	is.NoErr((&Result{}).Histogram(&buf, 4))
	is.Equal(buf.String(), "no playouts\n")
}
