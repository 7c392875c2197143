package mulligan

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/game"
	"github.com/mullsim/mullsim/montecarlo"
)

func seeded(thread int) deck.Rand {
	seed := make([]byte, 32)
	seed[1] = byte(thread + 7)
	return frand.NewCustom(seed, 1024, 12)
}

func testCtx() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func newSolver(is *is.I, tokens ...string) *Solver {
	sess := config.Session{CycleReps: 8, MaxTurn: 3, MaxSearchDepth: 1, PlayCardBonus: 1}
	g := game.NewGame(sess)
	cards, err := card.ParseGroups(tokens)
	is.NoErr(err)
	g.Deck().InsertAll(cards)
	simmer := montecarlo.NewSimmer(g, nil)
	simmer.SetThreads(2)
	simmer.SetRandSource(seeded)
	return NewSolver(g, simmer)
}

func parse(is *is.I, tokens ...string) []card.Card {
	cards, err := card.ParseList(tokens)
	is.NoErr(err)
	return cards
}

func TestEightPatternsGoingFirst(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "n3", "n1", "n2", "27n9")
	calls := 0
	s.SetProgress(func(done, total int, passed bool) {
		calls++
		is.Equal(total, 8)
		is.True(!passed)
	})

	r, err := s.DeclareAndSolve(testCtx(), parse(is, "n2", "n3", "n1"))
	is.NoErr(err)
	is.Equal(calls, 8)
	is.Equal(r.Order, deck.First)
	is.Equal(card.Key(r.Hand), "n1 n2 n3")
	is.Equal(len(r.Entries), 8)
	is.Equal(len(r.Passed), 0)

	patterns := map[string]Entry{}
	for _, e := range r.Entries {
		patterns[e.Pattern] = e
		is.True(r.Best().Score() >= e.Score())
	}
	is.Equal(len(patterns["000"].Kept), 0)
	is.Equal(card.Key(patterns["111"].Kept), "n1 n2 n3")
	// leftmost bit is the cheapest card.
	is.Equal(card.Key(patterns["100"].Kept), "n1")
	is.Equal(card.Key(patterns["001"].Kept), "n3")

	is.Equal(len(r.Keep()), 3)
	is.Equal(r.BaseScore, 30.0)
	// the deck is back to its resting state.
	is.Equal(s.Game().Deck().CountIn(deck.InDeck, nil), 30)
}

func TestDuplicatePatternsArePassed(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "2n2", "n3", "27n9")
	r, err := s.DeclareAndSolve(testCtx(), parse(is, "n2", "n3", "n2"))
	is.NoErr(err)
	is.Equal(len(r.Entries), 6)
	is.Equal(len(r.Passed), 2)
	is.Equal(r.Passed[0].Pattern, "100")
	is.Equal(r.Passed[1].Pattern, "101")
	is.True(r.Passed[0].Result == nil)
}

func TestSixteenPatternsGoingSecond(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "n1", "n2", "n3", "n4", "26n9")
	r, err := s.DeclareAndSolve(testCtx(), parse(is, "n1", "n2", "n3", "n4"))
	is.NoErr(err)
	is.Equal(r.Order, deck.Second)
	is.Equal(len(r.Entries)+len(r.Passed), 16)
	is.Equal(len(r.Entries), 16)
	is.True(s.Game().Deck().HasCoin())
	for _, e := range r.Entries {
		is.True(r.Best().Score() >= e.Score())
	}
}

func TestDeclareErrors(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "n1", "n2", "n3", "27n9")

	_, err := s.DeclareAndSolve(testCtx(), parse(is, "n1", "n2"))
	is.True(errors.Is(err, ErrHandSize))
	_, err = s.DeclareAndSolve(testCtx(), parse(is, "n1", "n2", "n3", "n1", "n2"))
	is.True(errors.Is(err, ErrHandSize))

	// a missing card leaves the play order alone.
	_, err = s.DeclareAndSolve(testCtx(), parse(is, "n1", "n2", "n3", "s7"))
	is.True(errors.Is(err, deck.ErrCardNotFound))
	is.Equal(s.Game().PlayOrder(), deck.First)
	is.True(!s.Game().Deck().HasCoin())

	_, err = s.Solve(testCtx(), []int{0, 1})
	is.True(errors.Is(err, ErrHandSize))
}

func TestDeclareOnSmallDeckLeavesGameAlone(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "n1", "n2", "n3", "n4", "n5")
	s.Game().SetPlayOrder(deck.First)

	_, err := s.DeclareAndSolve(testCtx(), parse(is, "n1", "n2", "n3", "n4"))
	is.True(errors.Is(err, montecarlo.ErrDeckTooSmall))
	is.Equal(s.Game().PlayOrder(), deck.First)
	is.True(!s.Game().Deck().HasCoin())
	is.Equal(s.Game().Deck().Len(), 5)
}

func TestDeclareCanceledRestoresOrder(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "n1", "n2", "n3", "n4", "26n9")
	ctx, cancel := context.WithCancel(testCtx())
	cancel()

	_, err := s.DeclareAndSolve(ctx, parse(is, "n1", "n2", "n3", "n4"))
	is.True(errors.Is(err, context.Canceled))
	is.Equal(s.Game().PlayOrder(), deck.First)
	is.True(!s.Game().Deck().HasCoin())
	is.Equal(s.Game().Deck().Len(), 30)
}

func TestCompareArchetypes(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "2n1", "2n2", "2n3", "24n9")
	results, err := s.CompareArchetypes(testCtx())
	is.NoErr(err)
	is.Equal(len(results), len(StandardArchetypes))
	byName := map[string]ArchetypeResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	is.True(!byName["keeping 1"].Skipped)
	is.True(byName["keeping 1(strong)"].Skipped)
	is.True(byName["keeping 4"].Skipped)
	is.True(!byName["having 2 3, keeping 3"].Skipped)
	is.True(byName["having 2 and keeping 4"].Skipped)
	is.Equal(byName["keeping 1"].Delta(), byName["keeping 1"].With-byName["keeping 1"].Without)
}

func TestDemo(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "4n1", "4n2", "4n3", "4n4", "14n9")
	r, err := s.Demo(testCtx(), frand.NewCustom(make([]byte, 32), 1024, 12))
	is.NoErr(err)
	size := r.Order.StartingHandSize()
	is.Equal(len(r.Opening), size)
	if r.Order == deck.Second {
		size++
	}
	is.Equal(len(r.Kept), size)
	is.Equal(len(r.Turns), 3)
	var sum float64
	for i, tr := range r.Turns {
		is.Equal(tr.Mana, i+1)
		sum += tr.Score
	}
	is.Equal(r.Score, sum)
	is.Equal(r.Turns[2].Total, r.Score)
	is.Equal(s.Game().Deck().CountIn(deck.InHand, nil), 0)
}

func TestDemoDeckTooSmall(t *testing.T) {
	is := is.New(t)
	s := newSolver(is, "3n1")
	_, err := s.Demo(testCtx(), frand.NewCustom(make([]byte, 32), 1024, 12))
	is.True(errors.Is(err, montecarlo.ErrDeckTooSmall))
}
