// Package mulligan decides which cards of an opening hand to keep. Every
// keep/redraw pattern is simulated and the patterns are ranked by their
// expected score.
package mulligan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/game"
	"github.com/mullsim/mullsim/montecarlo"
)

var ErrHandSize = errors.New("start hand should contain exactly 3 or 4 cards")

// Entry is one keep pattern. Pattern is a bit string over the sorted hand,
// leftmost bit first: "101" keeps the first and third cards.
type Entry struct {
	Pattern   string
	Positions []int
	Kept      []card.Card
	// Result is nil for patterns skipped as duplicates.
	Result *montecarlo.Result
}

func (e Entry) Score() float64 {
	if e.Result == nil {
		return 0
	}
	return e.Result.Mean
}

type Report struct {
	Order deck.PlayOrder
	// Hand is the opening hand sorted by value; patterns index into it.
	Hand []card.Card
	// Entries are the simulated patterns, best first.
	Entries []Entry
	// Passed are the patterns whose kept cards duplicate an earlier
	// pattern's, in the order they were generated.
	Passed []Entry
	// BaseScore is the score of a perfect curve: every mana spent on every
	// turn, before card bonuses.
	BaseScore     float64
	PlayCardBonus int
}

func (r *Report) Best() Entry {
	return r.Entries[0]
}

// Keep reports, per card of the sorted hand, whether the best pattern
// keeps it.
func (r *Report) Keep() []bool {
	best := r.Best().Pattern
	keep := make([]bool, len(best))
	for i, ch := range best {
		keep[i] = ch == '1'
	}
	return keep
}

func (r *Report) String() string {
	var sb strings.Builder
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "%s %-20s %.3f\n", e.Pattern, card.Display(e.Kept), e.Score())
	}
	for _, e := range r.Passed {
		fmt.Fprintf(&sb, "%s %-20s (pass)\n", e.Pattern, card.Display(e.Kept))
	}
	return sb.String()
}

// Progress is called after every pattern; passed is true for skipped
// duplicates.
type Progress func(done, total int, passed bool)

type Solver struct {
	game     *game.Game
	simmer   *montecarlo.Simmer
	progress Progress
}

func NewSolver(g *game.Game, simmer *montecarlo.Simmer) *Solver {
	return &Solver{game: g, simmer: simmer}
}

func (s *Solver) SetProgress(p Progress) {
	s.progress = p
}

func (s *Solver) Game() *game.Game {
	return s.game
}

func (s *Solver) Simmer() *montecarlo.Simmer {
	return s.simmer
}

func (s *Solver) reportProgress(done, total int, passed bool) {
	if s.progress != nil {
		s.progress(done, total, passed)
	}
}

// resetDeck puts every card back in the deck, keeping the coin consistent
// with the play order.
func (s *Solver) resetDeck() {
	s.game.Reset()
	s.game.SetPlayOrder(s.game.PlayOrder())
}

// Solve simulates every keep pattern of the opening hand given as deck
// positions. The hand must match the starting hand size of the current
// play order.
func (s *Solver) Solve(ctx context.Context, hand []int) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	order := s.game.PlayOrder()
	size := order.StartingHandSize()
	if len(hand) != size {
		return nil, fmt.Errorf("%w: got %d, going %s", ErrHandSize, len(hand), order)
	}
	d := s.game.Deck()
	sorted := append([]int(nil), hand...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return card.Compare(d.Card(sorted[i]), d.Card(sorted[j])) < 0
	})

	sess := s.game.Session()
	report := &Report{
		Order:         order,
		Hand:          d.Positions(sorted),
		BaseScore:     10 * float64(sess.MaxTurn),
		PlayCardBonus: sess.PlayCardBonus,
	}
	seen := map[string]bool{}
	n := order.NumPatterns()
	logger.Info().Str("hand", card.Display(report.Hand)).Str("order", order.String()).Msg("solving-mulligan")
	for idx := range n {
		pattern := fmt.Sprintf("%0*b", size, idx)
		var kept []int
		for i, ch := range pattern {
			if ch == '1' {
				kept = append(kept, sorted[i])
			}
		}
		e := Entry{Pattern: pattern, Positions: kept, Kept: d.Positions(kept)}
		key := card.Key(e.Kept)
		if seen[key] {
			report.Passed = append(report.Passed, e)
			s.reportProgress(idx+1, n, true)
			continue
		}
		seen[key] = true
		res, err := s.simmer.Simulate(ctx, kept)
		if err != nil {
			return nil, err
		}
		e.Result = res
		report.Entries = append(report.Entries, e)
		logger.Debug().Str("pattern", pattern).Float64("score", res.Mean).Msg("pattern-simmed")
		s.reportProgress(idx+1, n, false)
	}
	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Score() > report.Entries[j].Score()
	})
	s.resetDeck()
	return report, nil
}

// DeclareAndSolve takes an opening hand by card values. Three cards means
// going first, four means going second.
func (s *Solver) DeclareAndSolve(ctx context.Context, cards []card.Card) (*Report, error) {
	order, ok := deck.OrderForHandSize(len(cards))
	if !ok {
		return nil, fmt.Errorf("%w: got %d", ErrHandSize, len(cards))
	}
	// look the cards up on a copy so a bad hand leaves the game as it was.
	probe := s.game.Copy()
	probe.Reset()
	probe.SetPlayOrder(order)
	positions, err := probe.Deck().ValuesToPositions(cards, deck.InDeck, nil)
	if err != nil {
		return nil, err
	}
	if err := montecarlo.Validate(probe, positions); err != nil {
		return nil, err
	}
	prev := s.game.PlayOrder()
	s.game.Reset()
	s.game.SetPlayOrder(order)
	r, err := s.Solve(ctx, positions)
	if err != nil {
		s.game.Reset()
		s.game.SetPlayOrder(prev)
		return nil, err
	}
	return r, nil
}
