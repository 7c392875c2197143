package mulligan

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
)

// Archetype is a common keep decision, valued as the score of keeping With
// minus the score of keeping Without.
type Archetype struct {
	Name    string
	With    []card.Card
	Without []card.Card
}

func mustCards(s string) []card.Card {
	cards, err := card.ParseList(strings.Fields(s))
	if err != nil {
		panic(err)
	}
	return cards
}

var StandardArchetypes = []Archetype{
	{"keeping 1", mustCards("n1"), nil},
	{"keeping 1(strong)", mustCards("s1"), nil},
	{"keeping 2", mustCards("n2"), nil},
	{"keeping 3", mustCards("n3"), nil},
	{"keeping 3(strong)", mustCards("s3"), nil},
	{"keeping 4", mustCards("n4"), nil},
	{"keeping 4(strong)", mustCards("s4"), nil},
	{"having 2 3, keeping 2", mustCards("n2 n2 n3"), mustCards("n2 n3")},
	{"having 2 3, keeping 3", mustCards("n2 n3 n3"), mustCards("n2 n3")},
	{"having 1 and keeping 3", mustCards("n1 n3"), mustCards("n1")},
	{"having 2 and keeping 4", mustCards("n2 n4"), mustCards("n2")},
}

type ArchetypeResult struct {
	Archetype
	// Skipped is set when the deck lacks the archetype's cards.
	Skipped bool
	With    float64
	Without float64
}

// Delta is the value of the extra kept cards.
func (a ArchetypeResult) Delta() float64 {
	return a.With - a.Without
}

// CompareArchetypes values every standard archetype against the current
// deck and play order.
func (s *Solver) CompareArchetypes(ctx context.Context) ([]ArchetypeResult, error) {
	return s.compare(ctx, StandardArchetypes)
}

func (s *Solver) compare(ctx context.Context, archetypes []Archetype) ([]ArchetypeResult, error) {
	logger := zerolog.Ctx(ctx)
	s.resetDeck()
	d := s.game.Deck()
	results := make([]ArchetypeResult, 0, len(archetypes))
	for _, a := range archetypes {
		r := ArchetypeResult{Archetype: a}
		with, err := d.ValuesToPositions(a.With, deck.InDeck, nil)
		if errors.Is(err, deck.ErrCardNotFound) {
			r.Skipped = true
			results = append(results, r)
			continue
		}
		without, err := d.ValuesToPositions(a.Without, deck.InDeck, nil)
		if errors.Is(err, deck.ErrCardNotFound) {
			r.Skipped = true
			results = append(results, r)
			continue
		}
		withRes, err := s.simmer.Simulate(ctx, with)
		if err != nil {
			return nil, err
		}
		withoutRes, err := s.simmer.Simulate(ctx, without)
		if err != nil {
			return nil, err
		}
		r.With, r.Without = withRes.Mean, withoutRes.Mean
		logger.Debug().Str("archetype", a.Name).Float64("delta", r.Delta()).Msg("archetype-simmed")
		results = append(results, r)
	}
	return results, nil
}
