// Package playgen enumerates the plays worth considering for a hand at a
// given mana budget.
//
// The enumeration is not the full power set. Once a combination spends k of
// the budget using the most expensive card, any combination spending k or
// less without that card is dominated, so it is skipped. What is left is
// roughly the set of spend-efficient combinations.
package playgen

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mullsim/mullsim/card"
)

// A Play is a multiset of cards committed in one turn.
type Play []card.Card

// Mana is the total cost of the play, the coin excluded.
func (p Play) Mana() int {
	return lo.SumBy(p, func(c card.Card) int {
		if c.IsCoin() {
			return 0
		}
		return c.Mana
	})
}

// Waste is the unspent mana when the play is made with the given budget.
// The coin adds one mana, so it counts as a -1 cost.
func (p Play) Waste(budget int) int {
	w := budget - p.Mana()
	if p.HasCoin() {
		w++
	}
	return w
}

// HasCoin reports whether the play uses the coin.
func (p Play) HasCoin() bool {
	return slices.ContainsFunc(p, card.Card.IsCoin)
}

func (p Play) String() string {
	return card.Display(p)
}

// Enumerate returns the deduplicated candidate plays for hand at budget.
// Every play is affordable once the coin (if used) is accounted for, and at
// least one play never depends on the coin; the empty play is added when
// nothing else qualifies.
func Enumerate(hand []card.Card, budget int) []Play {
	sorted := card.Sorted(hand)
	zero := lo.Filter(sorted, func(c card.Card, _ int) bool { return c.Mana == 0 })
	rest := lo.Filter(sorted, func(c card.Card, _ int) bool { return c.Mana != 0 })

	plays := dedupe(allPlays(rest, budget, 0))
	if !lo.SomeBy(plays, func(p Play) bool { return !p.HasCoin() }) {
		plays = append(plays, Play{})
	}
	for i := range plays {
		plays[i] = append(plays[i], zero...)
	}
	return plays
}

// allPlays is the recursive step. hand is sorted ascending and holds no
// zero-cost cards; floor is the minimum spend a play must reach.
func allPlays(hand []card.Card, budget, floor int) []Play {
	budget = max(budget, 0)
	floor = max(floor, 0)
	if len(hand) == 0 {
		return nil
	}

	haveCoin := false
	if i := slices.IndexFunc(hand, card.Card.IsCoin); i >= 0 {
		haveCoin = true
		hand = slices.Delete(slices.Clone(hand), i, i+1)
	}
	hand = lo.Filter(hand, func(c card.Card, _ int) bool { return c.Mana <= budget+1 })

	var plays []Play
	if haveCoin {
		// The coin is only worth using if the boosted budget is fully spent.
		plays = allPlays(hand, budget+1, budget+1)
		for i := range plays {
			plays[i] = append(plays[i], card.Coin)
		}
	}

	hand = lo.Filter(hand, func(c card.Card, _ int) bool { return c.Mana <= budget })
	if len(hand) == 0 {
		return plays
	}

	pivot := hand[len(hand)-1]
	hand = hand[:len(hand)-1]
	if len(hand) == 0 {
		if pivot.Mana >= floor {
			plays = append(plays, Play{pivot})
		}
		return plays
	}

	with := allPlays(hand, budget-pivot.Mana, floor-pivot.Mana)
	for i := range with {
		with[i] = append(with[i], pivot)
	}
	if len(with) == 0 && pivot.Mana >= floor {
		with = append(with, Play{pivot})
	}

	left := budget - pivot.Mana
	next := hand[len(hand)-1]
	var withoutFloor int
	switch {
	case floor > left:
		withoutFloor = floor
	case left == 0:
		withoutFloor = 0
	case pivot.Mana == next.Mana && pivot.Power != next.Power:
		withoutFloor = left + 1
	default:
		withoutFloor = left
	}
	without := allPlays(hand, budget, withoutFloor)

	plays = append(plays, with...)
	return append(plays, without...)
}

// dedupe drops plays that are the same multiset as an earlier play. Every
// surviving play is returned sorted.
func dedupe(plays []Play) []Play {
	seen := make(map[string]struct{}, len(plays))
	out := make([]Play, 0, len(plays))
	for _, p := range plays {
		k := card.Key(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Play(card.Sorted(p)))
	}
	return out
}
