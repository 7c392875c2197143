// Package deck holds the cards of a deck together with where each card
// currently is. Positions are stable: a position's card never changes, only
// its location. Hypothetical states are expressed as a View, a copy of the
// location array that can be mutated without touching the real deck.
package deck

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/mullsim/mullsim/card"
)

// StandardSize is the number of cards in a constructed deck.
const StandardSize = 30

// FillerMana is the cost of the cards Fill pads a deck with.
const FillerMana = 9

var (
	ErrCardNotFound = errors.New("card not in deck")
	ErrDeckTooLarge = errors.New("too many cards")
)

type Location uint8

const (
	InDeck Location = iota
	InHand
	Committed
)

func (l Location) String() string {
	switch l {
	case InDeck:
		return "deck"
	case InHand:
		return "hand"
	case Committed:
		return "committed"
	}
	return "unknown"
}

// A View is a full set of locations, index-aligned with the deck's cards.
type View []Location

func (v View) Clone() View {
	return slices.Clone(v)
}

// Rand is the random source every draw goes through. *frand.RNG satisfies it.
type Rand interface {
	Intn(n int) int
}

type Deck struct {
	cards     []card.Card
	locations View
}

func New() *Deck {
	return &Deck{}
}

// Clone returns a deep copy.
func (d *Deck) Clone() *Deck {
	return &Deck{
		cards:     slices.Clone(d.cards),
		locations: d.locations.Clone(),
	}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) Card(pos int) card.Card {
	return d.cards[pos]
}

func (d *Deck) Cards() []card.Card {
	return slices.Clone(d.cards)
}

func (d *Deck) Location(pos int) Location {
	return d.locations[pos]
}

func (d *Deck) SetLocation(pos int, loc Location) {
	d.locations[pos] = loc
}

// View returns a copy of the real locations.
func (d *Deck) View() View {
	return d.locations.Clone()
}

func (d *Deck) view(v View) View {
	if v == nil {
		return d.locations
	}
	return v
}

// Insert appends a card to the deck.
func (d *Deck) Insert(c card.Card) {
	d.cards = append(d.cards, c)
	d.locations = append(d.locations, InDeck)
}

func (d *Deck) InsertAll(cards []card.Card) {
	for _, c := range cards {
		d.Insert(c)
	}
}

// Clear empties the deck entirely.
func (d *Deck) Clear() {
	d.cards = nil
	d.locations = nil
}

// Reset puts every card back in the deck and removes the coin. The coin is
// not a deck member; it is re-added per trial according to play order.
func (d *Deck) Reset() {
	cards := d.cards[:0]
	for _, c := range d.cards {
		if !c.IsCoin() {
			cards = append(cards, c)
		}
	}
	d.cards = cards
	d.locations = make(View, len(cards))
}

// Sort orders the deck ascending by (mana, power), keeping every card's
// location attached to it.
func (d *Deck) Sort() {
	idx := make([]int, len(d.cards))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return card.Compare(d.cards[idx[i]], d.cards[idx[j]]) < 0
	})
	cards := make([]card.Card, len(idx))
	locs := make(View, len(idx))
	for i, p := range idx {
		cards[i] = d.cards[p]
		locs[i] = d.locations[p]
	}
	d.cards = cards
	d.locations = locs
}

// Fill pads the deck with high-cost filler up to StandardSize.
func (d *Deck) Fill() error {
	n := len(d.cards)
	if n > StandardSize {
		return fmt.Errorf("%w: %d cards, limit is %d", ErrDeckTooLarge, n, StandardSize)
	}
	for range StandardSize - n {
		d.Insert(card.New(FillerMana, card.Normal))
	}
	return nil
}

// CountIn returns how many positions in the view have the given location.
func (d *Deck) CountIn(loc Location, v View) int {
	return lo.Count(d.view(v), loc)
}

// DrawRandom moves a uniformly chosen in-deck position of the view to the
// hand and returns it. A nil view draws from the real deck. Drawing from an
// exhausted deck is a programming error and panics.
func (d *Deck) DrawRandom(v View, rng Rand) int {
	locs := d.view(v)
	n := lo.Count(locs, InDeck)
	if n == 0 {
		panic("deck: draw from exhausted deck")
	}
	pick := rng.Intn(n)
	for pos, l := range locs {
		if l != InDeck {
			continue
		}
		if pick == 0 {
			locs[pos] = InHand
			return pos
		}
		pick--
	}
	panic("deck: draw index out of range")
}

// MoveToHand flips a real position to the hand.
func (d *Deck) MoveToHand(pos int) bool {
	if pos < 0 || pos >= len(d.locations) {
		return false
	}
	d.locations[pos] = InHand
	return true
}

// Locate finds the first position holding c whose location in the view is
// loc.
func (d *Deck) Locate(c card.Card, loc Location, v View) (int, bool) {
	locs := d.view(v)
	for pos, dc := range d.cards {
		if dc == c && locs[pos] == loc {
			return pos, true
		}
	}
	return -1, false
}

// ValuesToPositions maps each card to a distinct position currently at loc.
// Duplicate values resolve to different positions. Neither the view nor the
// real deck is modified.
func (d *Deck) ValuesToPositions(cards []card.Card, loc Location, v View) ([]int, error) {
	scratch := d.view(v).Clone()
	// any location other than loc works as a "taken" marker.
	taken := InDeck
	if loc == InDeck {
		taken = Committed
	}
	positions := make([]int, 0, len(cards))
	for _, c := range cards {
		pos, ok := d.Locate(c, loc, scratch)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrCardNotFound, c)
		}
		scratch[pos] = taken
		positions = append(positions, pos)
	}
	return positions, nil
}

// Positions maps positions back to card values.
func (d *Deck) Positions(positions []int) []card.Card {
	return lo.Map(positions, func(p int, _ int) card.Card {
		return d.cards[p]
	})
}

// Hand returns the cards located in hand according to the view.
func (d *Deck) Hand(v View) []card.Card {
	locs := d.view(v)
	var hand []card.Card
	for pos, c := range d.cards {
		if locs[pos] == InHand {
			hand = append(hand, c)
		}
	}
	return hand
}

func (d *Deck) HasCoin() bool {
	return slices.ContainsFunc(d.cards, card.Card.IsCoin)
}

// AdjustCoin removes the coin when going first and adds it (in the deck)
// when going second.
func (d *Deck) AdjustCoin(order PlayOrder) {
	pos := slices.IndexFunc(d.cards, card.Card.IsCoin)
	switch {
	case order == First && pos >= 0:
		d.cards = slices.Delete(d.cards, pos, pos+1)
		d.locations = slices.Delete(d.locations, pos, pos+1)
	case order == Second && pos < 0:
		d.Insert(card.Coin)
	}
}

// AddCoinToHand appends a coin and places it straight into the hand,
// returning its position.
func (d *Deck) AddCoinToHand() int {
	d.Insert(card.Coin)
	pos := len(d.cards) - 1
	d.locations[pos] = InHand
	return pos
}

// Curve counts cards per mana cost from 0 to maxMana inclusive.
func (d *Deck) Curve(maxMana int) []int {
	curve := make([]int, maxMana+1)
	for _, c := range d.cards {
		if c.Mana >= 0 && c.Mana <= maxMana {
			curve[c.Mana]++
		}
	}
	return curve
}

func (d *Deck) String() string {
	var sb strings.Builder
	for _, c := range d.cards {
		fmt.Fprintf(&sb, "mana:%d , power:%s\n", c.Mana, c.Power)
	}
	return sb.String()
}
