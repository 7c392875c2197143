// Package game holds the state of one simulated session: the deck, the
// positions currently in hand, the accumulated score and the settings the
// turn evaluator reads. A Game is not safe for concurrent use; the simulator
// gives every worker its own Copy.
package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/hero"
)

var ErrBadPosition = errors.New("kept position is not a deck card")

type Game struct {
	deck    *deck.Deck
	hand    []int
	score   float64
	order   deck.PlayOrder
	hero    hero.Hero
	session config.Session
}

func NewGame(session config.Session) *Game {
	return &Game{
		deck:    deck.New(),
		session: session,
		hero:    hero.Warrior,
		order:   deck.First,
	}
}

// Copy returns a deep copy; the copy shares nothing mutable with g.
func (g *Game) Copy() *Game {
	return &Game{
		deck:    g.deck.Clone(),
		hand:    slices.Clone(g.hand),
		score:   g.score,
		order:   g.order,
		hero:    g.hero,
		session: g.session,
	}
}

func (g *Game) Deck() *deck.Deck {
	return g.deck
}

// Hand returns the positions in hand, in the order they arrived.
func (g *Game) Hand() []int {
	return slices.Clone(g.hand)
}

// HandCards returns the card values of the hand, in arrival order.
func (g *Game) HandCards() []card.Card {
	return g.deck.Positions(g.hand)
}

func (g *Game) Score() float64 {
	return g.score
}

func (g *Game) AddScore(s float64) {
	g.score += s
}

func (g *Game) PlayOrder() deck.PlayOrder {
	return g.order
}

// SetPlayOrder records the order and adds or removes the coin to match.
func (g *Game) SetPlayOrder(o deck.PlayOrder) {
	g.order = o
	g.deck.AdjustCoin(o)
}

func (g *Game) Hero() hero.Hero {
	return g.hero
}

func (g *Game) SetHero(h hero.Hero) {
	g.hero = h
}

func (g *Game) Session() config.Session {
	return g.session
}

func (g *Game) SetSession(s config.Session) {
	g.session = s
}

// Reset returns every card to the deck, drops the coin and empties the hand.
// The score is zeroed too; a new playout starts from nothing.
func (g *Game) Reset() {
	g.deck.Reset()
	g.hand = g.hand[:0]
	g.score = 0
}

// Clear empties the deck and forgets the play order. The hero and session
// settings survive.
func (g *Game) Clear() {
	g.deck.Clear()
	g.hand = nil
	g.score = 0
	g.order = deck.First
}

// SetStartHand builds the opening hand for a playout: the kept positions,
// random draws up to the starting hand size, and the coin when on the draw.
// Kept positions refer to the coin-free deck.
func (g *Game) SetStartHand(kept []int, rng deck.Rand) error {
	g.Reset()
	size := g.order.StartingHandSize()
	if len(kept) > size {
		return fmt.Errorf("%w: keeping %d cards, hand size is %d", ErrBadPosition, len(kept), size)
	}
	for i, pos := range kept {
		if pos < 0 || pos >= g.deck.Len() {
			return fmt.Errorf("%w: %d", ErrBadPosition, pos)
		}
		if slices.Contains(kept[:i], pos) {
			return fmt.Errorf("%w: %d kept twice", ErrBadPosition, pos)
		}
	}
	for _, pos := range kept {
		g.deck.MoveToHand(pos)
		g.hand = append(g.hand, pos)
	}
	for range size - len(kept) {
		g.DrawCard(rng)
	}
	if g.order == deck.Second {
		g.GiveCoin()
	}
	return nil
}

// PutInHand moves a position that is still in the deck into the hand.
func (g *Game) PutInHand(pos int) error {
	if pos < 0 || pos >= g.deck.Len() || g.deck.Location(pos) != deck.InDeck {
		return fmt.Errorf("%w: %d", ErrBadPosition, pos)
	}
	g.deck.MoveToHand(pos)
	g.hand = append(g.hand, pos)
	return nil
}

// GiveCoin puts a fresh coin straight into the hand.
func (g *Game) GiveCoin() {
	g.hand = append(g.hand, g.deck.AddCoinToHand())
}

// DrawCard draws a random deck card into the hand and returns its position.
func (g *Game) DrawCard(rng deck.Rand) int {
	pos := g.deck.DrawRandom(nil, rng)
	g.hand = append(g.hand, pos)
	return pos
}

// Commit moves a hand position to the committed pile.
func (g *Game) Commit(pos int) {
	idx := slices.Index(g.hand, pos)
	if idx < 0 {
		panic(fmt.Sprintf("game: committing position %d which is not in hand", pos))
	}
	g.hand = slices.Delete(g.hand, idx, idx+1)
	g.deck.SetLocation(pos, deck.Committed)
}

// LastDraw returns the most recently drawn card that is not the coin.
func (g *Game) LastDraw() (card.Card, bool) {
	for i := len(g.hand) - 1; i >= 0; i-- {
		c := g.deck.Card(g.hand[i])
		if !c.IsCoin() {
			return c, true
		}
	}
	return card.Card{}, false
}

// DrawsNeeded is the number of deck cards a playout keeping nKept cards
// may consume, the deepest lookahead draw included.
func (g *Game) DrawsNeeded(nKept int) int {
	return g.order.StartingHandSize() - nKept + g.session.MaxTurn + max(g.session.MaxSearchDepth-1, 0)
}

func (g *Game) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "hero: %s, going %s\n", g.hero, g.order)
	fmt.Fprintf(&sb, "deck: %d cards\n", g.deck.Len())
	fmt.Fprintf(&sb, "hand: %s\n", card.Display(g.HandCards()))
	fmt.Fprintf(&sb, "score: %.3f\n", g.score)
	return sb.String()
}
