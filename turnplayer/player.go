// Package turnplayer decides what to play on a turn. Every candidate play is
// scored for the mana it uses this turn, then, while lookahead depth
// remains, by the average of the best follow-up over a handful of random
// draws.
package turnplayer

import (
	"errors"
	"fmt"
	"math"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/game"
	"github.com/mullsim/mullsim/playgen"
)

// BaseTurnScore is what a turn that spends all of its mana is worth before
// bonuses. Every unspent mana costs a point.
const BaseTurnScore = 10.0

var ErrNotEnoughCards = errors.New("not enough cards left in the deck")

var _ TurnPlayer = (*Player)(nil)

// Player is not safe for concurrent use: it owns a play cache and a random
// source.
type Player struct {
	gen     *playgen.Generator
	rng     deck.Rand
	samples int
}

func NewPlayer(gen *playgen.Generator, rng deck.Rand) *Player {
	return &Player{gen: gen, rng: rng, samples: DefaultLookaheadSamples}
}

// Generator exposes the play cache, mostly for its stats.
func (p *Player) Generator() *playgen.Generator {
	return p.gen
}

// Immediate is the score a play earns on the turn it is made.
func (p *Player) Immediate(g *game.Game, play playgen.Play, mana int) (float64, bool) {
	waste := play.Waste(mana)
	score := BaseTurnScore - float64(waste)
	h := g.Hero()
	usesPower := h.UsesPower(waste, mana)
	if usesPower {
		score += h.PowerValue()
	}
	bonus := float64(g.Session().PlayCardBonus)
	for _, c := range play {
		score += c.Power.Bonus() + bonus
	}
	return score, usesPower
}

// Evaluate returns the best play for the hand described by view, and its
// total score (this turn plus the expected future). Neither the game nor the
// view is modified.
func (p *Player) Evaluate(g *game.Game, view deck.View, mana, depth int) (playgen.Play, float64) {
	return p.search(g, view, mana, depth, nil)
}

func (p *Player) search(g *game.Game, view deck.View, mana, depth int, cands *[]Candidate) (playgen.Play, float64) {
	d := g.Deck()
	plays := p.gen.Plays(d.Hand(view), mana)

	var best playgen.Play
	bestScore := math.Inf(-1)
	for _, play := range plays {
		now, usesPower := p.Immediate(g, play, mana)
		var future float64
		if depth > 1 && p.samples > 0 {
			after := view.Clone()
			commitToView(d, after, play)
			var sum float64
			for range p.samples {
				sample := after.Clone()
				d.DrawRandom(sample, p.rng)
				_, s := p.search(g, sample, mana+1, depth-1, nil)
				sum += s
			}
			future = sum / float64(p.samples)
		}
		if cands != nil {
			*cands = append(*cands, Candidate{
				Play:      play,
				Immediate: now,
				Future:    future,
				HeroPower: usesPower,
			})
		}
		if total := now + future; total > bestScore {
			best, bestScore = play, total
		}
	}
	return best, bestScore
}

func commitToView(d *deck.Deck, view deck.View, play playgen.Play) {
	for _, c := range play {
		pos, ok := d.Locate(c, deck.InHand, view)
		if !ok {
			panic(fmt.Sprintf("turnplayer: %v is not in hand", c))
		}
		view[pos] = deck.Committed
	}
}

// PlayTurn evaluates the real hand at the session's search depth, commits
// the best play and adds its immediate score to the game.
func (p *Player) PlayTurn(g *game.Game, mana int) TurnReport {
	report := TurnReport{
		Mana: mana,
		Hand: g.HandCards(),
	}
	report.Draw, report.HasDraw = g.LastDraw()

	best, _ := p.search(g, g.Deck().View(), mana, g.Session().MaxSearchDepth, &report.Candidates)
	now, usesPower := p.Immediate(g, best, mana)
	for _, c := range best {
		pos, ok := g.Deck().Locate(c, deck.InHand, nil)
		if !ok {
			panic(fmt.Sprintf("turnplayer: %v is not in hand", c))
		}
		g.Commit(pos)
	}
	g.AddScore(now)

	report.Best = best
	report.Score = now
	report.HeroPower = usesPower
	report.Total = g.Score()
	return report
}

// Preview shows how a hypothetical hand would be played at the given mana.
// The hand's cards are taken from the deck; the game itself is untouched.
func (p *Player) Preview(g *game.Game, hand []card.Card, mana int) (TurnReport, error) {
	c := g.Copy()
	c.Reset()
	coins := 0
	for _, hc := range hand {
		if hc.IsCoin() {
			coins++
			continue
		}
		pos, ok := c.Deck().Locate(hc, deck.InDeck, nil)
		if !ok {
			return TurnReport{}, fmt.Errorf("%w: %v", deck.ErrCardNotFound, hc)
		}
		if err := c.PutInHand(pos); err != nil {
			return TurnReport{}, err
		}
	}
	for range coins {
		c.GiveCoin()
	}
	if need := c.Session().MaxSearchDepth - 1; c.Deck().CountIn(deck.InDeck, nil) < need {
		return TurnReport{}, fmt.Errorf("%w: lookahead needs %d more cards", ErrNotEnoughCards, need)
	}
	return p.PlayTurn(c, mana), nil
}
