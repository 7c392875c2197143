package turnplayer

import (
	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/playgen"
)

// Candidate is one play the evaluator tried at the top level.
type Candidate struct {
	Play      playgen.Play
	Immediate float64
	Future    float64
	HeroPower bool
}

func (c Candidate) Total() float64 {
	return c.Immediate + c.Future
}

// TurnReport describes a decided turn.
type TurnReport struct {
	Mana int
	// Hand is the hand before the play, in arrival order.
	Hand    []card.Card
	Draw    card.Card
	HasDraw bool

	Candidates []Candidate
	Best       playgen.Play
	// Score is the immediate score of Best; Total is the game score after
	// committing it.
	Score     float64
	Total     float64
	HeroPower bool
}

// Leftover is the hand after the play.
func (r TurnReport) Leftover() []card.Card {
	left := make([]card.Card, 0, len(r.Hand))
	used := make([]bool, len(r.Best))
outer:
	for _, c := range r.Hand {
		for i, b := range r.Best {
			if !used[i] && b == c {
				used[i] = true
				continue outer
			}
		}
		left = append(left, c)
	}
	return left
}
