package turnplayer

import (
	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/game"
)

// TurnPlayer encapsulates all the functions needed to play a single turn
// of a simulated game.
type TurnPlayer interface {
	// PlayTurn picks the best play for the hand at the given mana, commits
	// it to the game and reports the decision.
	PlayTurn(g *game.Game, mana int) TurnReport
	// Preview scores a hypothetical hand without touching the game.
	Preview(g *game.Game, hand []card.Card, mana int) (TurnReport, error)
}
