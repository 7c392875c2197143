package mulligan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/montecarlo"
	"github.com/mullsim/mullsim/playgen"
	"github.com/mullsim/mullsim/turnplayer"
)

// DemoReport is a complete random game: the opening hand, the mulligan
// decision, and every turn played.
type DemoReport struct {
	Order    deck.PlayOrder
	Opening  []card.Card
	Mulligan *Report
	// Kept is the hand after the mulligan, coin included.
	Kept  []card.Card
	Turns []turnplayer.TurnReport
	Score float64
}

// Demo flips for the play order, deals an opening hand, solves the
// mulligan, keeps the best pattern and plays the game out.
func (s *Solver) Demo(ctx context.Context, rng deck.Rand) (*DemoReport, error) {
	logger := zerolog.Ctx(ctx)
	order := deck.RandomPlayOrder(rng)
	s.game.SetPlayOrder(order)
	// deal from the coin-free deck; the coin joins the hand once the
	// mulligan is done.
	s.game.Reset()
	if need := s.game.DrawsNeeded(0); s.game.Deck().Len() < need {
		return nil, fmt.Errorf("%w: %d cards, %d needed", montecarlo.ErrDeckTooSmall, s.game.Deck().Len(), need)
	}
	for range order.StartingHandSize() {
		s.game.DrawCard(rng)
	}
	opening := s.game.Hand()
	report := &DemoReport{Order: order, Opening: s.game.HandCards()}
	logger.Info().Str("order", order.String()).Str("opening", card.Display(report.Opening)).Msg("demo-dealt")

	mull, err := s.Solve(ctx, opening)
	if err != nil {
		return nil, err
	}
	report.Mulligan = mull

	if err := s.game.SetStartHand(mull.Best().Positions, rng); err != nil {
		return nil, err
	}
	report.Kept = s.game.HandCards()

	player := turnplayer.NewPlayer(playgen.NewGenerator(0, 1), rng)
	for turn := 1; turn <= s.game.Session().MaxTurn; turn++ {
		s.game.DrawCard(rng)
		report.Turns = append(report.Turns, player.PlayTurn(s.game, turn))
	}
	report.Score = s.game.Score()
	logger.Info().Float64("score", report.Score).Msg("demo-finished")
	s.resetDeck()
	return report, nil
}
