package turnplayer

import (
	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/playgen"
)

// DefaultLookaheadSamples is how many random draws the lookahead averages
// over per candidate play.
const DefaultLookaheadSamples = 10

type PlayerOptions struct {
	LookaheadSamples int
	// CacheFraction is the share of system memory the play cache may use.
	CacheFraction float64
	// Workers is the number of players sharing that memory.
	Workers int
}

func (opts *PlayerOptions) SetDefaults(cfg *config.Config) {
	if opts.LookaheadSamples <= 0 {
		opts.LookaheadSamples = DefaultLookaheadSamples
	}
	if opts.CacheFraction <= 0 && cfg != nil {
		opts.CacheFraction = cfg.GetFloat64(config.ConfigCacheFraction)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
		if cfg != nil {
			opts.Workers = cfg.Threads()
		}
	}
}

// NewPlayerFromOptions builds a player with its own play cache.
func NewPlayerFromOptions(opts *PlayerOptions, rng deck.Rand) *Player {
	opts.SetDefaults(nil)
	gen := playgen.NewGenerator(opts.CacheFraction, opts.Workers)
	p := NewPlayer(gen, rng)
	p.samples = opts.LookaheadSamples
	return p
}
