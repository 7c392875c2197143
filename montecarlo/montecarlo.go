// Package montecarlo estimates what an opening hand is worth by playing it
// out many times with random draws and averaging the scores.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/game"
	"github.com/mullsim/mullsim/playgen"
	"github.com/mullsim/mullsim/stats"
	"github.com/mullsim/mullsim/turnplayer"
)

/*
	How to simulate a kept hand:

	For each repetition:
		put every card back, take the kept cards into hand
		draw up to the starting hand size; add the coin if on the draw
		for turn in 1..maxturn:
			draw a card
			play the best play at mana = turn, looking ahead a few turns
		record the total score

	Repetitions are split between worker threads. Every worker plays on its
	own copy of the game with its own random source, and merges its
	statistics into the shared result once, when it is done.
*/

// MaxCollectedPlayouts caps how many playouts are kept in memory for
// later analysis.
const MaxCollectedPlayouts = 7500

var (
	ErrDeckTooSmall = errors.New("deck too small for the simulation")
	ErrBadPosition  = game.ErrBadPosition
)

// LogIteration is a struct meant for serializing to a log-file, for debug
// and other purposes.
type LogIteration struct {
	Iteration int       `json:"iteration" yaml:"iteration"`
	Thread    int       `json:"thread" yaml:"thread"`
	Opening   string    `json:"opening" yaml:"opening"`
	Turns     []LogTurn `json:"turns" yaml:"turns"`
	Score     float64   `json:"score" yaml:"score"`
}

// LogTurn is a single turn of a playout.
type LogTurn struct {
	Turn      int     `json:"turn" yaml:"turn"`
	Draw      string  `json:"draw" yaml:"draw"`
	Hand      string  `json:"hand" yaml:"hand"`
	Play      string  `json:"play" yaml:"play"`
	Waste     int     `json:"waste" yaml:"waste"`
	Score     float64 `json:"score" yaml:"score"`
	HeroPower bool    `json:"hero_power,omitempty" yaml:"hero_power,omitempty"`
}

// RandSource builds the random source for a worker thread.
type RandSource func(thread int) deck.Rand

func defaultRandSource(int) deck.Rand {
	return frand.New()
}

type Simmer struct {
	game          *game.Game
	threads       int
	cacheFraction float64
	randSource    RandSource

	logStream       io.Writer
	collectPlayouts bool

	iterationCount atomic.Uint64
	simming        atomic.Bool
}

// NewSimmer simulates on copies of g; g itself is only read.
func NewSimmer(g *game.Game, cfg *config.Config) *Simmer {
	s := &Simmer{
		game:       g,
		threads:    config.DefaultThreads,
		randSource: defaultRandSource,
	}
	if cfg != nil {
		s.threads = cfg.Threads()
		s.cacheFraction = cfg.GetFloat64(config.ConfigCacheFraction)
	}
	return s
}

func (s *Simmer) SetThreads(threads int) {
	s.threads = max(threads, 1)
}

func (s *Simmer) Threads() int {
	return s.threads
}

// SetRandSource replaces the per-thread random sources, so runs can be
// reproduced.
func (s *Simmer) SetRandSource(r RandSource) {
	s.randSource = r
}

// SetLogStream writes every playout as a YAML document to l. Pass nil to
// turn logging off.
func (s *Simmer) SetLogStream(l io.Writer) {
	s.logStream = l
}

// SetCollectPlayouts keeps playouts in the Result for later analysis.
func (s *Simmer) SetCollectPlayouts(b bool) {
	s.collectPlayouts = b
}

func (s *Simmer) IsSimming() bool {
	return s.simming.Load()
}

// Iterations is the number of playouts started since the Simmer was made.
func (s *Simmer) Iterations() int {
	return int(s.iterationCount.Load())
}

func (s *Simmer) validate(kept []int) error {
	return Validate(s.game, kept)
}

// Validate checks the kept positions against the coin-free deck of g and
// makes sure the deck can supply every draw of a playout. g is not modified.
func Validate(g *game.Game, kept []int) error {
	probe := g.Copy()
	probe.Reset()
	size := probe.PlayOrder().StartingHandSize()
	if len(kept) > size {
		return fmt.Errorf("%w: keeping %d cards, hand size is %d", ErrBadPosition, len(kept), size)
	}
	for i, pos := range kept {
		if pos < 0 || pos >= probe.Deck().Len() || slices.Contains(kept[:i], pos) {
			return fmt.Errorf("%w: %d", ErrBadPosition, pos)
		}
	}
	avail := probe.Deck().Len() - len(kept)
	if need := probe.DrawsNeeded(len(kept)); avail < need {
		return fmt.Errorf("%w: %d cards left after the kept hand, %d needed", ErrDeckTooSmall, avail, need)
	}
	return nil
}

// split divides reps between at most threads workers, the remainder going
// to the first workers.
func split(reps, threads int) []int {
	threads = max(min(threads, reps), 1)
	counts := make([]int, threads)
	for t := range counts {
		counts[t] = reps / threads
		if t < reps%threads {
			counts[t]++
		}
	}
	return counts
}

// Simulate plays the kept hand out CycleReps times and returns the
// statistics of the total scores. It blocks until every worker is done.
// If ctx is canceled, no partial result is returned.
func (s *Simmer) Simulate(ctx context.Context, kept []int) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	if err := s.validate(kept); err != nil {
		return nil, err
	}
	reps := s.game.Session().CycleReps
	if reps < 1 {
		return nil, fmt.Errorf("%w: cycle_reps must be positive", config.ErrBadSession)
	}

	s.simming.Store(true)
	defer s.simming.Store(false)

	counts := split(reps, s.threads)
	logger.Debug().Int("threads", len(counts)).Int("reps", reps).Ints("kept", kept).Msg("sim-starting")

	var (
		mu       sync.Mutex
		total    stats.Statistic
		scores   = make([]float64, 0, reps)
		playouts []LogIteration
	)

	logChan := make(chan []byte)
	writer := errgroup.Group{}
	if s.logStream != nil {
		writer.Go(func() error {
			defer func() {
				logger.Debug().Msg("writer-routine-exiting")
			}()
			for b := range logChan {
				if _, err := s.logStream.Write(b); err != nil {
					logger.Err(err).Msg("writing-sim-log")
				}
			}
			return nil
		})
	}

	tstart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for t, n := range counts {
		g.Go(func() error {
			gc := s.game.Copy()
			rng := s.randSource(t)
			player := turnplayer.NewPlayer(playgen.NewGenerator(s.cacheFraction, len(counts)), rng)

			var local stats.Statistic
			localScores := make([]float64, 0, n)
			var localPlayouts []LogIteration
			for range n {
				if err := gctx.Err(); err != nil {
					return err
				}
				iter := s.iterationCount.Add(1) - 1
				var logIter *LogIteration
				if s.logStream != nil || s.collectPlayouts {
					logIter = &LogIteration{Iteration: int(iter), Thread: t}
				}
				score, err := playout(gc, player, rng, kept, logIter)
				if err != nil {
					return err
				}
				local.Push(score)
				localScores = append(localScores, score)
				if logIter == nil {
					continue
				}
				if s.collectPlayouts && len(localPlayouts) < MaxCollectedPlayouts/len(counts)+1 {
					localPlayouts = append(localPlayouts, *logIter)
				}
				if s.logStream != nil {
					out, err := yaml.Marshal([]LogIteration{*logIter})
					if err != nil {
						logger.Error().Err(err).Msg("marshalling log")
						return err
					}
					select {
					case logChan <- out:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
			lookups, hits := player.Generator().Stats()
			logger.Debug().Int("thread", t).Uint64("lookups", lookups).Uint64("hits", hits).Msg("playgen-cache")

			mu.Lock()
			defer mu.Unlock()
			total.Merge(&local)
			scores = append(scores, localScores...)
			playouts = append(playouts, localPlayouts...)
			return nil
		})
	}

	err := g.Wait()
	close(logChan)
	writer.Wait()
	if err != nil {
		logger.Debug().Err(err).Msg("sim-aborted")
		return nil, err
	}
	logger.Info().Int("reps", reps).Float64("mean", total.Mean()).
		Dur("elapsed", time.Since(tstart)).Msg("sim-ended")

	return &Result{
		Kept:        s.game.Deck().Positions(kept),
		Mean:        total.Mean(),
		Stdev:       total.Stdev(),
		StdErr:      total.StandardError(),
		Repetitions: total.Iterations(),
		Scores:      scores,
		Playouts:    trimPlayouts(playouts),
	}, nil
}

func trimPlayouts(p []LogIteration) []LogIteration {
	if len(p) <= MaxCollectedPlayouts {
		return p
	}
	return p[:MaxCollectedPlayouts]
}

// playout plays one full game from the kept hand and returns its score.
func playout(g *game.Game, p *turnplayer.Player, rng deck.Rand, kept []int, logIter *LogIteration) (float64, error) {
	if err := g.SetStartHand(kept, rng); err != nil {
		return 0, err
	}
	if logIter != nil {
		logIter.Opening = card.Display(g.HandCards())
	}
	for turn := 1; turn <= g.Session().MaxTurn; turn++ {
		g.DrawCard(rng)
		r := p.PlayTurn(g, turn)
		if logIter != nil {
			logIter.Turns = append(logIter.Turns, LogTurn{
				Turn:      turn,
				Draw:      r.Draw.String(),
				Hand:      card.Display(r.Hand),
				Play:      r.Best.String(),
				Waste:     r.Best.Waste(turn),
				Score:     r.Score,
				HeroPower: r.HeroPower,
			})
		}
	}
	if logIter != nil {
		logIter.Score = g.Score()
	}
	return g.Score(), nil
}

// SimSingleThread runs a simulation with a single worker. Handy for
// profiling.
func (s *Simmer) SimSingleThread(ctx context.Context, kept []int) (*Result, error) {
	threads := s.threads
	s.threads = 1
	defer func() { s.threads = threads }()
	log.Debug().Msg("simming-single-thread")
	return s.Simulate(ctx, kept)
}
