package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
)

const defaultSimLog = "/tmp/mullsim-simlog.yaml"

// startTicker logs simulation progress every ten seconds until the returned
// function is called.
func (sc *ShellController) startTicker() func() {
	sc.simTicker = time.NewTicker(10 * time.Second)
	sc.simTickerDone = make(chan bool)
	ticker, done := sc.simTicker, sc.simTickerDone
	go func() {
		for {
			select {
			case <-done:
				log.Debug().Msg("ticker thread exiting...")
				return
			case <-ticker.C:
				log.Info().Msgf("Simmer is at %v iterations...", sc.simmer.Iterations())
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

func (sc *ShellController) simLogPath(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	if p := sc.config.GetString(config.ConfigSimLog); p != "" {
		return p
	}
	return defaultSimLog
}

func (sc *ShellController) closeSimLog() error {
	sc.simmer.SetLogStream(nil)
	if sc.simLogFile == nil {
		return nil
	}
	err := sc.simLogFile.Close()
	sc.simLogFile = nil
	return err
}

// sim controls the simulator between solves: playout logging, the worker
// count, and the last solve's summary.
func (sc *ShellController) sim(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return sc.simShow()
	}
	switch cmd.args[0] {
	case "log":
		if sc.simmer.IsSimming() {
			return nil, errors.New("please wait for the sim to end before making any log changes")
		}
		if err := sc.closeSimLog(); err != nil {
			return nil, err
		}
		path := sc.simLogPath(cmd.args)
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		sc.simLogFile = f
		sc.simmer.SetLogStream(f)
		return msg("sim will log to " + path), nil
	case "nolog":
		if err := sc.closeSimLog(); err != nil {
			return nil, err
		}
		return msg("sim logging is off"), nil
	case "threads":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: sim threads <n>")
		}
		threads, err := strconv.Atoi(cmd.args[1])
		if err != nil {
			return nil, err
		}
		sc.simmer.SetThreads(threads)
		return msg(fmt.Sprintf("sim will use %d threads", sc.simmer.Threads())), nil
	case "show":
		return sc.simShow()
	case "single":
		return sc.simSingle()
	default:
		return nil, fmt.Errorf("do not understand sim argument %v", cmd.args[0])
	}
}

// simSingle re-simulates the best keep of the last solve with a single
// worker.
func (sc *ShellController) simSingle() (*Response, error) {
	if sc.lastReport == nil {
		return nil, errNoSolve
	}
	if sc.game.PlayOrder() != sc.lastReport.Order {
		return nil, fmt.Errorf("the last solve was going %s", sc.lastReport.Order)
	}
	best := sc.lastReport.Best()
	kept, err := sc.game.Deck().ValuesToPositions(best.Kept, deck.InDeck, nil)
	if err != nil {
		return nil, err
	}
	defer sc.startTicker()()
	res, err := sc.simmer.SimSingleThread(sc.ctx, kept)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s on one thread: %s", best.Pattern, res)), nil
}

func (sc *ShellController) simShow() (*Response, error) {
	if sc.lastReport == nil {
		return nil, errNoSolve
	}
	return msg(sc.lastReport.String()), nil
}
