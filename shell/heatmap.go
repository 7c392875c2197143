package shell

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
)

const (
	defaultTurnPlays  = 15
	histogramBins     = 10
	histogramMaxWidth = 40
)

// turnStats lists what the best keep of the last solve played on a turn.
func (sc *ShellController) turnStats(cmd *shellcmd) (*Response, error) {
	if sc.lastStats == nil {
		return nil, errNoSolve
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: turnstats <turn> [-max n]")
	}
	turn, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	maxToDisplay := defaultTurnPlays
	if v, ok := cmd.options["max"]; ok {
		if maxToDisplay, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	table, err := sc.lastStats.CalculateTurnStats(turn, maxToDisplay)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(table)
	sb.WriteString("Turn score distribution:\n")
	if err := histogram.Fprint(&sb, sc.lastStats.LastHistogram(), histogram.Linear(histogramMaxWidth)); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

// heatmap shows how often each amount of mana went unspent per turn.
func (sc *ShellController) heatmap(cmd *shellcmd) (*Response, error) {
	if sc.lastStats == nil {
		return nil, errNoSolve
	}
	h, err := sc.lastStats.CalculateWasteHeatmap()
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("displaying-waste-heatmap")
	h.Display(sc.out)
	return nil, nil
}

func (sc *ShellController) histogram(cmd *shellcmd) (*Response, error) {
	if sc.lastReport == nil {
		return nil, errNoSolve
	}
	best := sc.lastReport.Best()
	var sb strings.Builder
	sb.WriteString("Playout totals for the best keep " + best.Pattern + ":\n")
	if err := best.Result.Histogram(&sb, histogramBins); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}
