// Package stats analyzes the playouts collected during a simulation: what
// was played on a given turn, and how much mana went unused turn by turn.
package stats

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"

	"github.com/mullsim/mullsim/montecarlo"
)

var ErrNoPlayouts = errors.New("no playouts were collected; simulate a hand first")

type Heat struct {
	numHits       int
	fractionOfMax float64
}

// HeatMap has one row per turn and one column per unit of wasted mana.
type HeatMap struct {
	squares [][]Heat
}

type SimStats struct {
	result   *montecarlo.Result
	turnHist histogram.Histogram
}

func NewSimStats(r *montecarlo.Result) *SimStats {
	return &SimStats{result: r}
}

func (ss *SimStats) playouts() ([]montecarlo.LogIteration, error) {
	if ss.result == nil || len(ss.result.Playouts) == 0 {
		return nil, ErrNoPlayouts
	}
	return ss.result.Playouts, nil
}

type turnPlay struct {
	play      string
	count     int
	scoreSum  float64
	heroPower int
}

func sortedPlayList(m map[string]*turnPlay) []*turnPlay {
	l := make([]*turnPlay, 0, len(m))
	for _, v := range m {
		l = append(l, v)
	}
	sort.Slice(l, func(i, j int) bool {
		if l[i].count == l[j].count {
			return l[i].play < l[j].play
		}
		return l[i].count > l[j].count
	})
	return l
}

// CalculateTurnStats lists the plays made on a turn across all collected
// playouts, most frequent first.
func (ss *SimStats) CalculateTurnStats(turn int, maxToDisplay int) (string, error) {
	iters, err := ss.playouts()
	if err != nil {
		return "", err
	}
	log.Debug().Int("playouts", len(iters)).Int("turn", turn).Msg("calculating-turn-stats")

	plays := map[string]*turnPlay{}
	total := 0
	heroPowers := 0
	var scores []float64
	for i := range iters {
		if turn < 1 || turn > len(iters[i].Turns) {
			continue
		}
		t := iters[i].Turns[turn-1]
		tp, ok := plays[t.Play]
		if !ok {
			tp = &turnPlay{play: t.Play}
			plays[t.Play] = tp
		}
		tp.count++
		tp.scoreSum += t.Score
		if t.HeroPower {
			tp.heroPower++
			heroPowers++
		}
		total++
		scores = append(scores, t.Score)
	}
	if total == 0 {
		return "", fmt.Errorf("no playout reached turn %d", turn)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### Plays on turn %d\n", turn)
	fmt.Fprintf(&sb, "%-24s%-9s%-9s%-12s\n", "Play", "Score", "Count", "% of time")
	for i, tp := range sortedPlayList(plays) {
		if i >= maxToDisplay {
			break
		}
		fmt.Fprintf(&sb, "%-24s%-9.2f%-9d%-12.2f\n", tp.play,
			tp.scoreSum/float64(tp.count),
			tp.count,
			float64(tp.count*100)/float64(total))
	}
	fmt.Fprintf(&sb, "Hero power used: %.2f%%\n", float64(heroPowers*100)/float64(total))
	ss.turnHist = histogram.Hist(10, scores)
	return sb.String(), nil
}

// LastHistogram is the distribution of turn scores from the last
// CalculateTurnStats call.
func (ss *SimStats) LastHistogram() histogram.Histogram {
	return ss.turnHist
}

// CalculateWasteHeatmap counts, for every turn, how often each amount of
// mana went unspent.
func (ss *SimStats) CalculateWasteHeatmap() (*HeatMap, error) {
	iters, err := ss.playouts()
	if err != nil {
		return nil, err
	}
	turns, maxWaste := 0, 0
	for i := range iters {
		turns = max(turns, len(iters[i].Turns))
		for _, t := range iters[i].Turns {
			maxWaste = max(maxWaste, t.Waste)
		}
	}
	h := &HeatMap{squares: make([][]Heat, turns)}
	for ri := range h.squares {
		h.squares[ri] = make([]Heat, maxWaste+1)
	}
	maxNumHits := 0
	for i := range iters {
		for ti, t := range iters[i].Turns {
			if t.Waste < 0 {
				continue
			}
			h.squares[ti][t.Waste].numHits++
			maxNumHits = max(maxNumHits, h.squares[ti][t.Waste].numHits)
		}
	}
	if maxNumHits == 0 {
		return h, nil
	}
	for ri := range h.squares {
		for ci := range h.squares[ri] {
			h.squares[ri][ci].fractionOfMax = float64(h.squares[ri][ci].numHits) / float64(maxNumHits)
		}
	}
	return h, nil
}

// Hits returns how many playouts wasted the given mana on the given turn.
func (h *HeatMap) Hits(turn, waste int) int {
	if turn < 1 || turn > len(h.squares) || waste < 0 || waste >= len(h.squares[turn-1]) {
		return 0
	}
	return h.squares[turn-1][waste].numHits
}

// getHeatColor returns an ANSI escape sequence for a given heat level.
func getHeatColor(fraction float64) string {
	// grayscale 232 (black) to 255 (white) in the 256-color palette
	start := 232
	end := 255
	colorCode := int(float64(start) + fraction*float64(end-start))
	return fmt.Sprintf("\033[48;5;%dm", colorCode)
}

// Display renders the heatmap to the terminal.
func (h *HeatMap) Display(w io.Writer) {
	reset := "\033[0m"
	fmt.Fprint(w, "waste  ")
	if len(h.squares) > 0 {
		for ci := range h.squares[0] {
			fmt.Fprintf(w, "%5d", ci)
		}
	}
	fmt.Fprintln(w)
	for ri, row := range h.squares {
		fmt.Fprintf(w, "turn %2d", ri+1)
		for _, heat := range row {
			fmt.Fprintf(w, "%s%5d%s", getHeatColor(heat.fractionOfMax), heat.numHits, reset)
		}
		fmt.Fprintln(w)
	}
}
