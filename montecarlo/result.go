package montecarlo

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/stats"
)

// Result is the outcome of simulating one kept hand.
type Result struct {
	Kept        []card.Card
	Mean        float64
	Stdev       float64
	StdErr      float64
	Repetitions int
	// Scores holds every playout's total, in no particular order.
	Scores []float64
	// Playouts is only filled in when collecting playouts.
	Playouts []LogIteration
}

// CI returns the confidence interval of the mean at pct percent.
func (r *Result) CI(pct float64) (float64, float64) {
	return stats.Interval(r.Mean, r.StdErr, pct)
}

// Histogram draws the distribution of playout totals.
func (r *Result) Histogram(w io.Writer, bins int) error {
	if len(r.Scores) == 0 {
		_, err := fmt.Fprintln(w, "no playouts")
		return err
	}
	h := histogram.Hist(bins, r.Scores)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

func (r *Result) String() string {
	var sb strings.Builder
	lo, hi := r.CI(95)
	fmt.Fprintf(&sb, "%s: %.3f (stdev %.3f, 95%% CI %.3f-%.3f, %d playouts)",
		card.Display(r.Kept), r.Mean, r.Stdev, lo, hi, r.Repetitions)
	return sb.String()
}
