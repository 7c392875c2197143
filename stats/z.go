package stats

import "gonum.org/v1/gonum/stat/distuv"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZVal returns the two-tailed z-value for a confidence level given in
// percent (95 for a 95% interval).
func ZVal(pct float64) float64 {
	return stdNormal.Quantile((1 + pct/100) / 2)
}

// Interval is the two-tailed confidence interval at pct percent around a
// mean with the given standard error.
func Interval(mean, stdErr, pct float64) (lo, hi float64) {
	z := ZVal(pct)
	return mean - z*stdErr, mean + z*stdErr
}
