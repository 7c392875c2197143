package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean/variance over playout scores.
type Statistic struct {
	totalIterations int
	last            float64

	// For Welford's algorithm:
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	delta := val - s.mean
	s.mean += delta / float64(s.totalIterations)
	s.m2 += delta * (val - s.mean)
}

// Merge folds another statistic into this one (Chan et al.), so workers can
// keep private statistics and combine them once at the end.
func (s *Statistic) Merge(o *Statistic) {
	if o.totalIterations == 0 {
		return
	}
	if s.totalIterations == 0 {
		*s = *o
		return
	}
	n1, n2 := float64(s.totalIterations), float64(o.totalIterations)
	n := n1 + n2
	delta := o.mean - s.mean
	s.mean += delta * n2 / n
	s.m2 += o.m2 + delta*delta*n1*n2/n
	s.totalIterations += o.totalIterations
	s.last = o.last
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.mean
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}
