// Package stats provides the online statistics used by the search driver
// and the backtester.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates a stream of observations with Welford's algorithm.
// The zero value is ready to use.
type Statistic struct {
	n    int
	last float64
	min  float64
	max  float64

	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.n)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
	if val < s.min {
		s.min = val
	}
	if val > s.max {
		s.max = val
	}
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.newS / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Last() float64 { return s.last }
func (s *Statistic) Min() float64  { return s.min }
func (s *Statistic) Max() float64  { return s.max }
func (s *Statistic) Count() int    { return s.n }
