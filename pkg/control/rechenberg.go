// Package control adapts solver parameters while a run is in progress.
package control

import "math"

const (
	// DefaultFactor is Rechenberg's classic adjustment constant.
	DefaultFactor  = 0.817
	// DefaultWindow is the number of generations between adjustments.
	DefaultWindow  = 10
	successTarget  = 0.2
	minProbability = 1e-3
)

// Rechenberg applies the 1/5 success rule to a mutation probability. A
// generation is a success when it improved the best-ever fitness. After every
// Window generations the probability shrinks if fewer than one in five
// generations succeeded and grows if more did.
//
// A Rechenberg value belongs to a single run and is not safe for concurrent use.
type Rechenberg struct {
	Window int
	Factor float64
	Min    float64
	Max    float64

	p         float64
	seen      int
	successes int
}

// NewRechenberg starts a controller at probability p, bounded by [min, max].
// Zero window or factor select the defaults.
func NewRechenberg(p, min, max float64, window int, factor float64) *Rechenberg {
	if window <= 0 {
		window = DefaultWindow
	}
	if factor <= 0 || factor >= 1 {
		factor = DefaultFactor
	}
	if min <= 0 {
		min = minProbability
	}
	if max <= 0 || max > 1 {
		max = 1
	}
	if min > max {
		min = max
	}
	r := &Rechenberg{Window: window, Factor: factor, Min: min, Max: max}
	r.p = r.clamp(p)
	return r
}

// Probability returns the current mutation probability.
func (r *Rechenberg) Probability() float64 { return r.p }

// Observe records one generation's outcome and returns the probability to
// use for the next reproduction.
func (r *Rechenberg) Observe(improved bool) float64 {
	r.seen++
	if improved {
		r.successes++
	}
	if r.seen < r.Window {
		return r.p
	}

	ratio := float64(r.successes) / float64(r.seen)
	switch {
	case ratio > successTarget:
		r.p = r.clamp(r.p / r.Factor)
	case ratio < successTarget:
		r.p = r.clamp(r.p * r.Factor)
	}
	r.seen, r.successes = 0, 0
	return r.p
}

func (r *Rechenberg) clamp(p float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, p))
}
