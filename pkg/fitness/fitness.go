// Package fitness adapts user fitness functions for the solver.
//
// Fitness is maximised: a higher value is a better genotype. Functions are
// assumed to be pure but may be expensive or stochastic, so results are never
// cached.
package fitness

import (
	"errors"
	"fmt"
	"math"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
)

// Func scores a genotype. Higher is better.
type Func func(g genotype.Genotype) (float64, error)

// Plain lifts an infallible scoring function into a Func.
func Plain(fn func(g genotype.Genotype) float64) Func {
	return func(g genotype.Genotype) (float64, error) {
		return fn(g), nil
	}
}

// Adapter gives the solver a uniform, fail-fast view of a Func.
type Adapter struct {
	fn Func
}

// NewAdapter wraps fn. A nil fn is a configuration error.
func NewAdapter(fn Func) (*Adapter, error) {
	if fn == nil {
		return nil, errs.Invalid("fitness function is required")
	}
	return &Adapter{fn: fn}, nil
}

// Evaluate scores g. The user function receives a private copy of g. Returned
// errors, panics and non-finite scores all come back wrapped in
// errs.ErrFitnessEvaluation.
func (a *Adapter) Evaluate(g genotype.Genotype) (f float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = 0
			err = fmt.Errorf("%w: panic: %v", errs.ErrFitnessEvaluation, r)
		}
	}()

	f, err = a.fn(g.Clone())
	if err != nil {
		if errors.Is(err, errs.ErrFitnessEvaluation) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", errs.ErrFitnessEvaluation, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite fitness %v", errs.ErrFitnessEvaluation, f)
	}
	return f, nil
}
