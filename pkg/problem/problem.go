// Package problem holds the benchmark problems the command line can solve.
package problem

import (
	"fmt"
	"sort"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
	"github.com/wildfunctions/genetic_solver/pkg/fitness"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
)

// Problem pairs a genotype layout with the fitness function that scores it.
type Problem struct {
	Name     string
	Genotype genotype.Config
	Fitness  fitness.Func
	// Describe renders a genotype in problem terms, e.g. the picked items.
	Describe func(g genotype.Genotype) string
}

// Constructor builds a problem. length 0 selects the problem's default size.
type Constructor func(length int) (Problem, error)

var registry = map[string]Constructor{}

// Register adds a problem constructor to the registry.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get builds the named problem.
func Get(name string, length int) (Problem, error) {
	ctor, ok := registry[name]
	if !ok {
		return Problem{}, errs.Invalid("unknown problem %q", name)
	}
	if length < 0 {
		return Problem{}, errs.Invalid("problem length must not be negative, got %d", length)
	}
	return ctor(length)
}

// Names returns all registered problem names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func lengthOr(length, def int) int {
	if length == 0 {
		return def
	}
	return length
}

func describeVector(g genotype.Genotype) string {
	return fmt.Sprintf("%.6g", []float64(g))
}
