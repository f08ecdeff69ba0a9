package problem

import (
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
)

func init() {
	Register("onemax", func(length int) (Problem, error) {
		return Problem{
			Name: "onemax",
			Genotype: genotype.Config{
				Kind:          genotype.Bitstring,
				Length:        lengthOr(length, 32),
				Recombination: genotype.Crossover,
			},
			Fitness: func(g genotype.Genotype) (float64, error) {
				sum := 0.0
				for _, a := range g {
					sum += a
				}
				return sum, nil
			},
			Describe: genotype.Genotype.Bits,
		}, nil
	})

	// sphere is negated so the optimum at the origin has the highest fitness, 0.
	Register("sphere", func(length int) (Problem, error) {
		cs := make([]genotype.Constraint, lengthOr(length, 5))
		for i := range cs {
			cs[i] = genotype.Constraint{From: -5.12, To: 5.12}
		}
		return Problem{
			Name: "sphere",
			Genotype: genotype.Config{
				Kind:          genotype.RealVector,
				Constraints:   cs,
				Recombination: genotype.Intermediate,
				MutationScale: 0.1,
			},
			Fitness: func(g genotype.Genotype) (float64, error) {
				sum := 0.0
				for _, a := range g {
					sum += a * a
				}
				return -sum, nil
			},
			Describe: describeVector,
		}, nil
	})
}
