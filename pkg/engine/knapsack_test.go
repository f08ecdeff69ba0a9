package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/genetic_solver/pkg/fitness"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
	"github.com/wildfunctions/genetic_solver/pkg/population"
)

var (
	knapsackValues   = []float64{100, 80, 35, 100, 80, 100, 10, 25}
	knapsackWeights  = []float64{8, 1, 6, 12, 3, 1, 1, 5}
	knapsackCapacity = 15.0
)

func knapsackTotals(g genotype.Genotype) (value, weight float64) {
	for i, pick := range g {
		value += pick * knapsackValues[i]
		weight += pick * knapsackWeights[i]
	}
	return value, weight
}

// knapsack scores a pick list by total value, or 0 when it is overweight.
func knapsack(g genotype.Genotype) float64 {
	value, weight := knapsackTotals(g)
	if weight > knapsackCapacity {
		return 0
	}
	return value
}

// bruteForceOptimum enumerates every subset of the items.
func bruteForceOptimum() float64 {
	n := len(knapsackValues)
	best := 0.0
	for mask := 0; mask < 1<<n; mask++ {
		value, weight := 0.0, 0.0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				value += knapsackValues[i]
				weight += knapsackWeights[i]
			}
		}
		if weight <= knapsackCapacity && value > best {
			best = value
		}
	}
	return best
}

func TestSolve_Knapsack(t *testing.T) {
	optimum := bruteForceOptimum()

	for _, sel := range []string{"roulette", "tournament"} {
		t.Run(sel, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Selection = sel
			cfg.Seed = 2024
			cfg.MaxGenerations = 0
			cfg.ExitCondition = func(generation int, _ population.Individual) bool {
				return generation >= 50
			}

			res, reports := solve(t, cfg, fitness.Plain(knapsack))

			require.Len(t, reports, 51)
			assert.Equal(t, 50, res.Generation)
			assert.Equal(t, optimum, res.Best.Fitness)
			_, weight := knapsackTotals(res.Best.Genotype)
			assert.LessOrEqual(t, weight, knapsackCapacity)
			for i := 1; i < len(reports); i++ {
				assert.GreaterOrEqual(t, reports[i].BestEverFitness, reports[i-1].BestEverFitness)
			}
			t.Logf("%s: best %.0f (%s), optimum %.0f", sel, res.Best.Fitness, res.Best.Genotype.Bits(), optimum)
		})
	}
}
