package selection

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
)

func init() {
	Register("roulette", func(Options) Selector { return Roulette{} })
}

// Roulette is fitness-proportionate selection. Fitness must be non-negative.
// When every fitness is zero each individual is equally likely.
type Roulette struct{}

func (Roulette) Name() string { return "roulette" }

func (Roulette) Prepare(fitnesses []float64) (Picker, error) {
	if err := checkNotEmpty(fitnesses); err != nil {
		return nil, err
	}
	cumulative := make([]float64, len(fitnesses))
	total := 0.0
	last := -1
	for i, f := range fitnesses {
		if f < 0 {
			return nil, fmt.Errorf("%w: roulette selection needs non-negative fitness, individual %d has %g",
				errs.ErrInvalidFitnessDomain, i, f)
		}
		total += f
		cumulative[i] = total
		if f > 0 {
			last = i
		}
	}
	if total == 0 {
		return uniformPicker(len(fitnesses)), nil
	}
	return &roulettePicker{cumulative: cumulative, total: total, last: last}, nil
}

type roulettePicker struct {
	cumulative []float64
	total      float64
	last       int // highest index with positive fitness
}

func (p *roulettePicker) Pick(rng *rand.Rand) int {
	r := rng.Float64() * p.total
	// Strictly greater skips zero-width slots.
	i := sort.Search(len(p.cumulative), func(i int) bool { return p.cumulative[i] > r })
	if i >= len(p.cumulative) {
		return p.last
	}
	return i
}

type uniformPicker int

func (n uniformPicker) Pick(rng *rand.Rand) int { return rng.Intn(int(n)) }
