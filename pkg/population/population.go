package population

import (
	"math/rand"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
	"github.com/wildfunctions/genetic_solver/pkg/fitness"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
)

// Individual is a genotype paired with its most recent fitness.
type Individual struct {
	Genotype  genotype.Genotype `json:"genotype"`
	Fitness   float64           `json:"fitness"`
	Evaluated bool              `json:"evaluated"`
}

// Clone returns a copy that shares no genotype storage.
func (ind Individual) Clone() Individual {
	return Individual{
		Genotype:  ind.Genotype.Clone(),
		Fitness:   ind.Fitness,
		Evaluated: ind.Evaluated,
	}
}

// Population is the ordered set of individuals of one generation.
type Population struct {
	Generation  int
	Individuals []Individual
}

// Random fills a population of size individuals from space.
func Random(space genotype.Space, rng *rand.Rand, size, generation int) *Population {
	inds := make([]Individual, size)
	for i := range inds {
		inds[i] = Individual{Genotype: space.Random(rng)}
	}
	return &Population{Generation: generation, Individuals: inds}
}

// New wraps offspring genotypes as unevaluated individuals.
func New(genotypes []genotype.Genotype, generation int) *Population {
	inds := make([]Individual, len(genotypes))
	for i, g := range genotypes {
		inds[i] = Individual{Genotype: g}
	}
	return &Population{Generation: generation, Individuals: inds}
}

// Size returns the number of individuals.
func (p *Population) Size() int { return len(p.Individuals) }

// Evaluate scores every individual on at most workers goroutines and waits for
// all of them. If any evaluation fails the population is left unevaluated and
// the failure of the lowest index is returned as an *errs.FitnessError.
func (p *Population) Evaluate(adapter *fitness.Adapter, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	n := len(p.Individuals)
	scores := make([]float64, n)
	failures := make([]error, n)

	wp := pool.New().WithMaxGoroutines(workers)
	for i := range p.Individuals {
		i := i
		g := p.Individuals[i].Genotype
		wp.Go(func() {
			scores[i], failures[i] = adapter.Evaluate(g)
		})
	}
	wp.Wait()

	for i, err := range failures {
		if err != nil {
			return &errs.FitnessError{Generation: p.Generation, Index: i, Err: err}
		}
	}
	for i := range p.Individuals {
		p.Individuals[i].Fitness = scores[i]
		p.Individuals[i].Evaluated = true
	}
	return nil
}

// Fitnesses returns the fitness of each individual in population order.
func (p *Population) Fitnesses() []float64 {
	out := make([]float64, len(p.Individuals))
	for i, ind := range p.Individuals {
		out[i] = ind.Fitness
	}
	return out
}

// Best returns the fittest individual and its index. Ties go to the earliest.
func (p *Population) Best() (Individual, int) {
	if len(p.Individuals) == 0 {
		return Individual{}, -1
	}
	bestIdx := 0
	for i, ind := range p.Individuals {
		if ind.Fitness > p.Individuals[bestIdx].Fitness {
			bestIdx = i
		}
	}
	return p.Individuals[bestIdx], bestIdx
}

// Stats summarises the fitness distribution of an evaluated population.
type Stats struct {
	Best   float64 `json:"best"`
	Worst  float64 `json:"worst"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Stats computes fitness statistics. An empty population yields zero Stats.
func (p *Population) Stats() Stats {
	fs := p.Fitnesses()
	if len(fs) == 0 {
		return Stats{}
	}
	s := Stats{Best: fs[0], Worst: fs[0]}
	for _, f := range fs[1:] {
		if f > s.Best {
			s.Best = f
		}
		if f < s.Worst {
			s.Worst = f
		}
	}
	s.Mean = stat.Mean(fs, nil)
	if len(fs) > 1 {
		s.StdDev = stat.StdDev(fs, nil)
	}
	return s
}
