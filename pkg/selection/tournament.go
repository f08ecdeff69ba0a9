package selection

import "math/rand"

const defaultTournamentSize = 3

func init() {
	Register("tournament", func(opts Options) Selector {
		return Tournament{Size: opts.TournamentSize}
	})
}

// Tournament samples Size individuals uniformly with replacement and keeps the
// fittest. Equal fitness goes to the lower population index.
type Tournament struct {
	Size int
}

func (Tournament) Name() string { return "tournament" }

func (t Tournament) Prepare(fitnesses []float64) (Picker, error) {
	if err := checkNotEmpty(fitnesses); err != nil {
		return nil, err
	}
	size := t.Size
	if size <= 0 {
		size = defaultTournamentSize
	}
	if size > len(fitnesses) {
		size = len(fitnesses)
	}
	fs := make([]float64, len(fitnesses))
	copy(fs, fitnesses)
	return &tournamentPicker{fitnesses: fs, size: size}, nil
}

type tournamentPicker struct {
	fitnesses []float64
	size      int
}

func (p *tournamentPicker) Pick(rng *rand.Rand) int {
	n := len(p.fitnesses)
	best := rng.Intn(n)
	for i := 1; i < p.size; i++ {
		idx := rng.Intn(n)
		if p.fitnesses[idx] > p.fitnesses[best] ||
			(p.fitnesses[idx] == p.fitnesses[best] && idx < best) {
			best = idx
		}
	}
	return best
}
