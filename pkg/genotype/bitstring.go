package genotype

import (
	"math/rand"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
)

type bitstringSpace struct {
	length int
	points int
}

func newBitstringSpace(cfg Config) (*bitstringSpace, error) {
	if cfg.Length <= 0 {
		return nil, errs.Invalid("bitstring length must be positive, got %d", cfg.Length)
	}
	if cfg.Constraints != nil {
		if len(cfg.Constraints) != cfg.Length {
			return nil, errs.Invalid("bitstring has %d constraints for length %d", len(cfg.Constraints), cfg.Length)
		}
		for i, c := range cfg.Constraints {
			if c.From != 0 || c.To != 1 {
				return nil, errs.Invalid("bitstring constraint %d must be [0,1], got [%g,%g]", i, c.From, c.To)
			}
		}
	}
	switch cfg.Recombination {
	case "", Crossover:
	case Intermediate:
		return nil, errs.Invalid("intermediate recombination needs a real_vector genotype")
	default:
		return nil, errs.Invalid("unknown recombination %q", cfg.Recombination)
	}
	return &bitstringSpace{length: cfg.Length, points: cfg.CrossoverPoints}, nil
}

func (s *bitstringSpace) Kind() Kind { return Bitstring }
func (s *bitstringSpace) Len() int   { return s.length }

func (s *bitstringSpace) Random(rng *rand.Rand) Genotype {
	g := make(Genotype, s.length)
	for i := range g {
		g[i] = float64(rng.Intn(2))
	}
	return g
}

// Mutate flips each bit independently with probability p.
func (s *bitstringSpace) Mutate(rng *rand.Rand, g Genotype, p float64) Genotype {
	out := g.Clone()
	if p <= 0 {
		return out
	}
	for i := range out {
		if rng.Float64() < p {
			out[i] = 1 - out[i]
		}
	}
	return out
}

func (s *bitstringSpace) Recombine(rng *rand.Rand, a, b Genotype) (Genotype, error) {
	if err := checkLengths(s.length, a, b); err != nil {
		return nil, err
	}
	return crossover(rng, a, b, s.points), nil
}
