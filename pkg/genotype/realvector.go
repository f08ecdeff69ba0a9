package genotype

import (
	"math"
	"math/rand"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
)

type realVectorSpace struct {
	constraints   []Constraint
	recombination Recombination
	points        int
	scale         float64
}

func newRealVectorSpace(cfg Config) (*realVectorSpace, error) {
	if len(cfg.Constraints) == 0 {
		return nil, errs.Invalid("real_vector genotype needs one constraint per allele")
	}
	if cfg.Length == 0 {
		cfg.Length = len(cfg.Constraints)
	}
	if cfg.Length != len(cfg.Constraints) {
		return nil, errs.Invalid("real_vector has %d constraints for length %d", len(cfg.Constraints), cfg.Length)
	}
	for i, c := range cfg.Constraints {
		if math.IsNaN(c.From) || math.IsInf(c.From, 0) || math.IsNaN(c.To) || math.IsInf(c.To, 0) {
			return nil, errs.Invalid("constraint %d must be finite, got [%g,%g]", i, c.From, c.To)
		}
		if c.From > c.To {
			return nil, errs.Invalid("constraint %d is empty: from %g > to %g", i, c.From, c.To)
		}
	}
	if cfg.MutationScale < 0 || cfg.MutationScale > 1 || math.IsNaN(cfg.MutationScale) {
		return nil, errs.Invalid("mutation scale must be in [0,1], got %g", cfg.MutationScale)
	}

	rec := cfg.Recombination
	switch rec {
	case "":
		rec = Intermediate
	case Intermediate, Crossover:
	default:
		return nil, errs.Invalid("unknown recombination %q", cfg.Recombination)
	}

	constraints := make([]Constraint, len(cfg.Constraints))
	copy(constraints, cfg.Constraints)
	return &realVectorSpace{
		constraints:   constraints,
		recombination: rec,
		points:        cfg.CrossoverPoints,
		scale:         cfg.MutationScale,
	}, nil
}

func (s *realVectorSpace) Kind() Kind { return RealVector }
func (s *realVectorSpace) Len() int   { return len(s.constraints) }

func (s *realVectorSpace) Random(rng *rand.Rand) Genotype {
	g := make(Genotype, len(s.constraints))
	for i, c := range s.constraints {
		g[i] = c.From + rng.Float64()*(c.To-c.From)
	}
	return g
}

// Mutate perturbs each allele with probability p. With a zero scale the allele
// is resampled uniformly; otherwise Gaussian noise proportional to the range
// is added. Results stay inside the allele's constraint.
func (s *realVectorSpace) Mutate(rng *rand.Rand, g Genotype, p float64) Genotype {
	out := g.Clone()
	if p <= 0 {
		return out
	}
	for i := range out {
		if rng.Float64() >= p {
			continue
		}
		c := s.constraints[i]
		if s.scale == 0 {
			out[i] = c.From + rng.Float64()*(c.To-c.From)
		} else {
			out[i] = c.clamp(out[i] + rng.NormFloat64()*s.scale*(c.To-c.From))
		}
	}
	return out
}

func (s *realVectorSpace) Recombine(rng *rand.Rand, a, b Genotype) (Genotype, error) {
	if err := checkLengths(len(s.constraints), a, b); err != nil {
		return nil, err
	}
	if s.recombination == Crossover {
		return crossover(rng, a, b, s.points), nil
	}

	// Intermediate: random interpolation per allele. a + t*(b-a) keeps a == b exact.
	child := make(Genotype, len(a))
	for i := range a {
		t := rng.Float64()
		child[i] = s.constraints[i].clamp(a[i] + t*(b[i]-a[i]))
	}
	return child, nil
}
