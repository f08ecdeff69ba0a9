package genotype

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
)

// Genotype is a fixed-length sequence of alleles. Bitstring alleles are 0 or 1.
type Genotype []float64

// Clone returns a copy that shares no storage with g.
func (g Genotype) Clone() Genotype {
	if g == nil {
		return nil
	}
	out := make(Genotype, len(g))
	copy(out, g)
	return out
}

// Equal reports whether both genotypes have the same alleles.
func (g Genotype) Equal(other Genotype) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// Bits renders a bitstring genotype as "0110...".
func (g Genotype) Bits() string {
	var sb strings.Builder
	sb.Grow(len(g))
	for _, a := range g {
		if a != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Kind identifies a genotype representation.
type Kind string

const (
	Bitstring  Kind = "bitstring"
	RealVector Kind = "real_vector"
)

// Recombination identifies how two parents are combined.
type Recombination string

const (
	Crossover    Recombination = "crossover"
	Intermediate Recombination = "intermediate"
)

// Constraint bounds one allele to [From, To].
type Constraint struct {
	From float64 `toml:"from" json:"from"`
	To   float64 `toml:"to" json:"to"`
}

func (c Constraint) clamp(v float64) float64 {
	return math.Max(c.From, math.Min(c.To, v))
}

// Config describes a genotype space.
type Config struct {
	Kind            Kind          `toml:"kind" json:"kind"`
	Length          int           `toml:"length" json:"length"`
	Constraints     []Constraint  `toml:"constraints" json:"constraints,omitempty"`
	Recombination   Recombination `toml:"recombination" json:"recombination"`
	CrossoverPoints int           `toml:"crossover_points" json:"crossover_points,omitempty"`
	MutationScale   float64       `toml:"mutation_scale" json:"mutation_scale,omitempty"`
}

// Space generates, mutates and recombines genotypes of one representation.
// Implementations never modify their inputs and are safe for concurrent use
// as long as each goroutine passes its own rng.
type Space interface {
	Kind() Kind
	Len() int
	Random(rng *rand.Rand) Genotype
	Mutate(rng *rand.Rand, g Genotype, p float64) Genotype
	Recombine(rng *rand.Rand, a, b Genotype) (Genotype, error)
}

// New validates cfg and builds the matching space.
func New(cfg Config) (Space, error) {
	if cfg.CrossoverPoints == 0 {
		cfg.CrossoverPoints = 1
	}
	if cfg.CrossoverPoints < 0 {
		return nil, errs.Invalid("crossover points must be positive, got %d", cfg.CrossoverPoints)
	}

	switch cfg.Kind {
	case Bitstring:
		return newBitstringSpace(cfg)
	case RealVector:
		return newRealVectorSpace(cfg)
	default:
		return nil, errs.Invalid("unknown genotype kind %q (available: %s, %s)", cfg.Kind, Bitstring, RealVector)
	}
}

// Copy returns a deep copy of cfg.
func (cfg Config) Copy() Config {
	out := cfg
	if cfg.Constraints != nil {
		out.Constraints = make([]Constraint, len(cfg.Constraints))
		copy(out.Constraints, cfg.Constraints)
	}
	return out
}

func checkLengths(n int, a, b Genotype) error {
	if len(a) != n || len(b) != n {
		return fmt.Errorf("%w: parents of length %d and %d, space length %d",
			errs.ErrIncompatibleGenotype, len(a), len(b), n)
	}
	return nil
}

// crossover splices segments of a and b at `points` distinct cut positions.
func crossover(rng *rand.Rand, a, b Genotype, points int) Genotype {
	n := len(a)
	child := a.Clone()
	if n < 2 {
		return child
	}
	if points > n-1 {
		points = n - 1
	}

	cuts := make([]bool, n)
	for _, c := range rng.Perm(n - 1)[:points] {
		cuts[c+1] = true
	}

	fromB := false
	for i := 0; i < n; i++ {
		if cuts[i] {
			fromB = !fromB
		}
		if fromB {
			child[i] = b[i]
		}
	}
	return child
}
