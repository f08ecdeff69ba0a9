package engine

import (
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
	"github.com/wildfunctions/genetic_solver/pkg/population"
	"github.com/wildfunctions/genetic_solver/pkg/selection"
)

// ExitCondition decides after each evaluated generation whether the run is
// done. It receives the generation index (starting at 0) and a copy of the
// best individual seen so far.
type ExitCondition func(generation int, best population.Individual) bool

// Config holds all parameters for a run. A Solver keeps its own copy, so
// changing a Config after New has no effect on the solver built from it.
type Config struct {
	PopulationSize      int             `toml:"population_size" json:"population_size"`
	Genotype            genotype.Config `toml:"genotype" json:"genotype"`
	MutationProbability float64         `toml:"mutation_probability" json:"mutation_probability"`
	MutationThreshold   float64         `toml:"mutation_threshold" json:"mutation_threshold,omitempty"` // 0 = no cap
	AdaptiveMutation    bool            `toml:"adaptive_mutation" json:"adaptive_mutation"`
	Selection           string          `toml:"selection" json:"selection"`
	TournamentSize      int             `toml:"tournament_size" json:"tournament_size,omitempty"`
	MaxGenerations      int             `toml:"max_generations" json:"max_generations"` // stop once generation >= MaxGenerations; 0 = no cap
	Timeout             time.Duration   `toml:"timeout" json:"timeout,omitempty"`
	Seed                int64           `toml:"seed" json:"seed"` // 0 = random
	Workers             int             `toml:"workers" json:"workers"`

	ExitCondition ExitCondition `toml:"-" json:"-"`
	Logger        *zap.Logger   `toml:"-" json:"-"`
	Observers     []Observer    `toml:"-" json:"-"`
}

// DefaultConfig returns the configuration of the classic knapsack run:
// 128 bitstrings of length 8, crossover, mutation probability 0.5 and 50
// generations.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 128,
		Genotype: genotype.Config{
			Kind:          genotype.Bitstring,
			Length:        8,
			Recombination: genotype.Crossover,
		},
		MutationProbability: 0.5,
		Selection:           "tournament",
		TournamentSize:      3,
		MaxGenerations:      50,
		Seed:                0,
		Workers:             runtime.NumCPU(),
	}
}

// Validate checks cfg without building a solver.
func (cfg Config) Validate() error {
	_, err := newSolverParts(cfg)
	return err
}

type solverParts struct {
	space    genotype.Space
	selector selection.Selector
}

func newSolverParts(cfg Config) (solverParts, error) {
	if cfg.PopulationSize < 1 {
		return solverParts{}, errs.Invalid("population size must be positive, got %d", cfg.PopulationSize)
	}
	if !isProbability(cfg.MutationProbability) {
		return solverParts{}, errs.Invalid("mutation probability must be in [0,1], got %g", cfg.MutationProbability)
	}
	if cfg.MutationThreshold != 0 && !isProbability(cfg.MutationThreshold) {
		return solverParts{}, errs.Invalid("mutation threshold must be in (0,1], got %g", cfg.MutationThreshold)
	}
	if cfg.TournamentSize < 0 {
		return solverParts{}, errs.Invalid("tournament size must not be negative, got %d", cfg.TournamentSize)
	}
	if cfg.MaxGenerations < 0 {
		return solverParts{}, errs.Invalid("max generations must not be negative, got %d", cfg.MaxGenerations)
	}
	if cfg.Timeout < 0 {
		return solverParts{}, errs.Invalid("timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.Workers < 0 {
		return solverParts{}, errs.Invalid("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.ExitCondition == nil && cfg.MaxGenerations == 0 && cfg.Timeout == 0 {
		return solverParts{}, errs.Invalid("an exit condition, max generations or timeout is required")
	}
	for i, o := range cfg.Observers {
		if o == nil {
			return solverParts{}, errs.Invalid("observer %d is nil", i)
		}
	}

	space, err := genotype.New(cfg.Genotype)
	if err != nil {
		return solverParts{}, err
	}
	sel, err := selection.New(cfg.Selection, selection.Options{TournamentSize: cfg.TournamentSize})
	if err != nil {
		return solverParts{}, err
	}
	return solverParts{space: space, selector: sel}, nil
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// copyConfig deep-copies the mutable parts of cfg.
func copyConfig(cfg Config) Config {
	out := cfg
	out.Genotype = cfg.Genotype.Copy()
	if cfg.Observers != nil {
		out.Observers = make([]Observer, len(cfg.Observers))
		copy(out.Observers, cfg.Observers)
	}
	return out
}
