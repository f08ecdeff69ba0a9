package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/wildfunctions/genetic_solver/pkg/control"
	"github.com/wildfunctions/genetic_solver/pkg/fitness"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
	"github.com/wildfunctions/genetic_solver/pkg/population"
	"github.com/wildfunctions/genetic_solver/pkg/selection"
)

// Status tells how a run ended.
type Status int

const (
	StatusCompleted Status = iota // exit condition or generation cap reached
	StatusTimedOut                // Config.Timeout or the caller's deadline expired
	StatusCancelled               // the caller cancelled the context
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusTimedOut:
		return "timed_out"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a run. Best is always fully evaluated, including
// for timed out and cancelled runs.
type Result struct {
	RunID      string                `json:"run_id"`
	Best       population.Individual `json:"best"`
	Generation int                   `json:"generation"` // last evaluated generation
	Status     Status                `json:"status"`
	Elapsed    time.Duration         `json:"elapsed"`
}

// Solver runs the evolutionary search. It is immutable after New, so Solve
// may be called from several goroutines at once.
type Solver struct {
	cfg      Config
	space    genotype.Space
	selector selection.Selector
	logger   *zap.Logger
	seed     int64
	workers  int
}

// New validates cfg and creates a solver from a private copy of it. Any
// problem is reported as errs.ErrInvalidConfiguration.
func New(cfg Config) (*Solver, error) {
	parts, err := newSolverParts(cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Solver{
		cfg:      copyConfig(cfg),
		space:    parts.space,
		selector: parts.selector,
		logger:   logger,
		seed:     seed,
		workers:  workers,
	}, nil
}

// Config returns a copy of the solver's configuration.
func (s *Solver) Config() Config { return copyConfig(s.cfg) }

// Seed returns the seed every Solve call starts from.
func (s *Solver) Seed() int64 { return s.seed }

// Solve evolves populations until the exit condition holds, the generation
// cap is reached, or the context ends. Cancellation and timeouts are honoured
// between generations and yield a Result with the matching Status and a nil
// error. A failing fitness function aborts the run with an error wrapping
// errs.ErrFitnessEvaluation and no result.
func (s *Solver) Solve(ctx context.Context, fn fitness.Func) (Result, error) {
	adapter, err := fitness.NewAdapter(fn)
	if err != nil {
		return Result{}, err
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(zap.String("run_id", runID))
	log.Info("starting run",
		zap.Int("population", s.cfg.PopulationSize),
		zap.String("genotype", string(s.space.Kind())),
		zap.Int("length", s.space.Len()),
		zap.String("selection", s.selector.Name()),
		zap.Float64("mutation_probability", s.cfg.MutationProbability),
		zap.Int("max_generations", s.cfg.MaxGenerations),
		zap.Int("workers", s.workers),
		zap.Int64("seed", s.seed))

	rng := rand.New(rand.NewSource(s.seed))
	mutationP := s.initialMutationProbability()
	var ctrl *control.Rechenberg
	if s.cfg.AdaptiveMutation {
		ctrl = control.NewRechenberg(mutationP, 0, s.mutationCap(), 0, 0)
	}

	pop := population.Random(s.space, rng, s.cfg.PopulationSize, 0)
	var bestEver population.Individual

	finish := func(status Status) Result {
		res := Result{
			RunID:      runID,
			Best:       bestEver.Clone(),
			Generation: pop.Generation,
			Status:     status,
			Elapsed:    time.Since(start),
		}
		log.Info("run finished",
			zap.Stringer("status", status),
			zap.Int("generation", res.Generation),
			zap.Float64("best_fitness", res.Best.Fitness),
			zap.Duration("elapsed", res.Elapsed))
		return res
	}

	for {
		if err := pop.Evaluate(adapter, s.workers); err != nil {
			log.Error("fitness evaluation failed", zap.Int("generation", pop.Generation), zap.Error(err))
			return Result{}, err
		}

		genBest, _ := pop.Best()
		improved := !bestEver.Evaluated || genBest.Fitness > bestEver.Fitness
		if improved {
			bestEver = genBest.Clone()
		}
		stats := pop.Stats()
		s.notify(log, GenerationReport{
			RunID:               runID,
			Generation:          pop.Generation,
			PopulationSize:      pop.Size(),
			BestFitness:         stats.Best,
			BestEverFitness:     bestEver.Fitness,
			MeanFitness:         stats.Mean,
			StdDevFitness:       stats.StdDev,
			WorstFitness:        stats.Worst,
			MutationProbability: mutationP,
			Improved:            improved,
			BestEver:            bestEver.Genotype.Clone(),
		})

		if s.shouldExit(pop.Generation, bestEver) {
			return finish(StatusCompleted), nil
		}
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return finish(StatusTimedOut), nil
			}
			return finish(StatusCancelled), nil
		}

		if ctrl != nil && pop.Generation > 0 {
			mutationP = ctrl.Observe(improved)
		}
		next, err := s.reproduce(rng, pop, mutationP)
		if err != nil {
			log.Error("reproduction failed", zap.Int("generation", pop.Generation), zap.Error(err))
			return Result{}, err
		}
		pop = next
	}
}

func (s *Solver) shouldExit(generation int, best population.Individual) bool {
	if s.cfg.MaxGenerations > 0 && generation >= s.cfg.MaxGenerations {
		return true
	}
	return s.cfg.ExitCondition != nil && s.cfg.ExitCondition(generation, best.Clone())
}

func (s *Solver) mutationCap() float64 {
	if s.cfg.MutationThreshold > 0 {
		return s.cfg.MutationThreshold
	}
	return 1
}

func (s *Solver) initialMutationProbability() float64 {
	return math.Min(s.cfg.MutationProbability, s.mutationCap())
}

// reproduce builds the next generation. Every offspring slot gets its own rng
// seeded from the run rng in slot order, so the result does not depend on how
// slots are scheduled across workers.
func (s *Solver) reproduce(rng *rand.Rand, pop *population.Population, p float64) (*population.Population, error) {
	picker, err := s.selector.Prepare(pop.Fitnesses())
	if err != nil {
		return nil, fmt.Errorf("generation %d: %w", pop.Generation, err)
	}

	n := s.cfg.PopulationSize
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	offspring := make([]genotype.Genotype, n)
	wp := pool.New().WithErrors().WithMaxGoroutines(s.workers)
	for i := 0; i < n; i++ {
		i := i
		wp.Go(func() error {
			local := rand.New(rand.NewSource(seeds[i]))
			a := pop.Individuals[picker.Pick(local)].Genotype
			b := pop.Individuals[picker.Pick(local)].Genotype
			child, err := s.space.Recombine(local, a, b)
			if err != nil {
				return fmt.Errorf("offspring %d: %w", i, err)
			}
			offspring[i] = s.space.Mutate(local, child, p)
			return nil
		})
	}
	if err := wp.Wait(); err != nil {
		return nil, err
	}
	return population.New(offspring, pop.Generation+1), nil
}

// notify hands r to every observer. Observers are advisory: a panicking
// observer is logged and skipped.
func (s *Solver) notify(log *zap.Logger, r GenerationReport) {
	for i, o := range s.cfg.Observers {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Warn("observer failed",
						zap.Int("observer", i),
						zap.Int("generation", r.Generation),
						zap.Any("panic", rec))
				}
			}()
			o.ObserveGeneration(r)
		}()
	}
}
