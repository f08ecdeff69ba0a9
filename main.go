package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wildfunctions/genetic_solver/pkg/engine"
	"github.com/wildfunctions/genetic_solver/pkg/history"
	"github.com/wildfunctions/genetic_solver/pkg/observe"
	"github.com/wildfunctions/genetic_solver/pkg/population"
	"github.com/wildfunctions/genetic_solver/pkg/problem"
	"github.com/wildfunctions/genetic_solver/pkg/selection"
)

type options struct {
	problem    string
	length     int
	target     float64
	format     string
	verbose    bool
	config     string
	logLevel   string
	history    string
	metricsOut string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := engine.DefaultConfig()
	opts := options{problem: "knapsack", target: math.Inf(1), format: "text", logLevel: "warn"}

	flag.StringVar(&opts.problem, "problem", opts.problem, "problem to solve ("+strings.Join(problem.Names(), ", ")+")")
	flag.IntVar(&opts.length, "length", opts.length, "genotype length (0 = problem default)")
	flag.Float64Var(&opts.target, "target", opts.target, "stop once the best fitness reaches this value")
	flag.IntVar(&cfg.PopulationSize, "population", cfg.PopulationSize, "population size")
	flag.IntVar(&cfg.MaxGenerations, "generations", cfg.MaxGenerations, "stop at this generation (0 = no cap)")
	flag.Float64Var(&cfg.MutationProbability, "mutation", cfg.MutationProbability, "per-allele mutation probability")
	flag.Float64Var(&cfg.MutationThreshold, "mutation-threshold", cfg.MutationThreshold, "upper bound on the mutation probability (0 = none)")
	flag.BoolVar(&cfg.AdaptiveMutation, "adaptive", cfg.AdaptiveMutation, "adapt the mutation probability with the 1/5 success rule")
	flag.StringVar(&cfg.Selection, "selection", cfg.Selection, "selection strategy ("+strings.Join(selection.Names(), ", ")+")")
	flag.IntVar(&cfg.TournamentSize, "tournament", cfg.TournamentSize, "tournament size")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "wall clock limit for the run (0 = none)")
	flag.StringVar(&opts.format, "format", opts.format, "output format (text, json)")
	flag.BoolVar(&opts.verbose, "verbose", opts.verbose, "verbose output per generation")
	flag.StringVar(&opts.config, "config", opts.config, "TOML file with solver settings; flags given on the command line win")
	flag.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	flag.StringVar(&opts.history, "history", opts.history, "SQLite file to record generation reports in")
	flag.StringVar(&opts.metricsOut, "metrics-out", opts.metricsOut, "write Prometheus metrics to this file when the run ends")
	flag.Parse()

	p, err := problem.Get(opts.problem, opts.length)
	if err != nil {
		return err
	}
	cfg.Genotype = p.Genotype

	if opts.config != "" {
		if _, err := toml.DecodeFile(opts.config, &cfg); err != nil {
			return fmt.Errorf("reading %s: %w", opts.config, err)
		}
		// Re-apply the command line over the file.
		if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
			return err
		}
	}

	level, err := zapcore.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Observers = append(cfg.Observers, observe.NewLogObserver(logger, zapcore.DebugLevel))
	if !math.IsInf(opts.target, 1) {
		target := opts.target
		cfg.ExitCondition = func(_ int, best population.Individual) bool {
			return best.Fitness >= target
		}
	}

	var recorder engine.Recorder
	if opts.verbose {
		if opts.format == "json" {
			cfg.Observers = append(cfg.Observers, &recorder)
		} else {
			cfg.Observers = append(cfg.Observers, engine.ObserverFunc(func(r engine.GenerationReport) {
				engine.WriteTextReport(os.Stdout, r)
			}))
		}
	}

	if opts.history != "" {
		store := history.NewStore(opts.history)
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("opening history %s: %w", opts.history, err)
		}
		defer store.Close()
		cfg.Observers = append(cfg.Observers, store.Observer(ctx, logger))
	}

	var reg *prometheus.Registry
	if opts.metricsOut != "" {
		reg = prometheus.NewRegistry()
		m, err := observe.NewMetrics(reg)
		if err != nil {
			return err
		}
		cfg.Observers = append(cfg.Observers, m)
	}

	solver, err := engine.New(cfg)
	if err != nil {
		return err
	}
	res, err := solver.Solve(ctx, p.Fitness)
	if err != nil {
		return err
	}

	if reg != nil {
		if err := prometheus.WriteToTextfile(opts.metricsOut, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	report := engine.NewFinalReport(solver.Config(), res, recorder.Reports())
	switch opts.format {
	case "json":
		if err := engine.WriteJSONFinal(os.Stdout, report); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	default:
		report.Generations = nil
		engine.WriteTextFinal(os.Stdout, report)
		fmt.Printf("Solution:   %s\n", p.Describe(res.Best.Genotype))
	}
	return nil
}
