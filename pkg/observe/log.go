// Package observe provides engine observers that export generation reports
// to logs and metrics.
package observe

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wildfunctions/genetic_solver/pkg/engine"
)

// LogObserver writes one structured log entry per generation.
type LogObserver struct {
	logger *zap.Logger
	level  zapcore.Level
}

// NewLogObserver logs reports to logger at level. A nil logger discards them.
func NewLogObserver(logger *zap.Logger, level zapcore.Level) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger, level: level}
}

func (o *LogObserver) ObserveGeneration(r engine.GenerationReport) {
	ce := o.logger.Check(o.level, "generation")
	if ce == nil {
		return
	}
	ce.Write(
		zap.String("run_id", r.RunID),
		zap.Int("generation", r.Generation),
		zap.Int("population", r.PopulationSize),
		zap.Float64("best", r.BestFitness),
		zap.Float64("best_ever", r.BestEverFitness),
		zap.Float64("mean", r.MeanFitness),
		zap.Float64("stddev", r.StdDevFitness),
		zap.Float64("mutation_probability", r.MutationProbability),
		zap.Bool("improved", r.Improved),
	)
}
