package observe

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wildfunctions/genetic_solver/pkg/engine"
	"github.com/wildfunctions/genetic_solver/pkg/fitness"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
)

func oneMax(g genotype.Genotype) float64 {
	n := 0.0
	for _, a := range g {
		n += a
	}
	return n
}

func runWith(t *testing.T, observers ...engine.Observer) engine.Result {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.PopulationSize = 20
	cfg.Genotype = genotype.Config{Kind: genotype.Bitstring, Length: 10}
	cfg.MaxGenerations = 5
	cfg.Seed = 3
	cfg.Observers = observers
	s, err := engine.New(cfg)
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), fitness.Plain(oneMax))
	require.NoError(t, err)
	return res
}

func TestLogObserver_OneEntryPerGeneration(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	res := runWith(t, NewLogObserver(zap.New(core), zapcore.InfoLevel))

	entries := logs.FilterMessage("generation").All()
	require.Len(t, entries, 6)
	last := entries[len(entries)-1].ContextMap()
	assert.Equal(t, res.RunID, last["run_id"])
	assert.EqualValues(t, 5, last["generation"])
	assert.EqualValues(t, 20, last["population"])
	assert.Equal(t, res.Best.Fitness, last["best_ever"])
}

func TestLogObserver_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	runWith(t, NewLogObserver(zap.New(core), zapcore.DebugLevel))
	assert.Zero(t, logs.Len())

	// A nil logger must be accepted and silent.
	runWith(t, NewLogObserver(nil, zapcore.InfoLevel))
}

func TestMetrics_TracksRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	res := runWith(t, m)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.generations.WithLabelValues(res.RunID)))
	assert.Equal(t, res.Best.Fitness, testutil.ToFloat64(m.bestEverFitness.WithLabelValues(res.RunID)))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.mutationProbability.WithLabelValues(res.RunID)))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
