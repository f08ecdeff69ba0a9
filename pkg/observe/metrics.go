package observe

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wildfunctions/genetic_solver/pkg/engine"
)

// Metrics exports generation reports as Prometheus series labelled by run id.
type Metrics struct {
	generations         *prometheus.CounterVec
	bestFitness         *prometheus.GaugeVec
	bestEverFitness     *prometheus.GaugeVec
	meanFitness         *prometheus.GaugeVec
	mutationProbability *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	labels := []string{"run_id"}
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genetic_solver",
			Name:      "generations_total",
			Help:      "Evaluated generations.",
		}, labels),
		bestFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "genetic_solver",
			Name:      "generation_best_fitness",
			Help:      "Best fitness in the latest generation.",
		}, labels),
		bestEverFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "genetic_solver",
			Name:      "best_ever_fitness",
			Help:      "Best fitness seen so far in the run.",
		}, labels),
		meanFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "genetic_solver",
			Name:      "generation_mean_fitness",
			Help:      "Mean fitness of the latest generation.",
		}, labels),
		mutationProbability: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "genetic_solver",
			Name:      "mutation_probability",
			Help:      "Mutation probability used for the latest generation.",
		}, labels),
	}
	for _, c := range []prometheus.Collector{
		m.generations, m.bestFitness, m.bestEverFitness, m.meanFitness, m.mutationProbability,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveGeneration(r engine.GenerationReport) {
	l := prometheus.Labels{"run_id": r.RunID}
	m.generations.With(l).Inc()
	m.bestFitness.With(l).Set(r.BestFitness)
	m.bestEverFitness.With(l).Set(r.BestEverFitness)
	m.meanFitness.With(l).Set(r.MeanFitness)
	m.mutationProbability.With(l).Set(r.MutationProbability)
}
