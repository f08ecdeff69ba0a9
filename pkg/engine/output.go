package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wildfunctions/genetic_solver/pkg/genotype"
	"github.com/wildfunctions/genetic_solver/pkg/population"
)

// GenerationReport summarizes one evaluated generation.
type GenerationReport struct {
	RunID               string            `json:"run_id"`
	Generation          int               `json:"generation"`
	PopulationSize      int               `json:"population_size"`
	BestFitness         float64           `json:"best_fitness"`
	BestEverFitness     float64           `json:"best_ever_fitness"`
	MeanFitness         float64           `json:"mean_fitness"`
	StdDevFitness       float64           `json:"stddev_fitness"`
	WorstFitness        float64           `json:"worst_fitness"`
	MutationProbability float64           `json:"mutation_probability"`
	Improved            bool              `json:"improved"`
	BestEver            genotype.Genotype `json:"best_ever"`
}

// Observer receives a report after every evaluated generation. Reports are
// delivered synchronously from the solving goroutine and must be treated as
// read-only.
type Observer interface {
	ObserveGeneration(r GenerationReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r GenerationReport)

func (f ObserverFunc) ObserveGeneration(r GenerationReport) { f(r) }

// Recorder keeps every report it observes.
type Recorder struct {
	mu      sync.Mutex
	reports []GenerationReport
}

func (r *Recorder) ObserveGeneration(report GenerationReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

// Reports returns a copy of the recorded reports in arrival order.
func (r *Recorder) Reports() []GenerationReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]GenerationReport, len(r.reports))
	copy(out, r.reports)
	return out
}

// FinalReport summarizes the entire run.
type FinalReport struct {
	Config      Config                `json:"config"`
	RunID       string                `json:"run_id"`
	Status      Status                `json:"status"`
	Generation  int                   `json:"generation"`
	Best        population.Individual `json:"best"`
	Elapsed     time.Duration         `json:"elapsed_ns"`
	FinishedAt  time.Time             `json:"finished_at"`
	Generations []GenerationReport    `json:"generations,omitempty"`
}

// NewFinalReport combines a solver configuration, its result and optionally
// the per-generation history.
func NewFinalReport(cfg Config, res Result, history []GenerationReport) FinalReport {
	return FinalReport{
		Config:      cfg,
		RunID:       res.RunID,
		Status:      res.Status,
		Generation:  res.Generation,
		Best:        res.Best,
		Elapsed:     res.Elapsed,
		FinishedAt:  time.Now().UTC(),
		Generations: history,
	}
}

// FormatGenotype renders g as a bitstring or a vector depending on kind.
func FormatGenotype(kind genotype.Kind, g genotype.Genotype) string {
	if kind == genotype.Bitstring {
		return g.Bits()
	}
	return fmt.Sprintf("%.6g", []float64(g))
}

// WriteTextReport writes a generation report in human-readable format.
func WriteTextReport(w io.Writer, r GenerationReport) {
	fmt.Fprintf(w, "Gen %4d | Best: %.4f | Best ever: %.4f | Avg: %.4f | Std: %.4f | p_mut: %.3f\n",
		r.Generation, r.BestFitness, r.BestEverFitness, r.MeanFitness, r.StdDevFitness, r.MutationProbability)
}

// WriteTextFinal writes the final report in human-readable format.
func WriteTextFinal(w io.Writer, r FinalReport) {
	for _, g := range r.Generations {
		WriteTextReport(w, g)
	}
	fmt.Fprintln(w, "\n========== FINAL RESULT ==========")
	fmt.Fprintf(w, "Run:        %s\n", r.RunID)
	fmt.Fprintf(w, "Status:     %s\n", r.Status)
	fmt.Fprintf(w, "Genotype:   %s (length %d)\n", r.Config.Genotype.Kind, len(r.Best.Genotype))
	fmt.Fprintf(w, "Selection:  %s\n", r.Config.Selection)
	fmt.Fprintf(w, "Population: %d\n", r.Config.PopulationSize)
	fmt.Fprintf(w, "Generation: %d\n", r.Generation)
	fmt.Fprintf(w, "Best:       %s\n", FormatGenotype(r.Config.Genotype.Kind, r.Best.Genotype))
	fmt.Fprintf(w, "Fitness:    %.4f\n", r.Best.Fitness)
	fmt.Fprintf(w, "Elapsed:    %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w, "==================================")
}

// WriteJSONFinal writes the final report as JSON.
func WriteJSONFinal(w io.Writer, r FinalReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
