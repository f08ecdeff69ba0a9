// Package history persists generation reports in SQLite so runs can be
// compared after the process exits.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wildfunctions/genetic_solver/pkg/engine"
)

// Store is a SQLite-backed history of generation reports.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewStore returns a store for the database at path. Call Init before use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and creates the schema if needed.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			population_size INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			best_ever_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			stddev_fitness REAL NOT NULL,
			worst_fitness REAL NOT NULL,
			mutation_probability REAL NOT NULL,
			improved INTEGER NOT NULL,
			best_ever TEXT NOT NULL,
			PRIMARY KEY (run_id, generation)
		)
	`); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("history store is not initialized")
	}
	return s.db, nil
}

// SaveReport inserts or replaces one generation report.
func (s *Store) SaveReport(ctx context.Context, r engine.GenerationReport) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	genes, err := json.Marshal(r.BestEver)
	if err != nil {
		return err
	}
	improved := 0
	if r.Improved {
		improved = 1
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (
			run_id, generation, population_size, best_fitness, best_ever_fitness,
			mean_fitness, stddev_fitness, worst_fitness, mutation_probability, improved, best_ever
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			population_size = excluded.population_size,
			best_fitness = excluded.best_fitness,
			best_ever_fitness = excluded.best_ever_fitness,
			mean_fitness = excluded.mean_fitness,
			stddev_fitness = excluded.stddev_fitness,
			worst_fitness = excluded.worst_fitness,
			mutation_probability = excluded.mutation_probability,
			improved = excluded.improved,
			best_ever = excluded.best_ever
	`, r.RunID, r.Generation, r.PopulationSize, r.BestFitness, r.BestEverFitness,
		r.MeanFitness, r.StdDevFitness, r.WorstFitness, r.MutationProbability, improved, string(genes))
	if err != nil {
		return fmt.Errorf("save generation %d of run %s: %w", r.Generation, r.RunID, err)
	}
	return nil
}

// Reports returns the stored reports of a run ordered by generation.
func (s *Store) Reports(ctx context.Context, runID string) ([]engine.GenerationReport, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT generation, population_size, best_fitness, best_ever_fitness, mean_fitness,
			stddev_fitness, worst_fitness, mutation_probability, improved, best_ever
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.GenerationReport
	for rows.Next() {
		r := engine.GenerationReport{RunID: runID}
		var improved int
		var genes string
		if err := rows.Scan(&r.Generation, &r.PopulationSize, &r.BestFitness, &r.BestEverFitness,
			&r.MeanFitness, &r.StdDevFitness, &r.WorstFitness, &r.MutationProbability, &improved, &genes); err != nil {
			return nil, err
		}
		r.Improved = improved != 0
		if err := json.Unmarshal([]byte(genes), &r.BestEver); err != nil {
			return nil, fmt.Errorf("decode genotype of generation %d: %w", r.Generation, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Runs lists the stored run ids.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT run_id FROM generations ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Observer saves every report. Write failures are logged, never returned, so a
// broken history database cannot stop a run.
func (s *Store) Observer(ctx context.Context, logger *zap.Logger) engine.Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return engine.ObserverFunc(func(r engine.GenerationReport) {
		if err := s.SaveReport(ctx, r); err != nil {
			logger.Warn("history write failed", zap.String("path", s.path), zap.Error(err))
		}
	})
}
