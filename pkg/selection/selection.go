package selection

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
)

// Selector turns the fitnesses of one generation into a Picker. Selectors
// never modify the fitness slice they are given.
type Selector interface {
	Name() string
	Prepare(fitnesses []float64) (Picker, error)
}

// Picker returns the population index of one selected parent. A Picker is
// read-only and may be shared by goroutines that each own their rng.
type Picker interface {
	Pick(rng *rand.Rand) int
}

// Options carries per-selector tuning.
type Options struct {
	TournamentSize int
}

var registry = map[string]func(Options) Selector{}

// Register adds a selector constructor to the registry.
func Register(name string, constructor func(Options) Selector) {
	registry[name] = constructor
}

// New returns the named selector configured with opts.
func New(name string, opts Options) (Selector, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errs.Invalid("unknown selection %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(opts), nil
}

// Names returns all registered selector names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func checkNotEmpty(fitnesses []float64) error {
	if len(fitnesses) == 0 {
		return fmt.Errorf("%w: cannot select from an empty population", errs.ErrInvalidFitnessDomain)
	}
	return nil
}
