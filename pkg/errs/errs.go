package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrIncompatibleGenotype = errors.New("incompatible genotype")
	ErrInvalidFitnessDomain = errors.New("invalid fitness domain")
	ErrFitnessEvaluation    = errors.New("fitness evaluation failed")
)

// Invalid returns an ErrInvalidConfiguration with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// FitnessError reports which individual's fitness function failed.
type FitnessError struct {
	Generation int
	Index      int
	Err        error
}

func (e *FitnessError) Error() string {
	return fmt.Sprintf("generation %d, individual %d: %v", e.Generation, e.Index, e.Err)
}

// Unwrap exposes both ErrFitnessEvaluation and the underlying cause.
func (e *FitnessError) Unwrap() []error {
	return []error{ErrFitnessEvaluation, e.Err}
}
