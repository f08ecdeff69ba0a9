package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalid_WrapsSentinel(t *testing.T) {
	err := Invalid("population size %d", 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "population size 0")
}

func TestFitnessError_MatchesBothCauses(t *testing.T) {
	cause := errors.New("boom")
	var err error = &FitnessError{Generation: 3, Index: 7, Err: cause}

	assert.ErrorIs(t, err, ErrFitnessEvaluation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "generation 3, individual 7: boom", err.Error())

	var fe *FitnessError
	if assert.ErrorAs(t, err, &fe) {
		assert.Equal(t, 7, fe.Index)
	}
}
