package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsHelpersMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("creating activity: %w", NotFound("timetable"))

	nf, ok := AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, "timetable", nf.Entity)

	_, ok = AsValidation(err)
	assert.False(t, ok)
}

func TestValidationCarriesAllViolations(t *testing.T) {
	err := Validation([]Violation{
		{Index: 0, Field: "activity_duration", Message: "too long"},
		{Index: 2, Field: "teacher_id", Message: "unknown"},
	})

	vErr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Len(t, vErr.Violations, 2)
	assert.Contains(t, vErr.Error(), "too long")
	assert.Contains(t, vErr.Error(), "unknown")
}

func TestSolverExecutionUnwrap(t *testing.T) {
	cause := errors.New("executable not found")
	err := &SolverExecutionError{Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "executable not found")

	exit := &SolverExecutionError{ExitCode: 3, Stderr: "bad input"}
	assert.Contains(t, exit.Error(), "code 3")
}
