// file: internals/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

/* =========================================================
   ERROR TAXONOMY
   NotFound / Validation / Conflict / SolverExecution.
   Services return these; controllers map them to the JSON
   envelope via helper.FromAppError.
   ========================================================= */

// NotFoundError: missing or not-owned timetable/resource.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	if e.Entity == "" {
		return "not found"
	}
	return e.Entity + " not found"
}

func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

// Violation: one validation failure inside a (possibly batch) payload.
type Violation struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func Validation(violations []Violation) error {
	return &ValidationError{Violations: violations}
}

// ConflictError: duplicate name within a scope or within one batch.
// A single conflict rejects the whole batch.
type ConflictError struct {
	Conflicts []Violation
}

func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, v := range e.Conflicts {
		msgs = append(msgs, v.Message)
	}
	return "conflict: " + strings.Join(msgs, "; ")
}

func Conflict(conflicts []Violation) error {
	return &ConflictError{Conflicts: conflicts}
}

// SolverExecutionError: the external solver was missing, failed to
// start, or exited non-zero. Stderr is captured for diagnostics.
type SolverExecutionError struct {
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *SolverExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("solver execution failed: %v", e.Cause)
	}
	return fmt.Sprintf("solver exited with code %d", e.ExitCode)
}

func (e *SolverExecutionError) Unwrap() error { return e.Cause }

/* ===================== helpers ===================== */

func AsNotFound(err error) (*NotFoundError, bool) {
	var e *NotFoundError
	ok := errors.As(err, &e)
	return e, ok
}

func AsValidation(err error) (*ValidationError, bool) {
	var e *ValidationError
	ok := errors.As(err, &e)
	return e, ok
}

func AsConflict(err error) (*ConflictError, bool) {
	var e *ConflictError
	ok := errors.As(err, &e)
	return e, ok
}

func AsSolverExecution(err error) (*SolverExecutionError, bool) {
	var e *SolverExecutionError
	ok := errors.As(err, &e)
	return e, ok
}
