package acts

import (
	"errors"
	"fmt"

	"github.com/Dosada05/wrestling-league/models"
)

var (
	ErrValidation     = errors.New("act validation failed")
	ErrLifecycle      = errors.New("act lifecycle violation")
	ErrReconciliation = errors.New("match reconciliation failed")
)

// ValidationError reports malformed or inconsistent act input. Field names the
// offending input using the submission's JSON paths, e.g. "bouts[2].order".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LifecycleViolation is returned when an operation is not allowed in the act's
// current state.
type LifecycleViolation struct {
	State  models.ActState
	Op     string
	Reason string
}

func (e *LifecycleViolation) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s act in state %s: %s", e.Op, e.State, e.Reason)
	}
	return fmt.Sprintf("cannot %s act in state %s", e.Op, e.State)
}

func (e *LifecycleViolation) Is(target error) bool {
	return target == ErrLifecycle
}

// ReconciliationWarning means the act was completed but the parent match did
// not receive the result. The act stays completed.
type ReconciliationWarning struct {
	MatchID int
	Err     error
}

func (e *ReconciliationWarning) Error() string {
	return fmt.Sprintf("act completed but match %d was not updated: %v", e.MatchID, e.Err)
}

func (e *ReconciliationWarning) Is(target error) bool {
	return target == ErrReconciliation
}

func (e *ReconciliationWarning) Unwrap() error {
	return e.Err
}
