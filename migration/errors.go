package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrAborted is returned when the confirmation gate could not produce a decision.
	ErrAborted = errors.New("migration aborted")
	// ErrLedgerRead is returned when a ledger read keeps failing after the configured attempts.
	ErrLedgerRead = errors.New("ledger read failed")
)

// PreconditionError reports that the ledger is not in the state a step requires.
type PreconditionError struct {
	Phase Phase
	// Observed is the ledger fact that violated the precondition, e.g. the current owner.
	Observed string
	Reason   string
}

func (e *PreconditionError) Error() string {
	if e.Observed == "" {
		return fmt.Sprintf("precondition failed in %s: %s", e.Phase, e.Reason)
	}

	return fmt.Sprintf("precondition failed in %s: %s (observed %s)", e.Phase, e.Reason, e.Observed)
}

// OperationFailure reports a ledger mutation that was submitted but did not settle successfully,
// or could not be submitted at all.
type OperationFailure struct {
	Phase  Phase
	Handle OperationHandle
	Err    error
}

func (e *OperationFailure) Error() string {
	if e.Handle.Ref == "" {
		return fmt.Sprintf("ledger operation failed in %s: %v", e.Phase, e.Err)
	}

	return fmt.Sprintf("ledger operation %s failed in %s: %v", e.Handle.Ref, e.Phase, e.Err)
}

func (e *OperationFailure) Unwrap() error { return e.Err }
