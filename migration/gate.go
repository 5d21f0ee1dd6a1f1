package migration

import "context"

// Decision is the outcome of an approval request.
type Decision int

const (
	Abort Decision = iota
	Proceed
)

func (d Decision) String() string {
	if d == Proceed {
		return "proceed"
	}

	return "abort"
}

// ConfirmationGate approves irreversible actions. Approve may block on human input.
type ConfirmationGate interface {
	Approve(ctx context.Context, description string) (Decision, error)
}

// GateFunc adapts a function to ConfirmationGate.
type GateFunc func(ctx context.Context, description string) (Decision, error)

func (f GateFunc) Approve(ctx context.Context, description string) (Decision, error) {
	return f(ctx, description)
}

// AutoApprove returns a gate that approves everything. Use it only when the operator approved
// the run up front.
func AutoApprove() ConfirmationGate {
	return GateFunc(func(context.Context, string) (Decision, error) { return Proceed, nil })
}

// Deny returns a gate that declines everything.
func Deny() ConfirmationGate {
	return GateFunc(func(context.Context, string) (Decision, error) { return Abort, nil })
}
