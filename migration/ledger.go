package migration

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// OperationHandle identifies a submitted ledger mutation, typically a transaction hash.
type OperationHandle struct {
	Ref         string `json:"ref"`
	Description string `json:"description,omitempty"`
}

// CapabilityLedger is the contract state holding role and ownership bits of one target.
// Every method blocks until the ledger answers or ctx is done.
type CapabilityLedger interface {
	HasCapability(ctx context.Context, role common.Hash, holder common.Address) (bool, error)
	CurrentOwner(ctx context.Context) (common.Address, error)
	Grant(ctx context.Context, role common.Hash, holder common.Address) (OperationHandle, error)
	Revoke(ctx context.Context, role common.Hash, holder common.Address) (OperationHandle, error)
	TransferOwnership(ctx context.Context, holder common.Address) (OperationHandle, error)
	// Await blocks until the operation settles. A nil error means it settled successfully.
	Await(ctx context.Context, handle OperationHandle) error
}

// Preflighter is implemented by ledgers that can verify target specific preconditions before a
// run reads any capability state. Returning a *PreconditionError stops the run at
// FATAL_PRECONDITION; any other error is treated as a failed read.
type Preflighter interface {
	Preflight(ctx context.Context) error
}
