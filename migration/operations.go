package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"

	"github.com/wxrp-bridge/omnichain-deployments/operations"
)

// MutationDeps are the dependencies of the ledger mutating operations.
type MutationDeps struct {
	Ledger            CapabilityLedger
	SettlementTimeout time.Duration
}

// MutationInput identifies one ledger mutation. RunID scopes the input to a single run so a
// report from an earlier run is never mistaken for this run's mutation.
type MutationInput struct {
	RunID  string         `json:"runId"`
	Target Target         `json:"target"`
	Role   common.Hash    `json:"role"`
	Holder common.Address `json:"holder"`
}

// MutationOutput is the settled handle of a mutation.
type MutationOutput struct {
	Handle  OperationHandle `json:"handle"`
	Settled bool            `json:"settled"`
}

var (
	// OpGrantCapability grants Role to Holder and waits for settlement.
	OpGrantCapability = operations.NewOperation(
		"capability-grant",
		semver.MustParse("1.0.0"),
		"Grant an access control role and wait for settlement",
		func(b operations.Bundle, deps MutationDeps, in MutationInput) (MutationOutput, error) {
			return submitAndSettle(b, deps, func(ctx context.Context) (OperationHandle, error) {
				return deps.Ledger.Grant(ctx, in.Role, in.Holder)
			})
		},
	)

	// OpRevokeCapability removes Role from Holder and waits for settlement.
	OpRevokeCapability = operations.NewOperation(
		"capability-revoke",
		semver.MustParse("1.0.0"),
		"Revoke or renounce an access control role and wait for settlement",
		func(b operations.Bundle, deps MutationDeps, in MutationInput) (MutationOutput, error) {
			return submitAndSettle(b, deps, func(ctx context.Context) (OperationHandle, error) {
				return deps.Ledger.Revoke(ctx, in.Role, in.Holder)
			})
		},
	)

	// OpTransferOwnership transfers ownership of the target contract to Holder and waits for
	// settlement.
	OpTransferOwnership = operations.NewOperation(
		"ownership-transfer",
		semver.MustParse("1.0.0"),
		"Transfer contract ownership and wait for settlement",
		func(b operations.Bundle, deps MutationDeps, in MutationInput) (MutationOutput, error) {
			return submitAndSettle(b, deps, func(ctx context.Context) (OperationHandle, error) {
				return deps.Ledger.TransferOwnership(ctx, in.Holder)
			})
		},
	)
)

// submitAndSettle is the single side effect of every mutation operation. Once submitted, the
// operation is awaited until it settles, fails or the settlement timeout expires.
func submitAndSettle(
	b operations.Bundle, deps MutationDeps, submit func(context.Context) (OperationHandle, error),
) (MutationOutput, error) {
	ctx := b.GetContext()

	handle, err := submit(ctx)
	if err != nil {
		return MutationOutput{}, fmt.Errorf("failed to submit: %w", err)
	}
	b.Logger.Infow("Submitted ledger operation", "ref", handle.Ref)

	waitCtx := ctx
	if deps.SettlementTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, deps.SettlementTimeout)
		defer cancel()
	}

	if err = deps.Ledger.Await(waitCtx, handle); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("not settled within %s: %w", deps.SettlementTimeout, err)
		}

		return MutationOutput{Handle: handle}, err
	}
	b.Logger.Infow("Ledger operation settled", "ref", handle.Ref)

	return MutationOutput{Handle: handle, Settled: true}, nil
}
