package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/wxrp-bridge/omnichain-deployments/operations"
)

// ProvisionDeps are the dependencies of SeqProvisionRoles.
type ProvisionDeps struct {
	Ledger            CapabilityLedger
	Gate              ConfirmationGate
	Mode              Mode
	SettlementTimeout time.Duration
	ReadAttempts      uint
}

// ProvisionInput lists the roles Grantee must hold on Target.Contract.
type ProvisionInput struct {
	RunID   string         `json:"runId"`
	Target  Target         `json:"target"`
	Grantee common.Address `json:"grantee"`
	Roles   []common.Hash  `json:"roles"`
}

// ProvisionOutput reports what happened to every requested role, by role name.
type ProvisionOutput struct {
	AlreadyHeld []string          `json:"alreadyHeld"`
	Granted     []string          `json:"granted"`
	Planned     []string          `json:"planned"`
	Mutations   []OperationHandle `json:"mutations"`
}

// SeqProvisionRoles grants every missing role to the grantee. Each grant is approved, settled and
// read back before the next role is considered. Roles already held are skipped.
var SeqProvisionRoles = operations.NewSequence(
	"provision-roles",
	semver.MustParse("1.0.0"),
	"Grant missing access control roles to a contract",
	func(b operations.Bundle, deps ProvisionDeps, in ProvisionInput) (ProvisionOutput, error) {
		out := ProvisionOutput{AlreadyHeld: []string{}, Granted: []string{}, Planned: []string{}, Mutations: []OperationHandle{}}
		ctx := b.GetContext()

		for _, role := range in.Roles {
			name := RoleName(role)
			held, err := readLedger(ctx, deps.ReadAttempts, b.Logger, "hasRole", func(ctx context.Context) (bool, error) {
				return deps.Ledger.HasCapability(ctx, role, in.Grantee)
			})
			if err != nil {
				return out, fmt.Errorf("%w: hasRole %s: %w", ErrLedgerRead, name, err)
			}
			if held {
				b.Logger.Infow("Role already held", "role", name, "grantee", in.Grantee.Hex())
				out.AlreadyHeld = append(out.AlreadyHeld, name)

				continue
			}

			description := fmt.Sprintf("grant %s on %s on endpoint %d to %s",
				name, in.Target.Contract.Hex(), in.Target.Endpoint, in.Grantee.Hex())
			if deps.Mode != ModeExecute {
				out.Planned = append(out.Planned, description)
				continue
			}

			decision, err := deps.Gate.Approve(ctx, description)
			if err != nil {
				return out, fmt.Errorf("%w: %w", ErrAborted, err)
			}
			if decision != Proceed {
				return out, fmt.Errorf("%w: %s declined", ErrAborted, description)
			}

			report, err := operations.ExecuteOperation(b, OpGrantCapability,
				MutationDeps{Ledger: deps.Ledger, SettlementTimeout: deps.SettlementTimeout},
				MutationInput{RunID: in.RunID, Target: in.Target, Role: role, Holder: in.Grantee},
			)
			if report.Output.Handle.Ref != "" {
				out.Mutations = append(out.Mutations, report.Output.Handle)
			}
			if err != nil {
				return out, &OperationFailure{Phase: PhaseGranting, Handle: report.Output.Handle, Err: err}
			}

			held, err = readLedger(ctx, deps.ReadAttempts, b.Logger, "hasRole", func(ctx context.Context) (bool, error) {
				return deps.Ledger.HasCapability(ctx, role, in.Grantee)
			})
			if err != nil {
				return out, fmt.Errorf("%w: hasRole %s: %w", ErrLedgerRead, name, err)
			}
			if !held {
				return out, &PreconditionError{
					Phase:  PhaseVerifyGranted,
					Reason: fmt.Sprintf("%s does not hold %s after settlement", in.Grantee.Hex(), name),
				}
			}
			out.Granted = append(out.Granted, name)
		}

		return out, nil
	},
)

// Provision runs SeqProvisionRoles for one contract with a fresh run id.
func Provision(
	b operations.Bundle, deps ProvisionDeps, target Target, grantee common.Address, roles ...common.Hash,
) (ProvisionOutput, error) {
	if err := target.validate(); err != nil {
		return ProvisionOutput{}, err
	}
	if grantee == (common.Address{}) {
		return ProvisionOutput{}, fmt.Errorf("grantee must not be the zero address")
	}
	if _, err := ParseMode(string(deps.Mode)); err != nil {
		return ProvisionOutput{}, err
	}

	report, err := operations.ExecuteSequence(b, SeqProvisionRoles, deps, ProvisionInput{
		RunID:   uuid.NewString(),
		Target:  target,
		Grantee: grantee,
		Roles:   roles,
	})

	return report.Output, err
}
