package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/wxrp-bridge/omnichain-deployments/operations"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

const (
	DefaultSettlementTimeout      = 5 * time.Minute
	DefaultReadAttempts      uint = 3
)

// Config controls a migration run.
type Config struct {
	// Mode must be set explicitly; there is no implicit default.
	Mode Mode
	// SettlementTimeout bounds the wait for a submitted mutation. Zero waits until ctx is done.
	SettlementTimeout time.Duration
	// ReadAttempts bounds the attempts of every ledger read. Mutations are never retried.
	ReadAttempts uint
}

// DefaultConfig returns a config for mode with the default timeout and read attempts.
func DefaultConfig(mode Mode) Config {
	return Config{
		Mode:              mode,
		SettlementTimeout: DefaultSettlementTimeout,
		ReadAttempts:      DefaultReadAttempts,
	}
}

// Result describes a finished or stopped run.
type Result struct {
	RunID       string            `json:"runId"`
	Target      Target            `json:"target"`
	Signer      common.Address    `json:"signer"`
	FinalHolder common.Address    `json:"finalHolder"`
	Mode        Mode              `json:"mode"`
	Phase       Phase             `json:"phase"`
	Trace       []Phase           `json:"trace"`
	Mutations   []OperationHandle `json:"mutations"`
	// Planned describes the first mutation a dry run would have asked approval for.
	Planned  string   `json:"planned,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Succeeded reports whether the run ended in a success terminal.
func (r *Result) Succeeded() bool {
	return r != nil && r.Phase.IsSuccess()
}

// Orchestrator moves one capability from the operating signer to the final holder. It never
// revokes the signer's capability before the final holder's capability is settled and read back.
type Orchestrator struct {
	bundle operations.Bundle
	ledger CapabilityLedger
	gate   ConfirmationGate
	cfg    Config
}

// NewOrchestrator returns an orchestrator for the target served by ledger. The bundle's reporter
// records every mutation.
func NewOrchestrator(b operations.Bundle, ledger CapabilityLedger, gate ConfirmationGate, cfg Config) *Orchestrator {
	return &Orchestrator{bundle: b, ledger: ledger, gate: gate, cfg: cfg}
}

// Run drives one migration from START to a terminal phase.
//
// Invalid input is reported as a *topology.ConfigurationError with a nil result before the ledger
// is touched. Fatal terminals return a *PreconditionError or an *OperationFailure. A declined
// approval ends in ABORTED with a nil error. A ledger read that keeps failing stops the run in
// its current phase with an error wrapping ErrLedgerRead.
func (o *Orchestrator) Run(ctx context.Context, target Target, signer, finalHolder common.Address) (*Result, error) {
	if err := o.checkRun(target, signer, finalHolder); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Target:      target,
		Signer:      signer,
		FinalHolder: finalHolder,
		Mode:        o.cfg.Mode,
		Mutations:   []OperationHandle{},
	}
	lggr := logger.With(logger.Named(o.bundle.Logger, "migration"),
		"runID", res.RunID, "target", target.String(), "mode", o.cfg.Mode)

	r := &run{
		Orchestrator: o,
		ctx:          ctx,
		lggr:         lggr,
		bundle:       operations.NewBundle(func() context.Context { return ctx }, lggr, o.bundle.Reporter()),
		res:          res,
	}

	r.enter(PhaseStart)

	var runErr error
	for !res.Phase.IsTerminal() {
		next, err := r.step()
		if next == "" {
			lggr.Errorw("Run stopped before reaching a terminal phase", "phase", res.Phase, "error", err)
			return res, err
		}
		r.enter(next)
		runErr = err
	}

	switch {
	case res.Phase.IsSuccess():
		lggr.Infow("Migration finished", "phase", res.Phase, "mutations", len(res.Mutations))
	case res.Phase == PhaseAborted:
		lggr.Warnw("Migration aborted", "mutations", len(res.Mutations), "error", runErr)
	default:
		lggr.Errorw("Migration failed", "phase", res.Phase, "mutations", len(res.Mutations), "error", runErr)
	}

	return res, runErr
}

func (o *Orchestrator) checkRun(target Target, signer, finalHolder common.Address) error {
	if err := target.validate(); err != nil {
		return err
	}
	if _, err := ParseMode(string(o.cfg.Mode)); err != nil {
		return &topology.ConfigurationError{Endpoint: target.Endpoint, Field: "mode", Reason: err.Error()}
	}

	cerr := func(field, reason string) error {
		return &topology.ConfigurationError{Endpoint: target.Endpoint, Field: field, Reason: reason}
	}
	switch {
	case signer == (common.Address{}):
		return cerr("signer", "zero address")
	case finalHolder == (common.Address{}):
		return cerr("final_holder", "zero address")
	case signer == finalHolder:
		return cerr("final_holder", fmt.Sprintf("final holder %s is the operating signer", finalHolder.Hex()))
	}

	return nil
}

// run is the transient state of one invocation.
type run struct {
	*Orchestrator
	ctx    context.Context
	lggr   logger.Logger
	bundle operations.Bundle
	res    *Result
	// owner is the last ownership snapshot.
	owner *common.Address
}

func (r *run) enter(p Phase) {
	r.res.Phase = p
	r.res.Trace = append(r.res.Trace, p)
	r.lggr.Debugw("Entered phase", "phase", p)
}

func (r *run) step() (Phase, error) {
	switch r.res.Phase {
	case PhaseStart:
		if next, stop, err := r.preflight(); stop {
			return next, err
		}
		has, err := r.holds(r.res.FinalHolder, true)
		if err != nil {
			return "", err
		}
		if has {
			r.warnIfSignerRetains()
			return PhaseAlreadyMigrated, nil
		}

		return PhaseVerifySignerHolds, nil

	case PhaseVerifySignerHolds:
		has, err := r.holds(r.res.Signer, false)
		if err != nil {
			return "", err
		}
		if !has {
			return PhaseFatalNotHolder, r.preconditionErr(fmt.Sprintf("signer %s does not hold the capability", r.res.Signer.Hex()))
		}
		if r.cfg.Mode == ModeDryRun {
			r.res.Planned = r.grantDescription()
			r.lggr.Infow("Dry run stopped before approval", "planned", r.res.Planned)

			return PhaseDryRunStopped, nil
		}

		return PhaseAwaitApprovalGrant, nil

	case PhaseAwaitApprovalGrant:
		return r.approve(r.grantDescription(), PhaseGranting)

	case PhaseGranting:
		op := OpGrantCapability
		if r.res.Target.Kind == KindOwnership {
			op = OpTransferOwnership
		}

		return r.mutate(op, r.res.FinalHolder, PhaseVerifyGranted)

	case PhaseVerifyGranted:
		has, err := r.holds(r.res.FinalHolder, true)
		if err != nil {
			return "", err
		}
		if !has {
			return PhaseFatalGrantNotObserved, r.preconditionErr(
				fmt.Sprintf("final holder %s does not hold the capability after settlement", r.res.FinalHolder.Hex()))
		}

		return PhaseVerifySignerStillHolds, nil

	case PhaseVerifySignerStillHolds:
		has, err := r.holds(r.res.Signer, false)
		if err != nil {
			return "", err
		}
		if !has {
			return PhaseDoneNoRenounce, nil
		}

		return PhaseAwaitApprovalRenounce, nil

	case PhaseAwaitApprovalRenounce:
		next, err := r.approve(r.renounceDescription(), PhaseRenouncing)
		if next != PhaseRenouncing {
			return next, err
		}
		has, err := r.holds(r.res.FinalHolder, true)
		if err != nil {
			return "", err
		}
		if !has {
			return PhaseFatalPrecondition, r.preconditionErr(
				fmt.Sprintf("final holder %s no longer holds the capability, refusing to renounce", r.res.FinalHolder.Hex()))
		}

		return PhaseRenouncing, nil

	case PhaseRenouncing:
		if r.res.Target.Kind == KindOwnership {
			return PhaseFatalPrecondition, r.preconditionErr("ownership cannot be renounced separately")
		}

		return r.mutate(OpRevokeCapability, r.res.Signer, PhaseDone)

	default:
		return "", fmt.Errorf("no transition from phase %s", r.res.Phase)
	}
}

// preflight runs the ledger's own precondition check, if it has one.
func (r *run) preflight() (Phase, bool, error) {
	pf, ok := r.ledger.(Preflighter)
	if !ok {
		return "", false, nil
	}

	_, err := read(r, "preflight", func(ctx context.Context) (struct{}, error) {
		perr := pf.Preflight(ctx)

		var precondition *PreconditionError
		if errors.As(perr, &precondition) {
			return struct{}{}, retry.Unrecoverable(perr)
		}

		return struct{}{}, perr
	})
	if err == nil {
		return "", false, nil
	}

	var precondition *PreconditionError
	if errors.As(err, &precondition) {
		if precondition.Phase == "" {
			precondition.Phase = PhaseStart
		}

		return PhaseFatalPrecondition, true, precondition
	}

	return "", true, err
}

// holds reports whether holder has the capability. Ownership answers come from the last owner
// snapshot, which is taken again when refresh is set.
func (r *run) holds(holder common.Address, refresh bool) (bool, error) {
	if r.res.Target.Kind == KindAdminRole {
		return read(r, "hasRole", func(ctx context.Context) (bool, error) {
			return r.ledger.HasCapability(ctx, r.res.Target.Role, holder)
		})
	}

	if refresh || r.owner == nil {
		owner, err := read(r, "owner", r.ledger.CurrentOwner)
		if err != nil {
			return false, err
		}
		r.owner = &owner
		r.lggr.Debugw("Observed owner", "owner", owner.Hex())
	}

	return *r.owner == holder, nil
}

func (r *run) warnIfSignerRetains() {
	if r.res.Target.Kind != KindAdminRole {
		return
	}

	has, err := r.holds(r.res.Signer, false)
	if err != nil {
		r.lggr.Warnw("Could not check whether the signer still holds the role", "error", err)
		return
	}
	if has {
		msg := fmt.Sprintf("signer %s still holds %s", r.res.Signer.Hex(), RoleName(r.res.Target.Role))
		r.res.Warnings = append(r.res.Warnings, msg)
		r.lggr.Warnw("Final holder already migrated but signer retains the role", "signer", r.res.Signer.Hex())
	}
}

func (r *run) approve(description string, next Phase) (Phase, error) {
	r.lggr.Infow("Requesting approval", "action", description)

	decision, err := r.gate.Approve(r.ctx, description)
	if err != nil {
		return PhaseAborted, fmt.Errorf("%w: approval in %s failed: %w", ErrAborted, r.res.Phase, err)
	}
	if decision != Proceed {
		r.lggr.Infow("Approval declined", "action", description)
		return PhaseAborted, nil
	}

	return next, nil
}

func (r *run) mutate(
	op *operations.Operation[MutationInput, MutationOutput, MutationDeps], holder common.Address, next Phase,
) (Phase, error) {
	report, err := operations.ExecuteOperation(r.bundle, op,
		MutationDeps{Ledger: r.ledger, SettlementTimeout: r.cfg.SettlementTimeout},
		MutationInput{RunID: r.res.RunID, Target: r.res.Target, Role: r.res.Target.Role, Holder: holder},
	)
	if report.Output.Handle.Ref != "" {
		r.res.Mutations = append(r.res.Mutations, report.Output.Handle)
	}
	if err != nil {
		return PhaseFatalTxFailed, &OperationFailure{Phase: r.res.Phase, Handle: report.Output.Handle, Err: err}
	}

	return next, nil
}

func (r *run) preconditionErr(reason string) *PreconditionError {
	observed := ""
	if r.owner != nil {
		observed = "owner " + r.owner.Hex()
	}

	return &PreconditionError{Phase: r.res.Phase, Observed: observed, Reason: reason}
}

func (r *run) grantDescription() string {
	t := r.res.Target
	if t.Kind == KindOwnership {
		return fmt.Sprintf("transfer ownership of %s on endpoint %d from %s to %s",
			t.Contract.Hex(), t.Endpoint, r.res.Signer.Hex(), r.res.FinalHolder.Hex())
	}

	return fmt.Sprintf("grant %s on %s on endpoint %d to %s",
		RoleName(t.Role), t.Contract.Hex(), t.Endpoint, r.res.FinalHolder.Hex())
}

func (r *run) renounceDescription() string {
	t := r.res.Target

	return fmt.Sprintf("renounce %s on %s on endpoint %d held by signer %s",
		RoleName(t.Role), t.Contract.Hex(), t.Endpoint, r.res.Signer.Hex())
}

// read performs a ledger read of the run with bounded retries.
func read[T any](r *run, what string, fn func(context.Context) (T, error)) (T, error) {
	v, err := readLedger(r.ctx, r.cfg.ReadAttempts, r.lggr, what, fn)
	if err != nil {
		var precondition *PreconditionError
		if errors.As(err, &precondition) {
			return v, err
		}

		return v, fmt.Errorf("%w: %s in %s: %w", ErrLedgerRead, what, r.res.Phase, err)
	}

	return v, nil
}

// readLedger retries fn up to attempts times. Reads are the only ledger calls that are retried.
func readLedger[T any](
	ctx context.Context, attempts uint, lggr logger.Logger, what string, fn func(context.Context) (T, error),
) (T, error) {
	opts := operations.RetryPolicy{MaxAttempts: attempts}.Options()
	opts = append(opts,
		retry.Context(ctx),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnw("Ledger read failed. Retrying...", "read", what, "attempt", attempt+1, "error", err)
		}),
	)

	return retry.DoWithData(func() (T, error) { return fn(ctx) }, opts...)
}
