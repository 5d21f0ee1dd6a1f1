package migration

// Phase is a state of a migration run.
type Phase string

const (
	PhaseStart                  Phase = "START"
	PhaseAlreadyMigrated        Phase = "ALREADY_MIGRATED"
	PhaseVerifySignerHolds      Phase = "VERIFY_SIGNER_HOLDS"
	PhaseFatalNotHolder         Phase = "FATAL_NOT_HOLDER"
	PhaseAwaitApprovalGrant     Phase = "AWAIT_APPROVAL_GRANT"
	PhaseAborted                Phase = "ABORTED"
	PhaseGranting               Phase = "GRANTING"
	PhaseFatalTxFailed          Phase = "FATAL_TX_FAILED"
	PhaseVerifyGranted          Phase = "VERIFY_GRANTED"
	PhaseFatalGrantNotObserved  Phase = "FATAL_GRANT_NOT_OBSERVED"
	PhaseVerifySignerStillHolds Phase = "VERIFY_SIGNER_STILL_HOLDS"
	PhaseDoneNoRenounce         Phase = "DONE_NO_RENOUNCE"
	PhaseAwaitApprovalRenounce  Phase = "AWAIT_APPROVAL_RENOUNCE"
	PhaseRenouncing             Phase = "RENOUNCING"
	PhaseFatalPrecondition      Phase = "FATAL_PRECONDITION"
	PhaseDone                   Phase = "DONE"
	PhaseDryRunStopped          Phase = "DRY_RUN_STOPPED"
)

// IsTerminal reports whether the run stops in p.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseAlreadyMigrated, PhaseDone, PhaseDoneNoRenounce, PhaseDryRunStopped,
		PhaseAborted, PhaseFatalNotHolder, PhaseFatalTxFailed, PhaseFatalGrantNotObserved, PhaseFatalPrecondition:
		return true
	default:
		return false
	}
}

// IsSuccess reports whether p is a successful terminal.
func (p Phase) IsSuccess() bool {
	switch p {
	case PhaseAlreadyMigrated, PhaseDone, PhaseDoneNoRenounce, PhaseDryRunStopped:
		return true
	default:
		return false
	}
}

// IsFatal reports whether p is one of the FATAL_* terminals.
func (p Phase) IsFatal() bool {
	switch p {
	case PhaseFatalNotHolder, PhaseFatalTxFailed, PhaseFatalGrantNotObserved, PhaseFatalPrecondition:
		return true
	default:
		return false
	}
}
