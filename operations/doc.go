/*
Package operations provides a small execution framework for the side-effecting steps of a
deployment or migration run.

# Operations

An Operation wraps exactly one side effect, for example submitting a role grant and waiting for
it to settle. Operations are identified by an ID and a semver version and are executed through
ExecuteOperation, which records a Report for every execution in a Reporter. The reports form the
audit trail of a run and can be written out as JSON with WriteReports.

A successful report for the same definition and input short-circuits a second execution within
the same Bundle. Callers that must never reuse a previous result across invocations include a
per-invocation identifier in the input.

# Retries

Retries are disabled by default. WithRetry and WithRetryConfig opt in, and are only suitable for
operations that are safe to repeat, such as reads. Ledger mutations must not be retried
automatically because a second submission could duplicate the first.

# Sequences

A Sequence groups operations. ExecuteSequence records a report for the sequence that links the
reports of the operations executed as part of it.

# Basic Usage

	op := operations.NewOperation("grant-capability", semver.MustParse("1.0.0"),
		"Grant a capability and wait for settlement", handler)

	bundle := operations.NewBundle(ctx, lggr, operations.NewMemoryReporter())
	report, err := operations.ExecuteOperation(bundle, op, deps, input)
*/
package operations
