package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"

	"github.com/wxrp-bridge/omnichain-deployments/migration"
)

var _ migration.ConfirmationGate = (*PromptGate)(nil)

// PromptGate asks the operator to confirm every irreversible action on a terminal.
type PromptGate struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
	// run is replaced in tests.
	run func(promptui.Prompt) (string, error)
}

// NewPromptGate returns a gate prompting on stdin and stdout.
func NewPromptGate(stdin io.ReadCloser, stdout io.WriteCloser) *PromptGate {
	return &PromptGate{
		stdin:  stdin,
		stdout: stdout,
		run: func(p promptui.Prompt) (string, error) {
			return p.Run()
		},
	}
}

// Approve proceeds on "y", aborts on any other answer and fails when the prompt is interrupted.
func (g *PromptGate) Approve(ctx context.Context, description string) (migration.Decision, error) {
	if err := ctx.Err(); err != nil {
		return migration.Abort, err
	}

	_, err := g.run(promptui.Prompt{
		Label:     description + ". Proceed",
		IsConfirm: true,
		Stdin:     g.stdin,
		Stdout:    g.stdout,
	})
	switch {
	case err == nil:
		return migration.Proceed, nil
	case errors.Is(err, promptui.ErrAbort):
		return migration.Abort, nil
	default:
		return migration.Abort, fmt.Errorf("approval prompt failed: %w", err)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
