package text

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/wxrp-bridge/omnichain-deployments/migration"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
)

// PhaseLine renders the final phase of a run with a colour matching its outcome. Colour is
// dropped when the output is not a terminal or NO_COLOR is set.
func PhaseLine(subject string, phase migration.Phase) string {
	c := failColor
	switch {
	case phase == migration.PhaseDryRunStopped, phase == migration.PhaseAborted:
		c = warnColor
	case phase.IsSuccess():
		c = successColor
	}

	return fmt.Sprintf("%s: %s", subject, c.Sprint(phase))
}

// Warning renders a warning line.
func Warning(msg string) string {
	return warnColor.Sprint("warning: ") + msg
}
