package style

import (
	"github.com/pterm/pterm"
)

// Outcome labels printed after a job description
const (
	DoneLabel   = "done"
	FailedLabel = "failed"
)

var (
	doneStyle    = pterm.NewStyle(pterm.FgGreen)
	failedStyle  = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	warningStyle = pterm.NewStyle(pterm.FgYellow)
)

// Done renders the success suffix of a status line
func Done() string {
	if !ColorEnabled() {
		return DoneLabel
	}
	return doneStyle.Sprint(DoneLabel)
}

// Failed renders the failure suffix of a status line
func Failed() string {
	if !ColorEnabled() {
		return FailedLabel
	}
	return failedStyle.Sprint(FailedLabel)
}

// Warning renders a warning message
func Warning(msg string) string {
	if !ColorEnabled() {
		return msg
	}
	return warningStyle.Sprint(msg)
}
