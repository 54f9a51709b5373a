package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode is the interaction mode of a pgframe run.
type Mode int

const (
	// ModeNonInteractive covers CI pipelines, scripts and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive means a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnvVar forces ModeNonInteractive when set to "1".
const NonInteractiveEnvVar = "PGFRAME_NON_INTERACTIVE"

// DetectMode returns ModeNonInteractive when PGFRAME_NON_INTERACTIVE=1, CI or
// NO_COLOR is set, or stdin or stderr is not a terminal.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnvVar) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !IsTerminal(os.Stdin) || !IsTerminal(os.Stderr) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether DetectMode returns ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
