package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) // #nosec G115 - file descriptors fit in int
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions, falling
// back to whether stdout is a terminal.
func ShouldUseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if f := os.Getenv("CLICOLOR_FORCE"); f != "" && f != "0" {
		return true
	}
	return IsTerminal()
}

// ConfigureColor sets the lipgloss color profile. Styled output renders as
// plain text when noColor is set or ShouldUseColor says no.
func ConfigureColor(noColor bool) {
	if noColor || !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
