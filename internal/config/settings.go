package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/octanebridge/octane/internal/tracker"
	octanetracker "github.com/octanebridge/octane/internal/tracker/octane"
)

// Section is the config file section holding the Octane settings.
const Section = "octane"

// Settings is everything a command needs to reach Octane.
type Settings struct {
	// Tracker is the map passed to BugTracker.Configure.
	Tracker     map[string]string
	Credentials tracker.Credentials
}

// PasswordPrompt asks for the password of username.
type PasswordPrompt func(username string) (string, error)

// Resolve reads the octane section of store, with OCTANE_* environment
// variables as fallback. The password is prompted for when it is not
// configured and prompt is non-nil.
func Resolve(ctx context.Context, store tracker.ConfigStore, prompt PasswordPrompt) (*Settings, error) {
	host, err := ResolveTracker(ctx, store)
	if err != nil {
		return nil, err
	}
	cfg := tracker.NewConfig(ctx, Section, store)
	username, err := cfg.GetRequired(tracker.CommonConfig.Username)
	if err != nil {
		return nil, err
	}
	password, err := cfg.Get(tracker.CommonConfig.Password)
	if err != nil {
		return nil, err
	}
	if password == "" && prompt != nil {
		if password, err = prompt(username); err != nil {
			return nil, err
		}
	}
	return &Settings{
		Tracker:     host,
		Credentials: tracker.Credentials{Username: username, Password: password},
	}, nil
}

// ResolveTracker returns only the tracker configuration map, for commands
// that never authenticate.
func ResolveTracker(ctx context.Context, store tracker.ConfigStore) (map[string]string, error) {
	return octanetracker.HostConfig(tracker.NewConfig(ctx, Section, store))
}

// TerminalPrompt reads the password from in without echo. It fails when in
// is not a terminal.
func TerminalPrompt(in *os.File, out io.Writer) PasswordPrompt {
	return func(username string) (string, error) {
		fd := int(in.Fd()) // #nosec G115 - file descriptors fit in int
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("%s.%s not configured and stdin is not a terminal\nOr: export OCTANE_PASSWORD=VALUE",
				Section, tracker.CommonConfig.Password)
		}
		fmt.Fprintf(out, "Octane password for %s: ", username)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}
}
