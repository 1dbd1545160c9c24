package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/octanebridge/octane/internal/octane"
	"github.com/octanebridge/octane/internal/tracker"
)

// hintFor suggests a fix for the error kinds a user can act on.
func hintFor(err error) string {
	var notInit *tracker.ErrNotInitialized
	if errors.As(err, &notInit) {
		return "Set octane.url, octane.shared_space_id and octane.workspace_id with 'octane config set'"
	}
	switch octane.KindOf(err) {
	case octane.KindConfiguration:
		return "Check the octane section of the config file ('octane config list')"
	case octane.KindAuthentication:
		return "Check octane.username and the password (OCTANE_PASSWORD)"
	case octane.KindProxyAuthentication:
		return "Check octane.proxy.<scheme>.username and password"
	case octane.KindTransport:
		return "Check that the Octane server and any proxy are reachable"
	}
	return ""
}

// reportError prints err to w and returns the process exit code. Aborted
// forms exit quietly with 0.
func reportError(w io.Writer, err error, asJSON bool) int {
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(w, "Defect filing cancelled.")
		return 0
	}

	if asJSON {
		errObj := map[string]string{"error": err.Error()}
		if k := octane.KindOf(err); k != 0 {
			errObj["code"] = k.String()
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(errObj)
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := hintFor(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
	return 1
}
