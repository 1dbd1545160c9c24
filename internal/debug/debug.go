// Package debug holds the CLI's diagnostic and informational printers.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("OCTANE_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	mu     sync.Mutex
	logOut io.Writer = os.Stderr
	stdout io.Writer = os.Stdout
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables debug output regardless of OCTANE_DEBUG.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses PrintNormal output.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects debug and normal output. It returns a func restoring
// the previous writers.
func SetOutput(logW, outW io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevLog, prevOut := logOut, stdout
	logOut, stdout = logW, outW
	return func() {
		mu.Lock()
		defer mu.Unlock()
		logOut, stdout = prevLog, prevOut
	}
}

// Logf writes a debug line to stderr when debugging is on.
func Logf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(logOut, format, args...)
}

// PrintNormal prints informational output unless quiet mode is enabled.
func PrintNormal(format string, args ...interface{}) {
	if quietMode {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(stdout, format, args...)
}

func PrintlnNormal(args ...interface{}) {
	if quietMode {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(stdout, args...)
}
