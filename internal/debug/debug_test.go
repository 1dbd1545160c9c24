package debug

import (
	"bytes"
	"testing"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name    string
		env     bool
		verbose bool
		want    bool
	}{
		{"env only", true, false, true},
		{"verbose only", false, true, true},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled, oldVerbose := enabled, verboseMode
			defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()

			enabled = tt.env
			SetVerbose(tt.verbose)

			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantOutput string
	}{
		{"outputs when enabled", true, "GET epics -> 2 names\n"},
		{"no output when disabled", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			defer func() { enabled = oldEnabled }()
			enabled = tt.enabled

			var logBuf, outBuf bytes.Buffer
			restore := SetOutput(&logBuf, &outBuf)
			defer restore()

			Logf("GET %s -> %d names\n", "epics", 2)

			if got := logBuf.String(); got != tt.wantOutput {
				t.Errorf("Logf() output = %q, want %q", got, tt.wantOutput)
			}
			if outBuf.Len() != 0 {
				t.Errorf("Logf() wrote %q to stdout", outBuf.String())
			}
		})
	}
}

func TestPrintNormal(t *testing.T) {
	tests := []struct {
		name       string
		quiet      bool
		wantOutput string
	}{
		{"prints when not quiet", false, "filed defect 1001\n"},
		{"suppressed when quiet", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldQuiet := quietMode
			defer SetQuiet(oldQuiet)
			SetQuiet(tt.quiet)

			var logBuf, outBuf bytes.Buffer
			restore := SetOutput(&logBuf, &outBuf)
			defer restore()

			PrintNormal("filed defect %s\n", "1001")

			if got := outBuf.String(); got != tt.wantOutput {
				t.Errorf("PrintNormal() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestPrintlnNormal(t *testing.T) {
	oldQuiet := quietMode
	defer SetQuiet(oldQuiet)
	SetQuiet(false)

	var logBuf, outBuf bytes.Buffer
	restore := SetOutput(&logBuf, &outBuf)
	defer restore()

	PrintlnNormal("connection", "ok")
	if got, want := outBuf.String(), "connection ok\n"; got != want {
		t.Errorf("PrintlnNormal() output = %q, want %q", got, want)
	}

	if IsQuiet() {
		t.Error("IsQuiet() = true after SetQuiet(false)")
	}
}
