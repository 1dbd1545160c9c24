package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables the pager (--no-pager flag)
	NoPager bool
}

// pagerCommand returns the pager to run, or nil when output should go
// straight to out. The pager is skipped when disabled, when out is not a
// terminal and when content fits on the screen.
func pagerCommand(out io.Writer, content string, opts PagerOptions) []string {
	if opts.NoPager || os.Getenv("OCTANE_NO_PAGER") != "" {
		return nil
	}
	f, ok := out.(*os.File)
	if !ok {
		return nil
	}
	fd := int(f.Fd()) // #nosec G115 - file descriptors fit in int
	if !term.IsTerminal(fd) {
		return nil
	}
	if _, height, err := term.GetSize(fd); err == nil && contentHeight(content) < height {
		return nil
	}

	pager := os.Getenv("OCTANE_PAGER")
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	if pager == "" {
		pager = "less"
	}
	return strings.Fields(pager)
}

// contentHeight counts the number of lines in the content.
func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}

// ToPager writes content to out, through a pager when out is a terminal
// too small to show it.
func ToPager(out io.Writer, content string, opts PagerOptions) error {
	parts := pagerCommand(out, content, opts)
	if len(parts) == 0 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	// -R keeps colors, -F quits when content fits, -X keeps the screen
	cmd.Env = os.Environ()
	if os.Getenv("LESS") == "" {
		cmd.Env = append(cmd.Env, "LESS=-RFX")
	}
	return cmd.Run()
}
