// Command octane files and manages ALM Octane defects from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/octanebridge/octane/internal/config"
	"github.com/octanebridge/octane/internal/debug"
	"github.com/octanebridge/octane/internal/telemetry"
	"github.com/octanebridge/octane/internal/ui"

	// Registers the "octane" tracker.
	_ "github.com/octanebridge/octane/internal/tracker/octane"
)

var (
	Version = "0.1.0"
	Build   = "dev"
)

// rootOptions holds the global flags and the hooks tests replace.
type rootOptions struct {
	configPath string
	jsonOutput bool
	output     string
	verbose    bool
	quiet      bool
	noColor    bool
	noPager    bool

	// prompt asks for a missing password; nil disables prompting.
	prompt config.PasswordPrompt
	// interactive runs the file form; replaced in tests.
	interactive formRunner
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		prompt:      config.TerminalPrompt(os.Stdin, os.Stderr),
		interactive: runFileForm,
	}
	return newRootCmdWith(opts)
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "octane",
		Short: "octane - file and track ALM Octane defects",
		Long: `File defects in ALM Octane, pick their parent work item from the live
Root/Epic/Feature hierarchy, and follow or reopen them by phase.

Configuration (~/.config/octane/config.yaml or --config):
  octane:
    url: https://octane.example.com
    shared_space_id: "1001"
    workspace_id: "1002"
    username: sa@nga
    proxy:
      https:
        host: proxy.local
        port: 3128

Environment variables (alternative to config):
  OCTANE_URL, OCTANE_SHARED_SPACE_ID, OCTANE_WORKSPACE_ID,
  OCTANE_USERNAME, OCTANE_PASSWORD`,
		Version:       fmt.Sprintf("%s (%s)", Version, Build),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug.SetVerbose(opts.verbose)
			debug.SetQuiet(opts.quiet)
			debug.SetOutput(cmd.ErrOrStderr(), out(cmd))
			ui.ConfigureColor(opts.noColor)
			if opts.jsonOutput {
				opts.output = formatJSON
			}
			if err := validateFormat(opts.output); err != nil {
				return err
			}
			if err := telemetry.Init(cmd.Context(), "octane", Version); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: telemetry disabled: %v\n", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			telemetry.Shutdown(cmd.Context())
		},
	}

	root.AddGroup(
		&cobra.Group{ID: "defects", Title: "Working With Defects:"},
		&cobra.Group{ID: "setup", Title: "Setup & Configuration:"},
	)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: $OCTANE_CONFIG or ~/.config/octane/config.yaml)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	flags.StringVarP(&opts.output, "output", "o", "", "Output format: table, json or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose/debug output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress non-essential output (errors only)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.noPager, "no-pager", false, "Never pipe output through a pager")

	root.AddCommand(
		validateCmd(opts),
		paramsCmd(opts),
		fileCmd(opts),
		statusCmd(opts),
		reopenCmd(opts),
		commentCmd(opts),
		linkCmd(opts),
		trackersCmd(opts),
		configCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	// PersistentPostRun is skipped when a command fails.
	telemetry.Shutdown(context.Background())
	if err != nil {
		jsonErrors, _ := root.PersistentFlags().GetBool("json")
		format, _ := root.PersistentFlags().GetString("output")
		os.Exit(reportError(os.Stderr, err, jsonErrors || format == formatJSON))
	}
}

// out returns where command results go.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
