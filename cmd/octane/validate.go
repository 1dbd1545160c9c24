package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/octanebridge/octane/internal/debug"
	"github.com/octanebridge/octane/internal/ui"
)

func validateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		GroupID: "setup",
		Short:   "Check the connection settings and credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.tracker.ValidateCredentials(cmd.Context(), s.creds); err != nil {
				return err
			}
			result := map[string]string{
				"tracker":  s.tracker.LongDisplayName(),
				"username": s.creds.Username,
				"status":   "ok",
			}
			return opts.render(out(cmd), result, func(io.Writer) error {
				debug.PrintlnNormal(ui.RenderPassIcon(), "Connected to", s.tracker.LongDisplayName(), "as", s.creds.Username)
				return nil
			})
		},
	}
}
