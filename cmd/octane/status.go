package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/octanebridge/octane/internal/bugstate"
	"github.com/octanebridge/octane/internal/debug"
	"github.com/octanebridge/octane/internal/tracker"
	"github.com/octanebridge/octane/internal/ui"
)

const defaultJobs = 4

// statusResult is one row of `octane status`.
type statusResult struct {
	ID        string          `json:"id" yaml:"id"`
	Bug       *tracker.Bug    `json:"bug,omitempty" yaml:"bug,omitempty"`
	Status    bugstate.Status `json:"status" yaml:"status"`
	CanReopen bool            `json:"can_reopen" yaml:"can_reopen"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// fetchStatuses looks up every id with at most jobs lookups in flight. Each
// lookup uses its own connection. Results keep the order of ids; a failed
// lookup is reported in its row and does not stop the others.
func fetchStatuses(ctx context.Context, s *session, ids []string, jobs int) ([]statusResult, int) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]statusResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, id := range ids {
		g.Go(func() error {
			r := statusResult{ID: id}
			bug, err := s.tracker.FetchBug(gctx, s.creds, id)
			if err != nil {
				r.Error = err.Error()
			} else {
				c := bugstate.Classify(bug.Status)
				r.Bug, r.Status, r.CanReopen = bug, c.Status, c.CanReopen
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	return results, failed
}

func statusCmd(opts *rootOptions) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:     "status <id>...",
		GroupID: "defects",
		Short:   "Show the phase of one or more defects",
		Long: `Show the phase of each defect and whether it is open, closed or can be
reopened. Defects are looked up concurrently, --jobs at a time.

Examples:
  octane status 1001
  octane status 1001 1002 1003 --jobs 8 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			results, failed := fetchStatuses(cmd.Context(), s, args, jobs)
			err = opts.render(out(cmd), results, func(w io.Writer) error {
				return opts.page(w, statusTable(results))
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d status lookups failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultJobs, "Maximum concurrent lookups")
	return cmd
}

func statusTable(results []statusResult) table.Writer {
	tw := newTable("ID", "PHASE", "STATUS", "REOPEN", "URL")
	for _, r := range results {
		if r.Error != "" {
			tw.AppendRow(table.Row{r.ID, ui.RenderFailIcon(), ui.RenderFail("error"), "", cell(r.Error)})
			continue
		}
		reopen := ""
		if r.CanReopen {
			reopen = ui.RenderAccent("yes")
		}
		tw.AppendRow(table.Row{
			r.ID,
			ui.RenderPhase(r.Bug.Status, r.Bug.StatusName),
			ui.RenderStatus(r.Status),
			reopen,
			r.Bug.URL,
		})
	}
	return tw
}

func reopenCmd(opts *rootOptions) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:     "reopen <id>",
		GroupID: "defects",
		Short:   "Reopen a fixed defect with a comment",
		Long: `Move a fixed defect back to the opened phase and add a comment saying why.

Only defects in the fixed phase can be reopened. The phase change and the
comment are separate requests: if the comment fails the defect stays
reopened and the error says so.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(comment) == "" {
				return fmt.Errorf("--comment is required")
			}
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			bug := &tracker.Bug{ID: args[0]}
			if err := s.tracker.Reopen(cmd.Context(), s.creds, bug, comment); err != nil {
				return err
			}
			bug.URL = s.tracker.DeepLink(bug.ID)
			return opts.render(out(cmd), bug, func(io.Writer) error {
				debug.PrintNormal("%s Reopened defect %s (%s)\n",
					ui.RenderPassIcon(), ui.RenderAccent(bug.ID), ui.RenderPhase(bug.Status, ""))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Why the defect is reopened (required)")
	return cmd
}

func commentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "comment <id> <text>...",
		GroupID: "defects",
		Short:   "Add a comment to a defect",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("comment text is empty")
			}
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			bug := &tracker.Bug{ID: args[0]}
			if err := s.tracker.AddComment(cmd.Context(), s.creds, bug, text); err != nil {
				return err
			}
			result := map[string]string{"id": bug.ID, "comment": text}
			return opts.render(out(cmd), result, func(io.Writer) error {
				debug.PrintNormal("%s Commented on defect %s\n", ui.RenderPassIcon(), ui.RenderAccent(bug.ID))
				return nil
			})
		},
	}
}

func linkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "link <id>",
		GroupID: "defects",
		Short:   "Print the browser link of a defect",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.configuredTracker(cmd.Context())
			if err != nil {
				return err
			}
			link := s.tracker.DeepLink(args[0])
			return opts.render(out(cmd), map[string]string{"id": args[0], "url": link}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, link)
				return err
			})
		},
	}
}
