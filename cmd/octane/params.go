package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/octanebridge/octane/internal/bugparam"
	"github.com/octanebridge/octane/internal/ui"
)

// assignment is one --set ID=value flag.
type assignment struct {
	id    bugparam.ID
	value string
}

// parseAssignments parses ID=value pairs. IDs are case insensitive and the
// value may be empty or contain "=".
func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, r := range raw {
		k, v, ok := strings.Cut(r, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q (expected ID=value)", r)
		}
		out = append(out, assignment{id: bugparam.ID(strings.ToUpper(k)), value: v})
	}
	return out, nil
}

// applyAssignments sets each value in order and lets the tracker refresh
// what depends on it, the way a host does when a user picks a value.
func applyAssignments(ctx context.Context, s *session, set *bugparam.Set, assignments []assignment) (*bugparam.Set, error) {
	for _, a := range assignments {
		if err := set.SetValue(a.id, a.value); err != nil {
			return nil, err
		}
		var err error
		if set, err = s.tracker.OnParameterChange(ctx, s.creds, a.id, set); err != nil {
			return nil, fmt.Errorf("refreshing after %s: %w", a.id, err)
		}
	}
	return set, nil
}

func paramsCmd(opts *rootOptions) *cobra.Command {
	var (
		sets    []string
		changed string
	)
	cmd := &cobra.Command{
		Use:     "params",
		GroupID: "defects",
		Short:   "Show the defect fields and their current choices",
		Long: `Show the fields used to file a defect, with the Root, Epic and Feature
choices loaded from Octane.

--set assigns a value and refreshes the fields that depend on it, in order.
--changed refreshes the dependents of a field without changing it.

Examples:
  octane params
  octane params --set ROOT=Backlog --set EPIC=Security -o yaml
  octane params --set ROOT=Backlog --changed ROOT`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			set, err := s.tracker.Parameters(ctx, s.creds)
			if err != nil {
				return err
			}
			if set, err = applyAssignments(ctx, s, set, assignments); err != nil {
				return err
			}
			if changed != "" {
				if set, err = s.tracker.OnParameterChange(ctx, s.creds, bugparam.ID(strings.ToUpper(changed)), set); err != nil {
					return err
				}
			}
			return opts.render(out(cmd), set.Views(), func(w io.Writer) error {
				return opts.page(w, paramsTable(set.Views()))
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Assign a field value, ID=value (repeatable)")
	cmd.Flags().StringVar(&changed, "changed", "", "Refresh the dependents of this field")
	return cmd
}

func paramsTable(views []bugparam.View) table.Writer {
	tw := newTable("FIELD", "VALUE", "REQUIRED", "CHOICES")
	for _, v := range views {
		label := string(v.ID)
		if v.HasDependents {
			label += " " + ui.RenderMuted(ui.TreeLast+"refreshes")
		}
		required := ""
		if v.Required {
			required = ui.RenderAccent("yes")
		}
		value := cell(v.Value)
		if v.Required && strings.TrimSpace(v.Value) == "" {
			value = ui.RenderFail("(missing)")
		}
		tw.AppendRow(table.Row{label, value, required, joinChoices(v.Choices)})
	}
	return tw
}
