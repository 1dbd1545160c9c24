package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octanebridge/octane/internal/bugparam"
	"github.com/octanebridge/octane/internal/debug"
	"github.com/octanebridge/octane/internal/tracker"
	"github.com/octanebridge/octane/internal/ui"
)

// formRunner collects defect values interactively.
type formRunner func(ctx context.Context, s *session) (map[string]string, error)

type fileFlags struct {
	root        string
	epic        string
	feature     string
	name        string
	description string
	interactive bool
}

// values maps the flags onto field ids.
func (f *fileFlags) values() map[string]string {
	return map[string]string{
		string(bugparam.Type):        bugparam.DefaultType,
		string(bugparam.Root):        f.root,
		string(bugparam.Epic):        f.epic,
		string(bugparam.Feature):     f.feature,
		string(bugparam.Name):        f.name,
		string(bugparam.Description): f.description,
	}
}

func (f *fileFlags) validate() error {
	if f.interactive {
		return nil
	}
	if strings.TrimSpace(f.name) == "" {
		return fmt.Errorf("--name is required (or use --interactive)")
	}
	if strings.TrimSpace(f.root+f.epic+f.feature) == "" {
		return fmt.Errorf("one of --feature, --epic or --root is required to place the defect")
	}
	return nil
}

func fileCmd(opts *rootOptions) *cobra.Command {
	f := &fileFlags{}
	cmd := &cobra.Command{
		Use:     "file",
		GroupID: "defects",
		Short:   "File a new defect",
		Long: `File a new defect in the "new" phase.

The defect is placed under the most specific of --feature, --epic and --root.
Names of epics and features are resolved below the given root (and epic).
Names longer than 254 characters are abbreviated.

Examples:
  octane file --root Backlog --epic Security --feature Hardening \
    --name "Fix XSS in login.jsp" --description "Issue Ids: 42"
  octane file --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}

			values := f.values()
			if f.interactive {
				if values, err = opts.interactive(ctx, s); err != nil {
					return err
				}
			}
			debug.Logf("file: values %v\n", values)

			bug, err := s.tracker.FileBug(ctx, s.creds, values)
			if err != nil {
				return err
			}
			return opts.render(out(cmd), bug, func(w io.Writer) error {
				return printFiled(w, bug)
			})
		},
	}
	cmd.Flags().StringVar(&f.root, "root", "", "Work item root name")
	cmd.Flags().StringVar(&f.epic, "epic", "", "Epic name below the root")
	cmd.Flags().StringVar(&f.feature, "feature", "", "Feature name below the epic")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Defect name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Defect description")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Pick the parent and enter the defect in a form")
	return cmd
}

// printFiled prints the new defect. Under --quiet only its id is printed.
func printFiled(w io.Writer, bug *tracker.Bug) error {
	if debug.IsQuiet() {
		_, err := fmt.Fprintln(w, bug.ID)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s Filed defect %s\n", ui.RenderPassIcon(), ui.RenderAccent(bug.ID)); err != nil {
		return err
	}
	if bug.URL != "" {
		_, err := fmt.Fprintf(w, "%s%s%s\n", ui.TreeIndent, ui.TreeLast, bug.URL)
		return err
	}
	return nil
}
