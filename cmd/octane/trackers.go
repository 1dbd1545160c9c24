package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/octanebridge/octane/internal/tracker"
	"github.com/octanebridge/octane/internal/ui"
)

// trackerInfo describes a registered tracker.
type trackerInfo struct {
	Name                   string                `json:"name" yaml:"name"`
	DisplayName            string                `json:"display_name" yaml:"display_name"`
	RequiresAuthentication bool                  `json:"requires_authentication" yaml:"requires_authentication"`
	Fields                 []tracker.ConfigField `json:"fields" yaml:"fields"`
}

func listTrackers() ([]trackerInfo, error) {
	var infos []trackerInfo
	for _, name := range tracker.List() {
		bt, err := tracker.NewTracker(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, trackerInfo{
			Name:                   bt.Name(),
			DisplayName:            bt.ShortDisplayName(),
			RequiresAuthentication: bt.RequiresAuthentication(),
			Fields:                 bt.ConfigFields(),
		})
	}
	return infos, nil
}

func trackersCmd(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "trackers",
		GroupID: "setup",
		Short:   "List the registered trackers and their configuration fields",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := listTrackers()
			if err != nil {
				return err
			}
			return opts.render(out(cmd), infos, func(w io.Writer) error {
				tw := newTable("TRACKER", "FIELD", "LABEL", "REQUIRED", "DESCRIPTION")
				for _, info := range infos {
					tw.AppendRow(table.Row{ui.RenderCategory(info.DisplayName), "", "", "", ""})
					for _, f := range info.Fields {
						if f.Hidden && !all {
							continue
						}
						required := ""
						if f.Required {
							required = ui.RenderAccent("yes")
						}
						tw.AppendRow(table.Row{info.Name, f.Key, f.Label, required, cell(f.Description)})
					}
				}
				return opts.page(w, tw)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden fields such as proxy settings")
	return cmd
}
