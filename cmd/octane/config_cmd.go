package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/octanebridge/octane/internal/ui"
)

const masked = "********"

// isSecretKey reports whether a config key holds a password.
func isSecretKey(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), "password")
}

func displayValue(key, value string) string {
	if isSecretKey(key) && value != "" {
		return masked
	}
	return value
}

func configCmd(opts *rootOptions) *cobra.Command {
	cfg := &cobra.Command{
		Use:     "config",
		GroupID: "setup",
		Short:   "Read and write the config file",
		Long: `Read and write the octane config file.

Examples:
  octane config set octane.url https://octane.example.com
  octane config set octane.shared_space_id 1001
  octane config set octane.proxy.https.port 3128
  octane config get octane.url
  octane config list`,
	}
	cfg.AddCommand(configSetCmd(opts), configGetCmd(opts), configListCmd(opts))
	return cfg
}

func configSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.loadStore()
			if err != nil {
				return err
			}
			key := strings.ToLower(args[0])
			if err := store.SetConfig(cmd.Context(), key, args[1]); err != nil {
				return err
			}
			result := map[string]string{"key": key, "value": displayValue(key, args[1]), "path": store.Path()}
			return opts.render(out(cmd), result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s Set %s = %s\n", ui.RenderPassIcon(), key, displayValue(key, args[1]))
				return err
			})
		},
	}
}

func configGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.loadStore()
			if err != nil {
				return err
			}
			key := strings.ToLower(args[0])
			value, err := store.GetConfig(cmd.Context(), key)
			if err != nil {
				return err
			}
			return opts.render(out(cmd), map[string]string{"key": key, "value": value}, func(w io.Writer) error {
				if value == "" {
					_, err := fmt.Fprintf(w, "%s (not set)\n", key)
					return err
				}
				_, err := fmt.Fprintln(w, value)
				return err
			})
		},
	}
}

func configListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List config values (passwords masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.loadStore()
			if err != nil {
				return err
			}
			all, err := store.GetAllConfig(cmd.Context())
			if err != nil {
				return err
			}
			shown := make(map[string]string, len(all))
			for k, v := range all {
				shown[k] = displayValue(k, v)
			}
			return opts.render(out(cmd), shown, func(w io.Writer) error {
				if len(shown) == 0 {
					_, err := fmt.Fprintf(w, "No configuration in %s\n", store.Path())
					return err
				}
				tw := newTable("KEY", "VALUE")
				for _, k := range store.Keys() {
					tw.AppendRow(table.Row{k, shown[k]})
				}
				_, err := fmt.Fprintln(w, tw.Render())
				return err
			})
		},
	}
}
