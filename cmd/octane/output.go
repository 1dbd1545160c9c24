package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/octanebridge/octane/internal/ui"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case "", formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (valid: table, json, yaml)", format)
}

// structured reports whether results should be encoded instead of rendered.
func (o *rootOptions) structured() bool {
	return o.output == formatJSON || o.output == formatYAML
}

// encode writes v in the structured format selected by the flags.
func (o *rootOptions) encode(w io.Writer, v interface{}) error {
	if o.output == formatYAML {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return encoder.Close()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// render writes v encoded when a structured format is selected, and calls
// human otherwise.
func (o *rootOptions) render(w io.Writer, v interface{}, human func(io.Writer) error) error {
	if o.structured() {
		return o.encode(w, v)
	}
	return human(w)
}

// page renders a table through the pager when it does not fit the screen.
func (o *rootOptions) page(w io.Writer, tw table.Writer) error {
	return ui.ToPager(w, tw.Render()+"\n", ui.PagerOptions{NoPager: o.noPager})
}

func newTable(header ...interface{}) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.AppendHeader(table.Row(header))
	return tw
}

// cell flattens and shortens a value for a table column.
func cell(s string) string {
	return ui.TruncateSimple(ui.OneLine(s), ui.DefaultValueWidth)
}

func joinChoices(choices []string) string {
	return cell(strings.Join(choices, ", "))
}
