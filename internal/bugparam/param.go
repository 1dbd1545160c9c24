// Package bugparam models the user facing fields used to file a defect and
// keeps their server backed choice lists consistent as selections change.
package bugparam

import (
	"strings"

	"github.com/octanebridge/octane/internal/octane"
)

// ID identifies a field. IDs are stable and used as keys in host value maps.
type ID string

const (
	Type        ID = "TYPE"
	Root        ID = "ROOT"
	Epic        ID = "EPIC"
	Feature     ID = "FEATURE"
	Name        ID = "NAME"
	Description ID = "DESCRIPTION"
)

// Kind is the presentation variant of a field.
type Kind string

const (
	KindChoice   Kind = "choice"
	KindText     Kind = "text"
	KindTextArea Kind = "textarea"
)

// Field holds the attributes shared by every variant.
type Field struct {
	ID       ID
	Label    string
	Value    string
	Required bool
}

func (f *Field) field() *Field { return f }

// Param is one of *ChoiceParam, *TextParam or *TextAreaParam.
type Param interface {
	Kind() Kind
	field() *Field
}

// ChoiceParam is a single selection from a server provided list.
type ChoiceParam struct {
	Field
	Choices []string
	// HasDependents is set when changing this field refreshes another.
	HasDependents bool
}

func (*ChoiceParam) Kind() Kind { return KindChoice }

// SetChoices replaces the choice list. A list with exactly one entry
// selects that entry.
func (p *ChoiceParam) SetChoices(choices []string) {
	p.Choices = choices
	if len(choices) == 1 {
		p.Value = choices[0]
	}
}

// TextParam is a single line of free text.
type TextParam struct {
	Field
	MaxLength int
}

func (*TextParam) Kind() Kind { return KindText }

// TextAreaParam is multi-line free text.
type TextAreaParam struct {
	Field
}

func (*TextAreaParam) Kind() Kind { return KindTextArea }

// Set is the ordered collection of fields for one submission session.
// It is not safe for concurrent use.
type Set struct {
	params []Param
	index  map[ID]int
}

func newSet(params []Param) *Set {
	s := &Set{params: params, index: make(map[ID]int, len(params))}
	for i, p := range params {
		s.index[p.field().ID] = i
	}
	return s
}

// Params returns the fields in declaration order.
func (s *Set) Params() []Param {
	return s.params
}

// Get returns the field with id, or nil.
func (s *Set) Get(id ID) Param {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.params[i]
}

// Choice returns the choice field with id.
func (s *Set) Choice(id ID) (*ChoiceParam, bool) {
	p, ok := s.Get(id).(*ChoiceParam)
	return p, ok
}

// Value returns the current value of id, or "".
func (s *Set) Value(id ID) string {
	p := s.Get(id)
	if p == nil {
		return ""
	}
	return p.field().Value
}

// Required reports whether id must be filled in.
func (s *Set) Required(id ID) bool {
	p := s.Get(id)
	return p != nil && p.field().Required
}

// SetValue updates the value of id.
func (s *Set) SetValue(id ID, value string) error {
	p := s.Get(id)
	if p == nil {
		return octane.PreconditionError("set parameter", "unknown parameter %q", id)
	}
	p.field().Value = value
	return nil
}

// Apply copies every known key of values into the set. Unknown keys are
// reported as a precondition error.
func (s *Set) Apply(values map[string]string) error {
	for k, v := range values {
		if err := s.SetValue(ID(k), v); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the current values keyed by field id.
func (s *Set) Values() map[string]string {
	out := make(map[string]string, len(s.params))
	for _, p := range s.params {
		f := p.field()
		out[string(f.ID)] = f.Value
	}
	return out
}

// Missing lists required fields that are still blank.
func (s *Set) Missing() []ID {
	var missing []ID
	for _, p := range s.params {
		f := p.field()
		if f.Required && strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

// View is a flat, serializable description of a field.
type View struct {
	ID            ID       `json:"id" yaml:"id"`
	Kind          Kind     `json:"kind" yaml:"kind"`
	Label         string   `json:"label" yaml:"label"`
	Value         string   `json:"value" yaml:"value"`
	Required      bool     `json:"required" yaml:"required"`
	MaxLength     int      `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Choices       []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	HasDependents bool     `json:"has_dependents,omitempty" yaml:"has_dependents,omitempty"`
}

// Views renders the set for output.
func (s *Set) Views() []View {
	views := make([]View, 0, len(s.params))
	for _, p := range s.params {
		f := p.field()
		v := View{ID: f.ID, Kind: p.Kind(), Label: f.Label, Value: f.Value, Required: f.Required}
		switch p := p.(type) {
		case *ChoiceParam:
			v.Choices = p.Choices
			v.HasDependents = p.HasDependents
		case *TextParam:
			v.MaxLength = p.MaxLength
		}
		views = append(views, v)
	}
	return views
}
