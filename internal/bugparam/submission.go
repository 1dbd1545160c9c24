package bugparam

import (
	"context"
	"strings"

	"github.com/octanebridge/octane/internal/octane"
)

// Submission is the defect creation payload.
type Submission struct {
	Parent      octane.Reference `json:"parent" yaml:"parent"`
	Phase       octane.Reference `json:"phase" yaml:"phase"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
}

// BuildSubmission turns host values into a defect payload. The parent is the
// first non-blank of Feature, Epic and Root, resolved to an id.
func (e *Engine) BuildSubmission(ctx context.Context, lookup Lookup, values map[string]string) (*Submission, error) {
	parent, err := resolveParent(ctx, lookup, values)
	if err != nil {
		return nil, err
	}
	return &Submission{
		Parent:      parent,
		Phase:       octane.Phase.Ref(octane.PhaseDefectNew),
		Name:        Abbreviate(normalize(values[string(Name)]), NameMaxLength),
		Description: normalize(values[string(Description)]),
	}, nil
}

func resolveParent(ctx context.Context, lookup Lookup, values map[string]string) (octane.Reference, error) {
	root := normalize(values[string(Root)])
	epic := normalize(values[string(Epic)])
	feature := normalize(values[string(Feature)])

	var (
		kind octane.Entity
		id   string
		err  error
	)
	switch {
	case feature != "":
		kind = octane.Feature
		id, err = lookup.FeatureID(ctx, root, epic, feature)
	case epic != "":
		kind = octane.Epic
		id, err = lookup.EpicID(ctx, root, epic)
	case root != "":
		kind = octane.WorkItemRoot
		id, err = lookup.RootID(ctx, root)
	default:
		return octane.Reference{}, octane.PreconditionError("build submission", "no parent defined for defect")
	}
	if err != nil {
		return octane.Reference{}, err
	}
	if id == "" {
		return octane.Reference{}, octane.PreconditionError("build submission",
			"%s %q cannot be resolved without its parent selections", kind, nameFor(kind, root, epic, feature))
	}
	return kind.Ref(id), nil
}

func nameFor(kind octane.Entity, root, epic, feature string) string {
	switch kind {
	case octane.Feature:
		return feature
	case octane.Epic:
		return epic
	default:
		return root
	}
}

// normalize trims v. Blank values become "".
func normalize(v string) string {
	return strings.TrimSpace(v)
}

// Abbreviate shortens s to at most max runes, replacing the tail with "...".
func Abbreviate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max < 4 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
