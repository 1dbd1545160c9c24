package bugparam

import (
	"context"
	"strings"

	"github.com/octanebridge/octane/internal/octane"
)

// Lookup is the part of the Query Engine the fields depend on.
// *octane.API implements it.
type Lookup interface {
	RootNames(ctx context.Context) ([]string, error)
	EpicNames(ctx context.Context, root string) ([]string, error)
	FeatureNames(ctx context.Context, root, epic string) ([]string, error)
	RootID(ctx context.Context, root string) (string, error)
	EpicID(ctx context.Context, root, epic string) (string, error)
	FeatureID(ctx context.Context, root, epic, feature string) (string, error)
}

// Engine creates parameter sets and keeps them consistent.
type Engine struct {
	defs     []Definition
	newGraph func(Lookup) *Graph
}

// New returns an Engine for the standard defect fields.
func New() *Engine {
	e := &Engine{defs: Definitions()}
	e.newGraph = e.lookupGraph
	return e
}

// Parameters creates the fields with their defaults and fills the Root,
// Epic and Feature choice lists.
func (e *Engine) Parameters(ctx context.Context, lookup Lookup) (*Set, error) {
	s, err := NewSet(e.defs)
	if err != nil {
		return nil, err
	}
	g, err := e.graph(lookup)
	if err != nil {
		return nil, err
	}
	if err := g.Refresh(ctx, s, Root); err != nil {
		return nil, err
	}
	return s, nil
}

// OnChange refreshes whatever depends on the changed field and returns the
// same set.
func (e *Engine) OnChange(ctx context.Context, lookup Lookup, changed ID, s *Set) (*Set, error) {
	if s.Get(changed) == nil {
		return nil, octane.PreconditionError("parameter change", "unknown parameter %q", changed)
	}
	g, err := e.graph(lookup)
	if err != nil {
		return nil, err
	}
	if err := g.Changed(ctx, s, changed); err != nil {
		return nil, err
	}
	return s, nil
}

// graph builds the refresh graph for lookup. A cyclic graph would refresh
// forever, so it is rejected before any field is touched.
func (e *Engine) graph(lookup Lookup) (*Graph, error) {
	g := e.newGraph(lookup)
	if err := g.Validate(); err != nil {
		return nil, octane.PreconditionError("parameter graph", "%v", err)
	}
	return g, nil
}

// lookupGraph wires the refresh closures to lookup.
func (e *Engine) lookupGraph(lookup Lookup) *Graph {
	g := NewGraph()
	g.OnRefresh(Root, func(ctx context.Context, s *Set) error {
		p, _ := s.Choice(Root)
		names, err := lookup.RootNames(ctx)
		if err != nil {
			return err
		}
		p.Required = true
		p.SetChoices(names)
		return nil
	})
	g.OnRefresh(Epic, func(ctx context.Context, s *Set) error {
		p, _ := s.Choice(Epic)
		names, err := lookup.EpicNames(ctx, s.Value(Root))
		if err != nil {
			return err
		}
		p.SetChoices(names)
		return nil
	})
	g.OnRefresh(Feature, func(ctx context.Context, s *Set) error {
		p, _ := s.Choice(Feature)
		epic := s.Value(Epic)
		names, err := lookup.FeatureNames(ctx, s.Value(Root), epic)
		if err != nil {
			return err
		}
		p.SetChoices(names)
		// Octane does not allow a defect directly below an epic.
		p.Required = strings.TrimSpace(epic) != ""
		return nil
	})
	for _, d := range e.defs {
		if d.Refreshes != "" {
			g.Link(d.ID, d.Refreshes)
		}
	}
	return g
}
