package bugparam

import (
	"context"
	"testing"
)

func recordingGraph(order *[]ID) *Graph {
	g := NewGraph()
	for _, id := range []ID{Root, Epic, Feature} {
		id := id
		g.OnRefresh(id, func(ctx context.Context, s *Set) error {
			*order = append(*order, id)
			return nil
		})
	}
	g.Link(Root, Epic)
	g.Link(Epic, Feature)
	return g
}

func TestGraphRefreshOrder(t *testing.T) {
	tests := []struct {
		name string
		run  func(g *Graph) error
		want []ID
	}{
		{"refresh root", func(g *Graph) error { return g.Refresh(context.Background(), nil, Root) }, []ID{Root, Epic, Feature}},
		{"root changed", func(g *Graph) error { return g.Changed(context.Background(), nil, Root) }, []ID{Epic, Feature}},
		{"epic changed", func(g *Graph) error { return g.Changed(context.Background(), nil, Epic) }, []ID{Feature}},
		{"feature changed", func(g *Graph) error { return g.Changed(context.Background(), nil, Feature) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []ID
			if err := tt.run(recordingGraph(&order)); err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(order) != len(tt.want) {
				t.Fatalf("order = %v, want %v", order, tt.want)
			}
			for i := range order {
				if order[i] != tt.want[i] {
					t.Errorf("order = %v, want %v", order, tt.want)
					break
				}
			}
		})
	}
}

func TestGraphValidate(t *testing.T) {
	var order []ID
	g := recordingGraph(&order)
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	g.Link(Feature, Root)
	if err := g.Validate(); err == nil {
		t.Error("Validate() = nil, want cycle error")
	}
}

func TestEngineGraphMatchesDefinitions(t *testing.T) {
	g := New().lookupGraph(&stubLookup{})
	if got := g.Successors(Root); len(got) != 1 || got[0] != Epic {
		t.Errorf("Successors(Root) = %v, want [EPIC]", got)
	}
	if got := g.Successors(Epic); len(got) != 1 || got[0] != Feature {
		t.Errorf("Successors(Epic) = %v, want [FEATURE]", got)
	}
	for _, id := range []ID{Type, Feature, Name, Description} {
		if got := g.Successors(id); len(got) != 0 {
			t.Errorf("Successors(%s) = %v, want none", id, got)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNewSetRejectsBadDefinitions(t *testing.T) {
	text := func(id ID) func() Param {
		return func() Param { return &TextParam{Field: Field{ID: id}} }
	}
	choice := func(id ID) func() Param {
		return func() Param { return &ChoiceParam{Field: Field{ID: id}} }
	}

	tests := []struct {
		name string
		defs []Definition
	}{
		{"text with dependents", []Definition{{ID: Name, New: text(Name), Refreshes: Description}, {ID: Description, New: text(Description)}}},
		{"undeclared target", []Definition{{ID: Root, New: choice(Root), Refreshes: Epic}}},
		{"duplicate id", []Definition{{ID: Root, New: choice(Root)}, {ID: Root, New: choice(Root)}}},
		{"id mismatch", []Definition{{ID: Root, New: choice(Epic)}}},
	}
	for _, tt := range tests {
		if _, err := NewSet(tt.defs); err == nil {
			t.Errorf("%s: NewSet() = nil error", tt.name)
		}
	}
}
