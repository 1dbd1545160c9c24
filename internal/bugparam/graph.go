package bugparam

import (
	"context"
	"fmt"
)

// RefreshFunc recomputes one field from the rest of the set.
type RefreshFunc func(ctx context.Context, s *Set) error

// Graph links fields to the refresh closures that run when an upstream
// field changes. Refreshing a node runs its own closure and then refreshes
// each successor, so a change cascades down the chain but never back up.
type Graph struct {
	refresh map[ID]RefreshFunc
	next    map[ID][]ID
}

func NewGraph() *Graph {
	return &Graph{
		refresh: make(map[ID]RefreshFunc),
		next:    make(map[ID][]ID),
	}
}

// OnRefresh registers fn as the refresh closure of id.
func (g *Graph) OnRefresh(id ID, fn RefreshFunc) {
	g.refresh[id] = fn
}

// Link makes to a successor of from.
func (g *Graph) Link(from, to ID) {
	g.next[from] = append(g.next[from], to)
}

// Successors returns the fields refreshed when id changes.
func (g *Graph) Successors(id ID) []ID {
	return g.next[id]
}

// Refresh runs id's closure, then refreshes its successors depth first.
func (g *Graph) Refresh(ctx context.Context, s *Set, id ID) error {
	if fn := g.refresh[id]; fn != nil {
		if err := fn(ctx, s); err != nil {
			return fmt.Errorf("refresh %s: %w", id, err)
		}
	}
	return g.Changed(ctx, s, id)
}

// Changed refreshes every successor of id. Fields without successors are
// a no-op.
func (g *Graph) Changed(ctx context.Context, s *Set, id ID) error {
	for _, succ := range g.Successors(id) {
		if err := g.Refresh(ctx, s, succ); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects cycles.
func (g *Graph) Validate() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[ID]int)
	var visit func(id ID) error
	visit = func(id ID) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("refresh cycle through %s", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, succ := range g.next[id] {
			if err := visit(succ); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for id := range g.next {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
