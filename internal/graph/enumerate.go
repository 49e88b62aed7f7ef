package graph

import (
	"dbimpact/internal/entity"
	"dbimpact/internal/errors"
)

// PathState is one partial traversal from the root. States are immutable:
// every expansion allocates a new value with freshly copied slices, so
// independent branches share nothing and the cycle check (membership in the
// state's own node list) is trivially correct.
type PathState struct {
	Nodes               []entity.EntityRef
	Edges               []entity.DependencyType
	MaxDependencyType   entity.DependencyType
	MaxCriticalityLevel int
	Depth               int
}

// Current returns the entity at the head of the path.
func (s PathState) Current() entity.EntityRef {
	return s.Nodes[len(s.Nodes)-1]
}

// Contains reports whether ref is already on the path (identity match).
func (s PathState) Contains(ref entity.EntityRef) bool {
	for _, n := range s.Nodes {
		if n.SameEntity(ref) {
			return true
		}
	}
	return false
}

// extend returns a new state with the edge appended. The receiver is left
// untouched.
func (s PathState) extend(edge GraphEdge, targetCriticality int) PathState {
	nodes := make([]entity.EntityRef, len(s.Nodes), len(s.Nodes)+1)
	copy(nodes, s.Nodes)
	nodes = append(nodes, edge.To)

	edges := make([]entity.DependencyType, len(s.Edges), len(s.Edges)+1)
	copy(edges, s.Edges)
	edges = append(edges, edge.Type)

	maxCrit := s.MaxCriticalityLevel
	if targetCriticality > maxCrit {
		maxCrit = targetCriticality
	}

	return PathState{
		Nodes:               nodes,
		Edges:               edges,
		MaxDependencyType:   entity.MaxDependencyType(s.MaxDependencyType, edge.Type),
		MaxCriticalityLevel: maxCrit,
		Depth:               s.Depth + 1,
	}
}

// Enumerate walks the graph breadth-first from root and returns every
// dependent path up to maxDepth edges, at most maxPaths of them.
//
// Every non-root state is emitted, not just leaves: a depth-1 dependent
// matters even when the chain continues past it. A target already on the
// path is never revisited, which guarantees termination over cyclic input.
//
// truncated is true only when the maxPaths cap cut off a path that was
// actually available; a truncated result is a lower bound on impact. Both
// limits are required: non-positive values are rejected, never clamped.
func Enumerate(g *ImpactGraph, root entity.EntityRef, maxDepth, maxPaths int) ([]PathState, bool, error) {
	if maxDepth <= 0 {
		return nil, false, errors.Newf(errors.InvalidLimit, "maxDepth must be positive, got %d", maxDepth)
	}
	if maxPaths <= 0 {
		return nil, false, errors.Newf(errors.InvalidLimit, "maxPaths must be positive, got %d", maxPaths)
	}

	seed := PathState{
		Nodes:               []entity.EntityRef{root},
		Edges:               nil,
		MaxDependencyType:   entity.DepUnknown,
		MaxCriticalityLevel: g.Criticality(root),
		Depth:               0,
	}

	paths := make([]PathState, 0)
	queue := []PathState{seed}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		if state.Depth == maxDepth {
			continue
		}

		for _, edge := range g.Dependents(state.Current()) {
			if state.Contains(edge.To) {
				continue
			}
			if len(paths) == maxPaths {
				// A further path existed; the emitted set is a lower bound.
				return paths, true, nil
			}
			next := state.extend(edge, g.Criticality(edge.To))
			paths = append(paths, next)
			queue = append(queue, next)
		}
	}

	return paths, false, nil
}
