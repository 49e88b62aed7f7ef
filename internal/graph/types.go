// Package graph builds an immutable dependency graph from raw metadata rows
// and enumerates bounded dependent paths from a root entity.
package graph

import (
	"dbimpact/internal/entity"
)

// DependencyRow is a raw dependency record as supplied by the metadata
// repository: one directed dependency edge plus optional criticality for
// either endpoint (0 means not supplied).
type DependencyRow struct {
	SourceId   string `json:"sourceId"   yaml:"sourceId"`
	SourceType string `json:"sourceType" yaml:"sourceType"`
	SourceName string `json:"sourceName" yaml:"sourceName"`

	TargetId   string `json:"targetId"   yaml:"targetId"`
	TargetType string `json:"targetType" yaml:"targetType"`
	TargetName string `json:"targetName" yaml:"targetName"`

	// DependencyType describes how the target uses the source. Unrecognized
	// values degrade to unknown during graph build.
	DependencyType string `json:"dependencyType" yaml:"dependencyType"`

	SourceCriticality int `json:"sourceCriticality,omitempty" yaml:"sourceCriticality,omitempty"`
	TargetCriticality int `json:"targetCriticality,omitempty" yaml:"targetCriticality,omitempty"`
}

// GraphNode is a registered entity plus its business criticality (1-5).
type GraphNode struct {
	Entity      entity.EntityRef `json:"entity"`
	Criticality int              `json:"criticality"`

	// explicit records whether Criticality came from metadata rather than
	// the default, so an explicit value is never overwritten by a default
	// regardless of row order.
	explicit bool
}

// GraphEdge is a directed edge From(dependency) -> To(dependent).
type GraphEdge struct {
	From entity.EntityRef      `json:"from"`
	To   entity.EntityRef      `json:"to"`
	Type entity.DependencyType `json:"type"`
}

// ImpactGraph is an immutable dependency graph. Adjacency is keyed by the
// entity depended upon, so "who depends on me" is a single map lookup.
type ImpactGraph struct {
	nodes     map[entity.EntityRef]GraphNode
	adjacency map[entity.EntityRef][]GraphEdge
}

// NodeCount returns the number of registered entities.
func (g *ImpactGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the total number of directed edges.
func (g *ImpactGraph) EdgeCount() int {
	n := 0
	for _, edges := range g.adjacency {
		n += len(edges)
	}
	return n
}

// Node returns the registered node for ref (identity match) and whether it
// exists.
func (g *ImpactGraph) Node(ref entity.EntityRef) (GraphNode, bool) {
	n, ok := g.nodes[ref.Ident()]
	return n, ok
}

// Criticality returns the criticality for ref, or the default when the
// entity is not registered.
func (g *ImpactGraph) Criticality(ref entity.EntityRef) int {
	if n, ok := g.nodes[ref.Ident()]; ok {
		return n.Criticality
	}
	return entity.DefaultCriticality
}

// Dependents returns the edges leaving ref: every entity that directly
// depends on it. The returned slice must not be mutated.
func (g *ImpactGraph) Dependents(ref entity.EntityRef) []GraphEdge {
	return g.adjacency[ref.Ident()]
}
