package graph

import (
	"dbimpact/internal/entity"
	"dbimpact/internal/errors"
)

// Build constructs an ImpactGraph from raw dependency rows.
//
// Both endpoints of every row are registered as nodes. A node registered with
// the default criticality is upgraded when an explicit value for the same
// entity appears in a later row; an explicit value is never downgraded back
// to the default, so the result is independent of row order.
//
// An unrecognized entity-type string aborts the build: the analysis cannot
// reason about an entity kind it does not understand. An unrecognized
// dependency-type string degrades to unknown and the edge is kept.
//
// Build is a pure function of its input and performs no I/O.
func Build(rows []DependencyRow) (*ImpactGraph, error) {
	g := &ImpactGraph{
		nodes:     make(map[entity.EntityRef]GraphNode),
		adjacency: make(map[entity.EntityRef][]GraphEdge),
	}

	for i, row := range rows {
		source, err := parseEndpoint(row.SourceId, row.SourceType, row.SourceName, i)
		if err != nil {
			return nil, err
		}
		target, err := parseEndpoint(row.TargetId, row.TargetType, row.TargetName, i)
		if err != nil {
			return nil, err
		}

		g.register(source, row.SourceCriticality)
		g.register(target, row.TargetCriticality)

		edge := GraphEdge{
			From: source,
			To:   target,
			Type: entity.ParseDependencyType(row.DependencyType),
		}
		key := source.Ident()
		g.adjacency[key] = append(g.adjacency[key], edge)
	}

	return g, nil
}

func parseEndpoint(id, typeStr, name string, rowIdx int) (entity.EntityRef, error) {
	if id == "" {
		return entity.EntityRef{}, errors.Newf(errors.StoreCorrupt,
			"dependency row %d has an empty entity id", rowIdx)
	}
	t, err := entity.ParseEntityType(typeStr)
	if err != nil {
		return entity.EntityRef{}, errors.Wrap(errors.EntityTypeUnknown,
			"dependency row "+id, err)
	}
	return entity.EntityRef{Type: t, Id: id, Name: name}, nil
}

// register adds or upgrades a node. criticality 0 means not supplied.
func (g *ImpactGraph) register(ref entity.EntityRef, criticality int) {
	key := ref.Ident()
	existing, ok := g.nodes[key]

	if !ok {
		g.nodes[key] = GraphNode{
			Entity:      ref,
			Criticality: entity.ClampCriticality(criticality),
			explicit:    criticality > 0,
		}
		return
	}

	// First explicit value wins; a later default never clobbers it.
	if !existing.explicit && criticality > 0 {
		existing.Criticality = entity.ClampCriticality(criticality)
		existing.explicit = true
		g.nodes[key] = existing
	}
}
