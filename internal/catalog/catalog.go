// Package catalog reads CATALOG.toml, the declared entity catalog. It lets
// teams pin business criticality (and ownership) on entities independently
// of what the metadata extractor emits.
package catalog

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"dbimpact/internal/entity"
	"dbimpact/internal/graph"
)

// CatalogFile is the default filename for entity declarations
const CatalogFile = "CATALOG.toml"

// EntityDeclaration represents one declared entity in CATALOG.toml
type EntityDeclaration struct {
	// Id is the entity identifier as used in dependency rows
	Id string `toml:"id"`

	// Type is the entity type (table, view, stored-procedure, function)
	Type string `toml:"type"`

	// Name is the human-readable name (optional)
	Name string `toml:"name,omitempty"`

	// Criticality is the declared 1-5 business importance
	Criticality int `toml:"criticality"`

	// Owner is the owning team reference (e.g. @data-platform)
	Owner string `toml:"owner,omitempty"`

	// Tags are classification tags for the entity
	Tags []string `toml:"tags,omitempty"`
}

// Catalog represents the root structure of CATALOG.toml
type Catalog struct {
	// Version is the schema version
	Version int `toml:"version"`

	// Entities is the list of declared entities
	Entities []EntityDeclaration `toml:"entity"`
}

// Parse parses a CATALOG.toml file from the given path.
func Parse(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CatalogFile, err)
	}

	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", CatalogFile, err)
	}
	if cat.Version < 1 {
		cat.Version = 1
	}

	for i, decl := range cat.Entities {
		if decl.Id == "" {
			return nil, fmt.Errorf("%s: entity %d has no id", CatalogFile, i)
		}
		if _, err := entity.ParseEntityType(decl.Type); err != nil {
			return nil, fmt.Errorf("%s: entity %q: %w", CatalogFile, decl.Id, err)
		}
		if decl.Criticality < entity.MinCriticality || decl.Criticality > entity.MaxCriticality {
			return nil, fmt.Errorf("%s: entity %q: criticality %d outside %d-%d",
				CatalogFile, decl.Id, decl.Criticality, entity.MinCriticality, entity.MaxCriticality)
		}
	}
	return &cat, nil
}

// ApplyOverrides stamps declared criticality onto matching rows. The graph
// builder takes the first explicit value per entity, so stamping every
// mention is safe regardless of row order. Returned rows are a copy; the
// input is not modified.
func (c *Catalog) ApplyOverrides(rows []graph.DependencyRow) []graph.DependencyRow {
	declared := make(map[declKey]int, len(c.Entities))
	for _, decl := range c.Entities {
		t, err := entity.ParseEntityType(decl.Type)
		if err != nil {
			continue // Parse already validated; ignore anything that slipped through
		}
		declared[declKey{typ: string(t), id: decl.Id}] = decl.Criticality
	}

	out := make([]graph.DependencyRow, len(rows))
	copy(out, rows)
	for i := range out {
		if crit, ok := lookupDeclared(declared, out[i].SourceType, out[i].SourceId); ok {
			out[i].SourceCriticality = crit
		}
		if crit, ok := lookupDeclared(declared, out[i].TargetType, out[i].TargetId); ok {
			out[i].TargetCriticality = crit
		}
	}
	return out
}

type declKey struct{ typ, id string }

func lookupDeclared(declared map[declKey]int, typeStr, id string) (int, bool) {
	t, err := entity.ParseEntityType(typeStr)
	if err != nil {
		return 0, false
	}
	crit, ok := declared[declKey{typ: string(t), id: id}]
	return crit, ok
}
