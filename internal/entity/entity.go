// Package entity defines the identity and edge primitives shared by the
// impact analysis engine: entity references, dependency kinds, change kinds,
// and criticality levels.
package entity

import (
	"fmt"
	"strings"
)

// EntityType represents the kind of database entity
type EntityType string

const (
	Table           EntityType = "table"
	View            EntityType = "view"
	StoredProcedure EntityType = "stored-procedure"
	Function        EntityType = "function"
)

// ParseEntityType parses an entity-type string from metadata rows.
// An unrecognized value is a hard failure: the graph semantics of an
// unknown entity kind are ambiguous and must be investigated upstream.
func ParseEntityType(s string) (EntityType, error) {
	switch normalize(s) {
	case "table":
		return Table, nil
	case "view":
		return View, nil
	case "storedprocedure", "stored-procedure", "procedure", "proc", "sp":
		return StoredProcedure, nil
	case "function", "udf", "fn":
		return Function, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// Noun returns the display noun for the entity type ("stored procedure", not
// the hyphenated key form).
func (t EntityType) Noun() string {
	switch t {
	case Table:
		return "table"
	case View:
		return "view"
	case StoredProcedure:
		return "stored procedure"
	case Function:
		return "function"
	default:
		return "entity"
	}
}

// EntityRef identifies a database entity. Equality is on (Type, Id); Name is
// display-only and never participates in identity. The zero value is invalid.
type EntityRef struct {
	Type EntityType `json:"type"`
	Id   string     `json:"id"`
	Name string     `json:"name,omitempty"`
}

// Key returns the stable identity key used in evidence lists and as a
// grouping key. It is independent of the display name.
func (r EntityRef) Key() string {
	return string(r.Type) + ":" + r.Id
}

// SameEntity reports identity equality, ignoring the display name.
func (r EntityRef) SameEntity(o EntityRef) bool {
	return r.Type == o.Type && r.Id == o.Id
}

// Ident returns the map key form of the reference: identity fields only, so
// two refs for the same entity with different display names collide.
func (r EntityRef) Ident() EntityRef {
	return EntityRef{Type: r.Type, Id: r.Id}
}

// DependencyType represents how a dependent uses the entity it depends on
type DependencyType string

const (
	DepSelect           DependencyType = "select"
	DepInsert           DependencyType = "insert"
	DepUpdate           DependencyType = "update"
	DepDelete           DependencyType = "delete"
	DepSchemaDependency DependencyType = "schema-dependency"
	DepApiCall          DependencyType = "api-call"
	DepLogicalFk        DependencyType = "logical-fk"
	DepUnknown          DependencyType = "unknown"
)

// ParseDependencyType parses a dependency-type string from metadata rows.
// Unrecognized values degrade to DepUnknown rather than failing: traversal
// must still proceed over edges whose kind the extractor could not classify.
func ParseDependencyType(s string) DependencyType {
	switch normalize(s) {
	case "select", "read":
		return DepSelect
	case "insert":
		return DepInsert
	case "update":
		return DepUpdate
	case "delete":
		return DepDelete
	case "schemadependency", "schema-dependency", "schema":
		return DepSchemaDependency
	case "apicall", "api-call", "api":
		return DepApiCall
	case "logicalfk", "logical-fk", "inferredfk", "inferred-fk":
		return DepLogicalFk
	default:
		return DepUnknown
	}
}

// dependencySeverity ranks dependency types by how destructive the usage is.
// Delete > SchemaDependency > Update > Insert > ApiCall = LogicalFk > Select > Unknown.
var dependencySeverity = map[DependencyType]int{
	DepDelete:           7,
	DepSchemaDependency: 6,
	DepUpdate:           5,
	DepInsert:           4,
	DepApiCall:          3,
	DepLogicalFk:        3,
	DepSelect:           2,
	DepUnknown:          1,
}

// Severity returns the severity rank of the dependency type. Unlisted values
// rank as DepUnknown.
func (d DependencyType) Severity() int {
	if s, ok := dependencySeverity[d]; ok {
		return s
	}
	return dependencySeverity[DepUnknown]
}

// MaxDependencyType returns the higher-severity of two dependency types.
// On equal severity the first argument wins, keeping the running max stable.
func MaxDependencyType(a, b DependencyType) DependencyType {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ChangeType represents the kind of change proposed for the root entity
type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeModify ChangeType = "modify"
	ChangeDelete ChangeType = "delete"
)

// ParseChangeType parses a change-type string from the caller.
func ParseChangeType(s string) (ChangeType, error) {
	switch normalize(s) {
	case "create":
		return ChangeCreate, nil
	case "modify", "alter", "change":
		return ChangeModify, nil
	case "delete", "drop":
		return ChangeDelete, nil
	default:
		return "", fmt.Errorf("unknown change type %q", s)
	}
}

// Criticality bounds for the 1-5 business-importance scale.
const (
	MinCriticality     = 1
	MaxCriticality     = 5
	DefaultCriticality = 3
)

// ClampCriticality forces a criticality value into the 1-5 scale. Values at
// or below zero mean "not supplied" and map to the default.
func ClampCriticality(level int) int {
	if level <= 0 {
		return DefaultCriticality
	}
	if level < MinCriticality {
		return MinCriticality
	}
	if level > MaxCriticality {
		return MaxCriticality
	}
	return level
}

func normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.ReplaceAll(s, "_", "-")
}
