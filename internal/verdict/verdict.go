// Package verdict renders an ImpactResult into a compact, human-readable
// verdict for review surfaces.
package verdict

import (
	"fmt"
	"sort"
	"time"

	"dbimpact/internal/entity"
	"dbimpact/internal/impact"
)

// RiskLevel is the outward-facing risk classification of a verdict
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskUnknown  RiskLevel = "unknown"
)

// VerdictReason is one ordered finding backing the verdict. Evidence lists
// stable entity keys, not display names, so two runs over the same metadata
// produce identical evidence.
type VerdictReason struct {
	Priority    int      `json:"priority"`
	Statement   string   `json:"statement"`
	Implication string   `json:"implication,omitempty"`
	Evidence    []string `json:"evidence,omitempty"`
}

// ImpactVerdict is the rendered outcome of an analysis.
type ImpactVerdict struct {
	Risk             RiskLevel       `json:"risk"`
	RequiresApproval bool            `json:"requiresApproval"`
	Summary          string          `json:"summary"`
	Reasons          []VerdictReason `json:"reasons"`
	Limitations      []string        `json:"limitations,omitempty"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

// Builder renders impact results. The zero value is usable; Clock exists so
// tests can pin GeneratedAt.
type Builder struct {
	Clock func() time.Time
}

// NewBuilder returns a Builder using wall-clock time.
func NewBuilder() *Builder {
	return &Builder{Clock: time.Now}
}

// dependentGroup is the concrete grouping key for depth-1 dependents:
// entity type plus the dominant dependency type, with explicit counts and
// member lists.
type dependentGroup struct {
	EntityType     entity.EntityType
	DependencyType entity.DependencyType
	Count          int
	Entities       []entity.EntityRef
}

// Build renders result into a verdict.
func (b *Builder) Build(result *impact.ImpactResult) ImpactVerdict {
	now := time.Now
	if b.Clock != nil {
		now = b.Clock
	}

	v := ImpactVerdict{
		Risk:             riskFromImpact(result.OverallImpact.WorstImpactLevel),
		RequiresApproval: result.OverallImpact.RequiresApproval,
		GeneratedAt:      now().UTC(),
	}

	rootNoun := result.RootEntity.Type.Noun()
	groups := groupDirectDependents(result.DependencyPaths)

	if len(groups) == 0 {
		v.Reasons = []VerdictReason{{
			Priority:  1,
			Statement: fmt.Sprintf("no direct dependents of this %s were detected", rootNoun),
			Implication: "dependency metadata may be incomplete; absence of recorded dependents " +
				"is not evidence of zero risk",
		}}
	} else {
		v.Reasons = reasonsFromGroups(groups, rootNoun)
	}

	if len(result.DependencyPaths) > 0 && allEdgesSelect(result.DependencyPaths) {
		v.Reasons = append(v.Reasons, VerdictReason{
			Priority:  len(v.Reasons) + 1,
			Statement: "every traversed dependency is read-only",
			Implication: fmt.Sprintf("dependents read from this %s but never write through it; "+
				"breakage shows up as stale or failing reads", rootNoun),
		})
	}

	v.Limitations = limitations(result)
	v.Summary = fmt.Sprintf("%s risk – %s", v.Risk, v.Reasons[0].Statement)
	return v
}

// riskFromImpact maps engine impact levels onto verdict risk. ImpactNone
// maps to unknown rather than a reassuring "no risk": an empty result more
// often means missing metadata than a truly isolated entity.
func riskFromImpact(l impact.ImpactLevel) RiskLevel {
	switch l {
	case impact.ImpactCritical:
		return RiskCritical
	case impact.ImpactHigh:
		return RiskHigh
	case impact.ImpactMedium:
		return RiskMedium
	case impact.ImpactLow:
		return RiskLow
	default:
		return RiskUnknown
	}
}

func groupDirectDependents(paths []impact.DependencyPath) []dependentGroup {
	type key struct {
		et entity.EntityType
		dt entity.DependencyType
	}
	byKey := make(map[key]*dependentGroup)

	for _, p := range paths {
		if p.Depth != 1 {
			continue
		}
		terminal := p.Terminal()
		k := key{et: terminal.Type, dt: p.DominantDependencyType}
		g, ok := byKey[k]
		if !ok {
			g = &dependentGroup{EntityType: k.et, DependencyType: k.dt}
			byKey[k] = g
		}
		g.Count++
		g.Entities = append(g.Entities, terminal)
	}

	groups := make([]dependentGroup, 0, len(byKey))
	for _, g := range byKey {
		sort.Slice(g.Entities, func(i, j int) bool {
			return g.Entities[i].Key() < g.Entities[j].Key()
		})
		groups = append(groups, *g)
	}

	// Largest first; ties break on the group key for a stable primary reason.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].EntityType != groups[j].EntityType {
			return groups[i].EntityType < groups[j].EntityType
		}
		return groups[i].DependencyType < groups[j].DependencyType
	})
	return groups
}

func reasonsFromGroups(groups []dependentGroup, rootNoun string) []VerdictReason {
	reasons := make([]VerdictReason, 0, len(groups))
	for i, g := range groups {
		r := VerdictReason{
			Priority:  i + 1,
			Statement: groupStatement(g, rootNoun),
			Evidence:  entityKeys(g.Entities),
		}
		if g.DependencyType == entity.DepUpdate || g.DependencyType == entity.DepDelete {
			r.Implication = fmt.Sprintf("writes through these dependents touch the %s directly; "+
				"schedule coordinated testing before the change ships", rootNoun)
		}
		reasons = append(reasons, r)
	}
	return reasons
}

func groupStatement(g dependentGroup, rootNoun string) string {
	noun := g.EntityType.Noun()
	verb := dependencyVerb(g.DependencyType)
	if g.Count != 1 {
		noun = pluralize(noun)
	} else {
		verb = conjugateSingular(verb)
	}
	return fmt.Sprintf("%d %s %s this %s", g.Count, noun, verb, rootNoun)
}

// dependencyVerb phrases how a group of dependents uses the root.
func dependencyVerb(d entity.DependencyType) string {
	switch d {
	case entity.DepSelect:
		return "read from"
	case entity.DepInsert:
		return "insert into"
	case entity.DepUpdate:
		return "update"
	case entity.DepDelete:
		return "delete from"
	default:
		return "depend on"
	}
}

func pluralize(noun string) string {
	return noun + "s"
}

// conjugateSingular turns the plural verb phrase into its singular form by
// inflecting the leading verb: "read from" -> "reads from".
func conjugateSingular(verb string) string {
	for i := 0; i < len(verb); i++ {
		if verb[i] == ' ' {
			return verb[:i] + "s" + verb[i:]
		}
	}
	return verb + "s"
}

func allEdgesSelect(paths []impact.DependencyPath) bool {
	for _, p := range paths {
		for _, e := range p.Edges {
			if e != entity.DepSelect {
				return false
			}
		}
	}
	return true
}

func limitations(result *impact.ImpactResult) []string {
	var lims []string
	if result.IsTruncated {
		lims = append(lims, "path enumeration stopped at the configured path cap; "+
			"reported impact is a lower bound on the true blast radius")
	}
	if result.MaxDepthReached > 3 {
		lims = append(lims, fmt.Sprintf("dependency chains reach depth %d; "+
			"indirect effects beyond the explored horizon may exist", result.MaxDepthReached))
	}
	if len(result.EntityImpacts) == 0 {
		lims = append(lims, "no dependents found in metadata; coverage of the dependency "+
			"catalog for this entity is unverified")
	}
	return lims
}

func entityKeys(refs []entity.EntityRef) []string {
	keys := make([]string, 0, len(refs))
	for _, r := range refs {
		keys = append(keys, r.Key())
	}
	return keys
}
