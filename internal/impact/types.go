package impact

import (
	"dbimpact/internal/entity"
)

// ImpactLevel classifies the severity of a scored path or aggregate
type ImpactLevel string

const (
	ImpactNone     ImpactLevel = "none"
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

var impactOrder = map[ImpactLevel]int{
	ImpactNone:     0,
	ImpactLow:      1,
	ImpactMedium:   2,
	ImpactHigh:     3,
	ImpactCritical: 4,
}

// Rank returns the ordering rank of the level (None < Low < Medium < High < Critical).
func (l ImpactLevel) Rank() int {
	return impactOrder[l]
}

// MaxImpactLevel returns the higher of two levels.
func MaxImpactLevel(a, b ImpactLevel) ImpactLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// DependencyPath is one enumerated chain of dependents from the root.
// The scoring fields are zero until Evaluate fills them in.
type DependencyPath struct {
	PathId string                  `json:"pathId"`
	Nodes  []entity.EntityRef      `json:"nodes"`
	Edges  []entity.DependencyType `json:"edges"`
	Depth  int                     `json:"depth"`

	MaxDependencyType   entity.DependencyType `json:"maxDependencyType"`
	MaxCriticalityLevel int                   `json:"maxCriticalityLevel"`

	RiskScore              int                   `json:"riskScore"`
	ImpactLevel            ImpactLevel           `json:"impactLevel,omitempty"`
	DominantEntity         entity.EntityRef      `json:"dominantEntity,omitempty"`
	DominantDependencyType entity.DependencyType `json:"dominantDependencyType,omitempty"`
}

// Terminal returns the entity at the end of the path: the dependent the
// path's risk ultimately lands on.
func (p DependencyPath) Terminal() entity.EntityRef {
	if len(p.Nodes) == 0 {
		return entity.EntityRef{}
	}
	return p.Nodes[len(p.Nodes)-1]
}

// EntityImpact is the per-entity aggregate over every scored path that
// terminates at the entity.
type EntityImpact struct {
	Entity               entity.EntityRef `json:"entity"`
	Paths                []DependencyPath `json:"paths"`
	WorstCaseImpactLevel ImpactLevel      `json:"worstCaseImpactLevel"`
}

// OverallImpact is the request-level aggregate.
type OverallImpact struct {
	WorstImpactLevel ImpactLevel `json:"worstImpactLevel"`
	RequiresApproval bool        `json:"requiresApproval"`
}

// ImpactResult is the complete outcome of one analysis request. It is plain
// data, directly serializable.
type ImpactResult struct {
	RootEntity      entity.EntityRef  `json:"rootEntity"`
	ChangeType      entity.ChangeType `json:"changeType"`
	OverallImpact   OverallImpact     `json:"overallImpact"`
	EntityImpacts   []EntityImpact    `json:"entityImpacts"`
	DependencyPaths []DependencyPath  `json:"dependencyPaths"`
	IsTruncated     bool              `json:"isTruncated"`
	MaxDepthReached int               `json:"maxDepthReached"`
	PolicySnapshot  PolicySnapshot    `json:"policySnapshot"`
}
