package impact

import (
	"math"

	"dbimpact/internal/entity"
	"dbimpact/internal/errors"
)

// Classification boundaries on the rounded risk score.
const (
	criticalThreshold = 50
	highThreshold     = 30
	mediumThreshold   = 15
)

// Depth decay: depth 1 scores at full weight, every further hop loses
// depthDecay, floored so deep chains keep residual risk instead of vanishing.
const (
	defaultDepthDecay = 0.2
	defaultDepthFloor = 0.2
)

// PolicyVersion identifies the scoring policy implemented by NewEvaluator.
const PolicyVersion = "v1"

var defaultWeights = map[entity.DependencyType]int{
	entity.DepDelete:           10,
	entity.DepSchemaDependency: 9,
	entity.DepUpdate:           8,
	entity.DepInsert:           7,
	entity.DepApiCall:          6,
	entity.DepLogicalFk:        6,
	entity.DepUnknown:          5,
	entity.DepSelect:           4,
}

var defaultMultipliers = map[entity.ChangeType]int{
	entity.ChangeDelete: 3,
	entity.ChangeModify: 2,
	entity.ChangeCreate: 1,
}

const (
	defaultWeight     = 5 // unrecognized dependency types still carry weight
	defaultMultiplier = 1
)

// Evaluator scores dependency paths under a proposed change type. Scoring is
// a pure function of the path and change type: same input, same score, on
// every call. The evaluator carries its own copies of the policy tables so a
// snapshot taken from it can never drift from what it actually scored with.
type Evaluator struct {
	version     string
	depthDecay  float64
	depthFloor  float64
	weights     map[entity.DependencyType]int
	multipliers map[entity.ChangeType]int
	defWeight   int
	defMult     int
}

// NewEvaluator returns an evaluator implementing the current scoring policy.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		version:     PolicyVersion,
		depthDecay:  defaultDepthDecay,
		depthFloor:  defaultDepthFloor,
		weights:     copyWeights(defaultWeights),
		multipliers: copyMultipliers(defaultMultipliers),
		defWeight:   defaultWeight,
		defMult:     defaultMultiplier,
	}
}

// Evaluate scores the path under the given change type and returns a new
// DependencyPath with the scoring fields filled in. The input is never
// mutated, so one enumerated path can be re-scored under hypothetical
// change types.
//
// An empty or zero-depth path is an enumerator contract violation and is
// rejected as invalid input.
func (e *Evaluator) Evaluate(path DependencyPath, change entity.ChangeType) (DependencyPath, error) {
	if len(path.Nodes) == 0 {
		return DependencyPath{}, errors.New(errors.DegeneratePath, "path has no nodes")
	}
	if path.Depth < 1 {
		return DependencyPath{}, errors.Newf(errors.DegeneratePath, "path depth %d, need at least one edge", path.Depth)
	}

	raw := float64(e.Weight(path.MaxDependencyType)) *
		float64(e.Multiplier(change)) *
		float64(path.MaxCriticalityLevel) *
		e.DepthFactor(path.Depth)

	scored := path
	scored.RiskScore = roundHalfAway(raw)
	scored.ImpactLevel = ClassifyImpact(scored.RiskScore)
	scored.DominantEntity = path.Terminal()
	scored.DominantDependencyType = path.MaxDependencyType
	return scored, nil
}

// Weight returns the dependency weight, falling back to the non-zero default
// for unrecognized types so no edge ever scores to nothing.
func (e *Evaluator) Weight(d entity.DependencyType) int {
	if w, ok := e.weights[d]; ok {
		return w
	}
	return e.defWeight
}

// Multiplier returns the change-type multiplier.
func (e *Evaluator) Multiplier(c entity.ChangeType) int {
	if m, ok := e.multipliers[c]; ok {
		return m
	}
	return e.defMult
}

// DepthFactor returns the decay for a path of d edges: 1.0 at depth 1,
// minus depthDecay per further hop, floored at depthFloor.
func (e *Evaluator) DepthFactor(d int) float64 {
	f := 1.0 - e.depthDecay*float64(d-1)
	if f < e.depthFloor {
		return e.depthFloor
	}
	return f
}

// Version returns the policy version the evaluator implements.
func (e *Evaluator) Version() string {
	return e.version
}

// ClassifyImpact partitions a rounded risk score into impact levels with
// boundaries at 1, 15, 30 and 50.
func ClassifyImpact(score int) ImpactLevel {
	switch {
	case score >= criticalThreshold:
		return ImpactCritical
	case score >= highThreshold:
		return ImpactHigh
	case score >= mediumThreshold:
		return ImpactMedium
	case score > 0:
		return ImpactLow
	default:
		return ImpactNone
	}
}

// roundHalfAway rounds half away from zero. Scores are non-negative, so .5
// always rounds up.
func roundHalfAway(f float64) int {
	return int(math.Round(f))
}

func copyWeights(src map[entity.DependencyType]int) map[entity.DependencyType]int {
	dst := make(map[entity.DependencyType]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyMultipliers(src map[entity.ChangeType]int) map[entity.ChangeType]int {
	dst := make(map[entity.ChangeType]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
