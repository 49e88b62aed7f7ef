package impact

import (
	"dbimpact/internal/entity"
)

// PolicySnapshot is a serializable record of the exact scoring constants an
// evaluator used. A historical verdict plus its snapshot can be replayed
// bit-identically even after the live policy tables change.
type PolicySnapshot struct {
	Version           string         `json:"version"`
	DepthDecay        float64        `json:"depthDecay"`
	DepthFloor        float64        `json:"depthFloor"`
	DependencyWeights map[string]int `json:"dependencyWeights"`
	DefaultWeight     int            `json:"defaultWeight"`
	ChangeMultipliers map[string]int `json:"changeMultipliers"`
	DefaultMultiplier int            `json:"defaultMultiplier"`
	CriticalityScale  ScaleSnapshot  `json:"criticalityScale"`
}

// ScaleSnapshot records the criticality scale in effect.
type ScaleSnapshot struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Snapshot captures the evaluator's live tables. It is built from the same
// maps Evaluate reads, never from a parallel set of constants.
func (e *Evaluator) Snapshot() PolicySnapshot {
	weights := make(map[string]int, len(e.weights))
	for k, v := range e.weights {
		weights[string(k)] = v
	}
	multipliers := make(map[string]int, len(e.multipliers))
	for k, v := range e.multipliers {
		multipliers[string(k)] = v
	}
	return PolicySnapshot{
		Version:           e.version,
		DepthDecay:        e.depthDecay,
		DepthFloor:        e.depthFloor,
		DependencyWeights: weights,
		DefaultWeight:     e.defWeight,
		ChangeMultipliers: multipliers,
		DefaultMultiplier: e.defMult,
		CriticalityScale: ScaleSnapshot{
			Min:     entity.MinCriticality,
			Max:     entity.MaxCriticality,
			Default: entity.DefaultCriticality,
		},
	}
}

// EvaluatorFromSnapshot reconstructs an evaluator from a historical
// snapshot, for audit replay of past verdicts.
func EvaluatorFromSnapshot(s PolicySnapshot) *Evaluator {
	weights := make(map[entity.DependencyType]int, len(s.DependencyWeights))
	for k, v := range s.DependencyWeights {
		weights[entity.DependencyType(k)] = v
	}
	multipliers := make(map[entity.ChangeType]int, len(s.ChangeMultipliers))
	for k, v := range s.ChangeMultipliers {
		multipliers[entity.ChangeType(k)] = v
	}
	return &Evaluator{
		version:     s.Version,
		depthDecay:  s.DepthDecay,
		depthFloor:  s.DepthFloor,
		weights:     weights,
		multipliers: multipliers,
		defWeight:   s.DefaultWeight,
		defMult:     s.DefaultMultiplier,
	}
}
