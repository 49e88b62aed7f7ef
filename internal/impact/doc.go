// Package impact scores the blast radius of a proposed change to a database
// entity.
//
// The pipeline runs in five stages on top of the graph package:
//
//	rows -> graph.Build -> graph.Enumerate -> Evaluate -> Aggregate -> ApprovalPolicy
//
// Scoring is deterministic. For each enumerated path:
//
//	raw = weight(maxDependencyType) x multiplier(changeType) x maxCriticality x depthFactor(depth)
//
// rounded half away from zero and classified with boundaries at 1, 15, 30
// and 50 (low, medium, high, critical). depthFactor is 1.0 at depth 1,
// decays 0.2 per further hop and floors at 0.2 so long chains keep residual
// risk.
//
// Every Evaluator can emit a PolicySnapshot of the exact tables it scores
// with; EvaluatorFromSnapshot rebuilds a scoring-identical evaluator from
// one, so historical verdicts stay replayable after the live policy moves on.
//
// Truncated enumerations are not errors. They surface on the ImpactResult
// and force a conservative approval outcome, because a truncated result is a
// lower bound on impact, never a complete one.
package impact
