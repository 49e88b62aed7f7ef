package impact

import (
	"context"
	"fmt"

	"dbimpact/internal/entity"
	"dbimpact/internal/errors"
	"dbimpact/internal/graph"
	"dbimpact/internal/logging"
)

// MetadataRepository supplies raw dependency rows. The fetch is the only
// I/O in an analysis and must honor ctx cancellation and deadlines.
type MetadataRepository interface {
	DependencyRows(ctx context.Context) ([]graph.DependencyRow, error)
}

// Options bounds one analysis run. Both limits are required; non-positive
// values are rejected rather than clamped.
type Options struct {
	MaxDepth int
	MaxPaths int
}

// Analyzer runs the full pipeline: fetch rows, build graph, enumerate
// bounded paths, score them, aggregate, and decide approval. It holds no
// cross-request state; every invocation is self-contained.
type Analyzer struct {
	repo      MetadataRepository
	evaluator *Evaluator
	approval  ApprovalPolicy
	logger    *logging.Logger
}

// NewAnalyzer creates an analyzer over the given repository using the
// current scoring and approval policies.
func NewAnalyzer(repo MetadataRepository, logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{
		repo:      repo,
		evaluator: NewEvaluator(),
		approval:  NewStandardApprovalPolicy(),
		logger:    logger,
	}
}

// WithApprovalPolicy replaces the approval policy. Approval is versioned
// independently of scoring.
func (a *Analyzer) WithApprovalPolicy(p ApprovalPolicy) *Analyzer {
	a.approval = p
	return a
}

// Evaluator exposes the analyzer's scoring policy, for snapshot printing.
func (a *Analyzer) Evaluator() *Evaluator {
	return a.evaluator
}

// Analyze assesses the blast radius of the proposed change to root.
//
// After the one awaited repository fetch, everything is pure in-memory
// computation. Truncation is not an error: it surfaces on the result and
// forces a conservative approval outcome.
func (a *Analyzer) Analyze(ctx context.Context, root entity.EntityRef, change entity.ChangeType, opts Options) (*ImpactResult, error) {
	if opts.MaxDepth <= 0 {
		return nil, errors.Newf(errors.InvalidLimit, "maxDepth must be positive, got %d", opts.MaxDepth)
	}
	if opts.MaxPaths <= 0 {
		return nil, errors.Newf(errors.InvalidLimit, "maxPaths must be positive, got %d", opts.MaxPaths)
	}

	rows, err := a.repo.DependencyRows(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.Timeout, "fetching dependency rows", err)
		}
		return nil, errors.Wrap(errors.RepoUnavailable, "fetching dependency rows", err)
	}

	g, err := graph.Build(rows)
	if err != nil {
		return nil, err
	}

	if _, ok := g.Node(root); !ok {
		// Not fatal: the verdict reports the metadata gap, never zero risk.
		a.logger.Warn("root entity not present in metadata", map[string]interface{}{
			"entity": root.Key(),
		})
	}

	states, truncated, err := graph.Enumerate(g, root, opts.MaxDepth, opts.MaxPaths)
	if err != nil {
		return nil, err
	}

	scored := make([]DependencyPath, 0, len(states))
	maxDepthReached := 0
	for i, s := range states {
		p, err := a.evaluator.Evaluate(pathFromState(i, s), change)
		if err != nil {
			return nil, err
		}
		scored = append(scored, p)
		if p.Depth > maxDepthReached {
			maxDepthReached = p.Depth
		}
	}

	impacts, worst := Aggregate(scored)

	result := &ImpactResult{
		RootEntity: root,
		ChangeType: change,
		OverallImpact: OverallImpact{
			WorstImpactLevel: worst,
			RequiresApproval: a.approval.RequiresApproval(worst, truncated),
		},
		EntityImpacts:   impacts,
		DependencyPaths: scored,
		IsTruncated:     truncated,
		MaxDepthReached: maxDepthReached,
		PolicySnapshot:  a.evaluator.Snapshot(),
	}

	a.logger.Info("impact analysis complete", map[string]interface{}{
		"root":       root.Key(),
		"changeType": string(change),
		"paths":      len(scored),
		"entities":   len(impacts),
		"worst":      string(worst),
		"truncated":  truncated,
	})

	return result, nil
}

// pathFromState converts an enumerated state into an unscored path. PathIds
// are sequence numbers in BFS emission order: stable for identical input,
// with no randomness in the result.
func pathFromState(seq int, s graph.PathState) DependencyPath {
	return DependencyPath{
		PathId:              fmt.Sprintf("p%04d", seq+1),
		Nodes:               s.Nodes,
		Edges:               s.Edges,
		Depth:               s.Depth,
		MaxDependencyType:   s.MaxDependencyType,
		MaxCriticalityLevel: s.MaxCriticalityLevel,
	}
}
