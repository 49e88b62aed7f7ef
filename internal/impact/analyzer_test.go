package impact

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dbimpact/internal/entity"
	"dbimpact/internal/errors"
	"dbimpact/internal/graph"
)

type stubRepo struct {
	rows []graph.DependencyRow
	err  error
}

func (s stubRepo) DependencyRows(ctx context.Context) ([]graph.DependencyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.rows, s.err
}

func depRow(srcId, srcType, tgtId, tgtType, depType string, tgtCrit int) graph.DependencyRow {
	return graph.DependencyRow{
		SourceId: srcId, SourceType: srcType, SourceName: srcId,
		TargetId: tgtId, TargetType: tgtType, TargetName: tgtId,
		DependencyType: depType, TargetCriticality: tgtCrit,
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	repo := stubRepo{rows: []graph.DependencyRow{
		depRow("orders", "table", "v_orders", "view", "select", 0),
		depRow("orders", "table", "sp_purge", "procedure", "delete", 5),
		depRow("v_orders", "view", "rpt_daily", "view", "select", 0),
	}}

	a := NewAnalyzer(repo, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "orders", Name: "orders"}
	result, err := a.Analyze(context.Background(), root, entity.ChangeDelete, Options{MaxDepth: 3, MaxPaths: 100})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(result.DependencyPaths) != 3 {
		t.Fatalf("got %d paths, want 3", len(result.DependencyPaths))
	}
	if result.IsTruncated {
		t.Errorf("unexpected truncation")
	}
	if result.MaxDepthReached != 2 {
		t.Errorf("MaxDepthReached = %d, want 2", result.MaxDepthReached)
	}

	// sp_purge: delete edge * delete change * crit 5 * depth 1 = 150, critical.
	if result.OverallImpact.WorstImpactLevel != ImpactCritical {
		t.Errorf("worst = %v, want critical", result.OverallImpact.WorstImpactLevel)
	}
	if !result.OverallImpact.RequiresApproval {
		t.Errorf("critical impact must require approval")
	}

	if result.PolicySnapshot.Version != PolicyVersion {
		t.Errorf("result must carry the policy snapshot")
	}

	// Every scored path is non-degenerate and carries a deterministic id.
	for i, p := range result.DependencyPaths {
		if p.Depth < 1 {
			t.Errorf("scored path with depth %d", p.Depth)
		}
		if want := fmt.Sprintf("p%04d", i+1); p.PathId != want {
			t.Errorf("PathId = %q, want %q", p.PathId, want)
		}
		if p.RiskScore < 0 {
			t.Errorf("negative risk score %d", p.RiskScore)
		}
	}
}

func TestAnalyzeRejectsNonPositiveLimits(t *testing.T) {
	a := NewAnalyzer(stubRepo{}, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "orders"}

	for _, opts := range []Options{{0, 10}, {3, 0}, {-2, -2}} {
		_, err := a.Analyze(context.Background(), root, entity.ChangeModify, opts)
		if err == nil || !errors.HasCode(err, errors.InvalidLimit) {
			t.Errorf("Options %+v: err = %v, want INVALID_LIMIT", opts, err)
		}
	}
}

func TestAnalyzeTruncationForcesApproval(t *testing.T) {
	rows := make([]graph.DependencyRow, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, depRow("orders", "table", fmt.Sprintf("v%d", i), "view", "select", 0))
	}
	a := NewAnalyzer(stubRepo{rows: rows}, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "orders"}

	result, err := a.Analyze(context.Background(), root, entity.ChangeCreate, Options{MaxDepth: 2, MaxPaths: 4})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.IsTruncated {
		t.Fatalf("expected truncation with 10 dependents and maxPaths 4")
	}
	if len(result.DependencyPaths) != 4 {
		t.Errorf("got %d paths, want 4", len(result.DependencyPaths))
	}
	// Low individual scores, but the truncated run is conservative.
	if !result.OverallImpact.RequiresApproval {
		t.Errorf("truncated result must require approval")
	}
}

func TestAnalyzeNoDependents(t *testing.T) {
	a := NewAnalyzer(stubRepo{rows: []graph.DependencyRow{
		depRow("other", "table", "v1", "view", "select", 0),
	}}, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "isolated"}

	result, err := a.Analyze(context.Background(), root, entity.ChangeModify, Options{MaxDepth: 3, MaxPaths: 10})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.DependencyPaths) != 0 || len(result.EntityImpacts) != 0 {
		t.Errorf("isolated root should yield empty impacts")
	}
	if result.OverallImpact.WorstImpactLevel != ImpactNone {
		t.Errorf("worst = %v, want none", result.OverallImpact.WorstImpactLevel)
	}
	if result.OverallImpact.RequiresApproval {
		t.Errorf("untruncated empty result should not require approval")
	}
}

func TestAnalyzeRepoFailure(t *testing.T) {
	a := NewAnalyzer(stubRepo{err: fmt.Errorf("connection refused")}, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "orders"}

	_, err := a.Analyze(context.Background(), root, entity.ChangeModify, Options{MaxDepth: 3, MaxPaths: 10})
	if err == nil || !errors.HasCode(err, errors.RepoUnavailable) {
		t.Errorf("err = %v, want REPO_UNAVAILABLE", err)
	}
}

func TestAnalyzeHonorsContextCancellation(t *testing.T) {
	a := NewAnalyzer(stubRepo{rows: []graph.DependencyRow{
		depRow("orders", "table", "v1", "view", "select", 0),
	}}, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "orders"}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := a.Analyze(ctx, root, entity.ChangeModify, Options{MaxDepth: 3, MaxPaths: 10})
	if err == nil || !errors.HasCode(err, errors.Timeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}

func TestAnalyzePropagatesUnknownEntityType(t *testing.T) {
	a := NewAnalyzer(stubRepo{rows: []graph.DependencyRow{
		depRow("orders", "table", "trg_x", "trigger", "update", 0),
	}}, nil)
	root := entity.EntityRef{Type: entity.Table, Id: "orders"}

	_, err := a.Analyze(context.Background(), root, entity.ChangeModify, Options{MaxDepth: 3, MaxPaths: 10})
	if err == nil || !errors.HasCode(err, errors.EntityTypeUnknown) {
		t.Errorf("err = %v, want ENTITY_TYPE_UNKNOWN", err)
	}
}
