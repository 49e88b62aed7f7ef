package impact

import (
	"testing"

	"dbimpact/internal/entity"
)

func scoredPath(id string, terminal entity.EntityRef, level ImpactLevel, score int) DependencyPath {
	return DependencyPath{
		PathId:      id,
		Nodes:       []entity.EntityRef{{Type: entity.Table, Id: "root"}, terminal},
		Edges:       []entity.DependencyType{entity.DepSelect},
		Depth:       1,
		RiskScore:   score,
		ImpactLevel: level,
	}
}

func TestAggregateConvergingPaths(t *testing.T) {
	target := entity.EntityRef{Type: entity.View, Id: "v1", Name: "v_orders"}
	other := entity.EntityRef{Type: entity.Table, Id: "t2"}

	impacts, overall := Aggregate([]DependencyPath{
		scoredPath("p0001", target, ImpactMedium, 20),
		scoredPath("p0002", target, ImpactCritical, 90),
		scoredPath("p0003", other, ImpactLow, 5),
	})

	if len(impacts) != 2 {
		t.Fatalf("got %d entity impacts, want 2 (converging paths reported once)", len(impacts))
	}
	if overall != ImpactCritical {
		t.Errorf("overall = %v, want critical", overall)
	}

	// Worst first in output.
	if !impacts[0].Entity.SameEntity(target) {
		t.Fatalf("expected %s first, got %s", target.Key(), impacts[0].Entity.Key())
	}
	if impacts[0].WorstCaseImpactLevel != ImpactCritical {
		t.Errorf("worst case for %s = %v, want critical", target.Key(), impacts[0].WorstCaseImpactLevel)
	}
	if len(impacts[0].Paths) != 2 {
		t.Errorf("entity should keep both converging paths, got %d", len(impacts[0].Paths))
	}
}

func TestAggregateGroupsByIdentityNotName(t *testing.T) {
	a := entity.EntityRef{Type: entity.View, Id: "v1", Name: "old_name"}
	b := entity.EntityRef{Type: entity.View, Id: "v1", Name: "new_name"}

	impacts, _ := Aggregate([]DependencyPath{
		scoredPath("p0001", a, ImpactLow, 5),
		scoredPath("p0002", b, ImpactHigh, 40),
	})

	if len(impacts) != 1 {
		t.Fatalf("paths to the same identity should group together, got %d groups", len(impacts))
	}
	if impacts[0].WorstCaseImpactLevel != ImpactHigh {
		t.Errorf("worst case = %v, want high", impacts[0].WorstCaseImpactLevel)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	impacts, overall := Aggregate(nil)
	if len(impacts) != 0 {
		t.Errorf("empty input should produce zero entity impacts")
	}
	if overall != ImpactNone {
		t.Errorf("overall = %v, want none", overall)
	}
}

func TestAggregateDeterministicOrder(t *testing.T) {
	paths := []DependencyPath{
		scoredPath("p0001", entity.EntityRef{Type: entity.View, Id: "b"}, ImpactLow, 5),
		scoredPath("p0002", entity.EntityRef{Type: entity.View, Id: "a"}, ImpactLow, 5),
		scoredPath("p0003", entity.EntityRef{Type: entity.View, Id: "c"}, ImpactLow, 5),
	}
	impacts, _ := Aggregate(paths)
	if len(impacts) != 3 {
		t.Fatalf("got %d impacts", len(impacts))
	}
	// Equal levels fall back to stable key order.
	for i, want := range []string{"view:a", "view:b", "view:c"} {
		if impacts[i].Entity.Key() != want {
			t.Errorf("impacts[%d] = %s, want %s", i, impacts[i].Entity.Key(), want)
		}
	}
}

func TestImpactLevelOrdering(t *testing.T) {
	ordered := []ImpactLevel{ImpactNone, ImpactLow, ImpactMedium, ImpactHigh, ImpactCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("%v should rank below %v", ordered[i-1], ordered[i])
		}
	}
	if MaxImpactLevel(ImpactMedium, ImpactHigh) != ImpactHigh {
		t.Errorf("MaxImpactLevel(medium, high) wrong")
	}
	if MaxImpactLevel(ImpactCritical, ImpactLow) != ImpactCritical {
		t.Errorf("MaxImpactLevel(critical, low) wrong")
	}
}
