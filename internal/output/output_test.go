package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"dbimpact/internal/entity"
	"dbimpact/internal/impact"
	"dbimpact/internal/verdict"
)

func TestEncodeJSONIsDeterministic(t *testing.T) {
	v := impact.OverallImpact{WorstImpactLevel: impact.ImpactHigh, RequiresApproval: true}

	a, err := EncodeJSON(v)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	b, err := EncodeJSON(v)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("identical input should encode identically")
	}
	if !strings.Contains(string(a), `"worstImpactLevel": "high"`) {
		t.Errorf("unexpected encoding: %s", a)
	}
}

func TestWriteVerdict(t *testing.T) {
	v := &verdict.ImpactVerdict{
		Risk:             verdict.RiskHigh,
		RequiresApproval: true,
		Summary:          "high risk – 3 views read from this table",
		Reasons: []verdict.VerdictReason{
			{Priority: 1, Statement: "3 views read from this table", Evidence: []string{"view:v1", "view:v2", "view:v3"}},
		},
		Limitations: []string{"path enumeration stopped at the configured path cap"},
		GeneratedAt: time.Now(),
	}

	var buf bytes.Buffer
	WriteVerdict(&buf, v)
	out := buf.String()

	for _, want := range []string{"Risk: high", "Requires approval: true", "3 views read from this table", "view:v1", "Limitations:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResultSummary(t *testing.T) {
	result := &impact.ImpactResult{
		RootEntity:    entity.EntityRef{Type: entity.Table, Id: "orders"},
		ChangeType:    entity.ChangeDelete,
		OverallImpact: impact.OverallImpact{WorstImpactLevel: impact.ImpactCritical, RequiresApproval: true},
		EntityImpacts: []impact.EntityImpact{
			{Entity: entity.EntityRef{Type: entity.StoredProcedure, Id: "sp_purge"}, WorstCaseImpactLevel: impact.ImpactCritical},
		},
		DependencyPaths: make([]impact.DependencyPath, 1),
		MaxDepthReached: 1,
	}

	var buf bytes.Buffer
	WriteResultSummary(&buf, result)
	out := buf.String()

	for _, want := range []string{"table:orders", "stored-procedure:sp_purge", "critical", "Requires approval: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
