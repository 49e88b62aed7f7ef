// Package output renders analysis results for the CLI: stable JSON for
// machines, compact text for humans.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"dbimpact/internal/impact"
	"dbimpact/internal/verdict"
)

// EncodeJSON writes v as indented JSON with HTML escaping disabled. Field
// order follows struct declaration order, so identical inputs produce
// byte-identical output.
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteVerdict renders a verdict as human-readable text.
func WriteVerdict(w io.Writer, v *verdict.ImpactVerdict) {
	fmt.Fprintf(w, "Risk: %s\n", v.Risk)
	fmt.Fprintf(w, "Requires approval: %v\n", v.RequiresApproval)
	fmt.Fprintf(w, "Summary: %s\n", v.Summary)

	if len(v.Reasons) > 0 {
		fmt.Fprintln(w, "\nReasons:")
		for _, r := range v.Reasons {
			fmt.Fprintf(w, "  %d. %s\n", r.Priority, r.Statement)
			if r.Implication != "" {
				fmt.Fprintf(w, "     %s\n", r.Implication)
			}
			if len(r.Evidence) > 0 {
				fmt.Fprintf(w, "     evidence: %s\n", strings.Join(r.Evidence, ", "))
			}
		}
	}

	if len(v.Limitations) > 0 {
		fmt.Fprintln(w, "\nLimitations:")
		for _, l := range v.Limitations {
			fmt.Fprintf(w, "  - %s\n", l)
		}
	}
}

// WriteResultSummary renders a short per-entity table of an ImpactResult.
func WriteResultSummary(w io.Writer, result *impact.ImpactResult) {
	fmt.Fprintf(w, "Root: %s (%s)\n", result.RootEntity.Key(), result.ChangeType)
	fmt.Fprintf(w, "Paths: %d  Entities: %d  MaxDepth: %d  Truncated: %v\n",
		len(result.DependencyPaths), len(result.EntityImpacts),
		result.MaxDepthReached, result.IsTruncated)
	fmt.Fprintf(w, "Worst impact: %s  Requires approval: %v\n",
		result.OverallImpact.WorstImpactLevel, result.OverallImpact.RequiresApproval)

	if len(result.EntityImpacts) > 0 {
		fmt.Fprintln(w, "\nImpacted entities:")
		for _, ei := range result.EntityImpacts {
			fmt.Fprintf(w, "  %-40s %-10s %d path(s)\n",
				ei.Entity.Key(), ei.WorstCaseImpactLevel, len(ei.Paths))
		}
	}
}
