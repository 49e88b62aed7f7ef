package impact

// ApprovalPolicy decides whether an aggregated impact requires manual
// approval before the change proceeds. Policies are versioned independently
// of the scoring engine.
type ApprovalPolicy interface {
	// RequiresApproval is given the overall worst impact level and whether
	// the path enumeration was truncated.
	RequiresApproval(worst ImpactLevel, truncated bool) bool
	Version() string
}

// StandardApprovalPolicy is the v1 policy: approval is required for High or
// Critical impact, or whenever enumeration was truncated. A truncated run
// cannot prove lower risk, so it is treated conservatively.
type StandardApprovalPolicy struct{}

// NewStandardApprovalPolicy returns the v1 approval policy.
func NewStandardApprovalPolicy() StandardApprovalPolicy {
	return StandardApprovalPolicy{}
}

func (StandardApprovalPolicy) RequiresApproval(worst ImpactLevel, truncated bool) bool {
	if truncated {
		return true
	}
	return worst.Rank() >= ImpactHigh.Rank()
}

func (StandardApprovalPolicy) Version() string {
	return "approval-v1"
}
