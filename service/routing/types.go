package routing

import "github.com/viant/procure/model"

// Input is the snapshot a request is routed on.
type Input struct {
	Request *model.Request
	// Vendor is nil when the request has no vendor or the vendor is unknown;
	// such requests are treated as not pre-approved.
	Vendor *model.Vendor
	// Budget is nil for unknown departments, which carry no budget constraint.
	Budget *model.Budget
}

// RiskLevel summarises the risk factors.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskFactors are derived per request and never stored.
type RiskFactors struct {
	HealthcareData       bool     `json:"healthcareData"`
	AIML                 bool     `json:"aiml"`
	CrossBorder          bool     `json:"crossBorder"`
	VendorMissing        bool     `json:"vendorMissing"`
	VendorNotPreApproved bool     `json:"vendorNotPreApproved"`
	LargeSeatCount       bool     `json:"largeSeatCount"`
	MaterialAmount       bool     `json:"materialAmount"`
	LargeAmount          bool     `json:"largeAmount"`
	OverBudget           bool     `json:"overBudget"`
	StrategicDepartment  bool     `json:"strategicDepartment"`
	Renewal              bool     `json:"renewal"`
	RequesterIsLeader    bool     `json:"requesterIsLeader"`
	Keywords             []string `json:"keywords,omitempty"`
}

// Regulated reports whether the request touches regulated data.
func (f *RiskFactors) Regulated() bool {
	return f.HealthcareData || f.CrossBorder
}

// Reason explains why a step was included.
type Reason struct {
	Step   model.Step `json:"step"`
	Reason string     `json:"reason"`
}

// Result is the routing outcome.
type Result struct {
	RiskFactors   RiskFactors  `json:"riskFactors"`
	Level         RiskLevel    `json:"riskLevel"`
	RequiredSteps []model.Step `json:"requiredSteps"`
	Reasons       []Reason     `json:"reasons"`
	// AutoPass is set when no review beyond the base department step is needed.
	AutoPass bool `json:"autoPass"`
}

// Has reports whether step is required.
func (r *Result) Has(step model.Step) bool {
	return model.Contains(r.RequiredSteps, step)
}
