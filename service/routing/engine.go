package routing

import (
	"fmt"
	"strings"

	"github.com/viant/procure/model"
	"github.com/viant/procure/service/classifier"
)

// rule contributes step when applies returns a non-empty reason.  specialist
// rules are the reviews that trigger the final department sign-off.
type rule struct {
	step       model.Step
	specialist bool
	applies    func(in *Input, factors *RiskFactors, specialistFired bool) string
}

// Engine routes requests.
type Engine struct {
	config     *Config
	classifier classifier.Classifier
	rules      []rule
}

// Classify computes risk factors and required steps for the input.
func (e *Engine) Classify(in *Input) (*Result, error) {
	if in == nil || in.Request == nil {
		return nil, model.ErrNilRequest
	}
	if err := in.Request.ValidateAmount(); err != nil {
		return nil, err
	}
	factors := e.assess(in)
	result := &Result{RiskFactors: factors, RequiredSteps: []model.Step{}, Reasons: []Reason{}}
	specialistFired := false
	for _, r := range e.rules {
		reason := r.applies(in, &result.RiskFactors, specialistFired)
		if reason == "" {
			continue
		}
		result.RequiredSteps = append(result.RequiredSteps, r.step)
		result.Reasons = append(result.Reasons, Reason{Step: r.step, Reason: reason})
		if r.specialist {
			specialistFired = true
		}
	}
	result.AutoPass = !specialistFired
	result.Level = level(&result.RiskFactors)
	return result, nil
}

func (e *Engine) assess(in *Input) RiskFactors {
	request := in.Request
	amount := request.EffectiveAmount()
	reviewAmount := amount
	if request.BudgetedAmount > reviewAmount {
		reviewAmount = request.BudgetedAmount
	}
	signals := e.classifier.Classify(request.Text())
	factors := RiskFactors{
		HealthcareData:       signals.Healthcare,
		AIML:                 signals.AIML,
		CrossBorder:          signals.CrossBorder,
		Keywords:             signals.Keywords,
		VendorMissing:        in.Vendor == nil,
		VendorNotPreApproved: !in.Vendor.IsPreApproved(),
		LargeSeatCount:       request.Category == model.CategorySaaS && request.Seats > e.config.SeatThreshold,
		MaterialAmount:       reviewAmount >= e.config.MaterialityThreshold,
		LargeAmount:          reviewAmount > e.config.CIOThreshold,
		StrategicDepartment:  e.config.isStrategic(request.Department),
		Renewal:              request.Type == model.RequestTypeRenewal,
	}
	if budget := in.Budget; budget != nil {
		factors.OverBudget = !budget.Fits(amount)
		factors.StrategicDepartment = factors.StrategicDepartment || budget.Strategic
		factors.RequesterIsLeader = budget.LeaderID != "" && budget.LeaderID == request.RequesterID
	}
	return factors
}

func (e *Engine) defaultRules() []rule {
	return []rule{
		{
			step: model.StepDepartmentPreApproval,
			applies: func(in *Input, f *RiskFactors, _ bool) string {
				if f.RequesterIsLeader {
					return ""
				}
				return "requester is not the department leader"
			},
		},
		{
			step:       model.StepComplianceITReview,
			specialist: true,
			applies: func(in *Input, f *RiskFactors, _ bool) string {
				var reasons []string
				if f.VendorNotPreApproved {
					reasons = append(reasons, "vendor is not pre-approved")
				}
				if f.Regulated() {
					reasons = append(reasons, "description references regulated data")
				}
				if f.LargeSeatCount {
					reasons = append(reasons, fmt.Sprintf("saas seat count above %d", e.config.SeatThreshold))
				}
				return strings.Join(reasons, "; ")
			},
		},
		{
			step:       model.StepFinanceApproval,
			specialist: true,
			applies: func(in *Input, f *RiskFactors, _ bool) string {
				var reasons []string
				if f.MaterialAmount {
					reasons = append(reasons, fmt.Sprintf("amount at or above %s", money(e.config.MaterialityThreshold)))
				}
				if f.OverBudget {
					reasons = append(reasons, "amount exceeds remaining department budget")
				}
				return strings.Join(reasons, "; ")
			},
		},
		{
			step:       model.StepCIOApproval,
			specialist: true,
			applies: func(in *Input, f *RiskFactors, _ bool) string {
				var reasons []string
				if f.LargeAmount {
					reasons = append(reasons, fmt.Sprintf("amount above %s", money(e.config.CIOThreshold)))
				}
				if f.AIML {
					reasons = append(reasons, "description references AI/ML")
				}
				if f.StrategicDepartment {
					reasons = append(reasons, "strategic department")
				}
				return strings.Join(reasons, "; ")
			},
		},
		{
			step: model.StepDepartmentFinalApproval,
			applies: func(_ *Input, _ *RiskFactors, specialistFired bool) string {
				if !specialistFired {
					return ""
				}
				return "specialist review requires department sign-off"
			},
		},
	}
}

// level: high for healthcare data, large or over budget amounts; medium for
// any other review trigger; low otherwise.
func level(f *RiskFactors) RiskLevel {
	switch {
	case f.HealthcareData || f.LargeAmount || f.OverBudget:
		return RiskHigh
	case f.CrossBorder || f.AIML || f.VendorNotPreApproved || f.LargeSeatCount || f.MaterialAmount || f.StrategicDepartment:
		return RiskMedium
	}
	return RiskLow
}

func money(amount float64) string {
	return fmt.Sprintf("$%.0f", amount)
}

// New creates an engine; nil arguments select defaults.
func New(config *Config, aClassifier classifier.Classifier) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if aClassifier == nil {
		aClassifier = classifier.NewKeyword(nil)
	}
	ret := &Engine{config: config, classifier: aClassifier}
	ret.rules = ret.defaultRules()
	return ret
}
