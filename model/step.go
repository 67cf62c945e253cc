package model

// Step is an approval step tag.
type Step string

// Steps in execution order.
const (
	StepDepartmentPreApproval   Step = "department_pre_approval"
	StepComplianceITReview      Step = "compliance_it_review"
	StepFinanceApproval         Step = "finance_approval"
	StepCIOApproval             Step = "cio_approval"
	StepDepartmentFinalApproval Step = "department_final_approval"
)

// StepOrder lists every step in the fixed order in which they execute.
var StepOrder = []Step{
	StepDepartmentPreApproval,
	StepComplianceITReview,
	StepFinanceApproval,
	StepCIOApproval,
	StepDepartmentFinalApproval,
}

var stepApprovers = map[Step]Roles{
	StepDepartmentPreApproval:   {RoleDepartmentLeader},
	StepComplianceITReview:      {RoleCompliance, RoleIT},
	StepFinanceApproval:         {RoleFinance},
	StepCIOApproval:             {RoleCIO},
	StepDepartmentFinalApproval: {RoleDepartmentLeader},
}

// Order returns the position of the step in StepOrder or -1 for unknown steps.
func (s Step) Order() int {
	for i, candidate := range StepOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Approvers returns the roles that must sign the step off.  Every listed role
// has to approve before the step completes.
func (s Step) Approvers() Roles {
	return stepApprovers[s]
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.Order() >= 0
}

// Contains reports whether step is in steps.
func Contains(steps []Step, step Step) bool {
	for _, candidate := range steps {
		if candidate == step {
			return true
		}
	}
	return false
}
