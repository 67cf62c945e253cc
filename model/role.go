package model

// Role identifies an organisational actor.
type Role string

const (
	RoleRequester            Role = "requester"
	RoleDepartmentLeader     Role = "department_leader"
	RoleFinance              Role = "finance"
	RoleCompliance           Role = "compliance"
	RoleIT                   Role = "it"
	RoleCIO                  Role = "cio"
	RoleDirectorOfOperations Role = "director_of_operations"
)

// Principal is the caller of a stateful operation.  Authentication is
// outside this module, a principal is trusted as given.
type Principal struct {
	UserID     string `json:"userId" yaml:"userId"`
	Role       Role   `json:"role" yaml:"role"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// Roles is an ordered role set.
type Roles []Role

// Has reports whether role is in the set.
func (r Roles) Has(role Role) bool {
	for _, candidate := range r {
		if candidate == role {
			return true
		}
	}
	return false
}

var roleLabels = map[Role]string{
	RoleRequester:            "requester",
	RoleDepartmentLeader:     "department leader",
	RoleFinance:              "finance",
	RoleCompliance:           "compliance",
	RoleIT:                   "IT",
	RoleCIO:                  "CIO",
	RoleDirectorOfOperations: "director of operations",
}

// Label returns a human readable role name.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}
