package policy

import (
	"context"
	"strings"

	"github.com/viant/procure/model"
)

// Kind is an entity kind subject to visibility rules.
type Kind string

const (
	KindRequest Kind = "request"
	KindBudget  Kind = "budget"
	KindVendor  Kind = "vendor"
)

// Entity describes what Visible needs to know about a record.
type Entity struct {
	Kind        Kind
	Department  string
	RequesterID string
	Steps       []model.Step
}

// RequestEntity describes a request.
func RequestEntity(r *model.Request) Entity {
	return Entity{Kind: KindRequest, Department: r.Department, RequesterID: r.RequesterID, Steps: r.Steps}
}

// BudgetEntity describes a department budget.
func BudgetEntity(b *model.Budget) Entity {
	return Entity{Kind: KindBudget, Department: b.Department}
}

// VendorEntity describes a directory vendor.
func VendorEntity(*model.Vendor) Entity {
	return Entity{Kind: KindVendor}
}

// Visible applies the role rules:
//
//   - requester: own requests and vendors
//   - department_leader: own department requests and budget, vendors
//   - finance, cio, director_of_operations: everything
//   - compliance, it: requests routed through compliance_it_review, vendors
func Visible(principal model.Principal, entity Entity) bool {
	switch principal.Role {
	case model.RoleFinance, model.RoleCIO, model.RoleDirectorOfOperations:
		return true
	}
	if entity.Kind == KindVendor {
		return principal.Role.Valid()
	}
	switch principal.Role {
	case model.RoleRequester:
		return entity.Kind == KindRequest && principal.UserID != "" && entity.RequesterID == principal.UserID
	case model.RoleDepartmentLeader:
		return principal.Department != "" && entity.Department == principal.Department &&
			(entity.Kind == KindRequest || entity.Kind == KindBudget)
	case model.RoleCompliance, model.RoleIT:
		return entity.Kind == KindRequest && model.Contains(entity.Steps, model.StepComplianceITReview)
	}
	return false
}

// Policy narrows visibility.  List entries are either a kind ("vendor") or a
// role-qualified kind ("requester:vendor").  A nil *Policy adds no
// restriction.
type Policy struct {
	AllowList []string // kinds visible at all (empty => all)
	BlockList []string // kinds hidden
}

// Config is the serialisable form of a Policy.
type Config struct {
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList for role and kind, case
// insensitive.  BlockList has priority.
func (p *Policy) IsAllowed(role model.Role, kind Kind) bool {
	if p == nil {
		return true
	}
	for _, b := range p.BlockList {
		if matches(b, role, kind) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if matches(a, role, kind) {
			return true
		}
	}
	return false
}

// Visible combines the role rules with the policy lists.
func (p *Policy) Visible(principal model.Principal, entity Entity) bool {
	return p.IsAllowed(principal.Role, entity.Kind) && Visible(principal, entity)
}

func matches(entry string, role model.Role, kind Kind) bool {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if index := strings.Index(entry, ":"); index != -1 {
		if entry[:index] != strings.ToLower(string(role)) {
			return false
		}
		entry = entry[index+1:]
	}
	return entry == strings.ToLower(string(kind))
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy, nil when absent.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
