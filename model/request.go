package model

import (
	"fmt"
	"time"
)

// Category classifies what is being purchased.
type Category string

const (
	CategorySaaS     Category = "saas"
	CategoryHardware Category = "hardware"
	CategoryServices Category = "services"
	CategoryOther    Category = "other"
)

// RequestType distinguishes new purchases from renewals.
type RequestType string

const (
	RequestTypeNew     RequestType = "new"
	RequestTypeRenewal RequestType = "renewal"
)

// Status is a request lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusNeedsInfo Status = "needs_info"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is a purchase or renewal request.
type Request struct {
	ID               string      `json:"id" yaml:"id"`
	RequesterID      string      `json:"requesterId" yaml:"requesterId"`
	Department       string      `json:"department" yaml:"department"`
	Category         Category    `json:"category" yaml:"category"`
	Type             RequestType `json:"type,omitempty" yaml:"type,omitempty"`
	Title            string      `json:"title" yaml:"title"`
	Description      string      `json:"description,omitempty" yaml:"description,omitempty"`
	Amount           float64     `json:"amount" yaml:"amount"`
	BudgetedAmount   float64     `json:"budgetedAmount,omitempty" yaml:"budgetedAmount,omitempty"`
	NegotiatedAmount *float64    `json:"negotiatedAmount,omitempty" yaml:"negotiatedAmount,omitempty"`
	Seats            int         `json:"seats,omitempty" yaml:"seats,omitempty"`
	VendorID         string      `json:"vendorId,omitempty" yaml:"vendorId,omitempty"`

	ComplianceApproved bool `json:"complianceApproved" yaml:"complianceApproved"`
	ITApproved         bool `json:"itApproved" yaml:"itApproved"`

	Status      Status   `json:"status" yaml:"status"`
	Steps       []Step   `json:"steps,omitempty" yaml:"steps,omitempty"`
	CurrentStep Step     `json:"currentStep,omitempty" yaml:"currentStep,omitempty"`
	Stage       int      `json:"stage" yaml:"stage"`
	TotalStages int      `json:"totalStages" yaml:"totalStages"`
	History     []*Entry `json:"history,omitempty" yaml:"history,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Entry records a single lifecycle transition.
type Entry struct {
	Actor  string    `json:"actor"`
	Role   Role      `json:"role"`
	Action string    `json:"action"`
	Step   Step      `json:"step,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Diff   string    `json:"diff,omitempty"`
	At     time.Time `json:"at"`
}

// EffectiveAmount returns the negotiated amount when present, the requested
// amount otherwise.
func (r *Request) EffectiveAmount() float64 {
	if r.NegotiatedAmount != nil {
		return *r.NegotiatedAmount
	}
	return r.Amount
}

// Text returns title and description joined for keyword scanning.
func (r *Request) Text() string {
	if r.Description == "" {
		return r.Title
	}
	return r.Title + "\n" + r.Description
}

// ValidateAmount returns ErrInvalidAmount when the requested or negotiated
// amount is not positive.
func (r *Request) ValidateAmount() error {
	if r.Amount <= 0 {
		return fmt.Errorf("%w: requested amount %.2f", ErrInvalidAmount, r.Amount)
	}
	if r.NegotiatedAmount != nil && *r.NegotiatedAmount <= 0 {
		return fmt.Errorf("%w: negotiated amount %.2f", ErrInvalidAmount, *r.NegotiatedAmount)
	}
	return nil
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	ret := *r
	if r.NegotiatedAmount != nil {
		amount := *r.NegotiatedAmount
		ret.NegotiatedAmount = &amount
	}
	ret.Steps = append([]Step(nil), r.Steps...)
	if len(r.History) > 0 {
		ret.History = make([]*Entry, len(r.History))
		for i, entry := range r.History {
			copied := *entry
			ret.History[i] = &copied
		}
	}
	return &ret
}
