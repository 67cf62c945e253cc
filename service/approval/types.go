package approval

import (
	"errors"

	"github.com/viant/procure/model"
	"github.com/viant/procure/service/budget"
	"github.com/viant/procure/service/routing"
)

var (
	// ErrNotAuthorized is returned when the principal may not act on a request.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidState is returned when a transition is not allowed from the
	// current request status.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidAction is returned for an unknown decision action.
	ErrInvalidAction = errors.New("invalid action")
)

// Action is a reviewer decision.
type Action string

const (
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
	ActionNeedsInfo Action = "needs_info"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject || a == ActionNeedsInfo
}

// Decision is a reviewer verdict on the current step.
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// Submission is the outcome of Submit or Resubmit.
type Submission struct {
	Request *model.Request  `json:"request"`
	Route   *routing.Result `json:"route,omitempty"`
	Budget  *budget.Check   `json:"budget"`
	// Accepted is false when the budget check blocked the request; a blocked
	// request is not stored.
	Accepted bool `json:"accepted"`
}

// Update carries requester edits applied by Resubmit; nil fields are kept.
type Update struct {
	Title            *string            `json:"title,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Category         *model.Category    `json:"category,omitempty"`
	Type             *model.RequestType `json:"type,omitempty"`
	Amount           *float64           `json:"amount,omitempty"`
	NegotiatedAmount *float64           `json:"negotiatedAmount,omitempty"`
	Seats            *int               `json:"seats,omitempty"`
	VendorID         *string            `json:"vendorId,omitempty"`
}

// Apply copies the set fields onto r.
func (u *Update) Apply(r *model.Request) {
	if u == nil {
		return
	}
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.Type != nil {
		r.Type = *u.Type
	}
	if u.Amount != nil {
		r.Amount = *u.Amount
	}
	if u.NegotiatedAmount != nil {
		amount := *u.NegotiatedAmount
		r.NegotiatedAmount = &amount
	}
	if u.Seats != nil {
		r.Seats = *u.Seats
	}
	if u.VendorID != nil {
		r.VendorID = *u.VendorID
	}
}
