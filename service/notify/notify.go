// Package notify carries lifecycle and budget notifications to the roles
// that must act on them.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/viant/procure/model"
)

// Event topics.
const (
	TopicSubmitted    = "request.submitted"
	TopicStepApproved = "request.step_approved"
	TopicApproved     = "request.approved"
	TopicRejected     = "request.rejected"
	TopicNeedsInfo    = "request.needs_info"
	TopicResubmitted  = "request.resubmitted"
	TopicBudgetAlert  = "budget.alert"
)

// ErrClosed is returned by Consume once a queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Event is a notification addressed to one or more roles.
type Event struct {
	ID         string       `json:"id"`
	Topic      string       `json:"topic"`
	RequestID  string       `json:"requestId,omitempty"`
	Department string       `json:"department,omitempty"`
	Roles      model.Roles  `json:"roles,omitempty"`
	Step       model.Step   `json:"step,omitempty"`
	Status     model.Status `json:"status,omitempty"`
	Message    string       `json:"message,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Queue is a notification queue.
type Queue interface {
	// Publish enqueues an event; it must not block on slow consumers.
	Publish(ctx context.Context, event *Event) error

	// Consume blocks until an event is available or ctx is done.
	Consume(ctx context.Context) (*Event, error)
}
