package approval

import (
	"context"

	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
	"github.com/viant/procure/service/notify"
)

// Service defines the approval service interface.
type Service interface {
	// Submit routes and stores a new request unless its budget check blocks it.
	Submit(ctx context.Context, r *model.Request) (*Submission, error)

	// Decide applies principal's decision to the current step of a pending request.
	Decide(ctx context.Context, principal model.Principal, id string, decision Decision) (*model.Request, error)

	// Resubmit applies the requester's edit to a needs_info request and routes it again.
	Resubmit(ctx context.Context, principal model.Principal, id string, update *Update) (*Submission, error)

	// ListPending returns the requests awaiting principal's decision, ordered by ID.
	ListPending(ctx context.Context, principal model.Principal) ([]*model.Request, error)

	// Get returns a request visible to principal.
	Get(ctx context.Context, principal model.Principal, id string) (*model.Request, error)

	// List returns the matching requests visible to principal, ordered by ID.
	List(ctx context.Context, principal model.Principal, parameters ...*dao.Parameter) ([]*model.Request, error)

	Queue() notify.Queue
}
