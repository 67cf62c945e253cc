package memory

import (
	"log/slog"

	"github.com/viant/procure/model"
	"github.com/viant/procure/policy"
	"github.com/viant/procure/service/dao"
	budgetdao "github.com/viant/procure/service/dao/budget"
	"github.com/viant/procure/service/notify"
)

type Option func(*service)

// WithRequestDAO replaces the in-memory request store.
func WithRequestDAO(requests dao.Service[string, model.Request]) Option {
	return func(s *service) { s.requests = requests }
}

// WithBudgetDAO sets the budget store that decisions commit spend to.
func WithBudgetDAO(budgets budgetdao.Service) Option {
	return func(s *service) { s.budgets = budgets }
}

// WithVendorDAO sets the vendor directory used for routing.
func WithVendorDAO(vendors dao.Service[string, model.Vendor]) Option {
	return func(s *service) { s.vendors = vendors }
}

// WithQueue sets the notification queue.
func WithQueue(queue notify.Queue) Option {
	return func(s *service) { s.events = queue }
}

// WithLogger sets the lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) { s.logger = logger }
}

// WithPolicy sets the default visibility policy; a policy attached to the
// call context takes precedence.
func WithPolicy(p *policy.Policy) Option {
	return func(s *service) { s.policy = p }
}
