package memory

import (
	"context"
	"fmt"

	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
	"github.com/viant/procure/service/dao/budget"
	"github.com/viant/procure/service/dao/store"
)

// Service is an in-memory budget store; Spend calls are serialized.
type Service struct {
	*store.MemoryStore[string, model.Budget]
}

var _ budget.Service = (*Service)(nil)

// Spend commits amount against the department budget.
func (s *Service) Spend(ctx context.Context, department string, amount float64) (*model.Budget, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", model.ErrInvalidAmount, amount)
	}
	return s.Update(ctx, department, func(b *model.Budget) error {
		if !b.Fits(amount) {
			return fmt.Errorf("%w: %s has %.2f remaining, requested %.2f",
				budget.ErrInsufficientBudget, department, b.Remaining(), amount)
		}
		b.Spent = model.FromCents(model.Cents(b.Spent) + model.Cents(amount))
		return nil
	})
}

// New creates an empty budget store.
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.Budget](
			func(b *model.Budget) string { return b.Department },
			store.WithClone[string, model.Budget]((*model.Budget).Clone),
		),
	}
}

var _ dao.Service[string, model.Budget] = (*Service)(nil)
