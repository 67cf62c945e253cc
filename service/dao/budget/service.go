// Package budget defines the department budget store.
package budget

import (
	"context"
	"errors"

	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
)

// ErrInsufficientBudget is returned by Spend when the amount exceeds the
// remaining budget.
var ErrInsufficientBudget = errors.New("insufficient budget")

// Service stores budgets keyed by department.
type Service interface {
	dao.Service[string, model.Budget]

	// Spend atomically commits amount against the department budget and
	// returns the updated budget.
	Spend(ctx context.Context, department string, amount float64) (*model.Budget, error)
}
