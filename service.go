package procure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/procure/model"
	"github.com/viant/procure/policy"
	"github.com/viant/procure/service/approval"
	approvalmem "github.com/viant/procure/service/approval/memory"
	"github.com/viant/procure/service/budget"
	"github.com/viant/procure/service/classifier"
	"github.com/viant/procure/service/dao"
	budgetdao "github.com/viant/procure/service/dao/budget"
	budgetmem "github.com/viant/procure/service/dao/budget/memory"
	requestfs "github.com/viant/procure/service/dao/request/fs"
	requestmem "github.com/viant/procure/service/dao/request/memory"
	"github.com/viant/procure/service/dao/vendor"
	"github.com/viant/procure/service/fixture"
	"github.com/viant/procure/service/notify"
	notifyfs "github.com/viant/procure/service/notify/fs"
	notifymem "github.com/viant/procure/service/notify/memory"
	"github.com/viant/procure/service/routing"
	"github.com/viant/procure/tracing"
)

// Service is the procurement façade.
type Service struct {
	config           *Config
	logger           *slog.Logger
	classifier       classifier.Classifier
	router           *routing.Engine
	alerts           *budget.Engine
	policy           *policy.Policy
	requests         dao.Service[string, model.Request]
	budgets          budgetdao.Service
	vendors          dao.Service[string, model.Vendor]
	queue            notify.Queue
	approval         approval.Service
	fs               afs.Service
	fixtureFsOptions []storage.Option
	tracingErr       error
}

// New creates a service; it seeds Config.FixtureURL when set.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.tracingErr != nil {
		return nil, fmt.Errorf("failed to initialise tracing: %w", ret.tracingErr)
	}
	if err := ret.ensureBaseSetup(); err != nil {
		return nil, err
	}
	if URL := ret.config.FixtureURL; URL != "" {
		ctx := context.Background()
		aFixture, err := ret.LoadFixture(ctx, URL)
		if err != nil {
			return nil, err
		}
		if err = ret.Seed(ctx, aFixture); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	config := s.config
	if err := config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		level, _ := config.Logging.SlogLevel()
		s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	if config.Tracing.Enabled {
		if err := tracing.Init(config.Tracing.ServiceName, config.Tracing.Version, config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	if s.fs == nil {
		s.fs = afs.New()
	}

	var err error
	if s.classifier == nil {
		if s.classifier, err = classifier.New(config.Classifier.Mode, config.Classifier.Keywords); err != nil {
			return err
		}
	}
	s.router = routing.New(config.Routing, s.classifier)
	if s.alerts, err = budget.New(config.Budget); err != nil {
		return err
	}
	if s.policy == nil {
		s.policy = policy.FromConfig(config.Policy)
	}

	if s.requests == nil {
		if path := config.Storage.RequestPath; path != "" {
			if s.requests, err = requestfs.New(path, requestfs.WithFs(s.fs), requestfs.WithLogger(s.logger)); err != nil {
				return err
			}
		} else {
			s.requests = requestmem.New()
		}
	}
	if s.budgets == nil {
		s.budgets = budgetmem.New()
	}
	if s.vendors == nil {
		s.vendors = vendor.New()
	}
	if s.queue == nil {
		if path := config.Storage.NotifyPath; path != "" {
			if s.queue, err = notifyfs.New(s.fs, notifyfs.Config{BasePath: path}); err != nil {
				return err
			}
		} else {
			s.queue = notifymem.New(notifymem.WithCapacity(config.Storage.NotifyCapacity))
		}
	}
	s.approval = approvalmem.New(s.router, s.alerts,
		approvalmem.WithRequestDAO(s.requests),
		approvalmem.WithBudgetDAO(s.budgets),
		approvalmem.WithVendorDAO(s.vendors),
		approvalmem.WithQueue(s.queue),
		approvalmem.WithLogger(s.logger),
		approvalmem.WithPolicy(s.policy),
	)
	return nil
}

// ClassifyRequest computes the risk factors and approval route for r.  A
// missing vendor counts as not pre-approved; an unknown department carries
// no budget constraint.
func (s *Service) ClassifyRequest(ctx context.Context, r *model.Request) (result *routing.Result, err error) {
	if r == nil {
		return nil, model.ErrNilRequest
	}
	ctx, span := tracing.StartSpan(ctx, "procure.ClassifyRequest")
	span.WithAttributes(map[string]string{"request.id": r.ID, "request.department": r.Department}).
		WithAmount("request.amount", r.EffectiveAmount())
	defer func() { tracing.EndSpan(span, err) }()

	aVendor, err := s.vendor(ctx, r.VendorID)
	if err != nil {
		return nil, err
	}
	aBudget, err := s.budget(ctx, r.Department)
	if err != nil {
		return nil, err
	}
	if result, err = s.router.Classify(&routing.Input{Request: r, Vendor: aVendor, Budget: aBudget}); err != nil {
		return nil, err
	}
	s.logger.Debug("request classified", "request", r.ID, "risk", result.Level, "steps", result.RequiredSteps)
	return result, nil
}

// CheckBudgetStatus returns the current alert for department, nil below
// every threshold or for an unknown department.
func (s *Service) CheckBudgetStatus(ctx context.Context, department string) (alert *budget.Alert, err error) {
	ctx, span := tracing.StartSpan(ctx, "procure.CheckBudgetStatus")
	span.WithAttributes(map[string]string{"department": department})
	defer func() { tracing.EndSpan(span, err) }()

	aBudget, err := s.budget(ctx, department)
	if err != nil {
		return nil, err
	}
	return s.alerts.Status(aBudget), nil
}

// CheckBudgetForRequest evaluates department utilization as if amount were
// spent.
func (s *Service) CheckBudgetForRequest(ctx context.Context, department string, amount float64) (check *budget.Check, err error) {
	ctx, span := tracing.StartSpan(ctx, "procure.CheckBudgetForRequest")
	span.WithAttributes(map[string]string{"department": department}).WithAmount("request.amount", amount)
	defer func() { tracing.EndSpan(span, err) }()

	aBudget, err := s.budget(ctx, department)
	if err != nil {
		return nil, err
	}
	if check, err = s.alerts.CheckRequest(aBudget, amount); err != nil {
		return nil, err
	}
	if !check.CanProceed {
		s.logger.Info("budget check blocked", "department", department, "amount", amount, "remaining", check.Remaining)
	}
	return check, nil
}

// LoadFixture loads the fixture at URL, or the embedded mock fixture when
// URL is empty.
func (s *Service) LoadFixture(ctx context.Context, URL string) (*fixture.Fixture, error) {
	if URL == "" || URL == fixture.DefaultURL {
		return fixture.Default(ctx)
	}
	return fixture.Load(ctx, s.fs, URL, s.fixtureFsOptions...)
}

// Seed stores the fixture budgets and vendors, then its requests.  Requests
// without a status (or in draft) are submitted through the approval
// lifecycle; the others are stored as given.
func (s *Service) Seed(ctx context.Context, aFixture *fixture.Fixture) (err error) {
	if aFixture == nil {
		return nil
	}
	ctx, span := tracing.StartSpan(ctx, "procure.Seed")
	defer func() { tracing.EndSpan(span, err) }()

	for _, b := range aFixture.Departments {
		if err = s.budgets.Save(ctx, b); err != nil {
			return fmt.Errorf("failed to seed budget %s: %w", b.Department, err)
		}
	}
	for _, v := range aFixture.Vendors {
		if err = s.vendors.Save(ctx, v); err != nil {
			return fmt.Errorf("failed to seed vendor %s: %w", v.ID, err)
		}
	}
	submitted, blocked := 0, 0
	for _, r := range aFixture.Requests {
		if r.Status != "" && r.Status != model.StatusDraft {
			if err = s.requests.Save(ctx, r); err != nil {
				return fmt.Errorf("failed to seed request %s: %w", r.ID, err)
			}
			continue
		}
		submission, err := s.approval.Submit(ctx, r)
		if err != nil {
			return fmt.Errorf("failed to submit request %s: %w", r.ID, err)
		}
		if submission.Accepted {
			submitted++
		} else {
			blocked++
		}
	}
	s.logger.Info("fixture seeded",
		"departments", len(aFixture.Departments), "vendors", len(aFixture.Vendors),
		"requests", len(aFixture.Requests), "submitted", submitted, "blocked", blocked)
	return nil
}

// BudgetView is a budget with its current alert.
type BudgetView struct {
	Budget *model.Budget `json:"budget"`
	Alert  *budget.Alert `json:"alert,omitempty"`
}

// Dashboard is what a principal sees.
type Dashboard struct {
	Principal model.Principal  `json:"principal"`
	Requests  []*model.Request `json:"requests"`
	Pending   []*model.Request `json:"pending"`
	Budgets   []*BudgetView    `json:"budgets"`
	Vendors   []*model.Vendor  `json:"vendors"`
}

// Dashboard collects the requests, pending decisions, budgets and vendors
// visible to principal.
func (s *Service) Dashboard(ctx context.Context, principal model.Principal) (ret *Dashboard, err error) {
	ctx, span := tracing.StartSpan(ctx, "procure.Dashboard")
	span.WithAttributes(map[string]string{"principal.role": string(principal.Role)})
	defer func() { tracing.EndSpan(span, err) }()

	aPolicy := s.policy
	if p := policy.FromContext(ctx); p != nil {
		aPolicy = p
	}
	ret = &Dashboard{Principal: principal, Budgets: []*BudgetView{}, Vendors: []*model.Vendor{}}
	if ret.Requests, err = s.approval.List(ctx, principal); err != nil {
		return nil, err
	}
	if ret.Pending, err = s.approval.ListPending(ctx, principal); err != nil {
		return nil, err
	}
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if aPolicy.Visible(principal, policy.BudgetEntity(b)) {
			ret.Budgets = append(ret.Budgets, &BudgetView{Budget: b, Alert: s.alerts.Status(b)})
		}
	}
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		if aPolicy.Visible(principal, policy.VendorEntity(v)) {
			ret.Vendors = append(ret.Vendors, v)
		}
	}
	return ret, nil
}

// Approval returns the approval lifecycle service.
func (s *Service) Approval() approval.Service { return s.approval }

// Budgets returns the department budget store.
func (s *Service) Budgets() budgetdao.Service { return s.budgets }

// Vendors returns the vendor directory.
func (s *Service) Vendors() dao.Service[string, model.Vendor] { return s.vendors }

// Requests returns the request store.
func (s *Service) Requests() dao.Service[string, model.Request] { return s.requests }

// Queue returns the notification queue.
func (s *Service) Queue() notify.Queue { return s.queue }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

func (s *Service) budget(ctx context.Context, department string) (*model.Budget, error) {
	ret, err := s.budgets.Load(ctx, department)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	return ret, err
}

func (s *Service) vendor(ctx context.Context, id string) (*model.Vendor, error) {
	if id == "" {
		return nil, nil
	}
	ret, err := s.vendors.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	return ret, err
}
