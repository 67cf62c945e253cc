package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/procure/internal/clock"
	"github.com/viant/procure/internal/idgen"
	"github.com/viant/procure/model"
	"github.com/viant/procure/policy"
	"github.com/viant/procure/service/approval"
	"github.com/viant/procure/service/budget"
	"github.com/viant/procure/service/dao"
	budgetdao "github.com/viant/procure/service/dao/budget"
	budgetmem "github.com/viant/procure/service/dao/budget/memory"
	requestmem "github.com/viant/procure/service/dao/request/memory"
	"github.com/viant/procure/service/dao/vendor"
	"github.com/viant/procure/service/notify"
	notifymem "github.com/viant/procure/service/notify/memory"
	"github.com/viant/procure/service/routing"
)

// History actions.
const (
	actionSubmitted   = "submitted"
	actionResubmitted = "resubmitted"
	actionApproved    = "approved"
	actionAutoPassed  = "auto_approved"
)

type service struct {
	// mux serializes lifecycle transitions so a read-modify-write of a
	// request never interleaves with another.
	mux sync.Mutex

	router *routing.Engine
	alerts *budget.Engine

	requests dao.Service[string, model.Request]
	budgets  budgetdao.Service
	vendors  dao.Service[string, model.Vendor]
	events   notify.Queue
	logger   *slog.Logger
	policy   *policy.Policy
}

// New creates an approval service over the routing and budget engines.
// Stores and queue default to empty in-memory implementations.
func New(router *routing.Engine, alerts *budget.Engine, options ...Option) approval.Service {
	ret := &service{router: router, alerts: alerts}
	for _, option := range options {
		option(ret)
	}
	if ret.router == nil {
		ret.router = routing.New(nil, nil)
	}
	if ret.alerts == nil {
		ret.alerts, _ = budget.New(nil)
	}
	if ret.requests == nil {
		ret.requests = requestmem.New()
	}
	if ret.budgets == nil {
		ret.budgets = budgetmem.New()
	}
	if ret.vendors == nil {
		ret.vendors = vendor.New()
	}
	if ret.events == nil {
		ret.events = notifymem.New()
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ret
}

func (s *service) Queue() notify.Queue { return s.events }

func (s *service) Submit(ctx context.Context, r *model.Request) (*approval.Submission, error) {
	if r == nil {
		return nil, model.ErrNilRequest
	}
	if err := r.ValidateAmount(); err != nil {
		return nil, err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	request := r.Clone()
	if request.ID == "" {
		request.ID = idgen.New()
	} else if _, err := s.requests.Load(ctx, request.ID); err == nil {
		return nil, fmt.Errorf("%w: request %s already submitted", approval.ErrInvalidState, request.ID)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return nil, err
	}
	now := clock.Now()
	request.CreatedAt = now
	request.History = nil
	entry := &model.Entry{Actor: request.RequesterID, Role: model.RoleRequester, Action: actionSubmitted}
	return s.route(ctx, request, entry)
}

func (s *service) Resubmit(ctx context.Context, principal model.Principal, id string, update *approval.Update) (*approval.Submission, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal.UserID == "" || principal.UserID != stored.RequesterID {
		return nil, fmt.Errorf("%w: only the requester can resubmit %s", approval.ErrNotAuthorized, id)
	}
	if stored.Status != model.StatusNeedsInfo {
		return nil, fmt.Errorf("%w: request %s is %s, expected %s", approval.ErrInvalidState, id, stored.Status, model.StatusNeedsInfo)
	}
	request := stored.Clone()
	update.Apply(request)
	if err := request.ValidateAmount(); err != nil {
		return nil, err
	}
	diff, err := revisionDiff(stored, request)
	if err != nil {
		return nil, err
	}
	entry := &model.Entry{Actor: principal.UserID, Role: principal.Role, Action: actionResubmitted, Diff: diff}
	submission, err := s.route(ctx, request, entry)
	if err != nil {
		return nil, err
	}
	if !submission.Accepted {
		// the stored request stays in needs_info
		submission.Request = stored
	}
	return submission, nil
}

// route runs the budget check and routing for request and stores it when the
// budget allows.  Callers hold s.mux.
func (s *service) route(ctx context.Context, request *model.Request, entry *model.Entry) (*approval.Submission, error) {
	amount := request.EffectiveAmount()
	aBudget, err := s.budget(ctx, request.Department)
	if err != nil {
		return nil, err
	}
	check, err := s.alerts.CheckRequest(aBudget, amount)
	if err != nil {
		return nil, err
	}
	submission := &approval.Submission{Budget: check}
	s.publishAlerts(ctx, request, check.Alerts)
	if !check.CanProceed {
		request.Status = model.StatusDraft
		submission.Request = request
		s.logger.Warn("request blocked by budget",
			"request", request.ID, "department", request.Department, "amount", amount, "remaining", check.Remaining)
		return submission, nil
	}

	aVendor, err := s.vendor(ctx, request.VendorID)
	if err != nil {
		return nil, err
	}
	route, err := s.router.Classify(&routing.Input{Request: request, Vendor: aVendor, Budget: aBudget})
	if err != nil {
		return nil, err
	}
	submission.Route = route

	now := clock.Now()
	entry.At = now
	request.Status = model.StatusPending
	request.Steps = append([]model.Step(nil), route.RequiredSteps...)
	request.TotalStages = len(request.Steps)
	request.Stage = 0
	request.CurrentStep = ""
	request.ComplianceApproved = false
	request.ITApproved = false
	request.UpdatedAt = now
	request.History = append(request.History, entry)

	topic := notify.TopicSubmitted
	if entry.Action == actionResubmitted {
		topic = notify.TopicResubmitted
	}
	if request.TotalStages == 0 {
		if err := s.complete(ctx, request, &model.Entry{Action: actionAutoPassed, At: now}); err != nil {
			return nil, err
		}
	} else {
		request.CurrentStep = request.Steps[0]
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	submission.Request = request.Clone()
	submission.Accepted = true

	s.logger.Info("request routed",
		"request", request.ID, "department", request.Department, "amount", amount,
		"risk", route.Level, "steps", request.Steps, "status", request.Status)
	s.publish(ctx, &notify.Event{Topic: topic, RequestID: request.ID, Department: request.Department,
		Roles: request.CurrentStep.Approvers(), Step: request.CurrentStep, Status: request.Status,
		Message: fmt.Sprintf("%s: %s routed through %d step(s)", request.ID, request.Title, request.TotalStages)})
	if request.Status == model.StatusApproved {
		s.publishApproved(ctx, request)
	}
	return submission, nil
}

func (s *service) Decide(ctx context.Context, principal model.Principal, id string, decision approval.Decision) (*model.Request, error) {
	if !decision.Action.Valid() {
		return nil, fmt.Errorf("%w: %q", approval.ErrInvalidAction, decision.Action)
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: request %s is %s", approval.ErrInvalidState, id, request.Status)
	}
	if !canDecide(principal, request) {
		return nil, fmt.Errorf("%w: %s cannot decide %s on %s", approval.ErrNotAuthorized, principal.Role.Label(), request.CurrentStep, id)
	}

	now := clock.Now()
	step := request.CurrentStep
	entry := &model.Entry{Actor: principal.UserID, Role: principal.Role, Action: string(decision.Action), Step: step, Reason: decision.Reason, At: now}
	request.UpdatedAt = now

	switch decision.Action {
	case approval.ActionReject:
		request.Status = model.StatusRejected
		request.History = append(request.History, entry)
		if err := s.requests.Save(ctx, request); err != nil {
			return nil, err
		}
		s.logger.Info("request rejected", "request", id, "step", step, "actor", principal.UserID, "reason", decision.Reason)
		s.publish(ctx, &notify.Event{Topic: notify.TopicRejected, RequestID: id, Department: request.Department,
			Roles: model.Roles{model.RoleRequester}, Step: step, Status: request.Status,
			Message: fmt.Sprintf("%s rejected at %s by %s: %s", id, step, principal.Role.Label(), decision.Reason)})
		return request, nil

	case approval.ActionNeedsInfo:
		request.Status = model.StatusNeedsInfo
		request.History = append(request.History, entry)
		if err := s.requests.Save(ctx, request); err != nil {
			return nil, err
		}
		s.logger.Info("request needs info", "request", id, "step", step, "actor", principal.UserID)
		s.publish(ctx, &notify.Event{Topic: notify.TopicNeedsInfo, RequestID: id, Department: request.Department,
			Roles: model.Roles{model.RoleRequester}, Step: step, Status: request.Status,
			Message: fmt.Sprintf("%s needs more information for %s: %s", id, step, decision.Reason)})
		return request, nil
	}

	entry.Action = actionApproved
	if step == model.StepComplianceITReview {
		switch principal.Role {
		case model.RoleCompliance:
			request.ComplianceApproved = true
		case model.RoleIT:
			request.ITApproved = true
		}
		if !(request.ComplianceApproved && request.ITApproved) {
			request.History = append(request.History, entry)
			if err := s.requests.Save(ctx, request); err != nil {
				return nil, err
			}
			waiting := model.RoleIT
			if !request.ComplianceApproved {
				waiting = model.RoleCompliance
			}
			s.logger.Info("review partially approved", "request", id, "actor", principal.UserID, "role", principal.Role)
			s.publish(ctx, &notify.Event{Topic: notify.TopicStepApproved, RequestID: id, Department: request.Department,
				Roles: model.Roles{waiting}, Step: step, Status: request.Status,
				Message: fmt.Sprintf("%s approved by %s, awaiting %s", id, principal.Role.Label(), waiting.Label())})
			return request, nil
		}
	}

	if request.Stage+1 >= request.TotalStages {
		if err := s.complete(ctx, request, entry); err != nil {
			return nil, err
		}
		if err := s.requests.Save(ctx, request); err != nil {
			return nil, err
		}
		s.publishApproved(ctx, request)
		return request, nil
	}

	request.History = append(request.History, entry)
	request.Stage++
	request.CurrentStep = request.Steps[request.Stage]
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info("step approved", "request", id, "step", step, "next", request.CurrentStep, "actor", principal.UserID)
	s.publish(ctx, &notify.Event{Topic: notify.TopicStepApproved, RequestID: id, Department: request.Department,
		Roles: request.CurrentStep.Approvers(), Step: request.CurrentStep, Status: request.Status,
		Message: fmt.Sprintf("%s approved at %s, next %s", id, step, request.CurrentStep)})
	return request, nil
}

// complete commits the spend and marks request approved.  Unknown departments
// carry no budget, so nothing is committed for them.
func (s *service) complete(ctx context.Context, request *model.Request, entry *model.Entry) error {
	amount := request.EffectiveAmount()
	updated, err := s.budgets.Spend(ctx, request.Department, amount)
	switch {
	case err == nil:
		if alert := s.alerts.Status(updated); alert != nil {
			s.publishAlerts(ctx, request, []*budget.Alert{alert})
		}
	case errors.Is(err, dao.ErrNotFound):
	default:
		s.logger.Warn("spend commit failed", "request", request.ID, "department", request.Department, "amount", amount, "error", err)
		return fmt.Errorf("failed to commit %s spend for %s: %w", request.Department, request.ID, err)
	}
	request.History = append(request.History, entry)
	request.Status = model.StatusApproved
	request.Stage = request.TotalStages
	request.CurrentStep = ""
	return nil
}

func (s *service) ListPending(ctx context.Context, principal model.Principal) ([]*model.Request, error) {
	pending, err := s.requests.List(ctx, dao.NewParameter(dao.ParamStatus, string(model.StatusPending)))
	if err != nil {
		return nil, err
	}
	aPolicy := s.visibility(ctx)
	ret := make([]*model.Request, 0, len(pending))
	for _, r := range pending {
		if r.Status == model.StatusPending && canDecide(principal, r) && aPolicy.Visible(principal, policy.RequestEntity(r)) {
			ret = append(ret, r)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

func (s *service) Get(ctx context.Context, principal model.Principal, id string) (*model.Request, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.visibility(ctx).Visible(principal, policy.RequestEntity(request)) {
		return nil, fmt.Errorf("%w: request %s", approval.ErrNotAuthorized, id)
	}
	return request, nil
}

func (s *service) List(ctx context.Context, principal model.Principal, parameters ...*dao.Parameter) ([]*model.Request, error) {
	requests, err := s.requests.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	aPolicy := s.visibility(ctx)
	ret := make([]*model.Request, 0, len(requests))
	for _, r := range requests {
		if aPolicy.Visible(principal, policy.RequestEntity(r)) {
			ret = append(ret, r)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

// canDecide reports whether principal approves the current step of request.
// Department steps belong to the leader of the request department; a
// compliance/IT reviewer who already approved has nothing left to decide.
func canDecide(principal model.Principal, request *model.Request) bool {
	step := request.CurrentStep
	if !step.Approvers().Has(principal.Role) {
		return false
	}
	switch step {
	case model.StepDepartmentPreApproval, model.StepDepartmentFinalApproval:
		return principal.Department != "" && principal.Department == request.Department
	case model.StepComplianceITReview:
		if principal.Role == model.RoleCompliance {
			return !request.ComplianceApproved
		}
		return !request.ITApproved
	}
	return true
}

func (s *service) visibility(ctx context.Context) *policy.Policy {
	if p := policy.FromContext(ctx); p != nil {
		return p
	}
	return s.policy
}

func (s *service) load(ctx context.Context, id string) (*model.Request, error) {
	request, err := s.requests.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load request %s: %w", id, err)
	}
	return request, nil
}

// budget returns nil for departments without a budget.
func (s *service) budget(ctx context.Context, department string) (*model.Budget, error) {
	ret, err := s.budgets.Load(ctx, department)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	return ret, err
}

// vendor returns nil for a missing or unknown vendor.
func (s *service) vendor(ctx context.Context, id string) (*model.Vendor, error) {
	if id == "" {
		return nil, nil
	}
	ret, err := s.vendors.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	return ret, err
}

func (s *service) publishApproved(ctx context.Context, request *model.Request) {
	s.logger.Info("request approved", "request", request.ID, "department", request.Department, "amount", request.EffectiveAmount())
	s.publish(ctx, &notify.Event{Topic: notify.TopicApproved, RequestID: request.ID, Department: request.Department,
		Roles: model.Roles{model.RoleRequester}, Status: request.Status,
		Message: fmt.Sprintf("%s approved", request.ID)})
}

func (s *service) publishAlerts(ctx context.Context, request *model.Request, alerts []*budget.Alert) {
	for _, alert := range alerts {
		s.logger.Warn("budget alert", "department", alert.Department, "level", alert.Level, "percent", alert.Percent)
		s.publish(ctx, &notify.Event{Topic: notify.TopicBudgetAlert, RequestID: request.ID, Department: alert.Department,
			Roles: alert.Notify, Message: alert.Message})
	}
}

// publish never fails the transition; notification errors are logged.
func (s *service) publish(ctx context.Context, event *notify.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "topic", event.Topic, "request", event.RequestID, "error", err)
	}
}

// revisionDiff renders the editable fields of both revisions as a unified diff.
func revisionDiff(before, after *model.Request) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(revisionText(before)),
		B:        difflib.SplitLines(revisionText(after)),
		FromFile: before.ID + "@before",
		ToFile:   before.ID + "@after",
		Context:  3,
	})
}

func revisionText(r *model.Request) string {
	builder := strings.Builder{}
	builder.WriteString("title: " + r.Title + "\n")
	builder.WriteString("category: " + string(r.Category) + "\n")
	builder.WriteString("type: " + string(r.Type) + "\n")
	builder.WriteString("amount: " + strconv.FormatFloat(r.Amount, 'f', 2, 64) + "\n")
	if r.NegotiatedAmount != nil {
		builder.WriteString("negotiated: " + strconv.FormatFloat(*r.NegotiatedAmount, 'f', 2, 64) + "\n")
	}
	builder.WriteString("seats: " + strconv.Itoa(r.Seats) + "\n")
	builder.WriteString("vendor: " + r.VendorID + "\n")
	builder.WriteString("description:\n")
	if r.Description != "" {
		builder.WriteString(r.Description)
		if !strings.HasSuffix(r.Description, "\n") {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

var _ approval.Service = (*service)(nil)
