package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procure/internal/clock"
	"github.com/viant/procure/model"
	"github.com/viant/procure/policy"
	"github.com/viant/procure/service/approval"
	"github.com/viant/procure/service/dao"
	budgetdao "github.com/viant/procure/service/dao/budget"
	budgetmem "github.com/viant/procure/service/dao/budget/memory"
	"github.com/viant/procure/service/dao/vendor"
	"github.com/viant/procure/service/notify"
	notifymem "github.com/viant/procure/service/notify/memory"
)

var (
	alice      = model.Principal{UserID: "alice", Role: model.RoleRequester, Department: "marketing"}
	lee        = model.Principal{UserID: "lee", Role: model.RoleDepartmentLeader, Department: "marketing"}
	otherLead  = model.Principal{UserID: "ivy", Role: model.RoleDepartmentLeader, Department: "it"}
	finance    = model.Principal{UserID: "fin", Role: model.RoleFinance}
	compliance = model.Principal{UserID: "comp", Role: model.RoleCompliance}
	it         = model.Principal{UserID: "ops", Role: model.RoleIT}
	cio        = model.Principal{UserID: "chief", Role: model.RoleCIO}
)

type fixture struct {
	svc     approval.Service
	budgets budgetdao.Service
	queue   *notifymem.Queue
}

func newFixture(t *testing.T, total, spent float64) *fixture {
	ctx := context.Background()
	budgets := budgetmem.New()
	assert.NoError(t, budgets.Save(ctx, &model.Budget{Department: "marketing", Name: "Marketing", LeaderID: "lee", Total: total, Spent: spent}))
	vendors := vendor.New()
	assert.NoError(t, vendors.Save(ctx, &model.Vendor{ID: "v-pre", Name: "Known", Active: true, PreApproved: true}))
	assert.NoError(t, vendors.Save(ctx, &model.Vendor{ID: "v-new", Name: "Fresh", Active: true}))
	queue := notifymem.New()
	return &fixture{
		svc:     New(nil, nil, WithBudgetDAO(budgets), WithVendorDAO(vendors), WithQueue(queue)),
		budgets: budgets,
		queue:   queue,
	}
}

func (f *fixture) spent(t *testing.T) float64 {
	b, err := f.budgets.Load(context.Background(), "marketing")
	assert.NoError(t, err)
	return b.Spent
}

func (f *fixture) topics() []string {
	var ret []string
	for _, event := range f.queue.Drain() {
		ret = append(ret, event.Topic)
	}
	return ret
}

func TestService_FullRoute(t *testing.T) {
	restore := clock.NowFunc
	clock.NowFunc = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	defer func() { clock.NowFunc = restore }()

	ctx := context.Background()
	f := newFixture(t, 200000, 0)

	submission, err := f.svc.Submit(ctx, &model.Request{
		ID: "req-1", RequesterID: "alice", Department: "marketing", Category: model.CategorySaaS,
		Title: "Patient survey platform", Description: "Stores patient contact records", Amount: 60000, VendorID: "v-new",
	})
	if !assert.NoError(t, err) || !assert.True(t, submission.Accepted) {
		return
	}
	assert.Equal(t, []model.Step{
		model.StepDepartmentPreApproval, model.StepComplianceITReview, model.StepFinanceApproval,
		model.StepCIOApproval, model.StepDepartmentFinalApproval,
	}, submission.Request.Steps)
	assert.Equal(t, model.StatusPending, submission.Request.Status)
	assert.Equal(t, model.StepDepartmentPreApproval, submission.Request.CurrentStep)
	assert.Equal(t, 5, submission.Request.TotalStages)
	assert.True(t, submission.Request.CreatedAt.Equal(clock.Now()))

	_, err = f.svc.Submit(ctx, &model.Request{ID: "req-1", Department: "marketing", Amount: 10})
	assert.True(t, errors.Is(err, approval.ErrInvalidState))

	_, err = f.svc.Decide(ctx, finance, "req-1", approval.Decision{Action: approval.ActionApprove})
	assert.True(t, errors.Is(err, approval.ErrNotAuthorized))
	_, err = f.svc.Decide(ctx, otherLead, "req-1", approval.Decision{Action: approval.ActionApprove})
	assert.True(t, errors.Is(err, approval.ErrNotAuthorized))

	steps := []struct {
		principal   model.Principal
		expectStep  model.Step
		expectStage int
	}{
		{principal: lee, expectStep: model.StepComplianceITReview, expectStage: 1},
		{principal: compliance, expectStep: model.StepComplianceITReview, expectStage: 1},
		{principal: it, expectStep: model.StepFinanceApproval, expectStage: 2},
		{principal: finance, expectStep: model.StepCIOApproval, expectStage: 3},
		{principal: cio, expectStep: model.StepDepartmentFinalApproval, expectStage: 4},
	}
	for _, step := range steps {
		updated, err := f.svc.Decide(ctx, step.principal, "req-1", approval.Decision{Action: approval.ActionApprove})
		if !assert.NoError(t, err, step.principal.Role) {
			return
		}
		assert.Equal(t, step.expectStep, updated.CurrentStep, step.principal.Role)
		assert.Equal(t, step.expectStage, updated.Stage, step.principal.Role)
	}
	_, err = f.svc.Decide(ctx, compliance, "req-1", approval.Decision{Action: approval.ActionApprove})
	assert.True(t, errors.Is(err, approval.ErrNotAuthorized))
	assert.EqualValues(t, 0, f.spent(t))

	approved, err := f.svc.Decide(ctx, lee, "req-1", approval.Decision{Action: approval.ActionApprove})
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Equal(t, model.Step(""), approved.CurrentStep)
	assert.True(t, approved.ComplianceApproved)
	assert.True(t, approved.ITApproved)
	assert.Len(t, approved.History, 7)
	assert.EqualValues(t, 60000, f.spent(t))

	_, err = f.svc.Decide(ctx, lee, "req-1", approval.Decision{Action: approval.ActionApprove})
	assert.True(t, errors.Is(err, approval.ErrInvalidState))

	assert.Equal(t, []string{
		notify.TopicSubmitted, notify.TopicStepApproved, notify.TopicStepApproved, notify.TopicStepApproved,
		notify.TopicStepApproved, notify.TopicStepApproved, notify.TopicApproved,
	}, f.topics())
}

func TestService_AutoPass(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10000, 7000)

	submission, err := f.svc.Submit(ctx, &model.Request{
		RequesterID: "lee", Department: "marketing", Category: model.CategorySaaS,
		Title: "Design seats", Amount: 900, Seats: 3, VendorID: "v-pre",
	})
	if !assert.NoError(t, err) {
		return
	}
	assert.True(t, submission.Accepted)
	assert.True(t, submission.Route.AutoPass)
	assert.Empty(t, submission.Request.Steps)
	assert.NotEmpty(t, submission.Request.ID)
	assert.Equal(t, model.StatusApproved, submission.Request.Status)
	assert.EqualValues(t, 7900, f.spent(t))
	assert.Equal(t, []string{notify.TopicBudgetAlert, notify.TopicBudgetAlert, notify.TopicSubmitted, notify.TopicApproved}, f.topics())
}

func TestService_BudgetBlocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10000, 10000)

	submission, err := f.svc.Submit(ctx, &model.Request{
		ID: "req-blocked", RequesterID: "alice", Department: "marketing", Category: model.CategoryHardware,
		Title: "Laptops", Amount: 1500, VendorID: "v-pre",
	})
	if !assert.NoError(t, err) {
		return
	}
	assert.False(t, submission.Accepted)
	assert.False(t, submission.Budget.CanProceed)
	assert.NotNil(t, submission.Budget.BlockMessage)
	assert.Nil(t, submission.Route)

	_, err = f.svc.Get(ctx, finance, "req-blocked")
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	events := f.queue.Drain()
	if assert.Len(t, events, 1) {
		assert.Equal(t, notify.TopicBudgetAlert, events[0].Topic)
		assert.True(t, events[0].Roles.Has(model.RoleDirectorOfOperations))
	}

	_, err = f.svc.Submit(ctx, &model.Request{Department: "marketing", Amount: 0})
	assert.True(t, errors.Is(err, model.ErrInvalidAmount))
	_, err = f.svc.Submit(ctx, nil)
	assert.True(t, errors.Is(err, model.ErrNilRequest))
}

func TestService_RejectAndNeedsInfo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100000, 0)

	for _, id := range []string{"req-a", "req-b"} {
		_, err := f.svc.Submit(ctx, &model.Request{
			ID: id, RequesterID: "alice", Department: "marketing", Category: model.CategoryServices,
			Title: "Event booth", Description: "Booth for spring expo", Amount: 4000, VendorID: "v-pre",
		})
		assert.NoError(t, err)
	}

	_, err := f.svc.Decide(ctx, lee, "req-a", approval.Decision{Action: "escalate"})
	assert.True(t, errors.Is(err, approval.ErrInvalidAction))

	rejected, err := f.svc.Decide(ctx, lee, "req-a", approval.Decision{Action: approval.ActionReject, Reason: "not planned"})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	_, err = f.svc.Decide(ctx, lee, "req-a", approval.Decision{Action: approval.ActionApprove})
	assert.True(t, errors.Is(err, approval.ErrInvalidState))

	_, err = f.svc.Decide(ctx, lee, "req-b", approval.Decision{Action: approval.ActionNeedsInfo, Reason: "attach the quote"})
	assert.NoError(t, err)

	description := "Booth for spring expo\nQuote attached"
	amount := 3500.0
	update := &approval.Update{Description: &description, Amount: &amount}

	_, err = f.svc.Resubmit(ctx, lee, "req-b", update)
	assert.True(t, errors.Is(err, approval.ErrNotAuthorized))
	_, err = f.svc.Resubmit(ctx, alice, "req-a", update)
	assert.True(t, errors.Is(err, approval.ErrInvalidState))

	submission, err := f.svc.Resubmit(ctx, alice, "req-b", update)
	if !assert.NoError(t, err) {
		return
	}
	assert.True(t, submission.Accepted)
	resubmitted := submission.Request
	assert.Equal(t, model.StatusPending, resubmitted.Status)
	assert.Equal(t, 0, resubmitted.Stage)
	assert.EqualValues(t, 3500, resubmitted.Amount)
	last := resubmitted.History[len(resubmitted.History)-1]
	assert.Equal(t, "resubmitted", last.Action)
	assert.True(t, strings.Contains(last.Diff, "+Quote attached"), last.Diff)
	assert.True(t, strings.Contains(last.Diff, "-amount: 4000.00"), last.Diff)

	_, err = f.svc.Resubmit(ctx, alice, "req-b", update)
	assert.True(t, errors.Is(err, approval.ErrInvalidState))
}

func TestService_ResubmitBlocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10000, 5000)

	_, err := f.svc.Submit(ctx, &model.Request{
		ID: "req-1", RequesterID: "alice", Department: "marketing", Category: model.CategoryHardware,
		Title: "Cameras", Amount: 1000, VendorID: "v-pre",
	})
	assert.NoError(t, err)
	_, err = f.svc.Decide(ctx, lee, "req-1", approval.Decision{Action: approval.ActionNeedsInfo})
	assert.NoError(t, err)

	amount := 9000.0
	submission, err := f.svc.Resubmit(ctx, alice, "req-1", &approval.Update{Amount: &amount})
	if !assert.NoError(t, err) {
		return
	}
	assert.False(t, submission.Accepted)
	assert.Equal(t, model.StatusNeedsInfo, submission.Request.Status)
	assert.EqualValues(t, 1000, submission.Request.Amount)

	stored, err := f.svc.Get(ctx, alice, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusNeedsInfo, stored.Status)
}

func TestService_SpendRecheckedOnFinalApproval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100000, 0)

	for _, id := range []string{"req-1", "req-2"} {
		submission, err := f.svc.Submit(ctx, &model.Request{
			ID: id, RequesterID: "lee", Department: "marketing", Category: model.CategoryHardware,
			Title: "Studio kit", Amount: 60000, VendorID: "v-pre",
		})
		assert.NoError(t, err)
		assert.Equal(t, []model.Step{model.StepFinanceApproval, model.StepCIOApproval, model.StepDepartmentFinalApproval},
			submission.Request.Steps)
	}

	for _, id := range []string{"req-1", "req-2"} {
		for _, principal := range []model.Principal{finance, cio} {
			_, err := f.svc.Decide(ctx, principal, id, approval.Decision{Action: approval.ActionApprove})
			assert.NoError(t, err)
		}
	}
	_, err := f.svc.Decide(ctx, lee, "req-1", approval.Decision{Action: approval.ActionApprove})
	assert.NoError(t, err)
	_, err = f.svc.Decide(ctx, lee, "req-2", approval.Decision{Action: approval.ActionApprove})
	assert.True(t, errors.Is(err, budgetdao.ErrInsufficientBudget))
	assert.EqualValues(t, 60000, f.spent(t))

	stored, err := f.svc.Get(ctx, finance, "req-2")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Equal(t, model.StepDepartmentFinalApproval, stored.CurrentStep)
}

func TestService_ListPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000000, 0)

	requests := []*model.Request{
		{ID: "req-3", RequesterID: "alice", Department: "marketing", Category: model.CategoryHardware, Title: "Printer", Amount: 700, VendorID: "v-pre"},
		{ID: "req-1", RequesterID: "alice", Department: "marketing", Category: model.CategoryHardware, Title: "Desk", Amount: 500, VendorID: "v-new"},
		{ID: "req-2", RequesterID: "bob", Department: "it", Category: model.CategoryHardware, Title: "Router", Amount: 20000, VendorID: "v-pre"},
	}
	for _, r := range requests {
		_, err := f.svc.Submit(ctx, r)
		assert.NoError(t, err)
	}

	ids := func(requests []*model.Request) []string {
		var ret []string
		for _, r := range requests {
			ret = append(ret, r.ID)
		}
		return ret
	}

	testCases := []struct {
		description string
		ctx         context.Context
		principal   model.Principal
		expect      []string
	}{
		{description: "marketing leader", ctx: ctx, principal: lee, expect: []string{"req-1", "req-3"}},
		{description: "it leader", ctx: ctx, principal: otherLead, expect: []string{"req-2"}},
		{description: "finance has nothing at first step", ctx: ctx, principal: finance, expect: nil},
		{description: "requester never approves", ctx: ctx, principal: alice, expect: nil},
		{description: "policy hides requests", ctx: policy.WithPolicy(ctx, &policy.Policy{BlockList: []string{"department_leader:request"}}), principal: lee, expect: nil},
	}
	for _, testCase := range testCases {
		pending, err := f.svc.ListPending(testCase.ctx, testCase.principal)
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, ids(pending), testCase.description)
	}

	_, err := f.svc.Decide(ctx, lee, "req-1", approval.Decision{Action: approval.ActionApprove})
	assert.NoError(t, err)
	pending, _ := f.svc.ListPending(ctx, compliance)
	assert.Equal(t, []string{"req-1"}, ids(pending))
	pending, _ = f.svc.ListPending(ctx, it)
	assert.Equal(t, []string{"req-1"}, ids(pending))

	visible, err := f.svc.List(ctx, alice)
	assert.NoError(t, err)
	assert.Equal(t, []string{"req-1", "req-3"}, ids(visible))
	visible, _ = f.svc.List(ctx, finance, dao.NewParameter(dao.ParamDepartment, "it"))
	assert.Equal(t, []string{"req-2"}, ids(visible))

	_, err = f.svc.Get(ctx, model.Principal{UserID: "bob", Role: model.RoleRequester}, "req-1")
	assert.True(t, errors.Is(err, approval.ErrNotAuthorized))
}
