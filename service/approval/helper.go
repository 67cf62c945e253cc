package approval

import (
	"context"
	"time"

	"github.com/viant/procure/model"
)

// DecisionFunc decides what to do with a pending request.
type DecisionFunc func(r *model.Request) Decision

// AutoDecider starts a goroutine that polls ListPending for principal and
// applies fn to every request.  A request whose decision failed is not
// retried until it moves to another step.  Cancel ctx or call stop to exit.
func AutoDecider(ctx context.Context, svc Service, principal model.Principal, fn DecisionFunc, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		failed := map[string]model.Step{}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			pending, err := svc.ListPending(ctx, principal)
			if err != nil {
				continue
			}
			for _, r := range pending {
				if step, ok := failed[r.ID]; ok && step == r.CurrentStep {
					continue
				}
				if _, err := svc.Decide(ctx, principal, r.ID, fn(r)); err != nil {
					failed[r.ID] = r.CurrentStep
					continue
				}
				delete(failed, r.ID)
			}
		}
	}()
	return cancel
}

// AutoApprove automatically approves every request pending for principal.
func AutoApprove(ctx context.Context, svc Service, principal model.Principal, interval time.Duration) func() {
	return AutoDecider(ctx, svc, principal,
		func(*model.Request) Decision { return Decision{Action: ActionApprove} }, interval)
}

// AutoReject automatically rejects every request pending for principal with
// the given reason.
func AutoReject(ctx context.Context, svc Service, principal model.Principal, reason string, interval time.Duration) func() {
	return AutoDecider(ctx, svc, principal,
		func(*model.Request) Decision { return Decision{Action: ActionReject, Reason: reason} }, interval)
}

// WaitForStatus polls the request until it reaches a terminal status or
// needs information, or until timeout elapses.
func WaitForStatus(ctx context.Context,
	svc Service,
	principal model.Principal,
	id string,
	timeout time.Duration) (*model.Request, error) {

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		r, err := svc.Get(ctx, principal, id)
		if err != nil {
			return nil, err
		}
		if r.Status.IsTerminal() || r.Status == model.StatusNeedsInfo {
			return r, nil
		}
		select {
		case <-ctx.Done():
			return r, ctx.Err()
		case <-ticker.C:
		}
	}
}
