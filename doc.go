// Package procure routes procurement requests through risk-based approval
// steps and evaluates department budgets against alert thresholds.
//
// The root package exposes a Service façade wiring the routing and budget
// engines, the request, budget and vendor stores, the notification queue
// and the approval lifecycle:
//
//	srv, _ := procure.New()
//	_ = srv.Seed(ctx, aFixture)
//	route, _ := srv.ClassifyRequest(ctx, request)
//	check, _ := srv.CheckBudgetForRequest(ctx, "marketing", 10000)
//	submission, _ := srv.Approval().Submit(ctx, request)
//
// The engines in service/routing and service/budget are pure and can be used
// on their own.
package procure
