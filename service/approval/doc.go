// Package approval implements the request lifecycle: submission, per-step
// decisions, information requests and resubmission.  Routing and budget
// verdicts come from the routing and budget engines; this package only
// sequences them and keeps the stored request consistent.
package approval
