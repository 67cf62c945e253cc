// Package budget implements the budget alert engine: it classifies a
// department's utilization into alert levels and decides whether a request of
// a given amount may proceed.  Both operations are read-only; committing spend
// belongs to the budget store.
package budget
