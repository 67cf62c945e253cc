// Package idgen generates request and event identifiers.  Tests replace
// NewFunc for deterministic IDs.
package idgen
