// Package tracing wraps OpenTelemetry so that callers start and end spans
// without importing the SDK.  Until Init installs a provider, spans are
// no-ops.
package tracing
