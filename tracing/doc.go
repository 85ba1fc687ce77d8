// Package tracing wraps OpenTelemetry so that the scheduler can annotate a
// run and every workload execution with spans.  Without Init the global
// no-op provider is used and spans cost nothing.
package tracing
