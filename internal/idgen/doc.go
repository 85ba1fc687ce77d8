// Package idgen wraps identifier generation so that it can be stubbed in
// tests.  Opaque identifiers (events, queue messages) are UUIDs; workload
// identifiers come from a monotonic Sequence.
package idgen
