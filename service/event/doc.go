// Package event delivers the scheduler's reporting stream.  Events are
// published onto a messaging queue and dispatched by a single goroutine, so
// every listener observes them in publish order.
package event
