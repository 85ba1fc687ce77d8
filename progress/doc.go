// Package progress keeps aggregated workload counters for a scheduler run
// and notifies an optional callback on every change.
package progress
