// Package executor performs the work of an admitted workload.  Workloads
// are synthetic, so execution is a timer of the declared duration that
// gives up early when its context is cancelled.
package executor
