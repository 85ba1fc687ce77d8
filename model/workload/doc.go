// Package workload defines the synthetic unit of work that is admitted
// against the memory budget.  A workload is created by the allocator on
// intake and owned by it until it finishes or is discarded.
package workload
