// Package processor hosts the workers that consume admitted workloads from
// the launch queue.  Every launch runs in its own goroutine so that admitted
// workloads execute concurrently; on completion the processor hands the
// outcome back to the allocator, which owns workload state.
package processor
