// Package allocator owns the waiting queue and the running set and is the
// only service allowed to mutate workload state.  It admits workloads
// against the memory ledger, publishes launches for the processor and
// settles them when the processor reports completion.
package allocator
