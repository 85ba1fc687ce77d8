// Package memsched schedules synthetic workloads under a fixed memory budget.
//
// Each workload declares how much memory it needs and how long it runs.  A
// workload is admitted only when the memory ledger can cover it; otherwise it
// waits in the queue until running workloads finish and release their
// memory.  A workload that can never fit the total budget is discarded.
//
// The root package exposes a Service façade wiring the ledger, allocator,
// processor, executor and event stream:
//
//	srv := memsched.New(memsched.WithTotalMemory(1024), memsched.WithListener(event.LogListener(log.Default())))
//	rt := srv.Runtime()
//	_, _ = rt.IntakeAll(ctx, source.Demo())
//	err := rt.Run(ctx)
//
// Run returns once the queue and the running set are both empty.
package memsched
