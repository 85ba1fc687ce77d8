package memsched

import (
	"context"
	"fmt"
	"strconv"

	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/progress"
	"github.com/viant/memsched/service/allocator"
	"github.com/viant/memsched/service/dao"
	"github.com/viant/memsched/service/event"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/ledger"
	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/service/processor"
	"github.com/viant/memsched/tracing"
)

// Runtime represents a scheduler runtime
type Runtime struct {
	config      *Config
	ledger      *ledger.Ledger
	allocator   *allocator.Service
	processor   *processor.Service
	executor    executor.Service
	events      *event.Service
	workloadDAO dao.Service[int, workload.Workload]
	progress    *progress.Progress
	queue       messaging.Queue[workload.Launch]
}

// Intake adds a workload to the tail of the queue
func (r *Runtime) Intake(ctx context.Context, definition *workload.Definition) (*workload.Workload, error) {
	return r.allocator.Intake(ctx, definition)
}

// IntakeAll adds definitions in order, stopping at the first failure
func (r *Runtime) IntakeAll(ctx context.Context, definitions []*workload.Definition) ([]*workload.Workload, error) {
	result := make([]*workload.Workload, 0, len(definitions))
	for i, definition := range definitions {
		aWorkload, err := r.allocator.Intake(ctx, definition)
		if err != nil {
			return result, fmt.Errorf("failed to intake workload[%d]: %w", i, err)
		}
		result = append(result, aWorkload)
	}
	return result, nil
}

// Run schedules every queued workload until the queue and the running set
// are empty, then flushes the event stream.  Cancelling ctx interrupts
// running workloads and returns ctx.Err() once they have released memory.
func (r *Runtime) Run(ctx context.Context) (err error) {
	counters := r.progress.Snapshot()
	ctx, span := tracing.StartSpan(ctx, "memsched.run", "INTERNAL")
	span.WithAttributes(map[string]string{
		"memory.total":      strconv.Itoa(r.ledger.Total()),
		"workloads.pending": strconv.Itoa(counters.Pending()),
	})
	defer func() { tracing.EndSpan(span, err) }()

	if err = r.processor.Start(ctx); err != nil {
		return err
	}
	err = r.allocator.Run(ctx)
	r.processor.Shutdown()
	if fErr := r.events.Flush(context.WithoutCancel(ctx)); fErr != nil && err == nil {
		err = fErr
	}
	return err
}

// Snapshot returns current ledger state
func (r *Runtime) Snapshot() ledger.Snapshot {
	return r.ledger.Snapshot()
}

// Workload returns a copy of the workload with id
func (r *Runtime) Workload(ctx context.Context, id int) (*workload.Workload, error) {
	aWorkload, err := r.workloadDAO.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("workload %d: %w", id, err)
	}
	return aWorkload.Clone(), nil
}

// Workloads returns copies of workloads matching parameters, e.g.
// dao.NewParameter(criteria.StateParameter, "running")
func (r *Runtime) Workloads(ctx context.Context, parameters ...*dao.Parameter) ([]*workload.Workload, error) {
	workloads, err := r.workloadDAO.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	result := make([]*workload.Workload, 0, len(workloads))
	for _, aWorkload := range workloads {
		result = append(result, aWorkload.Clone())
	}
	return result, nil
}

// Queued returns waiting workloads in queue order
func (r *Runtime) Queued() []*workload.Workload {
	return r.allocator.Queued()
}

// Running returns workloads currently holding memory
func (r *Runtime) Running() []*workload.Workload {
	return r.allocator.Running()
}

// Progress returns aggregated workload counters
func (r *Runtime) Progress() progress.Progress {
	return r.progress.Snapshot()
}

// OnProgress replaces the progress listener set with WithProgressListener;
// nil disables it.  The listener runs after the scheduler released its lock,
// so it may query the runtime, e.g. Running or Queued.
func (r *Runtime) OnProgress(listener func(progress.Progress)) {
	r.progress.OnChange(listener)
}

// RejectedLaunches returns launches whose completion the scheduler refused,
// e.g. a stale launch for a workload that is no longer running.  Only queues
// keeping a dead letter list report them.
func (r *Runtime) RejectedLaunches() []workload.Launch {
	deadLetters, ok := r.queue.(interface {
		DeadLetters() ([]workload.Launch, []error)
	})
	if !ok {
		return nil
	}
	launches, _ := deadLetters.DeadLetters()
	return launches
}

// Events returns the event service
func (r *Runtime) Events() *event.Service {
	return r.events
}

// Shutdown stops event delivery
func (r *Runtime) Shutdown(ctx context.Context) error {
	err := r.events.Flush(ctx)
	r.events.Close()
	return err
}
