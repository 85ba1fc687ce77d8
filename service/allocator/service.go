package allocator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/viant/memsched/internal/idgen"
	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/progress"
	"github.com/viant/memsched/service/dao"
	workloaddao "github.com/viant/memsched/service/dao/workload"
	"github.com/viant/memsched/service/event"
	"github.com/viant/memsched/service/ledger"
	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/tracing"
)

// Config represents allocator service configuration
type Config struct {
	// PollingInterval bounds how long the allocator sleeps when no workload
	// could be admitted and no release was signalled
	PollingInterval time.Duration `json:"pollingInterval" yaml:"pollingInterval"`
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{
		PollingInterval: 20 * time.Millisecond,
	}
}

// Service admits queued workloads when the ledger can cover their memory
type Service struct {
	config      Config
	ledger      *ledger.Ledger
	queue       messaging.Queue[workload.Launch]
	events      *event.Service
	workloadDAO dao.Service[int, workload.Workload]
	progress    *progress.Progress
	ids         *idgen.Registry

	mux     sync.Mutex
	pending []*pending
	running map[int]*workload.Workload
	wake    chan struct{}

	// deltas are recorded under mux and applied to progress by flushProgress
	// once mux is released, so that progress listeners may query the allocator
	deltas      []progress.Delta
	progressMux sync.Mutex
}

// pending is a queued workload; waited records that a waiting event was emitted
type pending struct {
	workload *workload.Workload
	waited   bool
}

// New creates an allocator over aLedger publishing launches to queue
func New(aLedger *ledger.Ledger, queue messaging.Queue[workload.Launch], options ...Option) (*Service, error) {
	if aLedger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if queue == nil {
		return nil, fmt.Errorf("launch queue is required")
	}
	s := &Service{
		config:  DefaultConfig(),
		ledger:  aLedger,
		queue:   queue,
		ids:     idgen.NewRegistry(),
		running: make(map[int]*workload.Workload),
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.config.PollingInterval <= 0 {
		s.config.PollingInterval = DefaultConfig().PollingInterval
	}
	if s.workloadDAO == nil {
		s.workloadDAO = workloaddao.New()
	}
	return s, nil
}

// Intake validates definition and appends a waiting workload to the queue tail
func (s *Service) Intake(ctx context.Context, definition *workload.Definition) (*workload.Workload, error) {
	if err := definition.Validate(); err != nil {
		return nil, err
	}
	defer s.flushProgress()
	s.mux.Lock()
	defer s.mux.Unlock()

	id, err := s.ids.Assign(definition.ID)
	if err != nil {
		if errors.Is(err, idgen.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		return nil, fmt.Errorf("failed to assign workload identifier: %w", err)
	}
	aWorkload := workload.New(id, definition.Name, definition.Memory, definition.Duration)
	if err := s.workloadDAO.Save(ctx, aWorkload); err != nil {
		s.ids.Release(id)
		return nil, fmt.Errorf("failed to save workload %d: %w", id, err)
	}
	s.pending = append(s.pending, &pending{workload: aWorkload})
	s.record(progress.Delta{Total: 1, Waiting: 1})
	s.emit(ctx, event.KindEnqueued, aWorkload)
	s.notify()
	return aWorkload, nil
}

// Run schedules until both the queue and the running set are empty.  When ctx
// is cancelled admission stops, in-flight workloads are allowed to settle and
// ctx.Err() is returned; workloads still queued stay waiting.
func (s *Service) Run(ctx context.Context) error {
	timer := time.NewTimer(s.config.PollingInterval)
	defer timer.Stop()
	for {
		if ctx.Err() != nil {
			return s.settle(ctx)
		}
		s.discardUnfittable(ctx)
		s.admit(ctx)
		if s.drained(ctx) {
			return nil
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.config.PollingInterval)
		select {
		case <-ctx.Done():
		case <-s.wake:
		case <-timer.C:
		}
	}
}

// discardUnfittable removes workloads that can never fit the ledger total
func (s *Service) discardUnfittable(ctx context.Context) {
	defer s.flushProgress()
	s.mux.Lock()
	defer s.mux.Unlock()
	total := s.ledger.Total()
	kept := s.pending[:0]
	for _, item := range s.pending {
		if item.workload.Memory <= total {
			kept = append(kept, item)
			continue
		}
		if err := item.workload.Discard(); err != nil {
			log.Printf("[allocator] -- failed to discard workload %d: %v", item.workload.ID, err)
			kept = append(kept, item)
			continue
		}
		s.record(progress.Delta{Waiting: -1, Discarded: 1})
		s.emit(ctx, event.KindDiscarded, item.workload)
		s.traceEvent(ctx, "workload.discarded", item.workload)
	}
	clear(s.pending[len(kept):])
	s.pending = kept
}

// admit walks the queue head to tail reserving memory for every workload
// that fits.  A workload that does not fit stays in place; later, smaller
// ones may still be admitted.
func (s *Service) admit(ctx context.Context) {
	defer s.flushProgress()
	s.mux.Lock()
	defer s.mux.Unlock()
	kept := s.pending[:0]
	for _, item := range s.pending {
		if ctx.Err() != nil || !s.ledger.TryReserve(item.workload.Memory) {
			if ctx.Err() == nil && !item.waited {
				item.waited = true
				s.emit(ctx, event.KindWaiting, item.workload)
			}
			kept = append(kept, item)
			continue
		}
		if err := s.start(ctx, item.workload); err != nil {
			log.Printf("[allocator] -- failed to start workload %d: %v", item.workload.ID, err)
			s.ledger.Release(item.workload.Memory)
			kept = append(kept, item)
		}
	}
	clear(s.pending[len(kept):])
	s.pending = kept
}

// start moves an admitted workload into the running set; memory is already reserved
func (s *Service) start(ctx context.Context, aWorkload *workload.Workload) error {
	if err := aWorkload.Start(); err != nil {
		return err
	}
	s.running[aWorkload.ID] = aWorkload
	s.record(progress.Delta{Waiting: -1, Running: 1})
	s.emit(ctx, event.KindStarted, aWorkload)
	s.traceEvent(ctx, "workload.admitted", aWorkload)
	if err := s.queue.Publish(context.WithoutCancel(ctx), workload.NewLaunch(aWorkload)); err != nil {
		log.Printf("[allocator] -- failed to publish launch for workload %d: %v", aWorkload.ID, err)
	}
	return nil
}

// drained emits the drained event once nothing is queued or running
func (s *Service) drained(ctx context.Context) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.pending) > 0 || len(s.running) > 0 {
		return false
	}
	s.publish(ctx, event.NewEvent(event.KindDrained, 0, "", 0, s.ledger.Snapshot()))
	return true
}

// settle waits for the running set to empty after cancellation.  Launches
// that no processor picked up are reclaimed and completed as interrupted.
func (s *Service) settle(ctx context.Context) error {
	for {
		s.mux.Lock()
		remaining := len(s.running)
		s.mux.Unlock()
		if remaining == 0 {
			return ctx.Err()
		}
		s.reclaim(ctx)
	}
}

func (s *Service) reclaim(ctx context.Context) {
	consumeCtx, cancel := context.WithTimeout(context.Background(), s.config.PollingInterval)
	defer cancel()
	for {
		msg, err := s.queue.Consume(consumeCtx)
		if err != nil || msg == nil {
			return
		}
		launch := *msg.T()
		if err = msg.Ack(); err != nil {
			log.Printf("[allocator] -- failed to ack launch for workload %d: %v", launch.WorkloadID, err)
		}
		if err = s.Complete(ctx, launch.WorkloadID, ctx.Err()); err != nil {
			log.Printf("[allocator] -- failed to reclaim workload %d: %v", launch.WorkloadID, err)
		}
	}
}

// Complete finishes a running workload, releases its memory and wakes the
// scheduling loop.  A cancellation error marks the workload as interrupted.
func (s *Service) Complete(ctx context.Context, workloadID int, err error) error {
	defer s.flushProgress()
	s.mux.Lock()
	defer s.mux.Unlock()
	aWorkload, ok := s.running[workloadID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotRunning, workloadID)
	}
	interrupted := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if err != nil && !interrupted {
		log.Printf("[allocator] -- workload %d failed: %v", workloadID, err)
	}
	delete(s.running, workloadID)
	if fErr := aWorkload.Finish(interrupted); fErr != nil {
		log.Printf("[allocator] -- failed to finish workload %d: %v", workloadID, fErr)
	}
	s.ledger.Release(aWorkload.Memory)
	s.record(progress.Delta{Running: -1, Finished: 1})
	s.emit(ctx, event.KindCompleted, aWorkload)
	s.traceEvent(ctx, "workload.released", aWorkload)
	s.notify()
	return nil
}

// Queued returns copies of waiting workloads in queue order
func (s *Service) Queued() []*workload.Workload {
	s.mux.Lock()
	defer s.mux.Unlock()
	result := make([]*workload.Workload, 0, len(s.pending))
	for _, item := range s.pending {
		result = append(result, item.workload.Clone())
	}
	return result
}

// Running returns copies of running workloads ordered by identifier
func (s *Service) Running() []*workload.Workload {
	s.mux.Lock()
	defer s.mux.Unlock()
	result := make([]*workload.Workload, 0, len(s.running))
	for _, aWorkload := range s.running {
		result = append(result, aWorkload.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// record queues a progress delta; the caller holds s.mux
func (s *Service) record(delta progress.Delta) {
	if s.progress != nil {
		s.deltas = append(s.deltas, delta)
	}
}

// flushProgress applies recorded deltas in order.  It must be called without
// s.mux held.  A concurrent or reentrant call leaves its deltas to the
// goroutine already flushing, which checks for more after unlocking.
func (s *Service) flushProgress() {
	for {
		if !s.progressMux.TryLock() {
			return
		}
		s.mux.Lock()
		deltas := s.deltas
		s.deltas = nil
		s.mux.Unlock()
		for _, delta := range deltas {
			s.progress.Update(delta)
		}
		s.progressMux.Unlock()

		s.mux.Lock()
		more := len(s.deltas) > 0
		s.mux.Unlock()
		if !more {
			return
		}
	}
}

func (s *Service) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// emit publishes a workload event; the caller holds s.mux so that events
// follow the order of state changes
func (s *Service) emit(ctx context.Context, kind event.Kind, aWorkload *workload.Workload) {
	if s.events == nil {
		return
	}
	anEvent := event.NewEvent(kind, aWorkload.ID, aWorkload.Name, aWorkload.Memory, s.ledger.Snapshot())
	if kind == event.KindCompleted {
		anEvent.Interrupted = aWorkload.Interrupted
	}
	s.publish(ctx, anEvent)
}

// traceEvent annotates the span carried by ctx, if any
func (s *Service) traceEvent(ctx context.Context, name string, aWorkload *workload.Workload) {
	span, ok := tracing.SpanFromContext(ctx)
	if !ok {
		return
	}
	span.AddEvent(name, map[string]string{
		"workload.id":     strconv.Itoa(aWorkload.ID),
		"workload.name":   aWorkload.Name,
		"workload.memory": strconv.Itoa(aWorkload.Memory),
		"memory.used":     strconv.Itoa(s.ledger.Snapshot().Used),
	})
}

func (s *Service) publish(ctx context.Context, anEvent *event.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), anEvent); err != nil {
		log.Printf("[allocator] -- failed to publish %v event: %v", anEvent.Kind, err)
	}
}
