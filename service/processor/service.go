package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/tracing"
)

// Completer receives the outcome of every execution
type Completer interface {
	Complete(ctx context.Context, workloadID int, err error) error
}

// Config represents processor configuration
type Config struct {
	// WorkerCount is the number of goroutines consuming the launch queue
	WorkerCount int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{WorkerCount: 1}
}

// Service consumes launches and runs them
type Service struct {
	config    Config
	queue     messaging.Queue[workload.Launch]
	executor  executor.Service
	completer Completer

	mux        sync.Mutex
	workers    []*worker
	workerWg   sync.WaitGroup
	executions sync.WaitGroup
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	execCtx  context.Context
	cancelFn context.CancelFunc
}

// New creates a processor
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, opt := range options {
		opt(s)
	}
	if s.executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("message queue is required")
	}
	if s.completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if s.config.WorkerCount <= 0 {
		s.config.WorkerCount = DefaultConfig().WorkerCount
	}
	return s, nil
}

// Start launches queue consumers.  Executions inherit ctx, so cancelling it
// interrupts running workloads.
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.workers) > 0 {
		return fmt.Errorf("processor already started")
	}
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			execCtx:  ctx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("[processor] -- worker %d: consume failed: %v", w.id, err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		if pErr := w.service.processMessage(w.execCtx, msg); pErr != nil {
			log.Printf("[processor] -- worker %d: failed to process message: %v", w.id, pErr)
		}
	}
}

// processMessage runs the launch in its own goroutine.  The message is acked
// once the completer accepted the outcome and nacked when it rejected it.
func (s *Service) processMessage(ctx context.Context, message messaging.Message[workload.Launch]) error {
	launch := *message.T()
	s.executions.Add(1)
	go func() {
		defer s.executions.Done()
		if err := s.settle(message, s.execute(ctx, &launch)); err != nil {
			log.Printf("[processor] -- workload %d: %v", launch.WorkloadID, err)
		}
	}()
	return nil
}

// execute runs launch and returns the completer error, if any
func (s *Service) execute(ctx context.Context, launch *workload.Launch) error {
	spanCtx, span := tracing.StartSpan(ctx, "workload.execute "+launch.Name, "INTERNAL")
	span.WithAttributes(map[string]string{
		"workload.id":       strconv.Itoa(launch.WorkloadID),
		"workload.memory":   strconv.Itoa(launch.Memory),
		"workload.duration": strconv.FormatFloat(launch.Duration, 'f', -1, 64),
	})
	err := s.executor.Execute(spanCtx, launch)
	cErr := s.completer.Complete(spanCtx, launch.WorkloadID, err)
	if cErr != nil {
		span.AddEvent("workload.rejected", map[string]string{"error": cErr.Error()})
	}
	tracing.EndSpan(span, err)
	return cErr
}

func (s *Service) settle(message messaging.Message[workload.Launch], completeErr error) error {
	if completeErr == nil {
		return message.Ack()
	}
	if err := message.Nack(completeErr); err != nil {
		return fmt.Errorf("failed to nack rejected launch: %w", err)
	}
	return fmt.Errorf("completion rejected: %w", completeErr)
}

// Shutdown stops consumers and waits for in-flight executions
func (s *Service) Shutdown() {
	s.mux.Lock()
	workers := s.workers
	s.workers = nil
	s.mux.Unlock()
	for _, w := range workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
	s.executions.Wait()
}
