package memsched

import (
	"log"

	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/progress"
	"github.com/viant/memsched/service/allocator"
	"github.com/viant/memsched/service/dao"
	workloaddao "github.com/viant/memsched/service/dao/workload"
	"github.com/viant/memsched/service/event"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/ledger"
	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/service/messaging/memory"
	"github.com/viant/memsched/service/processor"
)

// Service represents memsched service
type Service struct {
	config           *Config
	runtime          *Runtime
	queue            messaging.Queue[workload.Launch]
	eventService     *event.Service
	workloadDAO      dao.Service[int, workload.Workload]
	listeners        []event.Handler
	progressListener func(progress.Progress)
	executorOptions  []executor.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		log.Printf("[memsched] -- %v, falling back to defaults where invalid", err)
	}
	s.ensureBaseSetup()
	for _, handler := range s.listeners {
		s.eventService.AddListener(handler)
	}

	r := s.runtime
	r.config = s.config
	r.queue = s.queue
	r.events = s.eventService
	r.workloadDAO = s.workloadDAO
	r.ledger = ledger.New(s.config.Memory.Total)
	r.progress = progress.New(s.progressListener)
	r.executor = executor.New(append([]executor.Option{executor.WithConfig(s.config.Executor)}, s.executorOptions...)...)
	r.allocator, _ = allocator.New(r.ledger, s.queue,
		allocator.WithConfig(s.config.Allocator),
		allocator.WithEvents(s.eventService),
		allocator.WithWorkloadDAO(s.workloadDAO),
		allocator.WithProgress(r.progress))
	r.processor, _ = processor.New(
		processor.WithExecutor(r.executor),
		processor.WithMessageQueue(s.queue),
		processor.WithWorkers(s.config.Processor.WorkerCount),
		processor.WithCompleter(r.allocator))
}

func (s *Service) ensureBaseSetup() {
	if s.queue == nil {
		s.queue = memory.NewQueue[workload.Launch](memory.DefaultConfig())
	}
	if s.eventService == nil {
		queueConfig := memory.DefaultConfig()
		if s.config.Event.Buffer > 0 {
			queueConfig.QueueBuffer = s.config.Event.Buffer
		}
		s.eventService = event.New(event.WithMemoryQueueConfig(queueConfig))
	}
	if s.workloadDAO == nil {
		s.workloadDAO = workloaddao.New()
	}
}

// Runtime returns the scheduler runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// New creates a service
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig(), runtime: &Runtime{}}
	ret.init(options)
	return ret
}
