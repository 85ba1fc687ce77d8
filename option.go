package memsched

import (
	"time"

	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/progress"
	"github.com/viant/memsched/service/dao"
	"github.com/viant/memsched/service/event"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service
type Option func(s *Service)

// WithConfig replaces the whole configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithTotalMemory sets the ledger capacity
func WithTotalMemory(total int) Option {
	return func(s *Service) {
		s.config.Memory.Total = total
	}
}

// WithTimeUnit sets the wall-clock length of one duration unit
func WithTimeUnit(unit time.Duration) Option {
	return func(s *Service) {
		s.config.Executor.TimeUnit = unit
	}
}

// WithPollingInterval sets the allocator wait bound
func WithPollingInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.config.Allocator.PollingInterval = interval
	}
}

// WithProcessorWorkers sets the number of launch queue consumers
func WithProcessorWorkers(count int) Option {
	return func(s *Service) {
		s.config.Processor.WorkerCount = count
	}
}

// WithListener registers event handlers
func WithListener(handlers ...event.Handler) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, handlers...)
	}
}

// WithProgressListener registers a callback receiving counters after every change
func WithProgressListener(listener func(progress.Progress)) Option {
	return func(s *Service) {
		s.progressListener = listener
	}
}

// WithEventService sets the event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithQueue sets the launch queue
func WithQueue(queue messaging.Queue[workload.Launch]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithWorkloadDAO sets the workload registry
func WithWorkloadDAO(workloadDAO dao.Service[int, workload.Workload]) Option {
	return func(s *Service) {
		s.workloadDAO = workloadDAO
	}
}

// WithExecutorOptions supplies additional options passed to executor.New
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
