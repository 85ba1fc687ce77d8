package processor

import (
	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/messaging"
)

type Option func(*Service)

// WithMessageQueue sets the launch queue implementation
func WithMessageQueue(queue messaging.Queue[workload.Launch]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithExecutor sets the workload executor
func WithExecutor(executor executor.Service) Option {
	return func(s *Service) {
		s.executor = executor
	}
}

// WithCompleter sets the receiver of execution outcomes
func WithCompleter(completer Completer) Option {
	return func(s *Service) {
		s.completer = completer
	}
}

// WithWorkers sets the number of queue consumers
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
