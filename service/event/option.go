package event

import (
	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/service/messaging/memory"
)

type Option func(s *Service)

// WithMemoryQueueConfig sets the in-memory queue configuration
func WithMemoryQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.queueConfig = config
	}
}

// WithQueue sets a custom queue implementation
func WithQueue(queue messaging.Queue[Event]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithListeners registers handlers up front
func WithListeners(handlers ...Handler) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, handlers...)
	}
}
