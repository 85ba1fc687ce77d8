package allocator

import (
	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/progress"
	"github.com/viant/memsched/service/dao"
	"github.com/viant/memsched/service/event"
)

type Option func(s *Service)

// WithConfig sets allocator configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithEvents sets the event service receiving lifecycle events
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithWorkloadDAO sets the workload registry
func WithWorkloadDAO(workloadDAO dao.Service[int, workload.Workload]) Option {
	return func(s *Service) {
		s.workloadDAO = workloadDAO
	}
}

// WithProgress sets the progress tracker
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
