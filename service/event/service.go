package event

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/viant/memsched/service/messaging"
	"github.com/viant/memsched/service/messaging/memory"
)

// ErrClosed is returned when publishing to a closed service
var ErrClosed = errors.New("event: service closed")

// Service fans events out to registered listeners
type Service struct {
	queue       messaging.Queue[Event]
	queueConfig memory.Config
	listeners   []Handler
	mux         sync.RWMutex
	closed      bool
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a service and starts its dispatcher
func New(opts ...Option) *Service {
	ret := &Service{queueConfig: memory.DefaultConfig()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.queue == nil {
		ret.queue = memory.NewQueue[Event](ret.queueConfig)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ret.cancel = cancel
	ret.done = make(chan struct{})
	go ret.dispatch(ctx)
	return ret
}

// AddListener registers a handler for all subsequent events
func (s *Service) AddListener(handler Handler) {
	if handler == nil {
		return
	}
	s.mux.Lock()
	s.listeners = append(s.listeners, handler)
	s.mux.Unlock()
}

// Publish enqueues an event for delivery
func (s *Service) Publish(ctx context.Context, e *Event) error {
	s.mux.RLock()
	closed := s.closed
	s.mux.RUnlock()
	if closed {
		return ErrClosed
	}
	return s.queue.Publish(ctx, e)
}

// Flush blocks until every event published before the call was delivered
func (s *Service) Flush(ctx context.Context) error {
	barrier := &Event{barrier: make(chan struct{})}
	if err := s.Publish(ctx, barrier); err != nil {
		return err
	}
	select {
	case <-barrier.barrier:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the dispatcher; undelivered events are dropped
func (s *Service) Close() {
	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()
		return
	}
	s.closed = true
	s.mux.Unlock()
	s.cancel()
	<-s.done
}

func (s *Service) dispatch(ctx context.Context) {
	defer close(s.done)
	for {
		msg, err := s.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("[event] -- consume failed: %v", err)
			continue
		}
		if msg == nil {
			continue
		}
		_ = msg.Ack()
		e := msg.T()
		if e.barrier != nil {
			close(e.barrier)
			continue
		}
		s.mux.RLock()
		listeners := s.listeners
		s.mux.RUnlock()
		for _, handler := range listeners {
			handler(e)
		}
	}
}
