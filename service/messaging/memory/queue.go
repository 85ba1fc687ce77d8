package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/viant/memsched/internal/idgen"
	"github.com/viant/memsched/service/messaging"
)

// ErrProcessed is returned when a message is acked or nacked twice
var ErrProcessed = errors.New("message already processed")

// Config for memory queue implementation
type Config struct {
	// DeadLetter keeps nacked messages for inspection
	DeadLetter  bool `json:"deadLetter" yaml:"deadLetter"`
	QueueBuffer int  `json:"buffer" yaml:"buffer"`
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		DeadLetter:  true,
		QueueBuffer: 1024,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	err       error
	mu        sync.Mutex
	processed bool
}

// ID returns message identifier
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Nack rejects the message; it is not redelivered and, when DeadLetter is
// enabled, moves to the dead letter list
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	m.err = err

	q := m.queue
	if q.config.DeadLetter {
		q.dlqMu.Lock()
		q.dlq = append(q.dlq, m)
		q.dlqMu.Unlock()
	}
	return nil
}

// Queue implements an in-memory messaging.Queue backed by a buffered channel;
// delivery order equals publish order.
type Queue[T any] struct {
	messages chan *Message[T]
	dlq      []*Message[T]
	config   Config
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a copy of t to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: idgen.New(), payload: *t, queue: q}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

// DeadLetters returns copies of dead lettered payloads with their nack errors, oldest first
func (q *Queue[T]) DeadLetters() ([]T, []error) {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	payloads := make([]T, 0, len(q.dlq))
	errs := make([]error, 0, len(q.dlq))
	for _, msg := range q.dlq {
		payloads = append(payloads, msg.payload)
		errs = append(errs, msg.err)
	}
	return payloads, errs
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
