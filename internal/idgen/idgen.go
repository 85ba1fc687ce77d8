package idgen

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrDuplicate is returned when an identifier was already assigned
	ErrDuplicate = errors.New("idgen: identifier already assigned")
	// ErrExhausted is returned once the sequence reached the largest int
	ErrExhausted = errors.New("idgen: identifier space exhausted")
)

// NewFunc returns a new globally unique identifier as string. It is
// implemented as a variable so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// Sequence hands out positive integers starting from 1.  Observe moves the
// sequence past an externally supplied value so that later Next calls never
// collide with it.
type Sequence struct {
	last int64
}

// Next returns the next identifier, or ErrExhausted instead of wrapping past math.MaxInt
func (s *Sequence) Next() (int, error) {
	for {
		last := atomic.LoadInt64(&s.last)
		if last >= int64(math.MaxInt) {
			return 0, ErrExhausted
		}
		if atomic.CompareAndSwapInt64(&s.last, last, last+1) {
			return int(last + 1), nil
		}
	}
}

// Observe records an identifier assigned elsewhere
func (s *Sequence) Observe(id int) {
	for {
		last := atomic.LoadInt64(&s.last)
		if int64(id) <= last {
			return
		}
		if atomic.CompareAndSwapInt64(&s.last, last, int64(id)) {
			return
		}
	}
}

// Registry assigns unique identifiers, honouring explicit ones and filling
// the rest from a Sequence.  It is not safe for concurrent use.
type Registry struct {
	sequence Sequence
	taken    map[int]bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{taken: map[int]bool{}}
}

// Assign takes explicit when set, otherwise the next free sequence value
func (r *Registry) Assign(explicit *int) (int, error) {
	if explicit != nil {
		id := *explicit
		if r.taken[id] {
			return id, ErrDuplicate
		}
		r.sequence.Observe(id)
		r.taken[id] = true
		return id, nil
	}
	for {
		id, err := r.sequence.Next()
		if err != nil {
			return 0, err
		}
		if !r.taken[id] {
			r.taken[id] = true
			return id, nil
		}
	}
}

// Release frees id so that it may be assigned again
func (r *Registry) Release(id int) {
	delete(r.taken, id)
}
