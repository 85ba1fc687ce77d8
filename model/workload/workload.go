package workload

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/memsched/internal/clock"
)

// ErrInvalidTransition is returned when a state change would skip or reverse
// the lifecycle.
var ErrInvalidTransition = errors.New("workload: invalid state transition")

// Workload represents a synthetic job with a memory requirement and duration
type Workload struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Memory      int        `json:"memory"`
	Duration    float64    `json:"duration"`
	State       State      `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	Interrupted bool       `json:"interrupted,omitempty"`
	mu          sync.RWMutex
}

// New creates a waiting workload
func New(id int, name string, memory int, duration float64) *Workload {
	if name == "" {
		name = DefaultName(id)
	}
	return &Workload{
		ID:        id,
		Name:      name,
		Memory:    memory,
		Duration:  duration,
		State:     StateWaiting,
		CreatedAt: clock.Now(),
	}
}

// GetState returns current state
func (w *Workload) GetState() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.State
}

// Start moves a waiting workload to running and records the start time
func (w *Workload) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.transition(StateRunning); err != nil {
		return err
	}
	now := clock.Now()
	w.StartedAt = &now
	return nil
}

// Finish moves a running workload to finished and records the end time.
// interrupted marks an execution whose timer was cancelled before elapsing.
func (w *Workload) Finish(interrupted bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.transition(StateFinished); err != nil {
		return err
	}
	now := clock.Now()
	w.FinishedAt = &now
	w.Interrupted = interrupted
	return nil
}

// Discard permanently rejects a waiting workload
func (w *Workload) Discard() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.transition(StateDiscarded); err != nil {
		return err
	}
	now := clock.Now()
	w.FinishedAt = &now
	return nil
}

func (w *Workload) transition(to State) error {
	if !canTransition(w.State, to) {
		return fmt.Errorf("%w: workload %d %s -> %s", ErrInvalidTransition, w.ID, w.State, to)
	}
	w.State = to
	return nil
}

// Elapsed returns wall time between start and finish, zero if not finished
func (w *Workload) Elapsed() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.StartedAt == nil || w.FinishedAt == nil {
		return 0
	}
	return w.FinishedAt.Sub(*w.StartedAt)
}

// Clone returns a detached copy safe to hand out to readers
func (w *Workload) Clone() *Workload {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ret := &Workload{
		ID:          w.ID,
		Name:        w.Name,
		Memory:      w.Memory,
		Duration:    w.Duration,
		State:       w.State,
		CreatedAt:   w.CreatedAt,
		Interrupted: w.Interrupted,
	}
	if w.StartedAt != nil {
		t := *w.StartedAt
		ret.StartedAt = &t
	}
	if w.FinishedAt != nil {
		t := *w.FinishedAt
		ret.FinishedAt = &t
	}
	return ret
}
