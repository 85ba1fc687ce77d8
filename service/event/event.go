package event

import (
	"time"

	"github.com/viant/memsched/internal/idgen"
	"github.com/viant/memsched/service/ledger"
)

// Kind identifies what happened to a workload
type Kind string

const (
	KindEnqueued  Kind = "enqueued"
	KindWaiting   Kind = "waiting"
	KindStarted   Kind = "started"
	KindDiscarded Kind = "discarded"
	KindCompleted Kind = "completed"
	KindDrained   Kind = "drained"
)

// Event carries workload identity and a ledger snapshot taken when the event
// was raised.  Drained events carry no workload.
type Event struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	WorkloadID  int             `json:"workloadId,omitempty"`
	Name        string          `json:"name,omitempty"`
	Memory      int             `json:"memory"`
	Interrupted bool            `json:"interrupted,omitempty"`
	Snapshot    ledger.Snapshot `json:"snapshot"`
	CreatedAt   time.Time       `json:"createdAt"`

	barrier chan struct{}
}

// NewEvent creates an event
func NewEvent(kind Kind, workloadID int, name string, memory int, snapshot ledger.Snapshot) *Event {
	return &Event{
		ID:         idgen.New(),
		Kind:       kind,
		WorkloadID: workloadID,
		Name:       name,
		Memory:     memory,
		Snapshot:   snapshot,
		CreatedAt:  time.Now(),
	}
}

// Handler consumes events
type Handler func(*Event)
