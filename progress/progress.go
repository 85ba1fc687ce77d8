package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the allocator.
// The fields are signed; a transition is expressed as -1 on the source
// counter and +1 on the target.
type Delta struct {
	Total     int
	Waiting   int
	Running   int
	Finished  int
	Discarded int
}

// Progress keeps aggregated workload counters.  It is safe for concurrent use.
type Progress struct {
	StartedAt time.Time

	TotalWorkloads     int
	WaitingWorkloads   int
	RunningWorkloads   int
	FinishedWorkloads  int
	DiscardedWorkloads int
	// PeakRunning is the highest RunningWorkloads value observed
	PeakRunning int

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker
func New(onChange func(Progress)) *Progress {
	return &Progress{StartedAt: time.Now(), onChange: onChange}
}

// Update applies the supplied delta.  The onChange callback receives a copy
// outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalWorkloads += d.Total
	p.WaitingWorkloads += d.Waiting
	p.RunningWorkloads += d.Running
	p.FinishedWorkloads += d.Finished
	p.DiscardedWorkloads += d.Discarded
	if p.RunningWorkloads > p.PeakRunning {
		p.PeakRunning = p.RunningWorkloads
	}
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// Pending returns the number of workloads not yet in a terminal state
func (p *Progress) Pending() int {
	return p.WaitingWorkloads + p.RunningWorkloads
}

// OnChange registers a callback; nil disables it
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		StartedAt:          p.StartedAt,
		TotalWorkloads:     p.TotalWorkloads,
		WaitingWorkloads:   p.WaitingWorkloads,
		RunningWorkloads:   p.RunningWorkloads,
		FinishedWorkloads:  p.FinishedWorkloads,
		DiscardedWorkloads: p.DiscardedWorkloads,
		PeakRunning:        p.PeakRunning,
	}
}
