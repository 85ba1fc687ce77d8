package ledger

import (
	"fmt"
	"sync"
)

// Snapshot is a point-in-time view of the ledger
type Snapshot struct {
	Total int `json:"total" yaml:"total"`
	Used  int `json:"used" yaml:"used"`
	Free  int `json:"free" yaml:"free"`
}

// String returns used/total representation
func (s Snapshot) String() string {
	return fmt.Sprintf("%d/%d used, %d free", s.Used, s.Total, s.Free)
}

// Ledger owns total and used memory
type Ledger struct {
	total int
	used  int
	mux   sync.Mutex
}

// New creates a ledger with fixed total capacity; negative totals are
// treated as zero.
func New(total int) *Ledger {
	if total < 0 {
		total = 0
	}
	return &Ledger{total: total}
}

// Total returns fixed capacity
func (l *Ledger) Total() int {
	return l.total
}

// TryReserve reserves amount when it fits into free capacity.  Insufficient
// capacity is reported by false and leaves the ledger unchanged.
func (l *Ledger) TryReserve(amount int) bool {
	if amount < 0 {
		return false
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.used+amount > l.total {
		return false
	}
	l.used += amount
	return true
}

// Release returns amount to the free pool, never dropping used below zero
func (l *Ledger) Release(amount int) {
	if amount <= 0 {
		return
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	l.used -= amount
	if l.used < 0 {
		l.used = 0
	}
}

// Snapshot returns current state
func (l *Ledger) Snapshot() Snapshot {
	l.mux.Lock()
	defer l.mux.Unlock()
	return Snapshot{Total: l.total, Used: l.used, Free: l.total - l.used}
}
