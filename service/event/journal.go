package event

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Journal records events and writes them as JSON lines to any afs URL
type Journal struct {
	fs     afs.Service
	events []Event
	mux    sync.Mutex
}

// NewJournal creates a journal; fs defaults to afs.New()
func NewJournal(fs afs.Service) *Journal {
	if fs == nil {
		fs = afs.New()
	}
	return &Journal{fs: fs}
}

// Handle appends an event; use as a Handler
func (j *Journal) Handle(e *Event) {
	j.mux.Lock()
	j.events = append(j.events, *e)
	j.mux.Unlock()
}

// Events returns recorded events in delivery order
func (j *Journal) Events() []Event {
	j.mux.Lock()
	defer j.mux.Unlock()
	return append([]Event(nil), j.events...)
}

// Upload writes recorded events to URL
func (j *Journal) Upload(ctx context.Context, URL string) error {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	for _, e := range j.Events() {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode event %s: %w", e.ID, err)
		}
	}
	if err := j.fs.Upload(ctx, URL, file.DefaultFileOsMode, buf); err != nil {
		return fmt.Errorf("failed to upload journal to %s: %w", URL, err)
	}
	return nil
}
