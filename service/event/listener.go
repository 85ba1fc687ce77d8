package event

import (
	"fmt"
)

// Logger is satisfied by *log.Logger
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogListener formats every event as a single line
func LogListener(logger Logger) Handler {
	return func(e *Event) {
		logger.Printf("[memsched] -- %s", Format(e))
	}
}

// Format renders an event for console output
func Format(e *Event) string {
	switch e.Kind {
	case KindEnqueued:
		return fmt.Sprintf("enqueued %s #%d (%d) - %v", e.Name, e.WorkloadID, e.Memory, e.Snapshot)
	case KindWaiting:
		return fmt.Sprintf("no memory for %s #%d (%d), waiting - %v", e.Name, e.WorkloadID, e.Memory, e.Snapshot)
	case KindStarted:
		return fmt.Sprintf("started %s #%d (%d) - %v", e.Name, e.WorkloadID, e.Memory, e.Snapshot)
	case KindDiscarded:
		return fmt.Sprintf("discarded %s #%d (%d): exceeds total %d", e.Name, e.WorkloadID, e.Memory, e.Snapshot.Total)
	case KindCompleted:
		suffix := ""
		if e.Interrupted {
			suffix = " (interrupted)"
		}
		return fmt.Sprintf("finished %s #%d%s, released %d - %v", e.Name, e.WorkloadID, suffix, e.Memory, e.Snapshot)
	case KindDrained:
		return fmt.Sprintf("drained - %v", e.Snapshot)
	}
	return fmt.Sprintf("%s #%d", e.Kind, e.WorkloadID)
}
