package allocator

import "errors"

var (
	// ErrDuplicateID is returned when intake sees an identifier that was already taken in
	ErrDuplicateID = errors.New("allocator: duplicate workload identifier")
	// ErrNotRunning is returned when completing a workload that is not in the running set
	ErrNotRunning = errors.New("allocator: workload is not running")
)
