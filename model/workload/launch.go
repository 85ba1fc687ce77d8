package workload

// Launch is the message handed from the allocator to the processor for an
// admitted workload.  It carries only what execution needs; the workload
// itself stays owned by the allocator.
type Launch struct {
	WorkloadID int     `json:"workloadId"`
	Name       string  `json:"name"`
	Memory     int     `json:"memory"`
	Duration   float64 `json:"duration"`
}

// NewLaunch creates a launch message for w
func NewLaunch(w *Workload) *Launch {
	return &Launch{WorkloadID: w.ID, Name: w.Name, Memory: w.Memory, Duration: w.Duration}
}
