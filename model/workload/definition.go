package workload

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDefinition is returned when a definition fails validation.
var ErrInvalidDefinition = errors.New("workload: invalid definition")

// Definition is the validated record accepted by intake.  ID is optional;
// when nil the allocator assigns the next identifier.
type Definition struct {
	ID       *int    `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Memory   int     `json:"memory" yaml:"memory"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// NewDefinition creates a definition without an explicit identifier
func NewDefinition(name string, memory int, duration float64) *Definition {
	return &Definition{Name: name, Memory: memory, Duration: duration}
}

// WithID sets explicit identifier
func (d *Definition) WithID(id int) *Definition {
	d.ID = &id
	return d
}

// Validate checks numeric bounds
func (d *Definition) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: definition was nil", ErrInvalidDefinition)
	}
	if d.ID != nil && *d.ID <= 0 {
		return fmt.Errorf("%w: identifier must be positive, got %d", ErrInvalidDefinition, *d.ID)
	}
	if d.Memory < 0 {
		return fmt.Errorf("%w: memory must be >= 0, got %d", ErrInvalidDefinition, d.Memory)
	}
	if d.Duration < 0 || math.IsNaN(d.Duration) || math.IsInf(d.Duration, 0) {
		return fmt.Errorf("%w: duration must be a finite number >= 0, got %v", ErrInvalidDefinition, d.Duration)
	}
	return nil
}

// DefaultName returns the placeholder name used when a definition has none
func DefaultName(id int) string {
	return fmt.Sprintf("workload-%d", id)
}
