package memsched

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/memsched/internal/yml"
	"github.com/viant/memsched/service/allocator"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/processor"
)

// DefaultTotalMemory is the ledger capacity used when none is configured
const DefaultTotalMemory = 1024

// Config is a serialisable representation of the scheduler configuration.
// It can be populated from JSON or YAML; durations are written as "20ms".
type Config struct {
	Memory    MemoryConfig     `json:"memory" yaml:"memory"`
	Allocator allocator.Config `json:"allocator" yaml:"allocator"`
	Processor processor.Config `json:"processor" yaml:"processor"`
	Executor  executor.Config  `json:"executor" yaml:"executor"`
	Event     EventConfig      `json:"event" yaml:"event"`
}

type MemoryConfig struct {
	Total int `json:"total" yaml:"total"`
}

type EventConfig struct {
	// Buffer is the capacity of the event queue
	Buffer int `json:"buffer" yaml:"buffer"`
}

// DefaultConfig returns a Config populated with the package defaults
func DefaultConfig() *Config {
	return &Config{
		Memory:    MemoryConfig{Total: DefaultTotalMemory},
		Allocator: allocator.DefaultConfig(),
		Processor: processor.DefaultConfig(),
		Executor:  executor.DefaultConfig(),
		Event:     EventConfig{Buffer: 1024},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Memory.Total < 0 {
		errs = append(errs, fmt.Errorf("memory.total must be >= 0"))
	}
	if c.Allocator.PollingInterval <= 0 {
		errs = append(errs, fmt.Errorf("allocator.pollingInterval must be > 0"))
	}
	if c.Processor.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("processor.workers must be > 0"))
	}
	if c.Executor.TimeUnit <= 0 {
		errs = append(errs, fmt.Errorf("executor.timeUnit must be > 0"))
	}
	if c.Event.Buffer <= 0 {
		errs = append(errs, fmt.Errorf("event.buffer must be > 0"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a JSON or YAML configuration from URL on top of the
// defaults and validates it.  Values may reference ${env.KEY}.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	root, err := yml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if root != nil {
		if err = root.Decode(ret); err != nil {
			return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
		}
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
