package executor

import (
	"context"
	"math"
	"time"

	"github.com/viant/memsched/model/workload"
)

// Config represents executor configuration
type Config struct {
	// TimeUnit is the wall-clock length of one workload duration unit
	TimeUnit time.Duration `json:"timeUnit" yaml:"timeUnit"`
}

// DefaultConfig returns one second per duration unit
func DefaultConfig() Config {
	return Config{TimeUnit: time.Second}
}

// Listener is invoked after every execution with its wall time and outcome.
type Listener func(launch *workload.Launch, elapsed time.Duration, err error)

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener sets the listener invoked after every execution.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithConfig sets executor configuration
func WithConfig(config Config) Option {
	return func(s *service) {
		s.config = config
	}
}

// Service executes admitted workloads.
type Service interface {
	Execute(ctx context.Context, launch *workload.Launch) error
}

type service struct {
	config   Config
	listener Listener
}

// Execute blocks for the launch duration scaled by TimeUnit, or returns
// ctx.Err() once ctx is done.
func (s *service) Execute(ctx context.Context, launch *workload.Launch) (err error) {
	if launch == nil {
		return ErrNilLaunch
	}
	started := time.Now()
	if s.listener != nil {
		defer func() { s.listener(launch, time.Since(started), err) }()
	}
	timer := time.NewTimer(s.Duration(launch))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Duration converts declared duration into wall-clock time
func (s *service) Duration(launch *workload.Launch) time.Duration {
	if launch.Duration <= 0 || math.IsNaN(launch.Duration) {
		return 0
	}
	scaled := launch.Duration * float64(s.config.TimeUnit)
	if scaled >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(scaled)
}

// New creates an executor
func New(opts ...Option) Service {
	ret := &service{config: DefaultConfig()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.config.TimeUnit <= 0 {
		ret.config.TimeUnit = DefaultConfig().TimeUnit
	}
	return ret
}
