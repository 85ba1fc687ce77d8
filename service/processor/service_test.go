package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/service/executor"
	"github.com/viant/memsched/service/messaging/memory"
)

type recordingCompleter struct {
	mux     sync.Mutex
	results map[int]error
	reject  map[int]error
	done    chan int
}

func newRecordingCompleter() *recordingCompleter {
	return &recordingCompleter{results: map[int]error{}, done: make(chan int, 16)}
}

func (r *recordingCompleter) Complete(_ context.Context, workloadID int, err error) error {
	r.mux.Lock()
	r.results[workloadID] = err
	rejection := r.reject[workloadID]
	r.mux.Unlock()
	r.done <- workloadID
	return rejection
}

func (r *recordingCompleter) await(t *testing.T, count int, timeout time.Duration) {
	deadline := time.After(timeout)
	for i := 0; i < count; i++ {
		select {
		case <-r.done:
		case <-deadline:
			t.Fatalf("timeout waiting for %d completions, got %d", count, i)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	queue := memory.NewQueue[workload.Launch](memory.DefaultConfig())
	exec := executor.New()
	completer := newRecordingCompleter()

	testCases := []struct {
		name      string
		options   []Option
		expectErr bool
	}{
		{name: "valid", options: []Option{WithMessageQueue(queue), WithExecutor(exec), WithCompleter(completer)}},
		{name: "missing executor", options: []Option{WithMessageQueue(queue), WithCompleter(completer)}, expectErr: true},
		{name: "missing queue", options: []Option{WithExecutor(exec), WithCompleter(completer)}, expectErr: true},
		{name: "missing completer", options: []Option{WithMessageQueue(queue), WithExecutor(exec)}, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, err := New(tc.options...)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, srv.config.WorkerCount)
		})
	}
}

func TestService_ConcurrentExecution(t *testing.T) {
	queue := memory.NewQueue[workload.Launch](memory.DefaultConfig())
	completer := newRecordingCompleter()
	srv, err := New(
		WithMessageQueue(queue),
		WithExecutor(executor.New(executor.WithConfig(executor.Config{TimeUnit: 10 * time.Millisecond}))),
		WithCompleter(completer),
		WithWorkers(1),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	assert.Error(t, srv.Start(ctx))

	started := time.Now()
	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, &workload.Launch{WorkloadID: i, Name: "w", Memory: 1, Duration: 5}))
	}
	completer.await(t, 3, 2*time.Second)
	elapsed := time.Since(started)
	srv.Shutdown()

	// three 50ms workloads on one consumer overlap rather than run back to back
	assert.Less(t, elapsed, 140*time.Millisecond)
	completer.mux.Lock()
	defer completer.mux.Unlock()
	assert.Len(t, completer.results, 3)
	for id, result := range completer.results {
		assert.NoError(t, result, "workload %d", id)
	}
}

func TestService_CancelInterruptsExecutions(t *testing.T) {
	queue := memory.NewQueue[workload.Launch](memory.DefaultConfig())
	completer := newRecordingCompleter()
	srv, err := New(
		WithMessageQueue(queue),
		WithExecutor(executor.New(executor.WithConfig(executor.Config{TimeUnit: time.Second}))),
		WithCompleter(completer),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))
	require.NoError(t, queue.Publish(ctx, &workload.Launch{WorkloadID: 7, Memory: 1, Duration: 60}))
	time.Sleep(20 * time.Millisecond)
	cancel()

	completer.await(t, 1, time.Second)
	srv.Shutdown()
	completer.mux.Lock()
	defer completer.mux.Unlock()
	assert.True(t, errors.Is(completer.results[7], context.Canceled))
}

func TestService_RejectedCompletionIsDeadLettered(t *testing.T) {
	queue := memory.NewQueue[workload.Launch](memory.DefaultConfig())
	completer := newRecordingCompleter()
	rejection := errors.New("workload 2 is not running")
	completer.reject = map[int]error{2: rejection}
	srv, err := New(
		WithMessageQueue(queue),
		WithExecutor(executor.New(executor.WithConfig(executor.Config{TimeUnit: time.Millisecond}))),
		WithCompleter(completer),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, &workload.Launch{WorkloadID: i, Memory: 1, Duration: 1}))
	}
	completer.await(t, 3, 2*time.Second)
	srv.Shutdown()

	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
	payloads, errs := queue.DeadLetters()
	require.Len(t, payloads, 1)
	assert.Equal(t, 2, payloads[0].WorkloadID)
	assert.Equal(t, rejection, errs[0])
}
