package workload

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/memsched/internal/clock"
)

func TestWorkload_Transitions(t *testing.T) {
	testCases := []struct {
		name      string
		steps     []func(w *Workload) error
		expectErr bool
		expected  State
	}{
		{
			name:     "waiting to running to finished",
			steps:    []func(w *Workload) error{(*Workload).Start, func(w *Workload) error { return w.Finish(false) }},
			expected: StateFinished,
		},
		{
			name:     "waiting to discarded",
			steps:    []func(w *Workload) error{(*Workload).Discard},
			expected: StateDiscarded,
		},
		{
			name:      "cannot finish while waiting",
			steps:     []func(w *Workload) error{func(w *Workload) error { return w.Finish(false) }},
			expectErr: true,
			expected:  StateWaiting,
		},
		{
			name:      "cannot start twice",
			steps:     []func(w *Workload) error{(*Workload).Start, (*Workload).Start},
			expectErr: true,
			expected:  StateRunning,
		},
		{
			name:      "cannot discard running",
			steps:     []func(w *Workload) error{(*Workload).Start, (*Workload).Discard},
			expectErr: true,
			expected:  StateRunning,
		},
		{
			name:      "finished is terminal",
			steps:     []func(w *Workload) error{(*Workload).Start, func(w *Workload) error { return w.Finish(false) }, (*Workload).Start},
			expectErr: true,
			expected:  StateFinished,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := New(1, "Editor", 200, 5)
			var err error
			for _, step := range tc.steps {
				if err = step(w); err != nil {
					break
				}
			}
			if tc.expectErr {
				assert.True(t, errors.Is(err, ErrInvalidTransition))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, w.GetState())
		})
	}
}

func TestWorkload_Timestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	clock.NowFunc = func() time.Time { return current }
	defer func() { clock.NowFunc = time.Now }()

	w := New(7, "", 100, 2)
	assert.Equal(t, "workload-7", w.Name)
	assert.Nil(t, w.StartedAt)

	current = base.Add(time.Second)
	require.NoError(t, w.Start())
	current = base.Add(3 * time.Second)
	require.NoError(t, w.Finish(false))

	assert.Equal(t, base.Add(time.Second), *w.StartedAt)
	assert.Equal(t, base.Add(3*time.Second), *w.FinishedAt)
	assert.Equal(t, 2*time.Second, w.Elapsed())

	clone := w.Clone()
	assert.Equal(t, w.ID, clone.ID)
	assert.Equal(t, StateFinished, clone.State)
	assert.NotSame(t, w.StartedAt, clone.StartedAt)
}

func TestDefinition_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		def       *Definition
		expectErr bool
	}{
		{name: "valid", def: NewDefinition("Editor", 200, 5)},
		{name: "zero values", def: NewDefinition("", 0, 0)},
		{name: "explicit id", def: NewDefinition("A", 1, 1).WithID(3)},
		{name: "nil", def: nil, expectErr: true},
		{name: "negative memory", def: NewDefinition("A", -1, 1), expectErr: true},
		{name: "negative duration", def: NewDefinition("A", 1, -0.5), expectErr: true},
		{name: "zero id", def: NewDefinition("A", 1, 1).WithID(0), expectErr: true},
		{name: "NaN duration", def: NewDefinition("A", 1, math.NaN()), expectErr: true},
		{name: "infinite duration", def: NewDefinition("A", 1, math.Inf(1)), expectErr: true},
		{name: "negative infinite duration", def: NewDefinition("A", 1, math.Inf(-1)), expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.expectErr {
				assert.True(t, errors.Is(err, ErrInvalidDefinition))
				return
			}
			assert.NoError(t, err)
		})
	}
}
