package idgen

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(t *testing.T, seq *Sequence) int {
	id, err := seq.Next()
	require.NoError(t, err)
	return id
}

func TestSequence(t *testing.T) {
	seq := &Sequence{}
	assert.Equal(t, 1, next(t, seq))
	assert.Equal(t, 2, next(t, seq))

	seq.Observe(10)
	assert.Equal(t, 11, next(t, seq))

	seq.Observe(5)
	assert.Equal(t, 12, next(t, seq))
}

func TestSequence_Exhausted(t *testing.T) {
	seq := &Sequence{}
	seq.Observe(math.MaxInt - 1)
	assert.Equal(t, math.MaxInt, next(t, seq))

	id, err := seq.Next()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 0, id)
	_, err = seq.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestSequence_Concurrent(t *testing.T) {
	seq := &Sequence{}
	seen := sync.Map{}
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := seq.Next()
			assert.NoError(t, err)
			_, loaded := seen.LoadOrStore(id, true)
			assert.False(t, loaded)
		}()
	}
	wg.Wait()
	assert.Equal(t, 51, next(t, seq))
}

func TestRegistry_Assign(t *testing.T) {
	idPtr := func(id int) *int { return &id }
	testCases := []struct {
		description string
		explicit    []*int
		expected    []int
		expectErr   error
	}{
		{
			description: "sequential",
			explicit:    []*int{nil, nil, nil},
			expected:    []int{1, 2, 3},
		},
		{
			description: "explicit moves sequence forward",
			explicit:    []*int{nil, idPtr(5), nil, idPtr(3)},
			expected:    []int{1, 5, 6, 3},
		},
		{
			description: "auto skips lower explicit",
			explicit:    []*int{idPtr(2), nil, nil},
			expected:    []int{2, 3, 4},
		},
		{
			description: "duplicate explicit",
			explicit:    []*int{nil, idPtr(1)},
			expected:    []int{1},
			expectErr:   ErrDuplicate,
		},
		{
			description: "auto after largest int",
			explicit:    []*int{idPtr(math.MaxInt), nil},
			expected:    []int{math.MaxInt},
			expectErr:   ErrExhausted,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			registry := NewRegistry()
			var actual []int
			var err error
			for _, explicit := range testCase.explicit {
				var id int
				if id, err = registry.Assign(explicit); err != nil {
					break
				}
				actual = append(actual, id)
			}
			assert.Equal(t, testCase.expected, actual)
			if testCase.expectErr != nil {
				assert.ErrorIs(t, err, testCase.expectErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegistry_Release(t *testing.T) {
	registry := NewRegistry()
	id := 4
	_, err := registry.Assign(&id)
	require.NoError(t, err)
	registry.Release(4)
	assigned, err := registry.Assign(&id)
	require.NoError(t, err)
	assert.Equal(t, 4, assigned)
}

func TestNew(t *testing.T) {
	assert.NotEqual(t, New(), New())
	original := NewFunc
	NewFunc = func() string { return "fixed" }
	defer func() { NewFunc = original }()
	assert.Equal(t, "fixed", New())
}
