package event

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/memsched/service/ledger"
)

func TestService_OrderedDelivery(t *testing.T) {
	srv := New()
	defer srv.Close()
	journal := NewJournal(nil)
	srv.AddListener(journal.Handle)

	ctx := context.Background()
	for i := 1; i <= 50; i++ {
		require.NoError(t, srv.Publish(ctx, NewEvent(KindEnqueued, i, fmt.Sprintf("w%d", i), i, ledger.Snapshot{Total: 100})))
	}
	require.NoError(t, srv.Flush(ctx))

	events := journal.Events()
	require.Len(t, events, 50)
	for i, e := range events {
		assert.Equal(t, i+1, e.WorkloadID)
	}
}

func TestService_MultipleListeners(t *testing.T) {
	var mux sync.Mutex
	var first, second []Kind
	srv := New(WithListeners(func(e *Event) {
		mux.Lock()
		first = append(first, e.Kind)
		mux.Unlock()
	}))
	defer srv.Close()
	srv.AddListener(func(e *Event) {
		mux.Lock()
		second = append(second, e.Kind)
		mux.Unlock()
	})
	srv.AddListener(nil)

	ctx := context.Background()
	require.NoError(t, srv.Publish(ctx, NewEvent(KindStarted, 1, "a", 1, ledger.Snapshot{})))
	require.NoError(t, srv.Publish(ctx, NewEvent(KindDrained, 0, "", 0, ledger.Snapshot{})))
	require.NoError(t, srv.Flush(ctx))

	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, []Kind{KindStarted, KindDrained}, first)
	assert.Equal(t, first, second)
}

func TestService_Closed(t *testing.T) {
	srv := New()
	srv.Close()
	srv.Close()
	assert.ErrorIs(t, srv.Publish(context.Background(), NewEvent(KindDrained, 0, "", 0, ledger.Snapshot{})), ErrClosed)
	assert.ErrorIs(t, srv.Flush(context.Background()), ErrClosed)
}

func TestFormat(t *testing.T) {
	snapshot := ledger.Snapshot{Total: 1024, Used: 200, Free: 824}
	testCases := []struct {
		name     string
		event    *Event
		expected string
	}{
		{name: "started", event: NewEvent(KindStarted, 1, "Editor", 200, snapshot), expected: "started Editor #1 (200) - 200/1024 used, 824 free"},
		{name: "discarded", event: NewEvent(KindDiscarded, 2, "Big", 2000, snapshot), expected: "discarded Big #2 (2000): exceeds total 1024"},
		{name: "drained", event: NewEvent(KindDrained, 0, "", 0, snapshot), expected: "drained - 200/1024 used, 824 free"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Format(tc.event))
		})
	}

	interrupted := NewEvent(KindCompleted, 3, "A", 10, snapshot)
	interrupted.Interrupted = true
	assert.Contains(t, Format(interrupted), "(interrupted)")
}

type bufferLogger struct{ buf bytes.Buffer }

func (b *bufferLogger) Printf(format string, v ...interface{}) {
	fmt.Fprintf(&b.buf, format+"\n", v...)
}

func TestLogListener(t *testing.T) {
	logger := &bufferLogger{}
	LogListener(logger)(NewEvent(KindWaiting, 3, "Browser", 400, ledger.Snapshot{Total: 1024, Used: 900, Free: 124}))
	assert.Equal(t, "[memsched] -- no memory for Browser #3 (400), waiting - 900/1024 used, 124 free\n", logger.buf.String())
}

func TestJournal_Upload(t *testing.T) {
	fs := afs.New()
	journal := NewJournal(fs)
	journal.Handle(NewEvent(KindStarted, 1, "A", 100, ledger.Snapshot{Total: 100, Used: 100}))
	journal.Handle(NewEvent(KindCompleted, 1, "A", 100, ledger.Snapshot{Total: 100, Free: 100}))

	ctx := context.Background()
	URL := "mem://localhost/memsched/journal.jsonl"
	require.NoError(t, journal.Upload(ctx, URL))

	data, err := fs.DownloadWithURL(ctx, URL)
	require.NoError(t, err)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var kinds []Kind
	for scanner.Scan() {
		e := Event{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []Kind{KindStarted, KindCompleted}, kinds)
}
