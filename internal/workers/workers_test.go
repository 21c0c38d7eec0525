package workers

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWorker struct {
	runs atomic.Int32
}

func (c *countingWorker) Run() { c.runs.Add(1) }

func TestWorkers_RunStartsAll(t *testing.T) {
	first := &countingWorker{}
	second := &countingWorker{}

	NewWorkers(first, second).Run()

	assert.Equal(t, int32(1), first.runs.Load())
	assert.Equal(t, int32(1), second.runs.Load())
}

// flippingStatus reports invalid until flipped.
type flippingStatus struct {
	valid atomic.Bool
}

func (f *flippingStatus) IsValid(string) bool { return f.valid.Load() }

func TestValidityWatcher_NotifiesOnChange(t *testing.T) {
	status := &flippingStatus{}

	var mu sync.Mutex
	var seen []bool
	watcher := NewValidityWatcher(status, "0xpkg", 5*time.Millisecond, func(valid bool) {
		mu.Lock()
		seen = append(seen, valid)
		mu.Unlock()
	})

	watcher.Run()
	t.Cleanup(watcher.Stop)

	// Initial state is reported immediately.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && !seen[0]
	}, time.Second, time.Millisecond)

	status.valid.Store(true)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2 && seen[1]
	}, time.Second, time.Millisecond)

	status.valid.Store(false)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3 && !seen[2]
	}, time.Second, time.Millisecond)
}

func TestValidityWatcher_StopIsIdempotent(t *testing.T) {
	watcher := NewValidityWatcher(&flippingStatus{}, "0xpkg", time.Millisecond, nil)

	watcher.Stop() // not started yet: no-op
	watcher.Start(t.Context())
	watcher.Stop()
	watcher.Stop()
}
