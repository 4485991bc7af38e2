package generation

import (
	"context"
	"errors"
	"sync"
	"time"
)

// errTimerCleared is returned by a sleep cut short by ClearAll.
var errTimerCleared = errors.New("timer cleared")

// timerSet tracks pending retry and pause timers so a superseding session
// or Shutdown can cancel every one of them at once.
type timerSet struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]chan struct{}
}

func newTimerSet() *timerSet {
	return &timerSet{pending: make(map[uint64]chan struct{})}
}

// Sleep waits for d. It returns the cause of ctx if ctx ends first, or
// errTimerCleared if ClearAll runs first.
func (t *timerSet) Sleep(ctx context.Context, d time.Duration) error {
	t.mu.Lock()
	t.next++
	id := t.next
	cleared := make(chan struct{})
	t.pending[id] = cleared
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-cleared:
		return errTimerCleared
	}
}

// ClearAll cancels every pending timer and returns how many were pending.
func (t *timerSet) ClearAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.pending)
	for id, ch := range t.pending {
		close(ch)
		delete(t.pending, id)
	}
	return n
}

// Len returns the number of pending timers.
func (t *timerSet) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
