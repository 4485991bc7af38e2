// Package progress fans session progress events out to subscribers.
//
// Events are advisory: the orchestrator never reads them back, so a slow or
// absent subscriber cannot change the outcome of a session.
package progress

import (
	"sort"
	"sync"
	"time"
)

// Kind identifies a progress event.
type Kind string

const (
	BatchStarted   Kind = "batch_started"
	ChunkReceived  Kind = "chunk_received"
	BatchParsed    Kind = "batch_parsed"
	RetryScheduled Kind = "retry_scheduled"
	TargetedFetch  Kind = "targeted_fetch"
	SessionDone    Kind = "session_done"
)

// Event is one progress notification.
type Event struct {
	Kind      Kind
	SessionID string
	Batch     int

	// Chars is the running character count of the current stream.
	Chars int

	// Files is the accumulated file count after a parsed batch.
	Files int

	Attempt int
	Delay   time.Duration
	Message string

	// RateLimited marks a retry caused by a provider rate limit.
	RateLimited bool
}

// Handler receives events. It runs on the publishing goroutine.
type Handler func(Event)

// Broadcaster is an explicitly constructed event fan-out.
type Broadcaster struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]Handler
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h and returns its subscription id. A nil handler is
// ignored and yields id 0.
func (b *Broadcaster) Subscribe(h Handler) uint64 {
	if h == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.handlers[b.next] = h
	return b.next
}

// Unsubscribe removes the subscription. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
}

// Len returns the number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// Publish delivers e to every subscriber in subscription order. Handlers
// are called outside the lock, so they may Subscribe or Unsubscribe.
// Publishing on a nil Broadcaster is a no-op.
func (b *Broadcaster) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = b.handlers[id]
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
