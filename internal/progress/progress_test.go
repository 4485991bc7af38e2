package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_SubscribePublish(t *testing.T) {
	b := NewBroadcaster()

	var got []string
	b.Subscribe(func(e Event) { got = append(got, "first:"+string(e.Kind)) })
	b.Subscribe(func(e Event) { got = append(got, "second:"+string(e.Kind)) })

	b.Publish(Event{Kind: BatchStarted, Batch: 1})

	assert.Equal(t, []string{"first:batch_started", "second:batch_started"}, got)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()

	calls := 0
	id := b.Subscribe(func(Event) { calls++ })
	assert.Equal(t, 1, b.Len())

	b.Publish(Event{Kind: ChunkReceived})
	b.Unsubscribe(id)
	b.Publish(Event{Kind: ChunkReceived})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len())

	// Unknown ids are ignored.
	assert.NotPanics(t, func() { b.Unsubscribe(999) })
}

func TestBroadcaster_NilHandlerIgnored(t *testing.T) {
	b := NewBroadcaster()
	assert.Equal(t, uint64(0), b.Subscribe(nil))
	assert.Equal(t, 0, b.Len())
}

func TestBroadcaster_NilReceiverPublish(t *testing.T) {
	var b *Broadcaster
	assert.NotPanics(t, func() { b.Publish(Event{Kind: SessionDone}) })
}

func TestBroadcaster_HandlerMayUnsubscribeItself(t *testing.T) {
	b := NewBroadcaster()

	var id uint64
	calls := 0
	id = b.Subscribe(func(Event) {
		calls++
		b.Unsubscribe(id)
	})

	b.Publish(Event{})
	b.Publish(Event{})
	assert.Equal(t, 1, calls)
}

func TestBroadcaster_ConcurrentPublish(t *testing.T) {
	b := NewBroadcaster()

	var mu sync.Mutex
	total := 0
	b.Subscribe(func(e Event) {
		mu.Lock()
		total += e.Chars
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(Event{Kind: ChunkReceived, Chars: 2})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, total)
}
