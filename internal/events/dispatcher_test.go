package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuedDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewQueuedDispatcher(8)

	var mu sync.Mutex
	var received []Event
	d.Subscribe(EventAppointmentScheduled, func(_ context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{
		ID:        "evt-1",
		Type:      EventAppointmentScheduled,
		Timestamp: time.Now(),
	}))
	require.NoError(t, d.Publish(context.Background(), Event{
		ID:        "evt-2",
		Type:      EventWorkOrderCreated,
		Timestamp: time.Now(),
	}))
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1, "handlers only see their subscribed type")
	assert.Equal(t, "evt-1", received[0].ID)
}

func TestQueuedDispatcherFanOut(t *testing.T) {
	d := NewQueuedDispatcher(8)

	var mu sync.Mutex
	calls := 0
	handler := func(_ context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	}
	d.Subscribe(EventTechnicianAssigned, handler)
	d.Subscribe(EventTechnicianAssigned, handler)

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTechnicianAssigned}))
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestQueuedDispatcherNeverBlocksPublisher(t *testing.T) {
	d := NewQueuedDispatcher(1)

	release := make(chan struct{})
	d.Subscribe(EventWorkOrderCreated, func(_ context.Context, _ Event) error {
		<-release
		return nil
	})

	// Fill the queue well past capacity; Publish must return immediately
	// even though the handler is stuck.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = d.Publish(context.Background(), Event{Type: EventWorkOrderCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
	close(release)
	d.Close()
}

func TestQueuedDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewQueuedDispatcher(4)
	d.Close()
	assert.NotPanics(t, d.Close)
}
