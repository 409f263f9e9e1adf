package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// queuedDispatcher buffers published events and drains them on a background
// goroutine. Publish never blocks the committing request path beyond the
// buffer; handlers run strictly after the publisher's transaction completed.
type queuedDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler

	queue chan Event
	done  chan struct{}
	once  sync.Once
}

// NewQueuedDispatcher creates a dispatcher with the given queue capacity.
func NewQueuedDispatcher(buffer int) *queuedDispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &queuedDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, buffer),
		done:      make(chan struct{}),
	}
	go d.drain()
	return d
}

// Publish enqueues the event. Events are dropped when the queue is full;
// notification delivery is best effort and must never stall a commit.
func (d *queuedDispatcher) Publish(ctx context.Context, event Event) error {
	select {
	case d.queue <- event:
	default:
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *queuedDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close stops the drain loop after the queue empties.
func (d *queuedDispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *queuedDispatcher) drain() {
	defer close(d.done)
	for event := range d.queue {
		d.mu.RLock()
		handlers := append([]EventHandler{}, d.listeners[event.Type]...)
		d.mu.RUnlock()

		for _, handler := range handlers {
			// handler errors are the handler's problem; keep draining
			_ = handler(context.Background(), event)
		}
	}
}
