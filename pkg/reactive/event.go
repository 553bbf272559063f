package reactive

import "sync"

// Event is a multicast callback holder for UI events that carry arguments but
// no retained state: clicks, text changes, selection changes. Unlike Cell it
// stores nothing between emissions, and there is no equality gate — every
// Emit reaches every subscriber.
type Event[T any] struct {
	mu   sync.Mutex
	subs registry[T]
}

// NewEvent creates an event with no subscribers.
func NewEvent[T any]() *Event[T] {
	instrumentCreated(KindEvent)
	return &Event[T]{}
}

// Subscribe registers a handler for future emissions. There is nothing to
// replay, so registration alone never invokes the handler.
func (e *Event[T]) Subscribe(fn func(T)) Subscription {
	e.mu.Lock()
	id := e.subs.add(fn)
	e.mu.Unlock()

	instrumentSubscribed(KindEvent)
	return id
}

// Unsubscribe removes the handler registered under id.
func (e *Event[T]) Unsubscribe(id Subscription) {
	e.mu.Lock()
	removed := e.subs.remove(id)
	e.mu.Unlock()

	if removed {
		instrumentUnsubscribed(KindEvent)
	}
}

// Emit invokes every registered handler with args, in registration order,
// outside the event's lock.
func (e *Event[T]) Emit(args T) {
	e.mu.Lock()
	fns := e.subs.snapshot()
	e.mu.Unlock()

	notify(KindEvent, fns, args)
}

// SubscriberCount returns the number of registered handlers.
func (e *Event[T]) SubscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subs.count()
}

// Clear removes all handlers.
func (e *Event[T]) Clear() {
	e.mu.Lock()
	n := e.subs.count()
	e.subs.entries = nil
	e.mu.Unlock()

	for i := 0; i < n; i++ {
		instrumentUnsubscribed(KindEvent)
	}
}
