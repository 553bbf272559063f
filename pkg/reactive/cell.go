package reactive

import (
	"reflect"
	"sync"
)

// Cell is a mutable observable value. All handles to a cell are pointers to
// one shared instance, so cloning a handle never deep-copies the state.
//
// Set and Update notify subscribers only when the value actually changed,
// judged by the cell's equality function (see WithEquals). SetAlways and
// UpdateAlways bypass the equality gate.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
	subs  registry[T]

	// equal is the equality function used to decide whether a write changed
	// the value. If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewCell creates a cell with the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	instrumentCreated(KindCell)
	return &Cell[T]{value: initial}
}

// newCell constructs a cell without recording a creation observation.
// Used by Derived, which records its own kind.
func newCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns a snapshot of the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// With runs fn against the current value while the cell's lock is held,
// avoiding a copy for large values. fn must not re-enter the same cell;
// results are captured by the closure.
func (c *Cell[T]) With(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.value)
}

// Set replaces the value and notifies subscribers if and only if the new
// value differs from the old one. Identical writes are silent.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	var fns []func(T)
	if changed {
		c.value = value
		fns = c.subs.snapshot()
	}
	c.mu.Unlock()

	if changed {
		notify(KindCell, fns, value)
	}
}

// SetAlways replaces the value and notifies subscribers unconditionally,
// bypassing the equality gate.
func (c *Cell[T]) SetAlways(value T) {
	c.mu.Lock()
	c.value = value
	fns := c.subs.snapshot()
	c.mu.Unlock()

	notify(KindCell, fns, value)
}

// Update atomically reads and replaces the value in one critical section.
// Subscribers are notified under the same equality rule as Set.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	oldValue := c.value
	newValue := fn(oldValue)
	changed := !c.equals(oldValue, newValue)
	var fns []func(T)
	if changed {
		c.value = newValue
		fns = c.subs.snapshot()
	}
	c.mu.Unlock()

	if changed {
		notify(KindCell, fns, newValue)
	}
}

// UpdateAlways atomically replaces the value and notifies unconditionally.
func (c *Cell[T]) UpdateAlways(fn func(T) T) {
	c.mu.Lock()
	c.value = fn(c.value)
	newValue := c.value
	fns := c.subs.snapshot()
	c.mu.Unlock()

	notify(KindCell, fns, newValue)
}

// Subscribe registers a callback and immediately invokes it once,
// synchronously, with the current value before returning. This lets a control
// wrapper bind its initial state without a separate read.
//
// The callback runs outside the cell's lock and may re-enter the cell.
func (c *Cell[T]) Subscribe(fn func(T)) Subscription {
	c.mu.Lock()
	id := c.subs.add(fn)
	value := c.value
	c.mu.Unlock()

	instrumentSubscribed(KindCell)
	fn(value)
	return id
}

// SubscribeSilent registers a callback without the initial replay.
func (c *Cell[T]) SubscribeSilent(fn func(T)) Subscription {
	c.mu.Lock()
	id := c.subs.add(fn)
	c.mu.Unlock()

	instrumentSubscribed(KindCell)
	return id
}

// Unsubscribe removes the callback registered under id. Mutations that begin
// after Unsubscribe returns never reach the callback; a fan-out already in
// flight may still deliver once, since it works from a snapshot.
func (c *Cell[T]) Unsubscribe(id Subscription) {
	c.mu.Lock()
	removed := c.subs.remove(id)
	c.mu.Unlock()

	if removed {
		instrumentUnsubscribed(KindCell)
	}
}

// SubscriberCount returns the number of registered callbacks.
func (c *Cell[T]) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs.count()
}

// WithEquals configures a custom equality function for the Set/Update gate.
// This is useful for types where reflect.DeepEqual is too expensive or has
// the wrong semantics. Configure it at construction, before the cell is
// shared:
//
//	name := NewCell("").WithEquals(strings.EqualFold)
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.mu.Lock()
	c.equal = fn
	c.mu.Unlock()
	return c
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking. Uses == for the
// common comparable kinds and reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
