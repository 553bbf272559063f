// Package binding provides the glue that UI control wrappers use to connect
// observable state to widget setters. Every helper returns an unbind function
// that must be called when the bound control is destroyed, so destroyed
// widgets are not kept alive by dangling callbacks.
package binding

import (
	"sync"

	"github.com/bindery-dev/bindery/pkg/reactive"
)

// Bind pushes a cell's value into apply, immediately with the current value
// and again on every change. Returns the unbind function.
//
// Typical use in a control wrapper:
//
//	unbind := binding.Bind(counter, func(n int) {
//	    label.SetText(strconv.Itoa(n))
//	})
func Bind[T any](c *reactive.Cell[T], apply func(T)) (unbind func()) {
	id := c.Subscribe(apply)
	return func() { c.Unsubscribe(id) }
}

// BindDerived is Bind for a derived value.
func BindDerived[T any](d *reactive.Derived[T], apply func(T)) (unbind func()) {
	id := d.Subscribe(apply)
	return func() { d.Unsubscribe(id) }
}

// BindList forwards every structural change of a list to apply. The list does
// not replay its contents on subscribe, so apply sees only changes made after
// the bind; callers that need the current contents should seed from All.
func BindList[T any](l *reactive.List[T], apply func(reactive.Change[T])) (unbind func()) {
	id := l.Subscribe(apply)
	return func() { l.Unsubscribe(id) }
}

// Link synchronizes two cells both ways: b immediately takes a's current
// value, and afterwards a write to either cell propagates to the other. The
// equality gate breaks the echo, so linking never loops.
func Link[T any](a, b *reactive.Cell[T]) (unlink func()) {
	idA := a.Subscribe(func(v T) { b.Set(v) })
	idB := b.SubscribeSilent(func(v T) { a.Set(v) })
	return func() {
		a.Unsubscribe(idA)
		b.Unsubscribe(idB)
	}
}

// Mirror maintains a plain slice in step with a List by replaying its change
// stream — the bookkeeping a native list-view wrapper does to keep its item
// source current. Construct it where the list is not being mutated
// concurrently, then read Items from any goroutine.
type Mirror[T any] struct {
	mu     sync.Mutex
	items  []T
	unbind func()
}

// NewMirror snapshots the list's current contents and starts tracking.
func NewMirror[T any](l *reactive.List[T]) *Mirror[T] {
	m := &Mirror[T]{items: l.All()}
	m.unbind = BindList(l, m.apply)
	return m
}

// Items returns a copy of the mirrored contents.
func (m *Mirror[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of mirrored items.
func (m *Mirror[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops tracking the list.
func (m *Mirror[T]) Close() {
	m.unbind()
}

func (m *Mirror[T]) apply(c reactive.Change[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch c.Kind {
	case reactive.ChangeAdded:
		if c.Index < 0 || c.Index > len(m.items) {
			return
		}
		m.items = append(m.items, c.Item)
		copy(m.items[c.Index+1:], m.items[c.Index:])
		m.items[c.Index] = c.Item
	case reactive.ChangeRemoved:
		if c.Index < 0 || c.Index >= len(m.items) {
			return
		}
		m.items = append(m.items[:c.Index], m.items[c.Index+1:]...)
	case reactive.ChangeReplaced:
		if c.Index < 0 || c.Index >= len(m.items) {
			return
		}
		m.items[c.Index] = c.Item
	case reactive.ChangeCleared:
		m.items = nil
	case reactive.ChangeReset:
		m.items = append([]T(nil), c.Items...)
	}
}
