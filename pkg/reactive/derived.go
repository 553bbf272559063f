package reactive

import "sync"

// Derived is a value computed from one or two source cells and kept current
// by internal subscriptions. From the outside it behaves like a read-only
// Cell: the update path is driven by its sources, and there is no public Set.
//
// Recomputation is push-based: every source change recomputes the value even
// if nobody is reading it. The result is written through an internal cell's
// equality-gated set, so a recomputation that lands on the same value does
// not notify downstream subscribers.
//
// A Derived holds subscriptions on its sources for its whole lifetime. Call
// Close when it is no longer needed, otherwise the sources retain the
// internal callbacks (and everything they capture) for as long as they live.
type Derived[T any] struct {
	cell *Cell[T]

	closeOnce sync.Once
	unsubs    []func()
}

// Derive creates a value mapped from a single source cell. The initial value
// is computed eagerly from the source's current value; afterwards every
// source change recomputes it.
func Derive[S, T any](source *Cell[S], fn func(S) T) *Derived[T] {
	instrumentCreated(KindDerived)

	cell := newCell(fn(source.Get()))
	id := source.SubscribeSilent(func(v S) {
		cell.Set(fn(v))
	})

	return &Derived[T]{
		cell:   cell,
		unsubs: []func(){func() { source.Unsubscribe(id) }},
	}
}

// Derive2 creates a value computed from two source cells. A change to either
// source triggers a recomputation that reads the current value of both, so a
// burst of changes converges on a result consistent with both final values.
func Derive2[A, B, T any](a *Cell[A], b *Cell[B], fn func(A, B) T) *Derived[T] {
	instrumentCreated(KindDerived)

	cell := newCell(fn(a.Get(), b.Get()))
	recompute := func() {
		cell.Set(fn(a.Get(), b.Get()))
	}

	idA := a.SubscribeSilent(func(A) { recompute() })
	idB := b.SubscribeSilent(func(B) { recompute() })

	return &Derived[T]{
		cell: cell,
		unsubs: []func(){
			func() { a.Unsubscribe(idA) },
			func() { b.Unsubscribe(idB) },
		},
	}
}

// Get returns a snapshot of the current derived value.
func (d *Derived[T]) Get() T {
	return d.cell.Get()
}

// With runs fn against the current value while the internal lock is held.
// fn must not re-enter the derived value.
func (d *Derived[T]) With(fn func(T)) {
	d.cell.With(fn)
}

// Subscribe registers a callback and immediately invokes it once with the
// current value, exactly like Cell.Subscribe.
func (d *Derived[T]) Subscribe(fn func(T)) Subscription {
	return d.cell.Subscribe(fn)
}

// SubscribeSilent registers a callback without the initial replay.
func (d *Derived[T]) SubscribeSilent(fn func(T)) Subscription {
	return d.cell.SubscribeSilent(fn)
}

// Unsubscribe removes the callback registered under id.
func (d *Derived[T]) Unsubscribe(id Subscription) {
	d.cell.Unsubscribe(id)
}

// SubscriberCount returns the number of registered callbacks.
func (d *Derived[T]) SubscriberCount() int {
	return d.cell.SubscriberCount()
}

// WithEquals configures the equality gate applied when recomputed values are
// written. Configure it at construction, before sources change.
func (d *Derived[T]) WithEquals(fn func(T, T) bool) *Derived[T] {
	d.cell.WithEquals(fn)
	return d
}

// Close unsubscribes from every source cell, after which the derived value
// stops updating and the sources no longer retain it. Idempotent. The last
// computed value remains readable.
func (d *Derived[T]) Close() {
	d.closeOnce.Do(func() {
		for _, unsub := range d.unsubs {
			unsub()
		}
	})
}
