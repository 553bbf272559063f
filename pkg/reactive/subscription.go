package reactive

import "time"

// Subscription identifies one registered callback. It is opaque and only
// meaningful to the instance that issued it; its sole use is Unsubscribe.
type Subscription uint64

// registry stores callbacks in registration order together with a monotonic
// id counter. Ids are never reused for the lifetime of the owning instance,
// which keeps fan-out order deterministic and testable.
//
// registry is not safe for concurrent use on its own; the owning primitive
// guards it with its mutex.
type registry[T any] struct {
	entries []subscriber[T]
	nextID  Subscription
}

type subscriber[T any] struct {
	id Subscription
	fn func(T)
}

func (r *registry[T]) add(fn func(T)) Subscription {
	r.nextID++
	r.entries = append(r.entries, subscriber[T]{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *registry[T]) remove(id Subscription) bool {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot copies the registered callbacks in registration order so they can
// be invoked after the owner's lock is released.
func (r *registry[T]) snapshot() []func(T) {
	if len(r.entries) == 0 {
		return nil
	}
	fns := make([]func(T), len(r.entries))
	for i, e := range r.entries {
		fns[i] = e.fn
	}
	return fns
}

func (r *registry[T]) count() int {
	return len(r.entries)
}

// notify invokes a snapshot of callbacks outside any lock, in registration
// order. Callbacks may re-enter the primitive that produced the snapshot.
func notify[T any](kind Kind, fns []func(T), value T) {
	if len(fns) == 0 {
		return
	}
	start := time.Now()
	for _, fn := range fns {
		fn(value)
	}
	if in := currentInstrumentation(); in != nil {
		in.Notified(kind, len(fns), time.Since(start).Seconds())
	}
}
