// Package inspect provides an in-process debug inspector for observable
// state: a registry of named cells, lists, and derived values, plus an HTTP
// server exposing JSON snapshots, Prometheus metrics, and a WebSocket stream
// of change notifications for dev tooling.
//
// The inspector observes state; it is not a binding transport and does not
// distribute state between processes.
package inspect

import (
	"errors"
	"sync"

	"github.com/bindery-dev/bindery/pkg/reactive"
)

// ErrDuplicateSource is returned when a name is registered twice.
var ErrDuplicateSource = errors.New("inspect: source name already registered")

// Registry holds named observables in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	sources map[string]Source
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a named source. Names must be unique.
func (r *Registry) Register(name string, src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; exists {
		return ErrDuplicateSource
	}
	r.sources[name] = src
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register that panics on duplicate names, for package-level
// wiring at startup.
func (r *Registry) MustRegister(name string, src Source) {
	if err := r.Register(name, src); err != nil {
		panic(err)
	}
}

// Unregister removes a named source. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; !exists {
		return
	}
	delete(r.sources, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// Entry is one registered source's snapshot for /state.
type Entry struct {
	Name        string        `json:"name"`
	Kind        reactive.Kind `json:"kind"`
	Subscribers int           `json:"subscribers"`
	Value       any           `json:"value"`
}

// Snapshot returns every registered source's current state, in registration
// order.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		src := r.sources[name]
		entries = append(entries, Entry{
			Name:        name,
			Kind:        src.Kind(),
			Subscribers: src.SubscriberCount(),
			Value:       src.Value(),
		})
	}
	return entries
}

// watchAll registers a change callback on every source present at call time
// and returns a cancel function releasing them all. Sources registered later
// are not picked up; the inspector re-watches per connection.
func (r *Registry) watchAll(fn func(name string, kind reactive.Kind, payload any)) (cancel func()) {
	r.mu.RLock()
	cancels := make([]func(), 0, len(r.order))
	for _, name := range r.order {
		name := name
		src := r.sources[name]
		kind := src.Kind()
		cancels = append(cancels, src.watch(func(payload any) {
			fn(name, kind, payload)
		}))
	}
	r.mu.RUnlock()

	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
