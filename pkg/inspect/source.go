package inspect

import "github.com/bindery-dev/bindery/pkg/reactive"

// Source is a type-erased view of one registered observable. Adapters are
// created with CellSource, ListSource, and DerivedSource; the interface is
// sealed so the inspector controls the erasure.
type Source interface {
	// Kind identifies the underlying primitive.
	Kind() reactive.Kind

	// Value returns a snapshot of the current state: the cell or derived
	// value, or a copy of the list contents.
	Value() any

	// SubscriberCount returns the primitive's registered callback count.
	SubscriberCount() int

	// watch registers a type-erased change callback and returns its cancel
	// function. Cells and derived values deliver the new value; lists
	// deliver the reactive.Change.
	watch(fn func(any)) (cancel func())
}

// CellSource adapts a cell for registration.
func CellSource[T any](c *reactive.Cell[T]) Source {
	return cellSource[T]{cell: c}
}

type cellSource[T any] struct {
	cell *reactive.Cell[T]
}

func (s cellSource[T]) Kind() reactive.Kind  { return reactive.KindCell }
func (s cellSource[T]) Value() any           { return s.cell.Get() }
func (s cellSource[T]) SubscriberCount() int { return s.cell.SubscriberCount() }

func (s cellSource[T]) watch(fn func(any)) func() {
	id := s.cell.SubscribeSilent(func(v T) { fn(v) })
	return func() { s.cell.Unsubscribe(id) }
}

// ListSource adapts a list for registration.
func ListSource[T any](l *reactive.List[T]) Source {
	return listSource[T]{list: l}
}

type listSource[T any] struct {
	list *reactive.List[T]
}

func (s listSource[T]) Kind() reactive.Kind  { return reactive.KindList }
func (s listSource[T]) Value() any           { return s.list.All() }
func (s listSource[T]) SubscriberCount() int { return s.list.SubscriberCount() }

func (s listSource[T]) watch(fn func(any)) func() {
	id := s.list.Subscribe(func(c reactive.Change[T]) { fn(c) })
	return func() { s.list.Unsubscribe(id) }
}

// DerivedSource adapts a derived value for registration.
func DerivedSource[T any](d *reactive.Derived[T]) Source {
	return derivedSource[T]{derived: d}
}

type derivedSource[T any] struct {
	derived *reactive.Derived[T]
}

func (s derivedSource[T]) Kind() reactive.Kind  { return reactive.KindDerived }
func (s derivedSource[T]) Value() any           { return s.derived.Get() }
func (s derivedSource[T]) SubscriberCount() int { return s.derived.SubscriberCount() }

func (s derivedSource[T]) watch(fn func(any)) func() {
	id := s.derived.SubscribeSilent(func(v T) { fn(v) })
	return func() { s.derived.Unsubscribe(id) }
}
