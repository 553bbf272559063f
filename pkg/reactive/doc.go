// Package reactive provides the observable-state core for the Bindery
// binding library.
//
// The package has three primitives. Cell[T] is a mutable observable value:
//
//	count := NewCell(0)
//	count.Subscribe(func(n int) { label.SetText(strconv.Itoa(n)) })
//	count.Set(5) // notifies subscribers
//
// List[T] is an observable ordered collection that emits structural change
// events (add, remove, replace, clear, reset) instead of whole-value
// snapshots:
//
//	todos := NewList[string]()
//	todos.Subscribe(func(c Change[string]) { view.Apply(c) })
//	todos.Push("buy milk") // emits Added{Index: 0}
//
// Derived[T] is a value computed from one or two cells and kept current by
// internal subscriptions:
//
//	sum := Derive2(a, b, func(x, y int) int { return x + y })
//
// # Subscription contract
//
// Cell.Subscribe invokes the callback once, synchronously, with the current
// value before it returns; List.Subscribe does not replay the current
// contents. Set and Update skip notification when the new value equals the
// old one; SetAlways, Clear, and Reset notify unconditionally. Within one
// mutation, subscribers are notified in registration order.
//
// # Thread safety
//
// All primitives are safe for concurrent use. Each instance serializes access
// to its state with one mutex, and callbacks are invoked after that mutex is
// released, so a callback may safely read or write the same primitive it is
// subscribed to. Callbacks always observe fully committed state. A panic in a
// callback propagates to the mutating caller and skips the remaining
// subscribers for that mutation; the committed value is unaffected.
package reactive
