package reactive

import "sync"

// ChangeKind discriminates the variants of a Change.
type ChangeKind uint8

const (
	ChangeAdded ChangeKind = iota + 1
	ChangeRemoved
	ChangeReplaced
	ChangeCleared
	ChangeReset
)

// MarshalText implements encoding.TextMarshaler so change kinds render as
// their names in JSON streams.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// String returns a human-readable name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeReplaced:
		return "replaced"
	case ChangeCleared:
		return "cleared"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one structural mutation of a List.
//
// Index is set for Added, Removed, and Replaced. For Added and Replaced it is
// valid against the list state after the mutation; for Removed it is the
// position the item occupied before removal.
type Change[T any] struct {
	Kind  ChangeKind
	Index int

	// Item is the added or removed item, or the new item of a replacement.
	Item T

	// OldItem is the displaced item of a replacement.
	OldItem T

	// Items is the full new contents of a reset.
	Items []T
}

// List is an observable ordered collection. Indexable, duplicates allowed.
// Subscribers receive a Change for every mutation; unlike Cell.Subscribe
// there is no initial replay, so a fresh subscriber that needs the current
// contents must call All itself.
//
// Out-of-range index operations are benign: they return the zero value and
// false (or silently do nothing), emit no change, and never panic.
type List[T any] struct {
	mu    sync.Mutex
	items []T
	subs  registry[Change[T]]
}

// NewList creates an empty observable list.
func NewList[T any]() *List[T] {
	instrumentCreated(KindList)
	return &List[T]{}
}

// NewListOf creates an observable list seeded with items. The slice is not
// retained.
func NewListOf[T any](items ...T) *List[T] {
	instrumentCreated(KindList)
	l := &List[T]{items: make([]T, len(items))}
	copy(l.items, items)
	return l
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// IsEmpty reports whether the list has no items.
func (l *List[T]) IsEmpty() bool {
	return l.Len() == 0
}

// Get returns the item at index, or the zero value and false if index is out
// of range.
func (l *List[T]) Get(index int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[index], true
}

// All returns a copy of the current contents.
func (l *List[T]) All() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// With runs fn against the backing slice while the list's lock is held,
// avoiding a copy. fn must not mutate the slice or re-enter the same list.
func (l *List[T]) With(fn func([]T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.items)
}

// Push appends an item and emits Added with the item's index.
func (l *List[T]) Push(item T) {
	l.mu.Lock()
	index := len(l.items)
	l.items = append(l.items, item)
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeAdded, Index: index, Item: item})
}

// Pop removes and returns the last item, emitting Removed with the item's
// former index. Returns the zero value and false on an empty list, emitting
// nothing.
func (l *List[T]) Pop() (T, bool) {
	l.mu.Lock()
	if len(l.items) == 0 {
		l.mu.Unlock()
		var zero T
		return zero, false
	}
	index := len(l.items) - 1
	item := l.items[index]
	l.items = l.items[:index]
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeRemoved, Index: index, Item: item})
	return item, true
}

// Insert places an item at index, shifting later items right, and emits
// Added. Indexes outside [0, Len()] are silently ignored; index == Len()
// appends.
func (l *List[T]) Insert(index int, item T) {
	l.mu.Lock()
	if index < 0 || index > len(l.items) {
		l.mu.Unlock()
		return
	}
	l.items = append(l.items, item)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = item
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeAdded, Index: index, Item: item})
}

// Remove deletes the item at index and emits Removed. Returns the removed
// item, or the zero value and false if index is out of range.
func (l *List[T]) Remove(index int) (T, bool) {
	l.mu.Lock()
	if index < 0 || index >= len(l.items) {
		l.mu.Unlock()
		var zero T
		return zero, false
	}
	item := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeRemoved, Index: index, Item: item})
	return item, true
}

// Replace swaps in newItem at index and emits Replaced carrying both the old
// and new items. Returns the displaced item, or the zero value and false if
// index is out of range.
func (l *List[T]) Replace(index int, newItem T) (T, bool) {
	l.mu.Lock()
	if index < 0 || index >= len(l.items) {
		l.mu.Unlock()
		var zero T
		return zero, false
	}
	oldItem := l.items[index]
	l.items[index] = newItem
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeReplaced, Index: index, Item: newItem, OldItem: oldItem})
	return oldItem, true
}

// Clear empties the list and emits Cleared, even when the list was already
// empty. Unlike Cell.Set there is no equality gate on whole-list operations.
func (l *List[T]) Clear() {
	l.mu.Lock()
	l.items = nil
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeCleared})
}

// Reset replaces the entire contents and emits Reset unconditionally. The
// slice is not retained.
func (l *List[T]) Reset(items []T) {
	next := make([]T, len(items))
	copy(next, items)
	emitted := make([]T, len(items))
	copy(emitted, items)

	l.mu.Lock()
	l.items = next
	fns := l.subs.snapshot()
	l.mu.Unlock()

	notify(KindList, fns, Change[T]{Kind: ChangeReset, Items: emitted})
}

// Subscribe registers a callback for every subsequent change. There is no
// initial replay of the current contents.
func (l *List[T]) Subscribe(fn func(Change[T])) Subscription {
	l.mu.Lock()
	id := l.subs.add(fn)
	l.mu.Unlock()

	instrumentSubscribed(KindList)
	return id
}

// Unsubscribe removes the callback registered under id.
func (l *List[T]) Unsubscribe(id Subscription) {
	l.mu.Lock()
	removed := l.subs.remove(id)
	l.mu.Unlock()

	if removed {
		instrumentUnsubscribed(KindList)
	}
}

// SubscriberCount returns the number of registered callbacks.
func (l *List[T]) SubscriberCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subs.count()
}
