package reactive

import (
	"strings"
	"sync"
	"testing"
)

func TestCellBasic(t *testing.T) {
	count := NewCell(42)

	if count.Get() != 42 {
		t.Errorf("expected initial value 42, got %d", count.Get())
	}

	count.Set(100)
	if count.Get() != 100 {
		t.Errorf("expected value 100, got %d", count.Get())
	}

	count.Update(func(n int) int { return n + 5 })
	if count.Get() != 105 {
		t.Errorf("expected value 105, got %d", count.Get())
	}
}

func TestCellSubscribeReplaysCurrentValue(t *testing.T) {
	cell := NewCell(7)

	var got []int
	replayed := false
	cell.Subscribe(func(v int) {
		got = append(got, v)
		replayed = true
	})

	// The replay must happen synchronously, before Subscribe returns.
	if !replayed {
		t.Fatal("subscribe did not replay the current value before returning")
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected replay [7], got %v", got)
	}
}

func TestCellEqualityGatedNotification(t *testing.T) {
	// Scenario: set(1), set(1), set(2) delivers [0, 1, 2] — the repeated
	// write is silent.
	cell := NewCell(0)

	var log []int
	cell.Subscribe(func(v int) {
		log = append(log, v)
	})

	cell.Set(1)
	cell.Set(1)
	cell.Set(2)

	want := []int{0, 1, 2}
	if len(log) != len(want) {
		t.Fatalf("expected %d deliveries, got %d (%v)", len(want), len(log), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("delivery %d: expected %d, got %d", i, want[i], log[i])
		}
	}
}

func TestCellSetAlwaysNotifiesUnconditionally(t *testing.T) {
	cell := NewCell("a")

	calls := 0
	cell.SubscribeSilent(func(string) { calls++ })

	cell.SetAlways("a")
	cell.SetAlways("a")

	if calls != 2 {
		t.Errorf("expected 2 notifications from SetAlways, got %d", calls)
	}
}

func TestCellUpdateEqualityGate(t *testing.T) {
	cell := NewCell(10)

	calls := 0
	cell.SubscribeSilent(func(int) { calls++ })

	cell.Update(func(n int) int { return n }) // unchanged, silent
	if calls != 0 {
		t.Errorf("unchanged Update should be silent, got %d notifications", calls)
	}

	cell.Update(func(n int) int { return n * 2 })
	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
	if cell.Get() != 20 {
		t.Errorf("expected value 20, got %d", cell.Get())
	}

	cell.UpdateAlways(func(n int) int { return n })
	if calls != 2 {
		t.Errorf("UpdateAlways should notify unconditionally, got %d notifications", calls)
	}
}

func TestCellSubscribeSilent(t *testing.T) {
	cell := NewCell(1)

	calls := 0
	cell.SubscribeSilent(func(int) { calls++ })

	if calls != 0 {
		t.Errorf("SubscribeSilent must not replay, got %d calls", calls)
	}

	cell.Set(2)
	if calls != 1 {
		t.Errorf("expected 1 call after set, got %d", calls)
	}
}

func TestCellUnsubscribe(t *testing.T) {
	cell := NewCell(0)

	last := -1
	id := cell.SubscribeSilent(func(v int) { last = v })

	cell.Set(5)
	if last != 5 {
		t.Fatalf("expected delivery of 5, got %d", last)
	}

	cell.Unsubscribe(id)
	cell.Set(10)
	if last != 5 {
		t.Errorf("unsubscribed callback still invoked, saw %d", last)
	}
	if cell.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", cell.SubscriberCount())
	}

	// Unsubscribing twice is a no-op.
	cell.Unsubscribe(id)
}

func TestCellNotificationOrderIsRegistrationOrder(t *testing.T) {
	cell := NewCell(0)

	var order []string
	cell.SubscribeSilent(func(int) { order = append(order, "first") })
	cell.SubscribeSilent(func(int) { order = append(order, "second") })
	cell.SubscribeSilent(func(int) { order = append(order, "third") })

	cell.Set(1)

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deliveries, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], order[i])
		}
	}

	// Removing the middle subscriber keeps the remaining order stable.
	order = nil
	cell2 := NewCell(0)
	cell2.SubscribeSilent(func(int) { order = append(order, "a") })
	mid := cell2.SubscribeSilent(func(int) { order = append(order, "b") })
	cell2.SubscribeSilent(func(int) { order = append(order, "c") })
	cell2.Unsubscribe(mid)
	cell2.Set(1)

	if len(order) != 2 || order[0] != "a" || order[1] != "c" {
		t.Errorf("expected [a c], got %v", order)
	}
}

func TestCellCallbackMayReenterCell(t *testing.T) {
	// Callbacks run outside the cell's lock, so reading the cell (or even
	// writing it) from inside a callback must not deadlock.
	cell := NewCell(0)

	var seen int
	cell.SubscribeSilent(func(v int) {
		seen = cell.Get()
		_ = cell.SubscriberCount()
	})

	cell.Set(3)
	if seen != 3 {
		t.Errorf("reentrant read saw %d, expected 3", seen)
	}

	// A write from inside a callback converges thanks to the equality gate.
	clamped := NewCell(0)
	clamped.SubscribeSilent(func(v int) {
		if v > 10 {
			clamped.Set(10)
		}
	})
	clamped.Set(25)
	if clamped.Get() != 10 {
		t.Errorf("expected clamp to 10, got %d", clamped.Get())
	}
}

func TestCellUnsubscribeFromCallback(t *testing.T) {
	cell := NewCell(0)

	calls := 0
	var id Subscription
	id = cell.SubscribeSilent(func(int) {
		calls++
		cell.Unsubscribe(id)
	})

	cell.Set(1)
	cell.Set(2)

	if calls != 1 {
		t.Errorf("expected exactly 1 call for a self-unsubscribing callback, got %d", calls)
	}
}

func TestCellWithEquals(t *testing.T) {
	name := NewCell("alice").WithEquals(strings.EqualFold)

	calls := 0
	name.SubscribeSilent(func(string) { calls++ })

	name.Set("ALICE") // equal under EqualFold, silent
	if calls != 0 {
		t.Errorf("case-folded equal write should be silent, got %d calls", calls)
	}

	name.Set("bob")
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestCellDeepEqualFallback(t *testing.T) {
	type point struct{ X, Y []int }
	cell := NewCell(point{X: []int{1}, Y: []int{2}})

	calls := 0
	cell.SubscribeSilent(func(point) { calls++ })

	cell.Set(point{X: []int{1}, Y: []int{2}}) // deep-equal, silent
	if calls != 0 {
		t.Errorf("deep-equal write should be silent, got %d calls", calls)
	}

	cell.Set(point{X: []int{9}, Y: []int{2}})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestCellWith(t *testing.T) {
	cell := NewCell([]int{1, 2, 3})

	sum := 0
	cell.With(func(v []int) {
		for _, n := range v {
			sum += n
		}
	})
	if sum != 6 {
		t.Errorf("expected sum 6, got %d", sum)
	}
}

func TestCellConcurrentUpdates(t *testing.T) {
	cell := NewCell(0)

	const goroutines = 8
	const perGoroutine = 250

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				cell.Update(func(n int) int { return n + 1 })
			}
		}()
	}
	wg.Wait()

	if cell.Get() != goroutines*perGoroutine {
		t.Errorf("expected %d, got %d", goroutines*perGoroutine, cell.Get())
	}
}

func TestCellConcurrentSubscribeAndSet(t *testing.T) {
	cell := NewCell(0)

	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			id := cell.SubscribeSilent(func(int) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			cell.Unsubscribe(id)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			cell.SetAlways(i)
		}
	}()
	wg.Wait()

	if n := cell.SubscriberCount(); n != 0 {
		t.Errorf("expected 0 subscribers after churn, got %d", n)
	}
}
