package reactive

import "testing"

func TestIntCellOps(t *testing.T) {
	c := NewIntCell(10)

	c.Inc()
	if c.Get() != 11 {
		t.Errorf("expected 11, got %d", c.Get())
	}
	c.Dec()
	if c.Get() != 10 {
		t.Errorf("expected 10, got %d", c.Get())
	}
	c.Add(5)
	if c.Get() != 15 {
		t.Errorf("expected 15, got %d", c.Get())
	}
	c.Sub(3)
	if c.Get() != 12 {
		t.Errorf("expected 12, got %d", c.Get())
	}
}

func TestIntCellNotifies(t *testing.T) {
	c := NewIntCell(0)

	var got []int
	c.SubscribeSilent(func(v int) { got = append(got, v) })

	c.Inc()
	c.Inc()
	c.Add(0) // unchanged, silent

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestBoolCellOps(t *testing.T) {
	c := NewBoolCell(false)

	c.Toggle()
	if !c.Get() {
		t.Error("expected true after toggle")
	}
	c.SetFalse()
	if c.Get() {
		t.Error("expected false")
	}
	c.SetTrue()
	if !c.Get() {
		t.Error("expected true")
	}

	calls := 0
	c.SubscribeSilent(func(bool) { calls++ })
	c.SetTrue() // already true, silent
	if calls != 0 {
		t.Errorf("expected equality gate on SetTrue, got %d calls", calls)
	}
}

func TestStringCellOps(t *testing.T) {
	c := NewStringCell("name")

	c.Append("!")
	if c.Get() != "name!" {
		t.Errorf("expected %q, got %q", "name!", c.Get())
	}
	c.Prepend("> ")
	if c.Get() != "> name!" {
		t.Errorf("expected %q, got %q", "> name!", c.Get())
	}
	c.Clear()
	if !c.IsEmpty() {
		t.Errorf("expected empty string, got %q", c.Get())
	}
}
