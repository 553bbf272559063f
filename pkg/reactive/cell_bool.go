package reactive

// BoolCell wraps Cell[bool] with convenience methods for toggle-style state.
type BoolCell struct {
	*Cell[bool]
}

// NewBoolCell creates a new BoolCell with the given initial value.
func NewBoolCell(initial bool) *BoolCell {
	return &BoolCell{NewCell(initial)}
}

// Toggle inverts the value.
func (c *BoolCell) Toggle() {
	c.Update(func(v bool) bool { return !v })
}

// SetTrue sets the value to true.
func (c *BoolCell) SetTrue() {
	c.Set(true)
}

// SetFalse sets the value to false.
func (c *BoolCell) SetFalse() {
	c.Set(false)
}
