package reactive

// StringCell wraps Cell[string] with convenience methods for text state.
type StringCell struct {
	*Cell[string]
}

// NewStringCell creates a new StringCell with the given initial value.
func NewStringCell(initial string) *StringCell {
	return &StringCell{NewCell(initial)}
}

// Append appends a suffix to the value.
func (c *StringCell) Append(suffix string) {
	c.Update(func(v string) string { return v + suffix })
}

// Prepend prepends a prefix to the value.
func (c *StringCell) Prepend(prefix string) {
	c.Update(func(v string) string { return prefix + v })
}

// Clear sets the value to the empty string.
func (c *StringCell) Clear() {
	c.Set("")
}

// IsEmpty reports whether the value is the empty string.
func (c *StringCell) IsEmpty() bool {
	return c.Get() == ""
}
