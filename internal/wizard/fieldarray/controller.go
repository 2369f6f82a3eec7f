// Package fieldarray manages ordered, reorderable lists of structured records
// within a wizard step. Each record gets a stable identity that is independent
// of its position, so reordering never renumbers surviving records.
package fieldarray

import "github.com/google/uuid"

// Item pairs a record value with its stable identity.
type Item[T any] struct {
	ID    uuid.UUID
	Value T
}

// ChangeFunc is invoked after every successful mutation with the current
// ordered values. The owning step wires this to re-validation and merge.
type ChangeFunc[T any] func(values []T)

// Controller holds the ordered list for one repeated section of a step.
// It is not safe for concurrent use; the wizard applies mutations from a
// single writer at a time.
type Controller[T any] struct {
	items    []Item[T]
	onChange ChangeFunc[T]
}

// New creates an empty controller. onChange may be nil.
func New[T any](onChange ChangeFunc[T]) *Controller[T] {
	return &Controller[T]{onChange: onChange}
}

// Append assigns a fresh identity to value and inserts it at the end.
func (c *Controller[T]) Append(value T) Item[T] {
	item := Item[T]{ID: uuid.New(), Value: value}
	c.items = append(c.items, item)
	c.changed()
	return item
}

// Remove deletes the record at index, preserving the relative order and the
// identities of the remaining records. Out-of-bounds indices are a no-op.
func (c *Controller[T]) Remove(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.changed()
}

// Move relocates the record at from to position to; its identity travels with
// it and every record in between shifts by exactly one position. Equal or
// out-of-bounds indices are a no-op.
func (c *Controller[T]) Move(from, to int) {
	n := len(c.items)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return
	}
	item := c.items[from]
	rest := append(c.items[:from:from], c.items[from+1:]...)
	c.items = append(rest[:to:to], append([]Item[T]{item}, rest[to:]...)...)
	c.changed()
}

// Update replaces the value at index, keeping its identity. Out-of-bounds
// indices are a no-op.
func (c *Controller[T]) Update(index int, value T) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items[index].Value = value
	c.changed()
}

// Reset replaces the whole list, assigning fresh identities. Used when a step
// is re-entered with values restored from the draft.
func (c *Controller[T]) Reset(values []T) {
	c.items = make([]Item[T], 0, len(values))
	for _, v := range values {
		c.items = append(c.items, Item[T]{ID: uuid.New(), Value: v})
	}
}

// Len returns the number of records.
func (c *Controller[T]) Len() int { return len(c.items) }

// Items returns a copy of the ordered items.
func (c *Controller[T]) Items() []Item[T] {
	return append([]Item[T](nil), c.items...)
}

// Values returns the ordered record values.
func (c *Controller[T]) Values() []T {
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.Value)
	}
	return out
}

// IndexOf resolves an identity to its current position, or -1 if the identity
// is not present.
func (c *Controller[T]) IndexOf(id uuid.UUID) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller[T]) changed() {
	if c.onChange != nil {
		c.onChange(c.Values())
	}
}
