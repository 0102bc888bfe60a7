// Package dataset implements the in-memory tabular data model: typed
// columns, the dataset that owns them, bounded undo history and lazy
// equality indexes.
package dataset

import (
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

// Column is a homogeneous, ordered sequence of scalar values. Every stored
// value has been through the type's Convert rule. A column is owned by
// exactly one dataset at a time.
type Column struct {
	name   string
	typ    types.ScalarType
	values []any
}

// NewColumn creates a column, coercing every supplied value to typ.
func NewColumn(name string, typ types.ScalarType, data []any) (*Column, error) {
	c := &Column{name: name, typ: typ}
	if len(data) > 0 {
		c.values = make([]any, 0, len(data))
		for _, v := range data {
			if err := c.Append(v); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column's scalar type.
func (c *Column) Type() types.ScalarType { return c.typ }

// Len returns the number of values.
func (c *Column) Len() int { return len(c.values) }

// Value returns the value at position i.
func (c *Column) Value(i int) (any, error) {
	if i < 0 || i >= len(c.values) {
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeOutOfRange,
			"position %d outside [0, %d) in column %q", i, len(c.values), c.name)
	}
	return c.values[i], nil
}

// Append coerces v to the column type and adds it at the end.
func (c *Column) Append(v any) error {
	converted, err := c.typ.Convert(v)
	if err != nil {
		return err
	}
	c.values = append(c.values, converted)
	return nil
}

// Set coerces v to the column type and stores it at position i.
func (c *Column) Set(i int, v any) error {
	if i < 0 || i >= len(c.values) {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeOutOfRange,
			"position %d outside [0, %d) in column %q", i, len(c.values), c.name)
	}
	converted, err := c.typ.Convert(v)
	if err != nil {
		return err
	}
	c.values[i] = converted
	return nil
}

// Delete removes the value at position i, shifting later values down.
func (c *Column) Delete(i int) error {
	if i < 0 || i >= len(c.values) {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeOutOfRange,
			"position %d outside [0, %d) in column %q", i, len(c.values), c.name)
	}
	c.values = append(c.values[:i], c.values[i+1:]...)
	return nil
}

// Materialize returns a copy of the column's values.
func (c *Column) Materialize() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// FindSorted returns the insertion point for v in the column's current
// order (the position of the first value not less than the converted v).
// It is an ordered-lookup helper and assumes the column is sorted.
func (c *Column) FindSorted(v any) (int, error) {
	converted, err := c.typ.Convert(v)
	if err != nil {
		return 0, err
	}
	lo, hi := 0, len(c.values)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.typ.Less(c.values[mid], converted) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// appendConverted adds an already-converted value without re-coercing.
// Callers must have run the value through the column type's Convert.
func (c *Column) appendConverted(v any) {
	c.values = append(c.values, v)
}
