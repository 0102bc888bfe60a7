// Package ops implements the expression-driven dataset commands: deriving
// and replacing columns, and keeping or dropping rows by condition.
package ops

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/expr"
)

// Generate computes an expression per row and adds the result as a new
// column with a guessed type.
func Generate(ds *dataset.Dataset, newVar, expression string) error {
	values, err := expr.ComputeColumn(ds, expression)
	if err != nil {
		return err
	}
	return ds.AddColumn(newVar, nil, values)
}

// Replace overwrites an existing column with the expression's per-row
// values, restricted to the rows matching cond when it is non-empty.
// Replace is a content mutation: it invalidates the column's index but is
// not undoable.
func Replace(ds *dataset.Dataset, name, expression, cond string) error {
	if _, err := ds.Column(name); err != nil {
		return err
	}
	values, err := expr.ComputeColumn(ds, expression)
	if err != nil {
		return err
	}
	var rows []int
	if cond == "" {
		rows = make([]int, ds.RowCount())
		for i := range rows {
			rows[i] = i
		}
	} else {
		rows, err = expr.FilterRows(ds, cond)
		if err != nil {
			return err
		}
	}
	for _, i := range rows {
		if err := ds.SetValue(name, i, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// KeepIf deletes every row for which the condition is not truthy.
func KeepIf(ds *dataset.Dataset, cond string) error {
	matched, err := expr.FilterRows(ds, cond)
	if err != nil {
		return err
	}
	all := roaring.New()
	all.AddRange(0, uint64(ds.RowCount()))
	keep := roaring.New()
	for _, i := range matched {
		keep.Add(uint32(i))
	}
	all.AndNot(keep)
	return deleteRows(ds, all)
}

// DropIf deletes every row for which the condition is truthy.
func DropIf(ds *dataset.Dataset, cond string) error {
	matched, err := expr.FilterRows(ds, cond)
	if err != nil {
		return err
	}
	drop := roaring.New()
	for _, i := range matched {
		drop.Add(uint32(i))
	}
	return deleteRows(ds, drop)
}

// deleteRows removes the rows in the bitmap from the highest position
// down, so earlier deletions never shift later targets.
func deleteRows(ds *dataset.Dataset, rows *roaring.Bitmap) error {
	it := rows.ReverseIterator()
	for it.HasNext() {
		if err := ds.DeleteRow(int(it.Next())); err != nil {
			return err
		}
	}
	return nil
}

// DropColumns removes the named columns in order.
func DropColumns(ds *dataset.Dataset, names []string) error {
	for _, name := range names {
		if err := ds.DropColumn(name); err != nil {
			return err
		}
	}
	return nil
}
