package dataset

import (
	"math"
	"sort"

	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/internal/index"
	"github.com/tabula/tabula/pkg/types"
)

// Aggregation kinds accepted by GroupAggregate.
const (
	AggMean  = "mean"
	AggSum   = "sum"
	AggCount = "count"
)

// Dataset is the full in-memory table: an ordered set of typed columns
// sharing one row count, plus bounded undo history and lazy equality
// indexes. It is exclusively owned by a single calling context; callers
// needing concurrent access must serialize through their own lock.
type Dataset struct {
	names   []string
	cols    map[string]*Column
	nObs    int
	indexes map[string]*index.BPlusTree
	undo    []snapshot
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{
		cols:    make(map[string]*Column),
		indexes: make(map[string]*index.BPlusTree),
	}
}

// invalidateIndexes discards every index wholesale. No partial invalidation
// is attempted; an index is lazily rebuilt on the next lookup.
func (d *Dataset) invalidateIndexes() {
	clear(d.indexes)
}

// Column returns the named column.
func (d *Dataset) Column(name string) (*Column, error) {
	col, ok := d.cols[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeNotFound,
			"column %q not found", name)
	}
	return col, nil
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.names...)
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int { return d.nObs }

// Value returns the value of the named column at row i.
func (d *Dataset) Value(name string, i int) (any, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	return col.Value(i)
}

// AddColumn adds a column. A nil typ is guessed from the supplied values.
// When the dataset already has rows, absent data is back-filled with the
// type's default; data of any other length than the row count fails with a
// shape mismatch.
func (d *Dataset) AddColumn(name string, typ types.ScalarType, data []any) error {
	if _, ok := d.cols[name]; ok {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeAlreadyExists,
			"column %q already exists", name)
	}
	if typ == nil {
		typ = types.GuessType(data)
	}
	col, err := NewColumn(name, typ, data)
	if err != nil {
		return err
	}
	if len(d.names) > 0 {
		switch col.Len() {
		case d.nObs:
		case 0:
			for i := 0; i < d.nObs; i++ {
				col.appendConverted(typ.Default())
			}
		default:
			return errors.Newf(errors.ErrCategoryDataset, errors.CodeShapeMismatch,
				"column %q has %d values, dataset has %d rows", name, col.Len(), d.nObs)
		}
	}
	d.pushUndo()
	d.names = append(d.names, name)
	d.cols[name] = col
	d.nObs = col.Len()
	d.invalidateIndexes()
	return nil
}

// DropColumn removes a column.
func (d *Dataset) DropColumn(name string) error {
	if _, ok := d.cols[name]; !ok {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeNotFound,
			"column %q not found", name)
	}
	d.pushUndo()
	delete(d.cols, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
	if len(d.names) == 0 {
		d.nObs = 0
	}
	d.invalidateIndexes()
	return nil
}

// RenameColumn renames a column in place, keeping its position.
func (d *Dataset) RenameColumn(old, new string) error {
	col, ok := d.cols[old]
	if !ok {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeNotFound,
			"column %q not found", old)
	}
	if _, ok := d.cols[new]; ok {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeAlreadyExists,
			"column %q already exists", new)
	}
	d.pushUndo()
	delete(d.cols, old)
	col.name = new
	d.cols[new] = col
	for i, n := range d.names {
		if n == old {
			d.names[i] = new
			break
		}
	}
	d.invalidateIndexes()
	return nil
}

// AppendRow adds one row from a name→value mapping. Columns absent from
// the mapping take their type's default. The row is fully validated before
// any column is touched, so a bad value never leaves a ragged dataset.
func (d *Dataset) AppendRow(values map[string]any) error {
	if len(d.names) == 0 {
		return errors.New(errors.ErrCategoryDataset, errors.CodeInvalidArgument,
			"cannot append a row to a dataset with no columns")
	}
	converted := make([]any, len(d.names))
	for i, name := range d.names {
		col := d.cols[name]
		v, ok := values[name]
		if !ok {
			converted[i] = col.Type().Default()
			continue
		}
		cv, err := col.Type().Convert(v)
		if err != nil {
			return err
		}
		converted[i] = cv
	}
	d.pushUndo()
	for i, name := range d.names {
		d.cols[name].appendConverted(converted[i])
	}
	d.nObs++
	d.invalidateIndexes()
	return nil
}

// DeleteRow removes the row at position i from every column.
func (d *Dataset) DeleteRow(i int) error {
	if i < 0 || i >= d.nObs {
		return errors.Newf(errors.ErrCategoryDataset, errors.CodeOutOfRange,
			"row %d outside [0, %d)", i, d.nObs)
	}
	d.pushUndo()
	for _, name := range d.names {
		// Bounds were checked against the shared row count.
		_ = d.cols[name].Delete(i)
	}
	d.nObs--
	d.invalidateIndexes()
	return nil
}

// SetValue overwrites one cell, coercing v to the column's type. This is
// the content-mutation path used by replace; it invalidates the column's
// index but is not undoable.
func (d *Dataset) SetValue(name string, i int, v any) error {
	col, err := d.Column(name)
	if err != nil {
		return err
	}
	if err := col.Set(i, v); err != nil {
		return err
	}
	delete(d.indexes, name)
	return nil
}

// SortBy stably reorders every column by the named column's values. Ties
// keep their original relative order.
func (d *Dataset) SortBy(name string, descending bool) error {
	col, err := d.Column(name)
	if err != nil {
		return err
	}
	typ := col.Type()
	order := make([]int, d.nObs)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if descending {
			return typ.Less(col.values[order[b]], col.values[order[a]])
		}
		return typ.Less(col.values[order[a]], col.values[order[b]])
	})

	d.pushUndo()
	for _, n := range d.names {
		c := d.cols[n]
		reordered := make([]any, len(c.values))
		for dst, src := range order {
			reordered[dst] = c.values[src]
		}
		c.values = reordered
	}
	d.invalidateIndexes()
	return nil
}

// GroupResult is one group's aggregated value, in first-seen key order.
type GroupResult struct {
	Key   any
	Value float64
}

// GroupAggregate groups rows by the distinct values of one column and
// aggregates another, coerced to float. Supported aggregations are mean,
// sum and count.
func (d *Dataset) GroupAggregate(by, target, agg string) ([]GroupResult, error) {
	switch agg {
	case AggMean, AggSum, AggCount:
	default:
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeInvalidArgument,
			"unknown aggregation %q", agg)
	}
	byCol, err := d.Column(by)
	if err != nil {
		return nil, err
	}
	targetCol, err := d.Column(target)
	if err != nil {
		return nil, err
	}

	// Grouping goes through MapKey so a missing real, which is unequal to
	// itself, still lands in one retrievable map entry.
	var keyOrder []any
	groups := make(map[any][]float64)
	for i := 0; i < d.nObs; i++ {
		key := byCol.values[i]
		f, err := types.AsFloat(targetCol.values[i])
		if err != nil {
			return nil, err
		}
		mk := types.MapKey(key)
		if _, seen := groups[mk]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[mk] = append(groups[mk], f)
	}

	out := make([]GroupResult, 0, len(keyOrder))
	for _, key := range keyOrder {
		values := groups[types.MapKey(key)]
		var result float64
		switch agg {
		case AggMean:
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			result = sum / float64(len(values))
		case AggSum:
			for _, v := range values {
				result += v
			}
		case AggCount:
			result = float64(len(values))
		}
		out = append(out, GroupResult{Key: key, Value: result})
	}
	return out, nil
}

// CreateIndex builds the equality index for a column by scanning it once,
// inserting (value, row position) pairs in row order.
func (d *Dataset) CreateIndex(name string) error {
	col, err := d.Column(name)
	if err != nil {
		return err
	}
	tree := index.New(col.Type())
	for i, v := range col.values {
		// Missing reals never match an equality lookup, so they stay out
		// of the tree entirely.
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			continue
		}
		tree.Insert(v, i)
	}
	d.indexes[name] = tree
	return nil
}

// Lookup returns the row positions holding value in the named column, in
// ascending order. The value is coerced to the column's type first, and
// the index is built on first use.
func (d *Dataset) Lookup(name string, value any) ([]int, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	if _, ok := d.indexes[name]; !ok {
		if err := d.CreateIndex(name); err != nil {
			return nil, err
		}
	}
	converted, err := col.Type().Convert(value)
	if err != nil {
		return nil, err
	}
	return d.indexes[name].Search(converted), nil
}

// Row returns one row as a name→value mapping.
func (d *Dataset) Row(i int) (map[string]any, error) {
	if i < 0 || i >= d.nObs {
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeOutOfRange,
			"row %d outside [0, %d)", i, d.nObs)
	}
	row := make(map[string]any, len(d.names))
	for _, name := range d.names {
		row[name] = d.cols[name].values[i]
	}
	return row, nil
}

// ToRows materializes the full dataset as one mapping per row.
func (d *Dataset) ToRows() []map[string]any {
	rows := make([]map[string]any, 0, d.nObs)
	for i := 0; i < d.nObs; i++ {
		row, _ := d.Row(i)
		rows = append(rows, row)
	}
	return rows
}
