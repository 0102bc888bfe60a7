package dataset

import (
	"github.com/tabula/tabula/pkg/types"
)

// undoDepth is the number of snapshots retained; the oldest is evicted
// first, giving a two-level undo.
const undoDepth = 2

// columnSnapshot captures one column's type and fully materialized values.
type columnSnapshot struct {
	typ    types.ScalarType
	values []any
}

// snapshot is an immutable copy of every column at the time of a structural
// or row-level mutation, in column order.
type snapshot struct {
	names   []string
	columns map[string]columnSnapshot
}

// pushUndo records the current state. It must only be called once a
// mutation is known to proceed past validation, so a failed operation
// never leaves an unused snapshot behind.
func (d *Dataset) pushUndo() {
	snap := snapshot{
		names:   append([]string(nil), d.names...),
		columns: make(map[string]columnSnapshot, len(d.names)),
	}
	for _, name := range d.names {
		col := d.cols[name]
		snap.columns[name] = columnSnapshot{
			typ:    col.Type(),
			values: col.Materialize(),
		}
	}
	d.undo = append(d.undo, snap)
	if len(d.undo) > undoDepth {
		d.undo = d.undo[1:]
	}
}

// Undo restores the most recent snapshot and reports whether one existed.
// Undo itself is not undoable; there is no redo stack.
func (d *Dataset) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	snap := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]

	d.names = append([]string(nil), snap.names...)
	d.cols = make(map[string]*Column, len(snap.names))
	d.nObs = 0
	for _, name := range snap.names {
		cs := snap.columns[name]
		col := &Column{name: name, typ: cs.typ}
		col.values = append([]any(nil), cs.values...)
		d.cols[name] = col
		d.nObs = col.Len()
	}
	d.invalidateIndexes()
	return true
}
