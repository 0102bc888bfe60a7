package dataset

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/tabula/tabula/pkg/types"
)

func intColumn(values []int64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func TestSortThenUndoRestoresOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("sort followed by undo is the identity", prop.ForAll(
		func(values []int64) bool {
			d := New()
			if err := d.AddColumn("k", types.Int, intColumn(values)); err != nil {
				return false
			}
			if len(values) == 0 {
				return true
			}
			if err := d.SortBy("k", false); err != nil {
				return false
			}
			if !d.Undo() {
				return false
			}
			col, err := d.Column("k")
			if err != nil {
				return false
			}
			for i, v := range values {
				got, err := col.Value(i)
				if err != nil || got.(int64) != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(-50, 50)),
	))

	properties.Property("columns stay the same length after sorting", prop.ForAll(
		func(values []int64) bool {
			d := New()
			if err := d.AddColumn("k", types.Int, intColumn(values)); err != nil {
				return false
			}
			if err := d.AddColumn("tag", types.Str, nil); err != nil {
				return false
			}
			if err := d.SortBy("k", true); err != nil {
				return false
			}
			for _, name := range d.Columns() {
				col, err := d.Column(name)
				if err != nil || col.Len() != len(values) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(-50, 50)),
	))

	properties.TestingRun(t)
}
