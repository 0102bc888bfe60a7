// Package viewer renders a dataset's full contents as an aligned text
// table. It reads through the dataset's public accessors only and never
// mutates it.
package viewer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/pkg/types"
)

// Render writes up to maxRows rows of the dataset as a table with
// "name (type)" headers. A maxRows of zero renders everything.
func Render(w io.Writer, ds *dataset.Dataset, maxRows int) error {
	columns := ds.Columns()
	if len(columns) == 0 {
		fmt.Fprintln(w, "(empty dataset)")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, name := range columns {
		col, err := ds.Column(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s (%s)", name, col.Type().Name())
		if i < len(columns)-1 {
			fmt.Fprint(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	for i := range columns {
		fmt.Fprint(tw, "---")
		if i < len(columns)-1 {
			fmt.Fprint(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	shown := ds.RowCount()
	if maxRows > 0 && maxRows < shown {
		shown = maxRows
	}
	for i := 0; i < shown; i++ {
		row, err := ds.Row(i)
		if err != nil {
			return err
		}
		for j, name := range columns {
			fmt.Fprint(tw, types.FormatValue(row[name]))
			if j < len(columns)-1 {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if shown < ds.RowCount() {
		fmt.Fprintf(w, "(%d of %d rows)\n", shown, ds.RowCount())
	}
	return nil
}
