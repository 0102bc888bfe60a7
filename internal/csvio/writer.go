package csvio

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

// Write emits the dataset as delimited text: a header of column names,
// then one record per row with values in their natural text form. The
// float missing sentinel renders as a literal NaN marker.
func Write(ds *dataset.Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := ds.Columns()
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.ErrCategoryIO, errors.CodeUnexpected, "writing header", err)
	}

	record := make([]string, len(header))
	for i := 0; i < ds.RowCount(); i++ {
		row, err := ds.Row(i)
		if err != nil {
			return err
		}
		for j, name := range header {
			record[j] = types.FormatValue(row[name])
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.ErrCategoryIO, errors.CodeUnexpected, "writing record", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCategoryIO, errors.CodeUnexpected, "flushing output", err)
	}
	return nil
}

// WriteFile saves the dataset to a CSV file.
func WriteFile(ds *dataset.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCategoryIO, errors.CodeUnexpected, "creating file", err)
	}
	defer f.Close()
	return Write(ds, f)
}
