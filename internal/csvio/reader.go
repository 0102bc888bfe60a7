// Package csvio loads and saves datasets as flat delimited text: one
// comma-separated header line of column names, then one line per row in
// header order. No embedded-comma escaping is required of the data.
package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

// Read parses delimited text into a new dataset, inferring each column's
// type from its raw values in header order.
func Read(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCategoryIO, errors.CodeParseError,
			"input has no header line")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCategoryIO, errors.CodeParseError,
			"reading header", err)
	}

	columns := make([][]any, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCategoryIO, errors.CodeParseError,
				"reading record", err)
		}
		for i, value := range record {
			columns[i] = append(columns[i], value)
		}
	}

	ds := dataset.New()
	for i, name := range header {
		if err := ds.AddColumn(name, inferType(columns[i]), columns[i]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// ReadFile loads a dataset from a CSV file.
func ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCategoryIO, errors.CodeNotFound,
			"opening file", err)
	}
	defer f.Close()
	return Read(f)
}

// inferType picks the narrowest type that parses every non-empty raw cell:
// int, else float, else str. Empty cells are skipped so a sparse numeric
// column stays numeric (the empties become the type's missing default).
func inferType(values []any) types.ScalarType {
	allInt, allFloat := true, true
	for _, v := range values {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			return types.Str
		}
	}
	if allInt {
		return types.Int
	}
	return types.Float
}
