package dataset

import (
	"github.com/tabula/tabula/internal/errors"
)

// Range selects rows in the half-open interval [Start, Stop), clamped to
// the dataset bounds.
type Range struct {
	Start int
	Stop  int
}

// Select reads the rows and columns chosen by the given selectors.
// Row selectors: nil (all rows), int, []int, Range. Column selectors:
// nil (all columns), string, []string. Any other kind is a type error.
func (d *Dataset) Select(rowSel, colSel any) ([]map[string]any, error) {
	rows, err := d.resolveRows(rowSel)
	if err != nil {
		return nil, err
	}
	cols, err := d.resolveCols(colSel)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, i := range rows {
		row := make(map[string]any, len(cols))
		for _, name := range cols {
			v, err := d.cols[name].Value(i)
			if err != nil {
				return nil, err
			}
			row[name] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func (d *Dataset) resolveRows(selector any) ([]int, error) {
	switch sel := selector.(type) {
	case nil:
		rows := make([]int, d.nObs)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	case int:
		return []int{sel}, nil
	case []int:
		return sel, nil
	case Range:
		start, stop := sel.Start, sel.Stop
		if start < 0 {
			start = 0
		}
		if stop > d.nObs {
			stop = d.nObs
		}
		var rows []int
		for i := start; i < stop; i++ {
			rows = append(rows, i)
		}
		return rows, nil
	default:
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
			"unsupported row selector %T", selector)
	}
}

func (d *Dataset) resolveCols(selector any) ([]string, error) {
	switch sel := selector.(type) {
	case nil:
		return d.Columns(), nil
	case string:
		if _, err := d.Column(sel); err != nil {
			return nil, err
		}
		return []string{sel}, nil
	case []string:
		for _, name := range sel {
			if _, err := d.Column(name); err != nil {
				return nil, err
			}
		}
		return sel, nil
	default:
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
			"unsupported column selector %T", selector)
	}
}
