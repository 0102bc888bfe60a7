package stats

import (
	"math"
	"sort"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

// DescribeRow summarizes one variable's non-missing numeric values.
type DescribeRow struct {
	Var    string
	N      int
	Mean   float64
	SD     float64
	Min    float64
	Median float64
	Max    float64
}

// SummarizeRow summarizes one variable with optional observation weights.
// N counts all rows, including those excluded from the statistics.
type SummarizeRow struct {
	Var  string
	N    int
	Mean float64
	SD   float64
	Min  float64
	Max  float64
}

// Describe computes N, mean, sample standard deviation, min, median and
// max per variable, ignoring text values and NaN. A nil vars selects every
// column.
func Describe(ds *dataset.Dataset, vars []string) ([]DescribeRow, error) {
	names, err := selectVars(ds, vars)
	if err != nil {
		return nil, err
	}
	out := make([]DescribeRow, 0, len(names))
	for _, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		var values []float64
		for _, v := range col.Materialize() {
			switch x := v.(type) {
			case int64:
				values = append(values, float64(x))
			case float64:
				if !math.IsNaN(x) {
					values = append(values, x)
				}
			}
		}
		if len(values) == 0 {
			out = append(out, DescribeRow{
				Var: name, N: 0,
				Mean: math.NaN(), SD: math.NaN(),
				Min: math.NaN(), Median: math.NaN(), Max: math.NaN(),
			})
			continue
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))

		sumSq := 0.0
		for _, v := range values {
			sumSq += (v - mean) * (v - mean)
		}
		denom := len(values) - 1
		if denom == 0 {
			denom = 1
		}

		mid := len(sorted) / 2
		var median float64
		if len(sorted)%2 == 1 {
			median = sorted[mid]
		} else {
			median = (sorted[mid-1] + sorted[mid]) / 2
		}

		out = append(out, DescribeRow{
			Var:    name,
			N:      len(values),
			Mean:   mean,
			SD:     math.Sqrt(sumSq / float64(denom)),
			Min:    sorted[0],
			Median: median,
			Max:    sorted[len(sorted)-1],
		})
	}
	return out, nil
}

// Summarize computes weighted mean, standard deviation, min and max per
// variable. Values that cannot be coerced to float are treated as missing;
// a nil weights gives every observation unit weight.
func Summarize(ds *dataset.Dataset, vars []string, weights []float64) ([]SummarizeRow, error) {
	names, err := selectVars(ds, vars)
	if err != nil {
		return nil, err
	}
	if weights != nil && len(weights) != ds.RowCount() {
		return nil, errors.Newf(errors.ErrCategoryStats, errors.CodeShapeMismatch,
			"%d weights for %d rows", len(weights), ds.RowCount())
	}
	out := make([]SummarizeRow, 0, len(names))
	for _, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		raw := col.Materialize()

		var values, w []float64
		for i, v := range raw {
			f, err := types.AsFloat(v)
			if err != nil || math.IsNaN(f) {
				continue
			}
			values = append(values, f)
			if weights == nil {
				w = append(w, 1)
			} else {
				w = append(w, weights[i])
			}
		}
		if len(values) == 0 {
			out = append(out, SummarizeRow{
				Var: name, N: len(raw),
				Mean: math.NaN(), SD: math.NaN(), Min: math.NaN(), Max: math.NaN(),
			})
			continue
		}

		totalW := 0.0
		for _, wt := range w {
			totalW += wt
		}
		mean := 0.0
		for i, v := range values {
			mean += v * w[i]
		}
		mean /= totalW

		variance := 0.0
		for i, v := range values {
			variance += (v - mean) * (v - mean) * w[i]
		}
		variance /= totalW

		minV, maxV := values[0], values[0]
		for _, v := range values[1:] {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}

		out = append(out, SummarizeRow{
			Var:  name,
			N:    len(raw),
			Mean: mean,
			SD:   math.Sqrt(variance),
			Min:  minV,
			Max:  maxV,
		})
	}
	return out, nil
}

// TabEntry is one distinct value's frequency, in first-seen order.
type TabEntry struct {
	Key     any
	Count   int
	Percent float64
}

// Tabulate counts the distinct values of one variable.
func Tabulate(ds *dataset.Dataset, name string) ([]TabEntry, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	// Counting goes through MapKey so missing reals accumulate in one
	// entry instead of NaN map keys that can never be looked up again.
	var order []any
	counts := make(map[any]int)
	for _, v := range col.Materialize() {
		mk := types.MapKey(v)
		if _, seen := counts[mk]; !seen {
			order = append(order, v)
		}
		counts[mk]++
	}
	total := col.Len()
	out := make([]TabEntry, 0, len(order))
	for _, key := range order {
		n := counts[types.MapKey(key)]
		out = append(out, TabEntry{
			Key:     key,
			Count:   n,
			Percent: float64(n) / float64(total) * 100,
		})
	}
	return out, nil
}

// CrossEntry is one cell of a two-way tabulation, in first-seen row-major
// order.
type CrossEntry struct {
	Key1  any
	Key2  any
	Count int
}

// Crosstab counts the joint distinct values of two variables.
func Crosstab(ds *dataset.Dataset, var1, var2 string) ([]CrossEntry, error) {
	col1, err := ds.Column(var1)
	if err != nil {
		return nil, err
	}
	col2, err := ds.Column(var2)
	if err != nil {
		return nil, err
	}

	type pair struct{ a, b any }
	var order []pair
	counts := make(map[pair]int)
	v1 := col1.Materialize()
	v2 := col2.Materialize()
	for i := range v1 {
		display := pair{v1[i], v2[i]}
		p := pair{types.MapKey(v1[i]), types.MapKey(v2[i])}
		if _, seen := counts[p]; !seen {
			order = append(order, display)
		}
		counts[p]++
	}

	out := make([]CrossEntry, 0, len(order))
	for _, d := range order {
		p := pair{types.MapKey(d.a), types.MapKey(d.b)}
		out = append(out, CrossEntry{Key1: d.a, Key2: d.b, Count: counts[p]})
	}
	return out, nil
}

func selectVars(ds *dataset.Dataset, vars []string) ([]string, error) {
	if vars == nil {
		return ds.Columns(), nil
	}
	for _, name := range vars {
		if _, err := ds.Column(name); err != nil {
			return nil, err
		}
	}
	return vars, nil
}
