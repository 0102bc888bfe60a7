package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

func statsDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	d := dataset.New()
	require.NoError(t, d.AddColumn("x", types.Float, []any{1.0, 2.0, 3.0, 4.0}))
	require.NoError(t, d.AddColumn("g", types.Str, []any{"a", "b", "a", "b"}))
	return d
}

func TestDescribe(t *testing.T) {
	d := statsDataset(t)
	rows, err := Describe(d, []string{"x"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "x", r.Var)
	assert.Equal(t, 4, r.N)
	assert.InDelta(t, 2.5, r.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), r.SD, 1e-12)
	assert.Equal(t, 1.0, r.Min)
	assert.InDelta(t, 2.5, r.Median, 1e-12)
	assert.Equal(t, 4.0, r.Max)
}

func TestDescribeOddCountMedian(t *testing.T) {
	d := dataset.New()
	require.NoError(t, d.AddColumn("x", types.Float, []any{5.0, 1.0, 3.0}))
	rows, err := Describe(d, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rows[0].Median)
}

func TestDescribeSkipsMissingAndText(t *testing.T) {
	d := dataset.New()
	require.NoError(t, d.AddColumn("x", types.Float, []any{1.0, nil, 3.0}))
	require.NoError(t, d.AddColumn("g", types.Str, []any{"a", "b", "c"}))

	rows, err := Describe(d, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].N)
	assert.InDelta(t, 2.0, rows[0].Mean, 1e-12)

	assert.Equal(t, 0, rows[1].N)
	assert.True(t, math.IsNaN(rows[1].Mean))
}

func TestDescribeUnknownVar(t *testing.T) {
	d := statsDataset(t)
	_, err := Describe(d, []string{"missing"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestSummarizeUnweighted(t *testing.T) {
	d := statsDataset(t)
	rows, err := Summarize(d, []string{"x"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 4, r.N)
	assert.InDelta(t, 2.5, r.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), r.SD, 1e-12)
	assert.Equal(t, 1.0, r.Min)
	assert.Equal(t, 4.0, r.Max)
}

func TestSummarizeWeighted(t *testing.T) {
	d := dataset.New()
	require.NoError(t, d.AddColumn("x", types.Float, []any{1.0, 2.0}))
	rows, err := Summarize(d, []string{"x"}, []float64{3, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, rows[0].Mean, 1e-12)
}

func TestSummarizeWeightShapeMismatch(t *testing.T) {
	d := statsDataset(t)
	_, err := Summarize(d, []string{"x"}, []float64{1})
	require.Error(t, err)
	assert.Equal(t, errors.CodeShapeMismatch, errors.GetCode(err))
}

func TestTabulate(t *testing.T) {
	d := statsDataset(t)
	entries, err := Tabulate(d, "g")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, 2, entries[0].Count)
	assert.InDelta(t, 50.0, entries[0].Percent, 1e-12)
	assert.Equal(t, "b", entries[1].Key)
	assert.Equal(t, 2, entries[1].Count)
}

func TestTabulateMissingValuesCountInOneEntry(t *testing.T) {
	d := dataset.New()
	require.NoError(t, d.AddColumn("x", types.Float, []any{nil, nil, 2.0}))

	entries, err := Tabulate(d, "x")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.True(t, math.IsNaN(entries[0].Key.(float64)))
	assert.Equal(t, 2, entries[0].Count)
	assert.InDelta(t, 200.0/3.0, entries[0].Percent, 1e-9)
	assert.Equal(t, 2.0, entries[1].Key)
	assert.Equal(t, 1, entries[1].Count)

	total := 0
	for _, e := range entries {
		total += e.Count
	}
	assert.Equal(t, d.RowCount(), total)
}

func TestCrosstab(t *testing.T) {
	d := dataset.New()
	require.NoError(t, d.AddColumn("a", types.Str, []any{"x", "x", "y"}))
	require.NoError(t, d.AddColumn("b", types.Int, []any{1, 1, 2}))

	entries, err := Crosstab(d, "a", "b")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].Key1)
	assert.Equal(t, int64(1), entries[0].Key2)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, "y", entries[1].Key1)
	assert.Equal(t, 1, entries[1].Count)
}

func TestCrosstabMissingValuesCountInOneCell(t *testing.T) {
	d := dataset.New()
	require.NoError(t, d.AddColumn("a", types.Float, []any{nil, nil, 1.0}))
	require.NoError(t, d.AddColumn("b", types.Str, []any{"x", "x", "y"}))

	entries, err := Crosstab(d, "a", "b")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.True(t, math.IsNaN(entries[0].Key1.(float64)))
	assert.Equal(t, "x", entries[0].Key2)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, 1.0, entries[1].Key1)
	assert.Equal(t, 1, entries[1].Count)
}
