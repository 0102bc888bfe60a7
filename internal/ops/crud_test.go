package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

func opsDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	d := dataset.New()
	require.NoError(t, d.AddColumn("id", types.Int, []any{1, 2, 3, 4}))
	require.NoError(t, d.AddColumn("value", types.Float, []any{10.0, 20.0, 30.0, 40.0}))
	return d
}

func values(t *testing.T, d *dataset.Dataset, name string) []any {
	t.Helper()
	col, err := d.Column(name)
	require.NoError(t, err)
	return col.Materialize()
}

func TestGenerate(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, Generate(d, "double", "value * 2"))

	assert.Equal(t, []string{"id", "value", "double"}, d.Columns())
	assert.Equal(t, []any{20.0, 40.0, 60.0, 80.0}, values(t, d, "double"))
}

func TestGenerateGuessesIntForComparisons(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, Generate(d, "high", "value > 15"))

	col, err := d.Column("high")
	require.NoError(t, err)
	assert.Equal(t, types.Int, col.Type())
	assert.Equal(t, []any{int64(0), int64(1), int64(1), int64(1)}, values(t, d, "high"))
}

func TestGenerateDuplicateName(t *testing.T) {
	d := opsDataset(t)
	err := Generate(d, "value", "1 + 1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeAlreadyExists, errors.GetCode(err))
}

func TestGenerateBadExpression(t *testing.T) {
	d := opsDataset(t)
	err := Generate(d, "bad", "value +")
	require.Error(t, err)
	assert.Equal(t, []string{"id", "value"}, d.Columns())
}

func TestReplaceAllRows(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, Replace(d, "value", "value + 1", ""))
	assert.Equal(t, []any{11.0, 21.0, 31.0, 41.0}, values(t, d, "value"))
}

func TestReplaceWithCondition(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, Replace(d, "value", "0", "id > 2"))
	assert.Equal(t, []any{10.0, 20.0, 0.0, 0.0}, values(t, d, "value"))
}

func TestReplaceCoercesToColumnType(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, Replace(d, "id", "id * 10", ""))
	assert.Equal(t, []any{int64(10), int64(20), int64(30), int64(40)}, values(t, d, "id"))
}

func TestReplaceUnknownColumn(t *testing.T) {
	d := opsDataset(t)
	err := Replace(d, "missing", "1", "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestKeepIf(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, KeepIf(d, "value >= 20 & value <= 30"))
	assert.Equal(t, 2, d.RowCount())
	assert.Equal(t, []any{int64(2), int64(3)}, values(t, d, "id"))
}

func TestKeepIfNothingMatches(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, KeepIf(d, "value > 100"))
	assert.Equal(t, 0, d.RowCount())
}

func TestDropIf(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, DropIf(d, "id == 2 | id == 4"))
	assert.Equal(t, 2, d.RowCount())
	assert.Equal(t, []any{int64(1), int64(3)}, values(t, d, "id"))
	assert.Equal(t, []any{10.0, 30.0}, values(t, d, "value"))
}

func TestDropIfNothingMatches(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, DropIf(d, "id > 100"))
	assert.Equal(t, 4, d.RowCount())
}

func TestDropColumns(t *testing.T) {
	d := opsDataset(t)
	require.NoError(t, DropColumns(d, []string{"value"}))
	assert.Equal(t, []string{"id"}, d.Columns())

	err := DropColumns(d, []string{"missing"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
