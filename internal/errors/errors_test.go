package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCategoryDataset, CodeNotFound, "column missing")
	assert.Equal(t, "[DATASET:NOT_FOUND] column missing", err.Error())

	wrapped := Wrap(ErrCategoryIO, CodeUnexpected, "writing file", errors.New("disk full"))
	assert.Equal(t, "[IO:UNEXPECTED] writing file: disk full", wrapped.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCategoryExpr, CodeParseError, "bad token %q", "$")
	assert.Equal(t, `[EXPR:PARSE_ERROR] bad token "$"`, err.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCategoryIO, CodeUnexpected, "context", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestIsMatchesCategoryAndCode(t *testing.T) {
	err := New(ErrCategoryIndex, CodeNotFound, "a")
	same := New(ErrCategoryIndex, CodeNotFound, "b")
	other := New(ErrCategoryIndex, CodeOutOfRange, "c")

	assert.True(t, errors.Is(err, same))
	assert.False(t, errors.Is(err, other))
}

func TestGetCategoryAndCodeThroughChain(t *testing.T) {
	inner := New(ErrCategoryStats, CodeSingularMatrix, "singular")
	outer := fmt.Errorf("regress failed: %w", inner)

	assert.Equal(t, ErrCategoryStats, GetCategory(outer))
	assert.Equal(t, CodeSingularMatrix, GetCode(outer))
	assert.True(t, HasCode(outer, CodeSingularMatrix))

	assert.Equal(t, ErrorCategory(""), GetCategory(errors.New("plain")))
	assert.Equal(t, "", GetCode(nil))
}
