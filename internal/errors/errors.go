// Package errors provides structured error types for the Tabula engine.
// All errors include a category, code and message for consistent handling
// across components; the shell turns them into one-line user messages.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by engine component.
type ErrorCategory string

const (
	ErrCategoryDataset  ErrorCategory = "DATASET"
	ErrCategoryIndex    ErrorCategory = "INDEX"
	ErrCategoryExpr     ErrorCategory = "EXPR"
	ErrCategoryStats    ErrorCategory = "STATS"
	ErrCategoryIO       ErrorCategory = "IO"
	ErrCategoryInternal ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeShapeMismatch     = "SHAPE_MISMATCH"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeTypeError         = "TYPE_ERROR"
	CodeParseError        = "PARSE_ERROR"
	CodeInvalidExpression = "INVALID_EXPRESSION"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeSingularMatrix    = "SINGULAR_MATRIX"
	CodeUnexpected        = "UNEXPECTED"
)

// TabulaError is the structured error type used throughout the engine.
type TabulaError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error returns a formatted error string.
func (e *TabulaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *TabulaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *TabulaError) Is(target error) bool {
	var t *TabulaError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new TabulaError.
func New(category ErrorCategory, code, message string) *TabulaError {
	return &TabulaError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Newf creates a new TabulaError with a formatted message.
func Newf(category ErrorCategory, code, format string, args ...any) *TabulaError {
	return New(category, code, fmt.Sprintf(format, args...))
}

// Wrap creates a new TabulaError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *TabulaError {
	return &TabulaError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a TabulaError.
func GetCategory(err error) ErrorCategory {
	var te *TabulaError
	if errors.As(err, &te) {
		return te.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a TabulaError.
func GetCode(err error) string {
	var te *TabulaError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}
