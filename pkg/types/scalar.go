// Package types provides the scalar type system for Tabula columns.
// The number of supported types is intentionally small so the rest of the
// project can concentrate on data-structure logic instead of conversions.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tabula/tabula/internal/errors"
)

// ScalarType defines the coercion and comparison rules for one column type.
// Implementations are stateless singletons. Every value stored in a column
// has already been through Convert, so Less and Equal may assume the
// canonical representation (int64, float64 or string).
type ScalarType interface {
	// Name returns the short identifier used in headers and type lookups.
	Name() string

	// Convert coerces an arbitrary input into the canonical representation.
	// It returns a TYPE_ERROR for input that cannot be represented.
	Convert(v any) (any, error)

	// Default returns the back-fill value for rows that predate a column:
	// 0 for int, NaN for float, "" for str.
	Default() any

	// Less reports raw value ordering. For float, any comparison involving
	// NaN is false.
	Less(a, b any) bool

	// Equal reports raw value equality. NaN is unequal to everything,
	// including itself.
	Equal(a, b any) bool
}

// The three supported column types.
var (
	Int   ScalarType = intType{}
	Float ScalarType = floatType{}
	Str   ScalarType = strType{}
)

// FromName resolves a type name ("int", "float", "str") to its singleton.
func FromName(name string) (ScalarType, error) {
	switch strings.ToLower(name) {
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "str":
		return Str, nil
	default:
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeInvalidArgument,
			"unknown scalar type %q", name)
	}
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Convert(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return int64(0), nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
				"cannot convert %v to int", x)
		}
		return int64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return int64(0), nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
				"cannot convert %q to int", x)
		}
		return n, nil
	default:
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
			"cannot convert %T to int", v)
	}
}

func (intType) Default() any { return int64(0) }

func (intType) Less(a, b any) bool { return a.(int64) < b.(int64) }

func (intType) Equal(a, b any) bool { return a.(int64) == b.(int64) }

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Convert(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case bool:
		if x {
			return float64(1), nil
		}
		return float64(0), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
				"cannot convert %q to float", x)
		}
		return f, nil
	default:
		return nil, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
			"cannot convert %T to float", v)
	}
}

func (floatType) Default() any { return math.NaN() }

func (floatType) Less(a, b any) bool { return a.(float64) < b.(float64) }

func (floatType) Equal(a, b any) bool { return a.(float64) == b.(float64) }

type strType struct{}

func (strType) Name() string { return "str" }

func (strType) Convert(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return FormatValue(v), nil
}

func (strType) Default() any { return "" }

func (strType) Less(a, b any) bool { return a.(string) < b.(string) }

func (strType) Equal(a, b any) bool { return a.(string) == b.(string) }

// GuessType infers the narrowest scalar type that can hold every value in
// data: all integer-like values give Int, all real-like values give Float,
// anything else gives Str. Empty input defaults to Float.
func GuessType(data []any) ScalarType {
	if len(data) == 0 {
		return Float
	}
	allInt, allFloat := true, true
	for _, v := range data {
		if allInt && !isIntegerLike(v) {
			allInt = false
		}
		if allFloat && !isRealLike(v) {
			allFloat = false
		}
		if !allInt && !allFloat {
			return Str
		}
	}
	if allInt {
		return Int
	}
	return Float
}

func isIntegerLike(v any) bool {
	switch x := v.(type) {
	case bool, int, int64:
		return true
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0) && x == math.Trunc(x)
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return err == nil
	default:
		return false
	}
}

func isRealLike(v any) bool {
	switch x := v.(type) {
	case bool, int, int64, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil
	default:
		return false
	}
}

// missingKey stands in for the float missing sentinel in map keys. NaN is
// unequal to itself, so a NaN map entry could never be looked up again.
type missingKey struct{}

// MapKey returns a value usable as a Go map key for grouping and counting:
// the float missing sentinel maps to a dedicated stand-in so every missing
// row lands in the same group.
func MapKey(v any) any {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return missingKey{}
	}
	return v
}

// AsFloat coerces a stored or computed value to float64 for numeric work.
func AsFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case float64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
				"cannot convert %q to float", x)
		}
		return f, nil
	default:
		return 0, errors.Newf(errors.ErrCategoryDataset, errors.CodeTypeError,
			"cannot convert %T to float", v)
	}
}

// FormatValue renders a value in its natural text form. The float NaN
// sentinel renders as a literal "NaN" marker.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}
