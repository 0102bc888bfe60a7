package expr

import (
	"math"

	"github.com/tabula/tabula/internal/errors"
)

// asNumber extracts a numeric view of a value. Text never counts as
// numeric here: "1" + 2 is a type error, not 3.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Truthy reports whether an evaluated value counts as true in a filter:
// true booleans, non-zero numbers (NaN included) and non-empty text.
func Truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case int64:
		return x != 0
	case int:
		return x != 0
	case float64:
		return x != 0 || math.IsNaN(x)
	case nil:
		return false
	default:
		return true
	}
}

func typeErrorf(format string, args ...any) error {
	return errors.Newf(errors.ErrCategoryExpr, errors.CodeTypeError, format, args...)
}

// numericOp wraps a float function as a binary operator that rejects text
// operands.
func numericOp(f func(a, b float64) float64) func(a, b any) (any, error) {
	return func(a, b any) (any, error) {
		fa, aok := asNumber(a)
		fb, bok := asNumber(b)
		if !aok || !bok {
			return nil, typeErrorf("numeric operator applied to %T and %T", a, b)
		}
		return f(fa, fb), nil
	}
}

// addOp adds numbers or concatenates two text values.
func addOp(a, b any) (any, error) {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as + bs, nil
		}
	}
	fa, aok := asNumber(a)
	fb, bok := asNumber(b)
	if !aok || !bok {
		return nil, typeErrorf("cannot add %T and %T", a, b)
	}
	return fa + fb, nil
}

// orderOp builds an ordering comparison. Text compares with text, numbers
// with numbers; mixing the two is a type error. Comparisons involving NaN
// are always false.
func orderOp(accept func(c int) bool) func(a, b any) (any, error) {
	return func(a, b any) (any, error) {
		as, aIsStr := a.(string)
		bs, bIsStr := b.(string)
		if aIsStr && bIsStr {
			switch {
			case as < bs:
				return accept(-1), nil
			case as > bs:
				return accept(1), nil
			default:
				return accept(0), nil
			}
		}
		fa, aok := asNumber(a)
		fb, bok := asNumber(b)
		if !aok || !bok {
			return nil, typeErrorf("cannot compare %T and %T", a, b)
		}
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return false, nil
		}
		switch {
		case fa < fb:
			return accept(-1), nil
		case fa > fb:
			return accept(1), nil
		default:
			return accept(0), nil
		}
	}
}

// equalOp builds == or !=. Values of different kinds are simply unequal;
// NaN is unequal to everything, including itself.
func equalOp(negate bool) func(a, b any) (any, error) {
	return func(a, b any) (any, error) {
		eq := valuesEqual(a, b)
		if negate {
			return !eq, nil
		}
		return eq, nil
	}
}

func valuesEqual(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	fa, aok := asNumber(a)
	fb, bok := asNumber(b)
	if !aok || !bok {
		return false
	}
	return fa == fb
}

func andOp(a, b any) (any, error) {
	return Truthy(a) && Truthy(b), nil
}

func orOp(a, b any) (any, error) {
	return Truthy(a) || Truthy(b), nil
}

func negOp(v any) (any, error) {
	f, ok := asNumber(v)
	if !ok {
		return nil, typeErrorf("cannot negate %T", v)
	}
	return -f, nil
}

func notOp(v any) (any, error) {
	return !Truthy(v), nil
}
