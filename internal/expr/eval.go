package expr

import (
	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

// EvalRow evaluates a postfix stream against one row of a dataset using an
// explicit value stack. Variable tokens resolve through the dataset's
// column accessor; logical & and | always evaluate both operands (no
// short-circuiting). The stream is invalid unless it leaves exactly one
// value on the stack.
func EvalRow(ds *dataset.Dataset, row int, postfix []Token) (any, error) {
	var stack []any

	push := func(v any) { stack = append(stack, v) }
	pop := func() (any, error) {
		if len(stack) == 0 {
			return nil, errors.New(errors.ErrCategoryExpr, errors.CodeInvalidExpression,
				"operator with missing operand")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, tok := range postfix {
		switch tok.Kind {
		case TokenNumber:
			push(tok.Number)
		case TokenString:
			push(tok.Text)
		case TokenVariable:
			v, err := ds.Value(tok.Text, row)
			if err != nil {
				return nil, err
			}
			push(v)
		case TokenFunction:
			arg, err := pop()
			if err != nil {
				return nil, err
			}
			f, err := types.AsFloat(arg)
			if err != nil {
				return nil, err
			}
			push(functions[tok.Text](f))
		case TokenOperator:
			if apply, ok := unaryOps[tok.Text]; ok {
				a, err := pop()
				if err != nil {
					return nil, err
				}
				v, err := apply(a)
				if err != nil {
					return nil, err
				}
				push(v)
				continue
			}
			op, ok := binaryOps[tok.Text]
			if !ok {
				return nil, errors.Newf(errors.ErrCategoryExpr, errors.CodeInvalidExpression,
					"unsupported token %s", tok)
			}
			b, err := pop()
			if err != nil {
				return nil, err
			}
			a, err := pop()
			if err != nil {
				return nil, err
			}
			v, err := op.apply(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		}
	}

	if len(stack) != 1 {
		return nil, errors.Newf(errors.ErrCategoryExpr, errors.CodeInvalidExpression,
			"expression left %d values on the stack", len(stack))
	}
	return stack[0], nil
}

// FilterRows returns the indices of rows for which the expression is
// truthy, in ascending order.
func FilterRows(ds *dataset.Dataset, input string) ([]int, error) {
	postfix, err := Compile(input)
	if err != nil {
		return nil, err
	}
	var matched []int
	for row := 0; row < ds.RowCount(); row++ {
		v, err := EvalRow(ds, row, postfix)
		if err != nil {
			return nil, err
		}
		if Truthy(v) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// ComputeColumn evaluates the expression once per row, in row order.
func ComputeColumn(ds *dataset.Dataset, input string) ([]any, error) {
	postfix, err := Compile(input)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, ds.RowCount())
	for row := 0; row < ds.RowCount(); row++ {
		v, err := EvalRow(ds, row, postfix)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
