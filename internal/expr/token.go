// Package expr implements the row expression language: an infix tokenizer,
// shunting-yard reordering into postfix form, and a per-row stack evaluator
// used for filtering rows and generating derived columns.
package expr

import (
	"fmt"
	"math"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenString
	TokenVariable
	TokenOperator
	TokenFunction
)

// Token is one element of the (infix or postfix) token stream. Operator
// tokens carry the symbol in Text; unary minus is stored as "neg" so the
// parser never has to re-derive it from context.
type Token struct {
	Kind   TokenKind
	Text   string
	Number float64
}

// String returns a compact representation for error messages and tests.
func (t Token) String() string {
	switch t.Kind {
	case TokenNumber:
		return fmt.Sprintf("NUM(%g)", t.Number)
	case TokenString:
		return fmt.Sprintf("STR(%q)", t.Text)
	case TokenVariable:
		return fmt.Sprintf("VAR(%s)", t.Text)
	case TokenFunction:
		return fmt.Sprintf("FUNC(%s)", t.Text)
	default:
		return fmt.Sprintf("OP(%s)", t.Text)
	}
}

// binaryOp is one entry of the operator table: precedence plus the applied
// function. All binary operators are left-associative.
type binaryOp struct {
	prec  int
	apply func(a, b any) (any, error)
}

// Precedence, low to high: logical, comparisons, additive, multiplicative,
// power. Unary neg and not bind tighter than any binary operator.
var binaryOps = map[string]binaryOp{
	"|":  {0, orOp},
	"&":  {0, andOp},
	">":  {1, orderOp(func(c int) bool { return c > 0 })},
	">=": {1, orderOp(func(c int) bool { return c >= 0 })},
	"<":  {1, orderOp(func(c int) bool { return c < 0 })},
	"<=": {1, orderOp(func(c int) bool { return c <= 0 })},
	"==": {1, equalOp(false)},
	"!=": {1, equalOp(true)},
	"+":  {2, addOp},
	"-":  {2, numericOp(func(a, b float64) float64 { return a - b })},
	"*":  {3, numericOp(func(a, b float64) float64 { return a * b })},
	"/":  {3, numericOp(func(a, b float64) float64 { return a / b })},
	"^":  {4, numericOp(math.Pow)},
}

var unaryOps = map[string]func(v any) (any, error){
	"neg": negOp,
	"not": notOp,
}

var functions = map[string]func(float64) float64{
	"log":  math.Log,
	"exp":  math.Exp,
	"sqrt": math.Sqrt,
}

// keywords maps word operators onto their symbol forms.
var keywords = map[string]string{
	"and": "&",
	"or":  "|",
	"not": "not",
}
