package expr

import (
	"github.com/tabula/tabula/internal/errors"
)

// ToPostfix reorders an infix token stream into postfix form using the
// shunting-yard algorithm and the precedence table in token.go. No AST is
// built; the postfix stream is transient per evaluation.
func ToPostfix(tokens []Token) ([]Token, error) {
	var output, stack []Token

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNumber, TokenString, TokenVariable:
			output = append(output, tok)
		case TokenFunction:
			stack = append(stack, tok)
		case TokenOperator:
			switch {
			case isUnary(tok):
				stack = append(stack, tok)
			case tok.Text == "(":
				stack = append(stack, tok)
			case tok.Text == ")":
				for len(stack) > 0 && top(stack).Text != "(" {
					output = append(output, top(stack))
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 {
					return nil, errors.New(errors.ErrCategoryExpr, errors.CodeParseError,
						"mismatched parentheses")
				}
				stack = stack[:len(stack)-1]
				if len(stack) > 0 && top(stack).Kind == TokenFunction {
					output = append(output, top(stack))
					stack = stack[:len(stack)-1]
				}
			default:
				prec := binaryOps[tok.Text].prec
				for len(stack) > 0 {
					t := top(stack)
					if t.Kind == TokenOperator && isUnary(t) {
						// Unary operators bind tighter than any binary.
						output = append(output, t)
						stack = stack[:len(stack)-1]
						continue
					}
					if t.Kind == TokenOperator && t.Text != "(" && binaryOps[t.Text].prec >= prec {
						output = append(output, t)
						stack = stack[:len(stack)-1]
						continue
					}
					break
				}
				stack = append(stack, tok)
			}
		}
	}

	for len(stack) > 0 {
		t := top(stack)
		stack = stack[:len(stack)-1]
		if t.Kind == TokenOperator && (t.Text == "(" || t.Text == ")") {
			return nil, errors.New(errors.ErrCategoryExpr, errors.CodeParseError,
				"mismatched parentheses")
		}
		output = append(output, t)
	}
	return output, nil
}

// Compile tokenizes and reorders an expression in one step.
func Compile(input string) ([]Token, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return ToPostfix(tokens)
}

func isUnary(t Token) bool {
	_, ok := unaryOps[t.Text]
	return ok
}

func top(stack []Token) Token {
	return stack[len(stack)-1]
}
