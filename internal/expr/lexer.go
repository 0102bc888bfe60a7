package expr

import (
	"strconv"
	"strings"

	"github.com/tabula/tabula/internal/errors"
)

// Lexer tokenizes infix expression text.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	tokens  []Token
}

// NewLexer creates a Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize returns the full token stream for the input, or a parse error
// on an unterminated quoted literal or an unrecognized character.
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// Tokenize scans the whole input.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.ch == 0 {
			return l.tokens, nil
		}

		switch {
		case isLetter(l.ch) || l.ch == '_':
			l.readIdentifier()
		case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
			if err := l.readNumber(); err != nil {
				return nil, err
			}
		case l.ch == '\'' || l.ch == '"':
			if err := l.readString(); err != nil {
				return nil, err
			}
		default:
			if err := l.readOperator(); err != nil {
				return nil, err
			}
		}
	}
}

// readIdentifier reads a column name, keyword operator or function name.
func (l *Lexer) readIdentifier() {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	ident := l.input[start:l.pos]
	lowered := strings.ToLower(ident)

	if op, ok := keywords[lowered]; ok {
		l.emit(Token{Kind: TokenOperator, Text: op})
		return
	}
	if _, ok := functions[lowered]; ok {
		l.emit(Token{Kind: TokenFunction, Text: lowered})
		return
	}
	l.emit(Token{Kind: TokenVariable, Text: ident})
}

func (l *Lexer) readNumber() error {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return errors.Newf(errors.ErrCategoryExpr, errors.CodeParseError,
			"malformed number %q", literal)
	}
	l.emit(Token{Kind: TokenNumber, Number: f})
	return nil
}

func (l *Lexer) readString() error {
	quote := l.ch
	l.readChar()
	start := l.pos
	for l.ch != quote {
		if l.ch == 0 {
			return errors.New(errors.ErrCategoryExpr, errors.CodeParseError,
				"unterminated string literal")
		}
		l.readChar()
	}
	l.emit(Token{Kind: TokenString, Text: l.input[start:l.pos]})
	l.readChar()
	return nil
}

// readOperator reads a symbol operator or parenthesis. A minus is unary
// when it opens the expression or directly follows an operator other than
// a closing parenthesis; the decision is made here once, never re-derived
// during parsing.
func (l *Lexer) readOperator() error {
	if two := l.twoCharOp(); two != "" {
		l.emit(Token{Kind: TokenOperator, Text: two})
		l.readChar()
		l.readChar()
		return nil
	}

	ch := l.ch
	sym := string(ch)
	_, isBinary := binaryOps[sym]
	if !isBinary && ch != '(' && ch != ')' {
		return errors.Newf(errors.ErrCategoryExpr, errors.CodeParseError,
			"unexpected character %q in expression", string(ch))
	}
	if ch == '-' && l.minusIsUnary() {
		sym = "neg"
	}
	l.emit(Token{Kind: TokenOperator, Text: sym})
	l.readChar()
	return nil
}

func (l *Lexer) twoCharOp() string {
	if l.readPos >= len(l.input) {
		return ""
	}
	two := l.input[l.pos : l.pos+2]
	switch two {
	case "<=", ">=", "==", "!=":
		return two
	}
	return ""
}

func (l *Lexer) minusIsUnary() bool {
	if len(l.tokens) == 0 {
		return true
	}
	prev := l.tokens[len(l.tokens)-1]
	return prev.Kind == TokenOperator && prev.Text != ")"
}

func (l *Lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
