package expression

import (
	"strconv"

	"github.com/karupanerura/expression-solver/internal/types"
)

type TokenKind int

const (
	NumberToken TokenKind = iota
	VarToken
	ConstToken
	AddToken
	SubToken
	MulToken
	DivToken
	PowToken
	UnaryMinusToken
	LParenToken
	RParenToken
	CommaToken
	FuncToken
)

var tokenKindNames = [...]string{
	NumberToken:     "Number",
	VarToken:        "Var",
	ConstToken:      "Const",
	AddToken:        "Add",
	SubToken:        "Sub",
	MulToken:        "Mul",
	DivToken:        "Div",
	PowToken:        "Pow",
	UnaryMinusToken: "UnaryMinus",
	LParenToken:     "LParen",
	RParenToken:     "RParen",
	CommaToken:      "Comma",
	FuncToken:       "Func",
}

func (k TokenKind) String() string {
	if 0 <= int(k) && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a lexeme of an expression. Text is a substring of the compiled
// source starting at byte offset Pos. Value is set for Number and Const, Func
// for Func.
type Token struct {
	Kind  TokenKind
	Pos   int
	Text  string
	Value float64
	Func  types.Function
}

func (t Token) BeginsPos() int {
	return t.Pos
}

func (t Token) EndsPos() int {
	return t.Pos + len(t.Text)
}

// Arity is the number of arguments a Func token takes, zero otherwise.
func (t Token) Arity() int {
	if t.Kind != FuncToken || t.Func == nil {
		return 0
	}
	return t.Func.Arity()
}

func (t Token) IsOperand() bool {
	switch t.Kind {
	case NumberToken, VarToken, ConstToken:
		return true
	default:
		return false
	}
}

func (t Token) IsBinaryOperator() bool {
	switch t.Kind {
	case AddToken, SubToken, MulToken, DivToken, PowToken:
		return true
	default:
		return false
	}
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// precedence orders operators on the parser stack, higher binds tighter.
func (t Token) precedence() int {
	switch t.Kind {
	case FuncToken:
		return 10
	case UnaryMinusToken:
		return 5
	case PowToken:
		return 4
	case MulToken, DivToken:
		return 3
	case AddToken, SubToken:
		return 2
	case RParenToken, CommaToken:
		return 1
	case LParenToken:
		return 0
	default:
		return 10
	}
}

func punctuationToken(kind TokenKind, source string, pos int) Token {
	return Token{Kind: kind, Pos: pos, Text: source[pos : pos+1]}
}
