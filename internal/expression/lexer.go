package expression

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/karupanerura/expression-solver/internal/types"
)

// lexer scans the source on demand. It is consumed once; scanning again
// requires a new lexer.
type lexer struct {
	source  string
	index   int
	symbols *types.SymbolTable
}

func newLexer(source string, symbols *types.SymbolTable) *lexer {
	return &lexer{
		source:  source,
		index:   0,
		symbols: symbols,
	}
}

// consume returns the next token, or io.EOF once the source is exhausted.
// A failed token is skipped so that scanning can continue after an error.
func (l *lexer) consume() (Token, error) {
	for l.index != len(l.source) && isSpace(l.source[l.index]) {
		l.index++ // just skip white spaces
	}
	if l.index == len(l.source) {
		return Token{}, io.EOF
	}

	switch c := l.source[l.index]; {
	case c == '+':
		return l.punctuation(AddToken), nil
	case c == '-':
		// binary subtraction is decided by the parser
		return l.punctuation(UnaryMinusToken), nil
	case c == '*':
		return l.punctuation(MulToken), nil
	case c == '/':
		return l.punctuation(DivToken), nil
	case c == '^':
		return l.punctuation(PowToken), nil
	case c == '(':
		return l.punctuation(LParenToken), nil
	case c == ')':
		return l.punctuation(RParenToken), nil
	case c == ',':
		return l.punctuation(CommaToken), nil
	case isDigit(c) || c == '.':
		return l.number()
	case isIdentStart(c):
		return l.ident()
	default:
		pos := l.index
		l.index++
		return Token{}, types.NewError(types.UnknownSymbolTag, l.source[pos:l.index], pos)
	}
}

func (l *lexer) punctuation(kind TokenKind) Token {
	tok := punctuationToken(kind, l.source, l.index)
	l.index++
	return tok
}

func (l *lexer) number() (Token, error) {
	pos := l.index
	for l.index != len(l.source) && (isDigit(l.source[l.index]) || l.source[l.index] == '.') {
		l.index++
	}

	text := l.source[pos:l.index]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{}, types.WrapError(types.WrongNumberTag, text, pos, err)
	}
	return Token{Kind: NumberToken, Pos: pos, Text: text, Value: value}, nil
}

func (l *lexer) ident() (Token, error) {
	pos := l.index
	for l.index != len(l.source) && isIdentPart(l.source[l.index]) {
		l.index++
	}

	text := l.source[pos:l.index]
	sym, ok := l.symbols.Get(text)
	if !ok {
		return Token{}, types.NewError(types.UnknownIdentTag, text, pos)
	}

	switch v := sym.(type) {
	case types.Variable:
		return Token{Kind: VarToken, Pos: pos, Text: text}, nil
	case types.Constant:
		return Token{Kind: ConstToken, Pos: pos, Text: text, Value: float64(v)}, nil
	case types.Function:
		return Token{Kind: FuncToken, Pos: pos, Text: text, Func: v}, nil
	default:
		return Token{}, types.Errorf(types.UnknownIdentTag, text, pos, "unsupported symbol type %T", v)
	}
}

// Tokenize drains a lexer over source. It stops at the first error.
func Tokenize(source string, symbols *types.SymbolTable) ([]Token, error) {
	lex := newLexer(source, symbols)
	var tokens []Token
	for {
		tok, err := lex.consume()
		if err == io.EOF {
			return tokens, nil
		} else if err != nil {
			return nil, withSource(err, source)
		}
		tokens = append(tokens, tok)
	}
}

func withSource(err error, source string) error {
	if e, ok := err.(*types.Error); ok {
		return e.WithSource(source)
	}
	return fmt.Errorf("expr=%q: %w", source, err)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
