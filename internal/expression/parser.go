package expression

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/expression-solver/internal/types"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("EXPRESSION_SOLVER_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	source string
	debug  bool
}

// Parse rewrites an infix token sequence into postfix order.
func Parse(tokens []Token) ([]Token, error) {
	i := 0
	p := &parser{debug: parserDebugLog}
	return p.build(func() (Token, error) {
		if i == len(tokens) {
			return Token{}, io.EOF
		}
		tok := tokens[i]
		i++
		return tok, nil
	})
}

func (p *parser) parse(lex *lexer) ([]Token, error) {
	postfix, err := p.build(lex.consume)
	if err != nil {
		return nil, err
	}

	if p.debug {
		pp.Println(p.source)
		pp.Println(renderTokens(postfix))
	}
	return postfix, nil
}

// build runs the shunting-yard algorithm over the tokens produced by next.
func (p *parser) build(next func() (Token, error)) ([]Token, error) {
	var (
		opStack []Token
		postfix []Token
		prev    *Token
		callee  *Token
	)
	for {
		tok, err := next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if callee != nil {
			if tok.Kind != LParenToken {
				return nil, types.NewError(types.ExpectedParenthesisTag, callee.Text, callee.Pos)
			}
			callee = nil
		}
		if tok.Kind == SubToken || tok.Kind == UnaryMinusToken {
			tok.Kind = minusKind(prev)
		}
		if p.debug {
			log.Println("token: ", tok.String())
		}

		switch tok.Kind {
		case NumberToken, VarToken, ConstToken:
			postfix = append(postfix, tok)

		case FuncToken:
			opStack = append(opStack, tok)
			fn := tok
			callee = &fn

		case LParenToken:
			opStack = append(opStack, tok)

		case RParenToken:
			for {
				if len(opStack) == 0 {
					return nil, types.NewError(types.UnmatchedParenthesisTag, tok.Text, tok.Pos)
				}
				top := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if top.Kind == LParenToken {
					break
				}
				postfix = append(postfix, top)
			}

		default:
			for len(opStack) != 0 {
				top := opStack[len(opStack)-1]
				if top.precedence() < tok.precedence() {
					break
				}
				postfix = append(postfix, top)
				opStack = opStack[:len(opStack)-1]
			}
			opStack = append(opStack, tok)
		}

		last := tok
		prev = &last
	}

	if callee != nil {
		return nil, types.NewError(types.ExpectedParenthesisTag, callee.Text, callee.Pos)
	}
	for i := len(opStack) - 1; i >= 0; i-- {
		if op := opStack[i]; op.Kind == LParenToken {
			return nil, types.NewError(types.UnmatchedParenthesisTag, op.Text, op.Pos)
		}
		postfix = append(postfix, opStack[i])
	}
	if len(postfix) == 0 {
		return nil, types.NewError(types.EmptyExpressionTag, "", 0)
	}
	return postfix, nil
}

// minusKind classifies a `-` by the token before it: binary after an operand
// or a closing parenthesis, unary anywhere else.
func minusKind(prev *Token) TokenKind {
	if prev != nil && (prev.IsOperand() || prev.Kind == RParenToken) {
		return SubToken
	}
	return UnaryMinusToken
}

func renderTokens(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}
