package expression

import (
	"math"

	"github.com/karupanerura/expression-solver/internal/types"
)

// operand is a value on the evaluation stack together with the token that
// started it, which is what a dangling value is reported at.
type operand struct {
	value  float64
	origin *Token
}

// argument is a non-first function argument moved off the stack by a comma.
// depth is the stack size left behind, which equals the stack size the owning
// function sees when it runs, its first argument being on top.
type argument struct {
	value float64
	depth int
	comma *Token
}

// Evaluate runs a postfix sequence with an optional binding for x. It keeps
// no state between calls and never modifies postfix, so a single sequence may
// be evaluated concurrently.
func Evaluate(postfix []Token, x *float64) (float64, error) {
	stack := make([]operand, 0, len(postfix))
	var args []argument

	for i := range postfix {
		tok := &postfix[i]
		switch tok.Kind {
		case NumberToken, ConstToken:
			stack = append(stack, operand{value: tok.Value, origin: tok})

		case VarToken:
			if x == nil {
				return 0, types.NewError(types.MissingArgumentValueTag, tok.Text, tok.Pos)
			}
			stack = append(stack, operand{value: *x, origin: tok})

		case UnaryMinusToken:
			if len(stack) == 0 {
				return 0, types.NewError(types.UnmatchedOperatorTag, tok.Text, tok.Pos)
			}
			stack[len(stack)-1].value = -stack[len(stack)-1].value

		case AddToken, SubToken, MulToken, DivToken, PowToken:
			if len(stack) < 2 {
				return 0, types.NewError(types.UnmatchedOperatorTag, tok.Text, tok.Pos)
			}
			right := stack[len(stack)-1].value
			stack = stack[:len(stack)-1]
			left := &stack[len(stack)-1].value
			*left = calculate(tok.Kind, *left, right)

		case CommaToken:
			if len(stack) == 0 {
				return 0, types.NewError(types.UnmatchedOperatorTag, tok.Text, tok.Pos)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			args = append(args, argument{value: top.value, depth: len(stack), comma: tok})

		case FuncToken:
			if len(stack) == 0 || tok.Func == nil {
				return 0, types.NewError(types.WrongArgsTag, tok.Text, tok.Pos)
			}
			depth := len(stack)
			first := len(args)
			for first > 0 && args[first-1].depth == depth {
				first--
			}
			if len(args)-first+1 != tok.Func.Arity() {
				return 0, types.Errorf(types.WrongArgsTag, tok.Text, tok.Pos, "%s takes %d arguments but got %d", types.Usage(tok.Func), tok.Func.Arity(), len(args)-first+1)
			}

			callArgs := make([]float64, 0, tok.Func.Arity())
			callArgs = append(callArgs, stack[depth-1].value)
			for _, arg := range args[first:] {
				callArgs = append(callArgs, arg.value)
			}
			args = args[:first]
			stack[depth-1].value = tok.Func.Call(callArgs)

		case LParenToken, RParenToken:
			// resolved by the parser
		}
	}

	if len(args) != 0 {
		comma := args[len(args)-1].comma
		return 0, types.NewError(types.UnmatchedOperatorTag, comma.Text, comma.Pos)
	}
	switch len(stack) {
	case 0:
		return 0, types.NewError(types.EmptyExpressionTag, "", 0)
	case 1:
		return stack[0].value, nil
	default:
		dangling := stack[1].origin
		return 0, types.NewError(types.MissingOperatorTag, dangling.Text, dangling.Pos)
	}
}

func calculate(kind TokenKind, left, right float64) float64 {
	switch kind {
	case AddToken:
		return left + right
	case SubToken:
		return left - right
	case MulToken:
		return left * right
	case DivToken:
		return left / right
	case PowToken:
		return math.Pow(left, right)
	default:
		panic("should not reach here: " + kind.String())
	}
}
