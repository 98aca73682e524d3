package expression

import (
	"github.com/karupanerura/expression-solver/internal/defaults"
	"github.com/karupanerura/expression-solver/internal/types"
)

// Expr is a compiled expression. It is immutable and may be evaluated any
// number of times, concurrently, for different values of x.
type Expr struct {
	Source  string
	postfix []Token
}

// Compile compiles source against the default symbol table.
func Compile(source string) (*Expr, error) {
	return CompileWithSymbolTable(source, defaults.SymbolTable)
}

// CompileWithDebugOutput is Compile with the parser trace forced on.
func CompileWithDebugOutput(source string) (*Expr, error) {
	return compile(source, defaults.SymbolTable, true)
}

func CompileWithSymbolTable(source string, symbols *types.SymbolTable) (*Expr, error) {
	return compile(source, symbols, parserDebugLog)
}

func compile(source string, symbols *types.SymbolTable, debug bool) (*Expr, error) {
	p := &parser{source: source, debug: debug}
	postfix, err := p.parse(newLexer(source, symbols))
	if err != nil {
		return nil, withSource(err, source)
	}

	return &Expr{
		Source:  source,
		postfix: postfix,
	}, nil
}

// Postfix returns a copy of the compiled token sequence.
func (e *Expr) Postfix() []Token {
	return append([]Token(nil), e.postfix...)
}

// Eval evaluates e. x may be nil when e does not refer to the variable.
func (e *Expr) Eval(x *float64) (float64, error) {
	v, err := Evaluate(e.postfix, x)
	if err != nil {
		return 0, withSource(err, e.Source)
	}
	return v, nil
}

func (e *Expr) EvalX(x float64) (float64, error) {
	return e.Eval(&x)
}

// Func binds e to its variable, for numeric routines over a real function.
func (e *Expr) Func() func(float64) (float64, error) {
	return e.EvalX
}

func (e *Expr) String() string {
	return e.Source
}

// EvalString compiles and evaluates source without a binding for x.
func EvalString(source string) (float64, error) {
	e, err := Compile(source)
	if err != nil {
		return 0, err
	}
	return e.Eval(nil)
}
