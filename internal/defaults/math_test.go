package defaults_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/expression-solver/internal/defaults"
	"github.com/karupanerura/expression-solver/internal/types"
)

func TestMathArity(t *testing.T) {
	t.Parallel()

	arities := map[int][]string{
		1: {
			"abs", "acos", "acosh", "asin", "asinh", "atan", "atanh", "cbrt", "ceil", "cos", "cosh",
			"exp", "exp2", "floor", "fract", "ln", "log2", "log10", "recip", "round", "sign",
			"sin", "sinh", "sqrt", "tan", "tanh", "toDeg", "toRad", "trunc",
		},
		2: {"atan2", "hypot", "max", "min", "pow"},
		3: {"clamp", "mul_add"},
	}

	count := 0
	for arity, names := range arities {
		for _, name := range names {
			count++
			v, ok := defaults.SymbolTable.Get(name)
			if !ok {
				t.Errorf("%s is not defined", name)
				continue
			}
			f, ok := v.(types.Function)
			if !ok {
				t.Errorf("%s must be a function but got %T", name, v)
				continue
			}
			if f.Arity() != arity {
				t.Errorf("%s: expect arity %d but got %d", name, arity, f.Arity())
			}
		}
	}
	if count != len(defaults.Math) {
		t.Errorf("expect %d functions but got %d", count, len(defaults.Math))
	}
}

func TestMath(t *testing.T) {
	t.Parallel()

	call := func(name string, args ...float64) float64 {
		v, _ := defaults.SymbolTable.Get(name)
		return v.(types.Function).Call(args)
	}

	for _, tt := range []struct {
		name     string
		args     []float64
		expected float64
	}{
		{name: "fract", args: []float64{2.75}, expected: 0.75},
		{name: "fract", args: []float64{-2.75}, expected: -0.75},
		{name: "sign", args: []float64{-3}, expected: -1},
		{name: "sign", args: []float64{0}, expected: 1},
		{name: "sign", args: []float64{math.Copysign(0, -1)}, expected: -1},
		{name: "recip", args: []float64{4}, expected: 0.25},
		{name: "round", args: []float64{2.5}, expected: 3},
		{name: "round", args: []float64{-2.5}, expected: -3},
		{name: "max", args: []float64{math.NaN(), 1}, expected: 1},
		{name: "min", args: []float64{2, math.NaN()}, expected: 2},
		{name: "clamp", args: []float64{5, 0, 3}, expected: 3},
		{name: "clamp", args: []float64{-5, 0, 3}, expected: 0},
		{name: "clamp", args: []float64{1, 0, 3}, expected: 1},
		{name: "mul_add", args: []float64{2, 3, 4}, expected: 10},
		{name: "atan2", args: []float64{1, 0}, expected: math.Pi / 2},
		{name: "pow", args: []float64{2, 10}, expected: 1024},
	} {
		if got := call(tt.name, tt.args...); got != tt.expected {
			t.Errorf("%s%v: expect %v but got %v", tt.name, tt.args, tt.expected, got)
		}
	}

	for _, args := range [][]float64{{1, 3, 0}, {1, math.NaN(), 3}} {
		if got := call("clamp", args...); !math.IsNaN(got) {
			t.Errorf("clamp%v: expect NaN but got %v", args, got)
		}
	}
}

func TestSymbolTable(t *testing.T) {
	t.Parallel()

	if v, _ := defaults.SymbolTable.Get("x"); v != (types.Variable{}) {
		t.Errorf("x must be the variable: %#v", v)
	}
	for name, expected := range map[string]float64{"e": math.E, "pi": math.Pi, "eps": 0.000_001} {
		v, _ := defaults.SymbolTable.Get(name)
		if diff := cmp.Diff(types.Constant(expected), v); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("default symbol table must be read only")
		}
	}()
	defaults.SymbolTable.Set("tau", types.Constant(2*math.Pi))
}
