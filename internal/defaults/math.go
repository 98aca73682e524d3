package defaults

import (
	"math"

	"github.com/karupanerura/expression-solver/internal/types"
)

var Math = aggregateFunctionsToMap(
	unary("abs", math.Abs),
	unary("acos", math.Acos),
	unary("acosh", math.Acosh),
	unary("asin", math.Asin),
	unary("asinh", math.Asinh),
	unary("atan", math.Atan),
	unary("atanh", math.Atanh),
	unary("cbrt", math.Cbrt),
	unary("ceil", math.Ceil),
	unary("cos", math.Cos),
	unary("cosh", math.Cosh),
	unary("exp", math.Exp),
	unary("exp2", math.Exp2),
	unary("floor", math.Floor),
	unary("fract", fract),
	unary("ln", math.Log),
	unary("log2", math.Log2),
	unary("log10", math.Log10),
	unary("recip", func(x float64) float64 { return 1 / x }),
	unary("round", math.Round),
	unary("sign", sign),
	unary("sin", math.Sin),
	unary("sinh", math.Sinh),
	unary("sqrt", math.Sqrt),
	unary("tan", math.Tan),
	unary("tanh", math.Tanh),
	unary("toDeg", func(x float64) float64 { return x * (180 / math.Pi) }),
	unary("toRad", func(x float64) float64 { return x * (math.Pi / 180) }),
	unary("trunc", math.Trunc),

	types.MustNewFunction("atan2", []types.Argument{
		{Name: "y"},
		{Name: "x"},
	}, math.Atan2),
	types.MustNewFunction("hypot", argXY, math.Hypot),
	types.MustNewFunction("max", argXY, maxNum),
	types.MustNewFunction("min", argXY, minNum),
	types.MustNewFunction("pow", []types.Argument{
		{Name: "x"},
		{Name: "y"},
	}, math.Pow),

	types.MustNewFunction("clamp", []types.Argument{
		{Name: "x"},
		{Name: "min"},
		{Name: "max"},
	}, clamp),
	types.MustNewFunction("mul_add", []types.Argument{
		{Name: "x"},
		{Name: "a"},
		{Name: "b"},
	}, math.FMA),
)

func fract(x float64) float64 {
	return x - math.Trunc(x)
}

// sign follows the sign bit, so sign(-0) is -1.
func sign(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Copysign(1, x)
}

// maxNum and minNum ignore a single NaN operand, unlike math.Max and math.Min.
func maxNum(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	}
	return math.Max(x, y)
}

func minNum(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	}
	return math.Min(x, y)
}

func clamp(x, lo, hi float64) float64 {
	if lo > hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return math.NaN()
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
