// Package solver implements numeric routines over a real function of one
// variable. Any error returned by the function aborts the routine and is
// returned as is.
package solver

const (
	DefaultEps           = 0.000_001
	DefaultMaxIterations = 100_000
)

// Func is a real function that may fail, such as a compiled expression bound
// to its variable.
type Func func(float64) (float64, error)

func maxIterationsOrDefault(n int) int {
	if n <= 0 {
		return DefaultMaxIterations
	}
	return n
}
