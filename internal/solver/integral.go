package solver

import "math"

// Integral estimates the definite integral of f over [x1, x2]. The number of
// samples doubles each round until step*|sum-inc| < 6*eps or the sample count
// reaches maxIterations (DefaultMaxIterations if not positive).
func Integral(f Func, x1, x2, eps float64, maxIterations int) (float64, error) {
	maxIterations = maxIterationsOrDefault(maxIterations)

	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, err := f(x1)
	if err != nil {
		return 0, err
	}
	y2, err := f(x2)
	if err != nil {
		return 0, err
	}

	step := x2 - x1
	sum := 0.5 * (y1 + y2)
	inc := 0.0
	for n := 1; n < maxIterations; n <<= 1 {
		xi := x1 + step*0.5
		inc, err = f(xi)
		if err != nil {
			return 0, err
		}
		for i := 1; i < n; i++ {
			xi += step
			y, err := f(xi)
			if err != nil {
				return 0, err
			}
			inc += y
		}

		if step*math.Abs(sum-inc) < 6*eps {
			break
		}
		sum += inc
		step *= 0.5
	}
	return 0.5 * step * (sum + inc), nil
}
