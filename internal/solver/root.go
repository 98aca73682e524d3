package solver

// Root finds a root of f between x1 and x2 with the false position method.
// found is false when the bracket has no sign change or when maxIterations
// (DefaultMaxIterations if not positive) is exhausted.
func Root(f Func, x1, x2, eps float64, maxIterations int) (root float64, found bool, err error) {
	maxIterations = maxIterationsOrDefault(maxIterations)

	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, err := f(x1)
	if err != nil {
		return 0, false, err
	}
	y2, err := f(x2)
	if err != nil {
		return 0, false, err
	}

	for i := 0; i < maxIterations; i++ {
		if y1 == 0 {
			return x1, true, nil
		}
		if y2 == 0 {
			return x2, true, nil
		}
		if x2-x1 < eps && y1*y2 < 0 {
			return x1, true, nil
		}
		if y1 == y2 {
			break
		}

		x3 := (x1*y2 - x2*y1) / (y2 - y1)
		y3, err := f(x3)
		if err != nil {
			return 0, false, err
		}

		switch {
		case y3 == 0 || y1 == y3:
			return x3, true, nil
		case y1*y3 < 0:
			x2, y2 = x3, y3
		case y2*y3 < 0:
			x1, y1 = x3, y3
		default:
			return 0, false, nil
		}
		if x1 > x2 {
			x1, x2 = x2, x1
			y1, y2 = y2, y1
		}
	}
	return 0, false, nil
}
