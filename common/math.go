package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MoveToward moves current toward target by at most maxDelta and never
// overshoots. A NaN target or step leaves current unchanged.
func MoveToward(current, target, maxDelta float64) float64 {
	if math.IsNaN(target) || math.IsNaN(maxDelta) {
		return current
	}
	if maxDelta < 0 {
		maxDelta = 0
	}
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Sign returns -1, 0 or +1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
