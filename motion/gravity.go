package motion

import "math"

// GravityConstant is the acceleration that reaches height h exactly at time t
// (h = g*t*t/2).
func GravityConstant(h, t float64) float64 {
	return (2 * h) / (t * t)
}

// InitialJumpVelocity is the launch speed that decays to zero at the apex.
func InitialJumpVelocity(h, t float64) float64 {
	return GravityConstant(h, t) * t
}

// ClampFallSpeed bounds downward speed only.
func ClampFallSpeed(vy, maxFallSpeed float64) float64 {
	return math.Max(vy, -maxFallSpeed)
}
