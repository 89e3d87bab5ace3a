package component

// GravityScale scales world gravity for a dynamic physics body.
// 1.0 = normal gravity, 0.0 = no gravity.
type GravityScale struct {
	Scale float64
	// MaxFallSpeed bounds downward speed after integration. Zero disables it.
	MaxFallSpeed float64
}

var GravityScaleComponent = NewComponent[GravityScale]()
