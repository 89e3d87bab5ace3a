package motion

// Vec2 is a 2D vector in world units with Y pointing up.
type Vec2 struct {
	X float64
	Y float64
}

// Down is the probe direction used by the ground sensor.
var Down = Vec2{X: 0, Y: -1}
