package component

// Transform is a world-space pose in simulation units with +Y up. ScaleX
// carries the facing sign for sprite flipping.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
