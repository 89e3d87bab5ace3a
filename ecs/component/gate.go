package component

// MovementGate lets cutscenes and menus freeze a character. Initial is the
// value restored when the entity is reset.
type MovementGate struct {
	CanMove bool
	Initial bool
}

var MovementGateComponent = NewComponent[MovementGate]()
