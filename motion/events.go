package motion

// Transition is emitted when the jump state changes.
type Transition struct {
	From JumpState
	To   JumpState
}

// JumpEvent is emitted on the tick a jump impulse is applied.
type JumpEvent struct {
	Velocity float64
}

// ModeChange is emitted when the horizontal movement mode changes.
type ModeChange struct {
	From MovementMode
	To   MovementMode
}

type TransitionListener func(Transition)

type JumpListener func(JumpEvent)

type ModeListener func(ModeChange)
