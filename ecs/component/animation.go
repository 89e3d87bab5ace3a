package component

import "github.com/milk9111/platformer/motion"

// AnimationParams mirrors the motion state for an animator. JumpTrigger is
// set for exactly one tick per jump.
type AnimationParams struct {
	IsJumping   bool
	IsFalling   bool
	IsGrounded  bool
	VelocityY   float64
	JumpTrigger bool
	Mode        motion.MovementMode
	Facing      float64
}

var AnimationParamsComponent = NewComponent[AnimationParams]()
