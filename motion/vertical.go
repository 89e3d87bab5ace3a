package motion

import "fmt"

type JumpState int

const (
	JumpGrounded JumpState = iota
	JumpJumping
	JumpFalling
)

func (s JumpState) String() string {
	switch s {
	case JumpGrounded:
		return "grounded"
	case JumpJumping:
		return "jumping"
	case JumpFalling:
		return "falling"
	default:
		return fmt.Sprintf("JumpState(%d)", int(s))
	}
}

// VerticalInput is everything the vertical controller reads in one tick.
type VerticalInput struct {
	Grounded  bool
	CanMove   bool
	VelocityY float64
}

// VerticalOutput is the result of one vertical step.
type VerticalOutput struct {
	State        JumpState
	GravityScale float64
	// VelocityY equals the input velocity unless Jumped is set.
	VelocityY float64
	Jumped    bool
	// Dropped is set when a jump request was discarded this tick.
	Dropped bool
}

// VerticalController owns the jump state machine and the gravity scale.
type VerticalController struct {
	cfg          JumpConfig
	worldGravity float64

	state        JumpState
	desiredJump  bool
	jumpHeld     bool
	gravityScale float64

	transitionListeners []TransitionListener
	jumpListeners       []JumpListener
}

func NewVerticalController(cfg JumpConfig, worldGravity float64) (*VerticalController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateWorldGravity(worldGravity); err != nil {
		return nil, err
	}
	c := &VerticalController{cfg: cfg, worldGravity: worldGravity, state: JumpGrounded}
	c.gravityScale = c.scaleFor(JumpGrounded)
	return c, nil
}

func (c *VerticalController) OnTransition(fn TransitionListener) {
	if fn != nil {
		c.transitionListeners = append(c.transitionListeners, fn)
	}
}

func (c *VerticalController) OnJump(fn JumpListener) {
	if fn != nil {
		c.jumpListeners = append(c.jumpListeners, fn)
	}
}

// JumpPressed latches a jump request and marks the button held.
func (c *VerticalController) JumpPressed(canMove bool) {
	if !canMove {
		return
	}
	c.desiredJump = true
	c.jumpHeld = true
}

func (c *VerticalController) JumpReleased(canMove bool) {
	if !canMove {
		return
	}
	c.jumpHeld = false
}

// Step advances the state machine by one tick. A pending jump is consumed
// whether or not it fires: requests made while airborne are dropped, never
// buffered until landing.
func (c *VerticalController) Step(in VerticalInput) VerticalOutput {
	out := VerticalOutput{VelocityY: in.VelocityY}

	if !in.CanMove && c.desiredJump {
		c.desiredJump = false
		out.Dropped = true
	}

	if c.desiredJump {
		c.desiredJump = false
		if c.state == JumpGrounded && in.Grounded {
			c.setState(JumpJumping)
			out.VelocityY = c.InitialJumpVelocity()
			out.Jumped = true
			for _, fn := range c.jumpListeners {
				fn(JumpEvent{Velocity: out.VelocityY})
			}
		} else {
			out.Dropped = true
		}
	}

	switch c.state {
	case JumpJumping:
		if out.VelocityY < 0 {
			c.setState(JumpFalling)
		}
	case JumpFalling:
		if in.Grounded {
			c.setState(JumpGrounded)
		}
	}

	c.gravityScale = c.scaleFor(c.state)
	out.State = c.state
	out.GravityScale = c.gravityScale
	return out
}

// ClampFall applies the terminal velocity rule to a post-integration velocity.
func (c *VerticalController) ClampFall(vy float64) float64 {
	return ClampFallSpeed(vy, c.cfg.MaxFallSpeed)
}

func (c *VerticalController) GravityConstant() float64 {
	return GravityConstant(c.cfg.JumpHeight, c.cfg.TimeToApex)
}

func (c *VerticalController) InitialJumpVelocity() float64 {
	return InitialJumpVelocity(c.cfg.JumpHeight, c.cfg.TimeToApex)
}

func (c *VerticalController) State() JumpState { return c.state }
func (c *VerticalController) GravityScale() float64 { return c.gravityScale }
func (c *VerticalController) DesiredJump() bool { return c.desiredJump }
func (c *VerticalController) JumpHeld() bool { return c.jumpHeld }
func (c *VerticalController) Config() JumpConfig { return c.cfg }
func (c *VerticalController) WorldGravity() float64 { return c.worldGravity }

// Reconfigure replaces the tuning between ticks. The jump state is kept.
func (c *VerticalController) Reconfigure(cfg JumpConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.gravityScale = c.scaleFor(c.state)
	return nil
}

// scaleFor returns the dimensionless multiplier of world gravity for a state.
func (c *VerticalController) scaleFor(state JumpState) float64 {
	g := c.GravityConstant()
	switch state {
	case JumpJumping:
		g *= c.cfg.JumpGravityMultiplier
		if c.cfg.AnalogJump && !c.jumpHeld {
			g *= c.cfg.JumpCutoffMultiplier
		}
	case JumpFalling:
		g *= c.cfg.FallGravityMultiplier
	default:
		g *= c.cfg.GroundGravityMultiplier
	}
	return g / c.worldGravity
}

func (c *VerticalController) setState(next JumpState) {
	if c.state == next {
		return
	}
	t := Transition{From: c.state, To: next}
	c.state = next
	for _, fn := range c.transitionListeners {
		fn(t)
	}
}
