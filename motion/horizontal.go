package motion

import (
	"fmt"
	"math"

	"github.com/milk9111/platformer/common"
)

type MovementMode int

const (
	ModeWalking MovementMode = iota
	ModeRunning
	ModeAerial
)

func (m MovementMode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeRunning:
		return "running"
	case ModeAerial:
		return "aerial"
	default:
		return fmt.Sprintf("MovementMode(%d)", int(m))
	}
}

// SelectMode picks the movement mode from the grounded flag and sprint intent.
func SelectMode(grounded, sprint bool) MovementMode {
	if !grounded {
		return ModeAerial
	}
	if sprint {
		return ModeRunning
	}
	return ModeWalking
}

// Profile returns the profile for a mode.
func (c MovementConfig) Profile(m MovementMode) MovementProfile {
	switch m {
	case ModeRunning:
		return c.Run
	case ModeAerial:
		return c.Air
	default:
		return c.Walk
	}
}

type HorizontalInput struct {
	Grounded bool
	CanMove  bool
	Dt       float64
}

type HorizontalOutput struct {
	Mode             MovementMode
	VelocityX        float64
	DesiredVelocityX float64
	Rate             float64
	Facing           float64
}

// HorizontalController ramps horizontal velocity toward the input target.
type HorizontalController struct {
	cfg MovementConfig

	mode      MovementMode
	axis      float64
	sprint    bool
	velocityX float64
	facing    float64

	modeListeners []ModeListener
}

func NewHorizontalController(cfg MovementConfig) (*HorizontalController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HorizontalController{cfg: cfg, mode: ModeWalking, facing: 1}, nil
}

func (c *HorizontalController) OnModeChange(fn ModeListener) {
	if fn != nil {
		c.modeListeners = append(c.modeListeners, fn)
	}
}

// SetMoveAxis stores the latest stick value in [-1, 1]. A non-finite axis
// reads as no input. While movement is gated the axis and the velocity are
// zeroed immediately.
func (c *HorizontalController) SetMoveAxis(axis float64, canMove bool) {
	if math.IsNaN(axis) || math.IsInf(axis, 0) {
		axis = 0
	}
	if !canMove {
		c.axis = 0
		c.velocityX = 0
		return
	}
	c.axis = common.Clamp(axis, -1, 1)
}

func (c *HorizontalController) SprintStart(canMove bool) {
	if !canMove {
		return
	}
	if c.cfg.SprintToggle {
		c.sprint = !c.sprint
		return
	}
	c.sprint = true
}

func (c *HorizontalController) SprintEnd(canMove bool) {
	if !canMove || c.cfg.SprintToggle {
		return
	}
	c.sprint = false
}

func (c *HorizontalController) Step(in HorizontalInput) HorizontalOutput {
	c.setMode(SelectMode(in.Grounded, c.sprint))

	if !in.CanMove {
		c.axis = 0
		c.velocityX = 0
		return HorizontalOutput{Mode: c.mode, Facing: c.facing}
	}

	if c.axis != 0 {
		c.facing = common.Sign(c.axis)
	}

	profile := c.cfg.Profile(c.mode)
	desired := c.axis * profile.MaxSpeed
	rate := c.rate(profile)
	dt := in.Dt
	if dt < 0 {
		dt = 0
	}
	c.velocityX = common.MoveToward(c.velocityX, desired, rate*dt)

	return HorizontalOutput{
		Mode:             c.mode,
		VelocityX:        c.velocityX,
		DesiredVelocityX: desired,
		Rate:             rate,
		Facing:           c.facing,
	}
}

// rate picks the turn rate while velocity points against facing, the
// acceleration while there is input and the deceleration otherwise. A zero
// velocity has no direction and never counts as a pivot.
func (c *HorizontalController) rate(p MovementProfile) float64 {
	if v := common.Sign(c.velocityX); v != 0 && v != c.facing {
		return p.MaxTurnSpeed
	}
	if c.axis != 0 {
		return p.MaxAcceleration
	}
	return p.MaxDeceleration
}

func (c *HorizontalController) setMode(next MovementMode) {
	if c.mode == next {
		return
	}
	change := ModeChange{From: c.mode, To: next}
	c.mode = next
	for _, fn := range c.modeListeners {
		fn(change)
	}
}

func (c *HorizontalController) Mode() MovementMode { return c.mode }
func (c *HorizontalController) VelocityX() float64 { return c.velocityX }
func (c *HorizontalController) Facing() float64 { return c.facing }
func (c *HorizontalController) MoveAxis() float64 { return c.axis }
func (c *HorizontalController) Sprinting() bool { return c.sprint }
func (c *HorizontalController) Config() MovementConfig { return c.cfg }

func (c *HorizontalController) Reconfigure(cfg MovementConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}
