package motion

import "fmt"

// Body is the shared rigid body velocity. The vertical controller writes Y,
// the horizontal controller writes X.
type Body interface {
	Position() Vec2
	Velocity() Vec2
	SetVelocityX(vx float64)
	SetVelocityY(vy float64)
}

// Integrator advances the body by dt, applying gravityScale times the world
// gravity to the vertical velocity and clampY to the result before positions
// are integrated.
type Integrator interface {
	Integrate(gravityScale float64, clampY func(vy float64) float64, dt float64)
}

// Env is what the outside world provides to one tick.
type Env struct {
	Probe      GroundProbe
	Body       Body
	Integrator Integrator
	CanMove    bool
}

// TickResult summarises one Character step.
type TickResult struct {
	Grounded   bool
	Vertical   VerticalOutput
	Horizontal HorizontalOutput
}

// Character runs the sensor and both controllers in their fixed order.
type Character struct {
	Sensor     *GroundSensor
	Vertical   *VerticalController
	Horizontal *HorizontalController
	Intents    *IntentBuffer
}

func NewCharacter(cfg Config) (*Character, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sensor, err := NewGroundSensor(cfg.Sensor)
	if err != nil {
		return nil, err
	}
	vertical, err := NewVerticalController(cfg.Jump, cfg.WorldGravity)
	if err != nil {
		return nil, err
	}
	horizontal, err := NewHorizontalController(cfg.Movement)
	if err != nil {
		return nil, err
	}
	return &Character{
		Sensor:     sensor,
		Vertical:   vertical,
		Horizontal: horizontal,
		Intents:    &IntentBuffer{},
	}, nil
}

// Step runs one physics tick: intents, ground sensor, vertical controller,
// integrator, horizontal controller.
func (c *Character) Step(env Env, dt float64) TickResult {
	c.Intents.Drain().Apply(c.Vertical, c.Horizontal, env.CanMove)

	grounded := c.Sensor.Refresh(env.Probe, env.Body.Position())

	vout := c.Vertical.Step(VerticalInput{
		Grounded:  grounded,
		CanMove:   env.CanMove,
		VelocityY: env.Body.Velocity().Y,
	})
	if vout.Jumped {
		env.Body.SetVelocityY(vout.VelocityY)
	}

	if env.Integrator != nil {
		env.Integrator.Integrate(vout.GravityScale, c.Vertical.ClampFall, dt)
	}

	hout := c.Horizontal.Step(HorizontalInput{
		Grounded: grounded,
		CanMove:  env.CanMove,
		Dt:       dt,
	})
	env.Body.SetVelocityX(hout.VelocityX)

	return TickResult{Grounded: grounded, Vertical: vout, Horizontal: hout}
}

// Reconfigure applies new tuning between ticks. World gravity belongs to the
// physics world and cannot change here.
func (c *Character) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.WorldGravity != c.Vertical.WorldGravity() {
		return fmt.Errorf("%w: world_gravity cannot change at runtime (%v -> %v)", ErrInvalidConfig, c.Vertical.WorldGravity(), cfg.WorldGravity)
	}
	if err := c.Vertical.Reconfigure(cfg.Jump); err != nil {
		return err
	}
	if err := c.Horizontal.Reconfigure(cfg.Movement); err != nil {
		return err
	}
	return c.Sensor.Reconfigure(cfg.Sensor)
}
