package motion

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// minTimeToApex guards the gravity constant against near-zero apex times.
const minTimeToApex = 1e-3

// JumpConfig is the designer tuning of the vertical controller.
type JumpConfig struct {
	JumpHeight              float64
	TimeToApex              float64
	GroundGravityMultiplier float64
	JumpGravityMultiplier   float64
	FallGravityMultiplier   float64
	MaxFallSpeed            float64
	AnalogJump              bool
	JumpCutoffMultiplier    float64
}

// MovementProfile bounds horizontal motion for one movement mode.
type MovementProfile struct {
	MaxSpeed        float64
	MaxAcceleration float64
	MaxDeceleration float64
	MaxTurnSpeed    float64
}

// MovementConfig holds one profile per mode and the sprint input style.
type MovementConfig struct {
	Walk         MovementProfile
	Run          MovementProfile
	Air          MovementProfile
	SprintToggle bool
}

// SensorConfig configures the ground probe.
type SensorConfig struct {
	ProbeDistance float64
	Filter        GroundFilter
}

// Config is the complete tuning surface of a character.
type Config struct {
	Jump     JumpConfig
	Movement MovementConfig
	Sensor   SensorConfig
	// WorldGravity is the magnitude of the world's downward acceleration.
	WorldGravity float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Jump: JumpConfig{
			JumpHeight:              3,
			TimeToApex:              0.5,
			GroundGravityMultiplier: 1,
			JumpGravityMultiplier:   0.95,
			FallGravityMultiplier:   1.75,
			MaxFallSpeed:            12,
			AnalogJump:              false,
			JumpCutoffMultiplier:    1.75,
		},
		Movement: MovementConfig{
			Walk: MovementProfile{MaxSpeed: 10, MaxAcceleration: 40, MaxDeceleration: 40, MaxTurnSpeed: 60},
			Run:  MovementProfile{MaxSpeed: 15, MaxAcceleration: 60, MaxDeceleration: 60, MaxTurnSpeed: 40},
			Air:  MovementProfile{MaxSpeed: 8, MaxAcceleration: 20, MaxDeceleration: 20, MaxTurnSpeed: 40},
		},
		Sensor: SensorConfig{
			ProbeDistance: 0.05,
			Filter:        GroundFilter{Mask: DefaultGroundCategory},
		},
		WorldGravity: 9.81,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	err := c.Jump.Validate()
	err = multierr.Append(err, c.Movement.Validate())
	err = multierr.Append(err, c.Sensor.Validate())
	err = multierr.Append(err, validateWorldGravity(c.WorldGravity))
	return err
}

func (c JumpConfig) Validate() error {
	var err error
	if !finite(c.TimeToApex) || c.TimeToApex < minTimeToApex {
		err = multierr.Append(err, invalid("time_to_apex", c.TimeToApex, "must be finite and at least %v", minTimeToApex))
	}
	if !finite(c.JumpHeight) || c.JumpHeight <= 0 {
		err = multierr.Append(err, invalid("jump_height", c.JumpHeight, "must be finite and positive"))
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"ground_gravity_multiplier", c.GroundGravityMultiplier},
		{"jump_gravity_multiplier", c.JumpGravityMultiplier},
		{"fall_gravity_multiplier", c.FallGravityMultiplier},
		{"jump_cutoff_multiplier", c.JumpCutoffMultiplier},
		{"max_fall_speed", c.MaxFallSpeed},
	} {
		if !finite(f.value) || f.value < 0 {
			err = multierr.Append(err, invalid(f.name, f.value, "must be finite and non-negative"))
		}
	}
	return err
}

func (c MovementConfig) Validate() error {
	var err error
	err = multierr.Append(err, c.Walk.validate("walk"))
	err = multierr.Append(err, c.Run.validate("run"))
	err = multierr.Append(err, c.Air.validate("air"))
	return err
}

func (p MovementProfile) validate(mode string) error {
	var err error
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max_speed", p.MaxSpeed},
		{"max_acceleration", p.MaxAcceleration},
		{"max_deceleration", p.MaxDeceleration},
		{"max_turn_speed", p.MaxTurnSpeed},
	} {
		if !finite(f.value) || f.value < 0 {
			err = multierr.Append(err, invalid(mode+"."+f.name, f.value, "must be finite and non-negative"))
		}
	}
	return err
}

func (c SensorConfig) Validate() error {
	if !finite(c.ProbeDistance) || c.ProbeDistance <= 0 {
		return invalid("probe_distance", c.ProbeDistance, "must be finite and positive")
	}
	return nil
}

func validateWorldGravity(g float64) error {
	if !finite(g) || g <= 0 {
		return invalid("world_gravity", g, "must be finite and positive")
	}
	return nil
}

func invalid(field string, value float64, format string, args ...any) error {
	return fmt.Errorf("%w: %s=%v %s", ErrInvalidConfig, field, value, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
