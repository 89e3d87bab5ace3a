package prefabs

import (
	"fmt"

	"github.com/milk9111/platformer/motion"
	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	return decodeInto(raw, zero)
}

// decodeInto unmarshals raw over base, so fields raw omits keep base's values.
func decodeInto[T any](raw any, base T) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, err
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsBodyComponentSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Static     bool    `yaml:"static"`
}

type CollisionLayerComponentSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

type AppearanceComponentSpec struct {
	Color YAMLColor `yaml:"color"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type MovementGateComponentSpec struct {
	Initial *bool `yaml:"initial"`
}

type ScriptedInputComponentSpec struct {
	Script string `yaml:"script"`
}

type JumpSpec struct {
	JumpHeight              float64 `yaml:"jump_height"`
	TimeToApex              float64 `yaml:"time_to_apex"`
	GroundGravityMultiplier float64 `yaml:"ground_gravity_multiplier"`
	JumpGravityMultiplier   float64 `yaml:"jump_gravity_multiplier"`
	FallGravityMultiplier   float64 `yaml:"fall_gravity_multiplier"`
	MaxFallSpeed            float64 `yaml:"max_fall_speed"`
	AnalogJump              bool    `yaml:"analog_jump"`
	JumpCutoffMultiplier    float64 `yaml:"jump_cutoff_multiplier"`
}

type MovementProfileSpec struct {
	MaxSpeed        float64 `yaml:"max_speed"`
	MaxAcceleration float64 `yaml:"max_acceleration"`
	MaxDeceleration float64 `yaml:"max_deceleration"`
	MaxTurnSpeed    float64 `yaml:"max_turn_speed"`
}

type MovementSpec struct {
	Walk         MovementProfileSpec `yaml:"walk"`
	Run          MovementProfileSpec `yaml:"run"`
	Air          MovementProfileSpec `yaml:"air"`
	SprintToggle bool                `yaml:"sprint_toggle"`
}

type SensorSpec struct {
	ProbeDistance float64 `yaml:"probe_distance"`
	GroundMask    uint    `yaml:"ground_mask"`
}

// LocomotionComponentSpec is the designer tuning of a character. Omitted
// fields keep the stock values.
type LocomotionComponentSpec struct {
	Jump     JumpSpec     `yaml:"jump"`
	Movement MovementSpec `yaml:"movement"`
	Sensor   SensorSpec   `yaml:"sensor"`
}

func DefaultLocomotionSpec() LocomotionComponentSpec {
	cfg := motion.DefaultConfig()
	profile := func(p motion.MovementProfile) MovementProfileSpec {
		return MovementProfileSpec(p)
	}
	return LocomotionComponentSpec{
		Jump: JumpSpec(cfg.Jump),
		Movement: MovementSpec{
			Walk:         profile(cfg.Movement.Walk),
			Run:          profile(cfg.Movement.Run),
			Air:          profile(cfg.Movement.Air),
			SprintToggle: cfg.Movement.SprintToggle,
		},
		Sensor: SensorSpec{
			ProbeDistance: cfg.Sensor.ProbeDistance,
			GroundMask:    cfg.Sensor.Filter.Mask,
		},
	}
}

func DecodeLocomotionSpec(raw any) (LocomotionComponentSpec, error) {
	return decodeInto(raw, DefaultLocomotionSpec())
}

// Config converts the spec for a world with the given gravity magnitude and
// validates it.
func (s LocomotionComponentSpec) Config(worldGravity float64) (motion.Config, error) {
	cfg := motion.Config{
		Jump: motion.JumpConfig(s.Jump),
		Movement: motion.MovementConfig{
			Walk:         motion.MovementProfile(s.Movement.Walk),
			Run:          motion.MovementProfile(s.Movement.Run),
			Air:          motion.MovementProfile(s.Movement.Air),
			SprintToggle: s.Movement.SprintToggle,
		},
		Sensor: motion.SensorConfig{
			ProbeDistance: s.Sensor.ProbeDistance,
			Filter:        motion.GroundFilter{Mask: s.Sensor.GroundMask},
		},
		WorldGravity: worldGravity,
	}
	if err := cfg.Validate(); err != nil {
		return motion.Config{}, err
	}
	return cfg, nil
}

// LoadLocomotionConfig reads the locomotion tuning out of a prefab.
func LoadLocomotionConfig(prefab string, worldGravity float64) (motion.Config, error) {
	spec, err := LoadEntityBuildSpec(prefab)
	if err != nil {
		return motion.Config{}, err
	}
	raw, ok := spec.Components["locomotion"]
	if !ok {
		return motion.Config{}, fmt.Errorf("prefabs: %s has no locomotion component", prefab)
	}
	loco, err := DecodeLocomotionSpec(raw)
	if err != nil {
		return motion.Config{}, fmt.Errorf("prefabs: decode %s locomotion: %w", prefab, err)
	}
	cfg, err := loco.Config(worldGravity)
	if err != nil {
		return motion.Config{}, fmt.Errorf("prefabs: %s: %w", prefab, err)
	}
	return cfg, nil
}
