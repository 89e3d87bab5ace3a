package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/prefabs"
)

// DefaultGravity is the world gravity magnitude prefabs are built for when
// the caller does not say otherwise.
const DefaultGravity = 9.81

type buildContext struct {
	PrefabPath string
	Gravity    float64
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":       addPlayerTag,
	"ground_tag":       addGroundTag,
	"transform":        addTransform,
	"physics_body":     addPhysicsBody,
	"collision_layer":  addCollisionLayer,
	"appearance":       addAppearance,
	"render_layer":     addRenderLayer,
	"input":            addInput,
	"scripted_input":   addScriptedInput,
	"movement_gate":    addMovementGate,
	"locomotion":       addLocomotion,
	"animation_params": addAnimationParams,
	"safe_respawn":     addSafeRespawn,
}

var componentBuildOrder = []string{
	"player_tag",
	"ground_tag",
	"transform",
	"physics_body",
	"collision_layer",
	"appearance",
	"render_layer",
	"input",
	"scripted_input",
	"movement_gate",
	"locomotion",
	"animation_params",
	"safe_respawn",
}

// BuildEntity creates an entity from a prefab for the default world gravity.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return BuildEntityWithGravity(w, prefabPath, DefaultGravity)
}

// BuildEntityWithGravity creates an entity from a prefab. On error nothing is
// left in the world.
func BuildEntityWithGravity(w *ecs.World, prefabPath string, gravity float64) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Gravity: gravity}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	build := func(name string, raw any) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		return nil
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := build(name, raw); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
		delete(remaining, name)
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := build(name, remaining[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addGroundTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("physics_body: width and height must be positive, got %vx%v", spec.Width, spec.Height)
	}
	if !spec.Static && spec.Mass <= 0 {
		spec.Mass = 1
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:      spec.Width,
		Height:     spec.Height,
		Radius:     spec.Radius,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Static:     spec.Static,
	})
}

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollisionLayerComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: spec.Category,
		Mask:     spec.Mask,
	})
}

func addAppearance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AppearanceComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: spec.Color.RGBA})
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Buffer: &motion.IntentBuffer{}})
}

func addScriptedInput(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptedInputComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Script == "" {
		return fmt.Errorf("scripted_input: script is required")
	}
	if !ecs.Has(w, e, component.InputComponent.Kind()) {
		if err := addInput(w, e, nil, nil); err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.ScriptedInputComponent.Kind(), &component.ScriptedInput{Script: spec.Script})
}

func addMovementGate(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MovementGateComponentSpec](raw)
	if err != nil {
		return err
	}
	initial := true
	if spec.Initial != nil {
		initial = *spec.Initial
	}
	return ecs.Add(w, e, component.MovementGateComponent.Kind(), &component.MovementGate{CanMove: initial, Initial: initial})
}

// addLocomotion wires the ground sensor and both motion controllers from one
// validated configuration.
func addLocomotion(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeLocomotionSpec(raw)
	if err != nil {
		return err
	}
	cfg, err := spec.Config(ctx.Gravity)
	if err != nil {
		return err
	}

	sensor, err := motion.NewGroundSensor(cfg.Sensor)
	if err != nil {
		return err
	}
	vertical, err := motion.NewVerticalController(cfg.Jump, cfg.WorldGravity)
	if err != nil {
		return err
	}
	horizontal, err := motion.NewHorizontalController(cfg.Movement)
	if err != nil {
		return err
	}

	if err := ecs.Add(w, e, component.GroundSensorComponent.Kind(), &component.GroundSensor{Sensor: sensor}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.VerticalMotionComponent.Kind(), &component.VerticalMotion{Controller: vertical}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.HorizontalMotionComponent.Kind(), &component.HorizontalMotion{Controller: horizontal}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.GravityScaleComponent.Kind(), &component.GravityScale{
		Scale:        vertical.GravityScale(),
		MaxFallSpeed: cfg.Jump.MaxFallSpeed,
	}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.TuningComponent.Kind(), &component.Tuning{Prefab: ctx.PrefabPath, Config: cfg})
}

func addAnimationParams(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AnimationParamsComponent.Kind(), &component.AnimationParams{IsGrounded: true, Facing: 1})
}

func addSafeRespawn(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{})
}
