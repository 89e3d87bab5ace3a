package system

import (
	"fmt"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/multierr"
)

// ApplyTuning reconfigures every entity built from prefab. Invalid tuning is
// rejected as a whole and leaves the running controllers untouched.
func ApplyTuning(w *ecs.World, prefab string, cfg motion.Config) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	var errs error
	applied := 0
	ecs.ForEach(w, component.TuningComponent.Kind(), func(e ecs.Entity, tuning *component.Tuning) {
		if tuning.Prefab != prefab {
			return
		}
		if err := reconfigure(w, e, cfg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entity %s: %w", e, err))
			return
		}
		tuning.Config = cfg
		applied++
	})
	return applied, errs
}

func reconfigure(w *ecs.World, e ecs.Entity, cfg motion.Config) error {
	if vm, ok := ecs.Get(w, e, component.VerticalMotionComponent.Kind()); ok && vm.Controller != nil {
		if cfg.WorldGravity != vm.Controller.WorldGravity() {
			return fmt.Errorf("%w: world_gravity cannot change at runtime", motion.ErrInvalidConfig)
		}
		if err := vm.Controller.Reconfigure(cfg.Jump); err != nil {
			return err
		}
	}
	if hm, ok := ecs.Get(w, e, component.HorizontalMotionComponent.Kind()); ok && hm.Controller != nil {
		if err := hm.Controller.Reconfigure(cfg.Movement); err != nil {
			return err
		}
	}
	if gs, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok && gs.Sensor != nil {
		if err := gs.Sensor.Reconfigure(cfg.Sensor); err != nil {
			return err
		}
	}
	return nil
}
