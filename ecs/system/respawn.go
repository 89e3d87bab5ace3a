package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

const EventRespawned = "respawned"

// killMargin is how far below the level floor a body may fall before it is
// returned to its last safe position.
const killMargin = 4.0

// RespawnSystem remembers where each character last stood and puts it back
// there after it falls out of the level. It runs after the physics step.
type RespawnSystem struct {
	physics *PhysicsSystem
	log     *zap.Logger
}

func NewRespawnSystem(physics *PhysicsSystem, log *zap.Logger) *RespawnSystem {
	return &RespawnSystem{physics: physics, log: logging.Or(log).Named("respawn")}
}

func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil || s.physics == nil {
		return
	}
	_, hasBounds := w.First(component.LevelBoundsComponent.Kind())

	ecs.ForEach2(w, component.SafeRespawnComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, safe *component.SafeRespawn, t *component.Transform) {
		if !safe.Initialized {
			safe.X, safe.Y, safe.Initialized = t.X, t.Y, true
		}

		if hasBounds && t.Y < -killMargin {
			x, y := safe.X, safe.Y
			if s.physics.Teleport(w, e, x, y) {
				w.Events().Push(ecs.Event{Type: EventRespawned, Entity: e})
				s.log.Info("respawned", zap.Stringer("entity", e), zap.Float64("x", x), zap.Float64("y", y))
			}
			return
		}

		gs, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind())
		if !ok || !gs.Sensor.IsGrounded() {
			return
		}
		if vm, ok := ecs.Get(w, e, component.VerticalMotionComponent.Kind()); ok && vm.Controller != nil && vm.Controller.State() != motion.JumpGrounded {
			return
		}
		safe.X, safe.Y = t.X, t.Y
	})
}
