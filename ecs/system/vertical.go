package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

// VerticalMotionSystem steps the jump state machine, writes the jump impulse
// to the body and publishes the gravity scale for the physics step.
type VerticalMotionSystem struct {
	log *zap.Logger
}

func NewVerticalMotionSystem(log *zap.Logger) *VerticalMotionSystem {
	return &VerticalMotionSystem{log: logging.Or(log).Named("vertical")}
}

func (s *VerticalMotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.VerticalMotionComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, vm *component.VerticalMotion, body *component.PhysicsBody) {
		if vm.Controller == nil || body.Body == nil {
			return
		}
		grounded := false
		if gs, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
			grounded = gs.Sensor.IsGrounded()
		}

		v := body.Body.Velocity()
		out := vm.Controller.Step(motion.VerticalInput{
			Grounded:  grounded,
			CanMove:   CanMove(w, e),
			VelocityY: v.Y,
		})
		if out.Jumped {
			body.Body.SetVelocity(v.X, out.VelocityY)
		}
		if out.Dropped {
			s.log.Debug("jump request dropped",
				zap.Stringer("entity", e),
				zap.Stringer("state", out.State),
				zap.Bool("grounded", grounded))
		}
		vm.Last = out

		gravity, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind())
		if !ok {
			gravity = &component.GravityScale{}
			if err := ecs.Add(w, e, component.GravityScaleComponent.Kind(), gravity); err != nil {
				s.log.Error("add gravity scale", zap.Stringer("entity", e), zap.Error(err))
				return
			}
		}
		gravity.Scale = out.GravityScale
		gravity.MaxFallSpeed = vm.Controller.Config().MaxFallSpeed
	})
}
