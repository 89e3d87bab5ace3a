package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
)

// HorizontalMotionSystem runs after the physics step and sets the body's
// horizontal velocity for the next one.
type HorizontalMotionSystem struct {
	dt float64
}

func NewHorizontalMotionSystem(dt float64) *HorizontalMotionSystem {
	return &HorizontalMotionSystem{dt: dt}
}

func (s *HorizontalMotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.HorizontalMotionComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, hm *component.HorizontalMotion, body *component.PhysicsBody) {
		if hm.Controller == nil || body.Body == nil {
			return
		}
		grounded := false
		if gs, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
			grounded = gs.Sensor.IsGrounded()
		}

		out := hm.Controller.Step(motion.HorizontalInput{
			Grounded: grounded,
			CanMove:  CanMove(w, e),
			Dt:       s.dt,
		})
		v := body.Body.Velocity()
		body.Body.SetVelocity(out.VelocityX, v.Y)
		hm.Last = out

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.ScaleX = out.Facing
		}
	})
}
