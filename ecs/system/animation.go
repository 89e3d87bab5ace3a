package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

const (
	EventJumped      = "jumped"
	EventStateChange = "jump_state"
	EventModeChange  = "movement_mode"
)

// AnimationSystem subscribes to each character's controllers and mirrors
// their notifications into AnimationParams and world events. It runs last.
type AnimationSystem struct {
	bound map[ecs.Entity]*animationBinding
	log   *zap.Logger
}

type animationBinding struct {
	vertical   *motion.VerticalController
	horizontal *motion.HorizontalController
	state      motion.JumpState
	jumped     bool
	pending    []ecs.Event
}

func NewAnimationSystem(log *zap.Logger) *AnimationSystem {
	return &AnimationSystem{bound: make(map[ecs.Entity]*animationBinding), log: logging.Or(log).Named("animation")}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for e := range s.bound {
		if !w.IsAlive(e) {
			delete(s.bound, e)
		}
	}

	ecs.ForEach2(w, component.AnimationParamsComponent.Kind(), component.VerticalMotionComponent.Kind(), func(e ecs.Entity, params *component.AnimationParams, vm *component.VerticalMotion) {
		if vm.Controller == nil {
			return
		}
		var h *motion.HorizontalController
		if hm, ok := ecs.Get(w, e, component.HorizontalMotionComponent.Kind()); ok {
			h = hm.Controller
		}
		b := s.bind(e, vm.Controller, h)

		for _, evt := range b.pending {
			w.Events().Push(evt)
		}
		b.pending = b.pending[:0]

		params.JumpTrigger = b.jumped
		b.jumped = false
		params.IsJumping = b.state == motion.JumpJumping
		params.IsFalling = b.state == motion.JumpFalling
		if gs, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
			params.IsGrounded = gs.Sensor.IsGrounded()
		}
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			params.VelocityY = body.Body.Velocity().Y
		}
		if h != nil {
			params.Mode = h.Mode()
			params.Facing = h.Facing()
		}
	})
}

// bind attaches listeners the first time an entity's controllers are seen,
// and again if they were replaced.
func (s *AnimationSystem) bind(e ecs.Entity, v *motion.VerticalController, h *motion.HorizontalController) *animationBinding {
	b := s.bound[e]
	if b != nil && b.vertical == v && b.horizontal == h {
		return b
	}
	b = &animationBinding{vertical: v, horizontal: h, state: v.State()}
	s.bound[e] = b

	v.OnTransition(func(t motion.Transition) {
		if s.bound[e] != b {
			return
		}
		b.state = t.To
		b.pending = append(b.pending, ecs.Event{Type: EventStateChange, Entity: e, Data: t})
		s.log.Debug("jump state", zap.Stringer("entity", e), zap.Stringer("from", t.From), zap.Stringer("to", t.To))
	})
	v.OnJump(func(j motion.JumpEvent) {
		if s.bound[e] != b {
			return
		}
		b.jumped = true
		b.pending = append(b.pending, ecs.Event{Type: EventJumped, Entity: e, Data: j})
	})
	if h != nil {
		h.OnModeChange(func(m motion.ModeChange) {
			if s.bound[e] != b {
				return
			}
			b.pending = append(b.pending, ecs.Event{Type: EventModeChange, Entity: e, Data: m})
		})
	}
	return b
}
