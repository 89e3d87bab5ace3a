package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
)

// IntentSystem drains each entity's intent buffer into its controllers once
// per tick, before the sensor and controllers run.
type IntentSystem struct{}

func NewIntentSystem() *IntentSystem { return &IntentSystem{} }

func (s *IntentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, in *component.Input) {
		if in.Buffer == nil {
			return
		}
		var (
			v *motion.VerticalController
			h *motion.HorizontalController
		)
		if vm, ok := ecs.Get(w, e, component.VerticalMotionComponent.Kind()); ok {
			v = vm.Controller
		}
		if hm, ok := ecs.Get(w, e, component.HorizontalMotionComponent.Kind()); ok {
			h = hm.Controller
		}
		in.Buffer.Drain().Apply(v, h, CanMove(w, e))
	})
}
