package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"go.uber.org/zap"
)

const (
	EventGateOpened = "gate_opened"
	EventGateClosed = "gate_closed"
)

// CanMove reports the entity's movement gate. Entities without a gate move freely.
func CanMove(w *ecs.World, e ecs.Entity) bool {
	gate, ok := ecs.Get(w, e, component.MovementGateComponent.Kind())
	return !ok || gate.CanMove
}

// SetCanMove opens or closes an entity's movement gate.
func SetCanMove(w *ecs.World, e ecs.Entity, canMove bool) error {
	gate, ok := ecs.Get(w, e, component.MovementGateComponent.Kind())
	if !ok {
		gate = &component.MovementGate{Initial: true}
	}
	gate.CanMove = canMove
	return ecs.Add(w, e, component.MovementGateComponent.Kind(), gate)
}

// ResetGates restores every gate to its initial value.
func ResetGates(w *ecs.World) {
	ecs.ForEach(w, component.MovementGateComponent.Kind(), func(_ ecs.Entity, gate *component.MovementGate) {
		gate.CanMove = gate.Initial
	})
}

// GateSystem reports gate changes as world events.
type GateSystem struct {
	last map[ecs.Entity]bool
	log  *zap.Logger
}

func NewGateSystem(log *zap.Logger) *GateSystem {
	return &GateSystem{last: make(map[ecs.Entity]bool), log: logging.Or(log).Named("gate")}
}

func (s *GateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for e := range s.last {
		if !w.IsAlive(e) {
			delete(s.last, e)
		}
	}
	ecs.ForEach(w, component.MovementGateComponent.Kind(), func(e ecs.Entity, gate *component.MovementGate) {
		prev, seen := s.last[e]
		s.last[e] = gate.CanMove
		if !seen || prev == gate.CanMove {
			return
		}
		evt := EventGateOpened
		if !gate.CanMove {
			evt = EventGateClosed
		}
		w.Events().Push(ecs.Event{Type: evt, Entity: e})
		s.log.Info("movement gate changed", zap.Stringer("entity", e), zap.Bool("can_move", gate.CanMove))
	})
}
