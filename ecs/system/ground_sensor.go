package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

// probeInset keeps the probe off walls the collider is pressed against.
const probeInset = 0.05

// GroundSensorSystem refreshes every ground sensor from a box query below
// the collider. It runs first in the tick, before any controller.
type GroundSensorSystem struct {
	physics *PhysicsSystem
	log     *zap.Logger
}

func NewGroundSensorSystem(physics *PhysicsSystem, log *zap.Logger) *GroundSensorSystem {
	return &GroundSensorSystem{physics: physics, log: logging.Or(log).Named("ground")}
}

func (s *GroundSensorSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.physics == nil {
		return
	}
	ecs.ForEach2(w, component.GroundSensorComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, gs *component.GroundSensor, body *component.PhysicsBody) {
		if gs.Sensor == nil || body.Body == nil {
			return
		}
		probe := &boxGroundProbe{
			space:      s.physics.Space(),
			self:       body.Body,
			halfWidth:  body.Width / 2,
			halfHeight: body.Height / 2,
		}
		pos := body.Body.Position()
		was := gs.Sensor.IsGrounded()
		now := gs.Sensor.Refresh(probe, motion.Vec2{X: pos.X, Y: pos.Y})
		gs.Probe = probe.last
		gs.HasProbe = true
		if was != now {
			s.log.Debug("ground contact changed",
				zap.Stringer("entity", e),
				zap.Bool("grounded", now),
				zap.Int("contacts", gs.Sensor.Contacts()))
		}
	})
}

// boxGroundProbe answers motion.GroundProbe with a Chipmunk box query
// covering the strip between the collider's feet and distance along the probe
// direction.
type boxGroundProbe struct {
	space      *cp.Space
	self       *cp.Body
	halfWidth  float64
	halfHeight float64
	last       cp.BB
}

func (p *boxGroundProbe) ProbeGround(origin, direction motion.Vec2, filter motion.GroundFilter, distance float64) int {
	if p.space == nil || distance <= 0 {
		return 0
	}
	feet := cp.Vector{X: origin.X + direction.X*p.halfHeight, Y: origin.Y + direction.Y*p.halfHeight}
	end := feet.Add(cp.Vector{X: direction.X, Y: direction.Y}.Mult(distance))

	hw := p.halfWidth - probeInset
	if hw <= 0 {
		hw = p.halfWidth / 2
	}
	bb := cp.BB{
		L: min(feet.X, end.X) - hw,
		R: max(feet.X, end.X) + hw,
		B: min(feet.Y, end.Y),
		T: max(feet.Y, end.Y),
	}
	p.last = bb

	query := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: filter.Mask}
	// BBQuery only overlaps bounding boxes. The hit is confirmed against the
	// shape itself from the strip's midline, at the point of the overlap
	// nearest the feet, so slopes and round ground do not count early.
	halfDepth := (bb.T - bb.B) / 2
	midY := bb.B + halfDepth
	contacts := 0
	p.space.BBQuery(bb, query, func(shape *cp.Shape, _ interface{}) {
		if shape.Body() == p.self || shape.Sensor() {
			return
		}
		sb := shape.BB()
		x := common.Clamp(feet.X, max(bb.L, sb.L), min(bb.R, sb.R))
		if shape.PointQuery(cp.Vector{X: x, Y: midY}).Distance > halfDepth {
			return
		}
		contacts++
	}, nil)
	return contacts
}
