package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypeSolid
)

const (
	// PlayerCategory is the default category of dynamic bodies.
	PlayerCategory uint = 1 << 0
	// GroundCategory is the default category of static level geometry.
	GroundCategory = motion.DefaultGroundCategory
)

const collisionSlop = 0.01

// PhysicsSystem owns the Chipmunk space. World units are Y-up, so gravity
// points along -Y.
type PhysicsSystem struct {
	space *cp.Space
	dt    float64
	log   *zap.Logger

	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
	// gravity is re-read every step so systems may change it between ticks.
	gravity *component.GravityScale
}

func NewPhysicsSystem(gravity, dt float64, log *zap.Logger) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})
	space.SetCollisionSlop(collisionSlop)
	return &PhysicsSystem{
		space:    space,
		dt:       dt,
		log:      logging.Or(log).Named("physics"),
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Gravity is the magnitude of the space's downward acceleration.
func (ps *PhysicsSystem) Gravity() float64 {
	return -ps.space.Gravity().Y
}

func (ps *PhysicsSystem) Dt() float64 { return ps.dt }

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.Sync(w)
	ps.space.Step(ps.dt)
	ps.syncTransforms(w)
}

// Sync creates bodies for new entities, drops bodies of removed ones and
// refreshes gravity scales. Update calls it before stepping; builders may
// call it directly so bodies exist before the first tick.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		info := ps.entities[e]
		if info == nil {
			transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
			isPlayer := ecs.Has(w, e, component.PlayerTagComponent.Kind())
			info = ps.createBodyInfo(*transform, bodyComp, layer, isPlayer)
			ps.entities[e] = info
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			ps.log.Debug("body created",
				zap.Stringer("entity", e),
				zap.Bool("static", info.static),
				zap.Float64("x", transform.X),
				zap.Float64("y", transform.Y))
		}
		info.gravity = nil
		if gs, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind()); ok {
			info.gravity = gs
		}
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp *component.PhysicsBody, layer *component.CollisionLayer, isPlayer bool) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}

	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: PlayerCategory, Mask: cp.ALL_CATEGORIES}
	if bodyComp.Static {
		filter.Categories = GroundCategory
	}
	if layer != nil {
		if layer.Category != 0 {
			filter.Categories = uint(layer.Category)
		}
		if layer.Mask != 0 {
			filter.Mask = uint(layer.Mask)
		}
	}

	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		bb := cp.NewBBForExtents(cp.Vector{X: transform.X, Y: transform.Y}, width/2, height/2)
		shape := cp.NewBox2(ps.space.StaticBody, bb, bodyComp.Radius)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(filter)
		ps.space.AddShape(shape)
		info.body = ps.space.StaticBody
		info.shape = shape
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	// Characters never rotate.
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
		scale, maxFall := 1.0, 0.0
		if info.gravity != nil {
			scale = info.gravity.Scale
			maxFall = info.gravity.MaxFallSpeed
		}
		cp.BodyUpdateVelocity(b, gravity.Mult(scale), damping, dt)
		if maxFall > 0 {
			v := b.Velocity()
			if vy := motion.ClampFallSpeed(v.Y, maxFall); vy != v.Y {
				b.SetVelocity(v.X, vy)
			}
		}
	})

	shape := cp.NewBox(body, width, height, bodyComp.Radius)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeSolid)
	if isPlayer {
		shape.SetCollisionType(collisionTypePlayer)
	}
	shape.SetFilter(filter)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shape = shape
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
	})
}

// Teleport moves a dynamic body and stops it.
func (ps *PhysicsSystem) Teleport(w *ecs.World, e ecs.Entity, x, y float64) bool {
	info := ps.entities[e]
	if info == nil || info.static {
		return false
	}
	info.body.SetPosition(cp.Vector{X: x, Y: y})
	info.body.SetVelocity(0, 0)
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.X, t.Y = x, y
	}
	return true
}

// Reset removes every body and shape.
func (ps *PhysicsSystem) Reset() {
	for e, info := range ps.entities {
		ps.removeInfo(info)
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeInfo(info)
		delete(ps.entities, e)
		ps.log.Debug("body removed", zap.Stringer("entity", e))
	}
}

func (ps *PhysicsSystem) removeInfo(info *bodyInfo) {
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if info.body != nil && !info.static {
		ps.space.RemoveBody(info.body)
	}
}
