package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

var (
	probeGrounded = color.RGBA{G: 255, A: 255}
	probeAirborne = color.RGBA{R: 255, A: 255}
)

// DrawDebug overlays collider outlines, each ground probe (green while
// grounded, red while airborne) and the player's motion readout.
func DrawDebug(w *ecs.World, space *cp.Space, screen *ebiten.Image, cam *Camera) {
	if w == nil || screen == nil || cam == nil {
		return
	}
	if space != nil {
		cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, cam: cam})
	}

	ecs.ForEach(w, component.GroundSensorComponent.Kind(), func(_ ecs.Entity, gs *component.GroundSensor) {
		if !gs.HasProbe || gs.Sensor == nil {
			return
		}
		c := probeAirborne
		if gs.Sensor.IsGrounded() {
			c = probeGrounded
		}
		bb := gs.Probe
		x, y, wdt, hgt := cam.RectToScreen((bb.L+bb.R)/2, (bb.B+bb.T)/2, bb.R-bb.L, bb.T-bb.B)
		if hgt < 1 {
			hgt = 1
		}
		vector.StrokeRect(screen, x, y, wdt, hgt, 1, c, false)
	})

	ebitenutil.DebugPrintAt(screen, PlayerReadout(w), 10, 10)
}

// PlayerReadout formats the first player's motion state.
func PlayerReadout(w *ecs.World) string {
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return "no player"
	}

	state, mode := "none", "none"
	grounded := false
	scale, vx, vy, facing := 0.0, 0.0, 0.0, 1.0
	if vm, ok := ecs.Get(w, player, component.VerticalMotionComponent.Kind()); ok && vm.Controller != nil {
		state = vm.Controller.State().String()
		scale = vm.Controller.GravityScale()
	}
	if hm, ok := ecs.Get(w, player, component.HorizontalMotionComponent.Kind()); ok && hm.Controller != nil {
		mode = hm.Controller.Mode().String()
		facing = hm.Controller.Facing()
	}
	if gs, ok := ecs.Get(w, player, component.GroundSensorComponent.Kind()); ok && gs.Sensor != nil {
		grounded = gs.Sensor.IsGrounded()
	}
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		v := body.Body.Velocity()
		vx, vy = v.X, v.Y
	}
	canMove := true
	if gate, ok := ecs.Get(w, player, component.MovementGateComponent.Kind()); ok {
		canMove = gate.CanMove
	}

	return fmt.Sprintf("State: %s\nMode: %s\nGrounded: %v\nCanMove: %v\nVel: %.2f, %.2f\nGravity: x%.2f\nFacing: %+.0f",
		state, mode, grounded, canMove, vx, vy, scale, facing)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    *Camera
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2 / d.cam.PixelsPerUnit
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.cam.ToScreen(a.X, a.Y)
	x2, y2 := d.cam.ToScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
