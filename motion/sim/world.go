// Package sim is a flat-ground point-body world for exercising the motion
// core without a collision solver.
package sim

import "github.com/milk9111/platformer/motion"

// World is a single point body above an infinite floor at GroundY. It
// implements motion.Body, motion.Integrator and motion.GroundProbe.
type World struct {
	Gravity float64
	GroundY float64
	// GroundCategories tags the floor for the probe filter.
	GroundCategories uint

	Pos motion.Vec2
	Vel motion.Vec2
}

func NewWorld(gravity float64) *World {
	return &World{Gravity: gravity, GroundCategories: motion.DefaultGroundCategory}
}

func (w *World) Position() motion.Vec2 { return w.Pos }
func (w *World) Velocity() motion.Vec2 { return w.Vel }
func (w *World) SetVelocityX(vx float64) {
	w.Vel.X = vx
}
func (w *World) SetVelocityY(vy float64) {
	w.Vel.Y = vy
}

// Integrate is semi-implicit Euler: velocity first, then position. Landing
// removes downward velocity.
func (w *World) Integrate(gravityScale float64, clampY func(vy float64) float64, dt float64) {
	w.Vel.Y -= w.Gravity * gravityScale * dt
	if clampY != nil {
		w.Vel.Y = clampY(w.Vel.Y)
	}
	w.Pos.X += w.Vel.X * dt
	w.Pos.Y += w.Vel.Y * dt
	if w.Pos.Y < w.GroundY {
		w.Pos.Y = w.GroundY
		if w.Vel.Y < 0 {
			w.Vel.Y = 0
		}
	}
}

// ProbeGround reports one contact when the floor lies within distance below
// origin and passes the filter.
func (w *World) ProbeGround(origin, direction motion.Vec2, filter motion.GroundFilter, distance float64) int {
	if direction.Y >= 0 || !filter.Accepts(w.GroundCategories) {
		return 0
	}
	if origin.Y-w.GroundY <= distance {
		return 1
	}
	return 0
}

// Env wires the world into a motion.Env.
func (w *World) Env(canMove bool) motion.Env {
	return motion.Env{Probe: w, Body: w, Integrator: w, CanMove: canMove}
}
