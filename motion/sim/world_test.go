package sim

import (
	"testing"

	"github.com/milk9111/platformer/motion"
)

func TestWorldProbe(t *testing.T) {
	w := NewWorld(9.81)
	filter := motion.GroundFilter{Mask: motion.DefaultGroundCategory}

	tests := []struct {
		name   string
		y      float64
		dir    motion.Vec2
		filter motion.GroundFilter
		want   int
	}{
		{name: "on_floor", y: 0, dir: motion.Down, filter: filter, want: 1},
		{name: "within_distance", y: 0.04, dir: motion.Down, filter: filter, want: 1},
		{name: "above_distance", y: 0.2, dir: motion.Down, filter: filter, want: 0},
		{name: "upward_probe", y: 0, dir: motion.Vec2{Y: 1}, filter: filter, want: 0},
		{name: "filtered", y: 0, dir: motion.Down, filter: motion.GroundFilter{Mask: 1}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := w.ProbeGround(motion.Vec2{Y: tc.y}, tc.dir, tc.filter, 0.05)
			if got != tc.want {
				t.Fatalf("ProbeGround = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWorldIntegrateLands(t *testing.T) {
	w := NewWorld(10)
	w.Pos.Y = 1
	for i := 0; i < 200; i++ {
		w.Integrate(1, nil, 0.01)
	}
	if w.Pos.Y != 0 || w.Vel.Y != 0 {
		t.Fatalf("expected resting on floor, got pos=%v vel=%v", w.Pos, w.Vel)
	}
}

func TestWorldIntegrateClamp(t *testing.T) {
	w := NewWorld(10)
	w.Pos.Y = 100
	clamp := func(vy float64) float64 { return motion.ClampFallSpeed(vy, 3) }
	for i := 0; i < 100; i++ {
		w.Integrate(1, clamp, 0.01)
		if w.Vel.Y < -3 {
			t.Fatalf("tick %d: vy=%v", i, w.Vel.Y)
		}
	}
}
