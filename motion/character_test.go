package motion_test

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/motion/sim"
)

func newCharacter(t *testing.T, cfg motion.Config) *motion.Character {
	t.Helper()
	c, err := motion.NewCharacter(cfg)
	if err != nil {
		t.Fatalf("NewCharacter: %v", err)
	}
	return c
}

// With unit jump gravity the ascent ends within one tick of TimeToApex and
// peaks within the integrator's first-order error of JumpHeight.
func TestApexLaw(t *testing.T) {
	const dt = 1.0 / 600

	tests := []struct {
		height, apex float64
	}{
		{height: 3, apex: 0.5},
		{height: 2, apex: 0.2},
		{height: 5.5, apex: 1.25},
		{height: 1, apex: 0.75},
	}

	for _, tc := range tests {
		cfg := motion.DefaultConfig()
		cfg.Jump.JumpHeight = tc.height
		cfg.Jump.TimeToApex = tc.apex
		cfg.Jump.JumpGravityMultiplier = 1
		cfg.Jump.MaxFallSpeed = 1000
		c := newCharacter(t, cfg)
		w := sim.NewWorld(cfg.WorldGravity)

		c.Step(w.Env(true), dt)
		c.Intents.PressJump()

		jumpTick, fallTick := -1, -1
		peak := 0.0
		for i := 0; i < int(4*tc.apex/dt); i++ {
			res := c.Step(w.Env(true), dt)
			if res.Vertical.Jumped {
				jumpTick = i
			}
			if fallTick < 0 && res.Vertical.State == motion.JumpFalling {
				fallTick = i
			}
			peak = math.Max(peak, w.Pos.Y)
		}
		if jumpTick != 0 {
			t.Fatalf("h=%v t=%v: jump fired at tick %d", tc.height, tc.apex, jumpTick)
		}
		if fallTick < 0 {
			t.Fatalf("h=%v t=%v: never started falling", tc.height, tc.apex)
		}

		elapsed := float64(fallTick-jumpTick) * dt
		if math.Abs(elapsed-tc.apex) > dt+1e-9 {
			t.Errorf("h=%v t=%v: apex after %v", tc.height, tc.apex, elapsed)
		}
		v0 := motion.InitialJumpVelocity(tc.height, tc.apex)
		if math.Abs(peak-tc.height) > v0*dt {
			t.Errorf("h=%v t=%v: peak %v", tc.height, tc.apex, peak)
		}
	}
}

func TestTerminalVelocity(t *testing.T) {
	const dt = 1.0 / 120

	tests := []struct {
		name    string
		startY  float64
		jump    bool
		maxFall float64
	}{
		{name: "drop_from_height", startY: 100, maxFall: 12},
		{name: "after_jump", jump: true, maxFall: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := motion.DefaultConfig()
			cfg.Jump.MaxFallSpeed = tc.maxFall
			c := newCharacter(t, cfg)
			w := sim.NewWorld(cfg.WorldGravity)
			w.Pos.Y = tc.startY
			if tc.jump {
				c.Intents.PressJump()
			}

			reached := false
			for i := 0; i < 600; i++ {
				c.Step(w.Env(true), dt)
				if w.Vel.Y < -tc.maxFall-1e-9 {
					t.Fatalf("tick %d: vy=%v below -%v", i, w.Vel.Y, tc.maxFall)
				}
				if w.Vel.Y == -tc.maxFall {
					reached = true
				}
			}
			if !reached {
				t.Fatalf("never reached terminal velocity")
			}
		})
	}
}

func TestCharacterFullJumpCycle(t *testing.T) {
	const dt = 1.0 / 60
	cfg := motion.DefaultConfig()
	c := newCharacter(t, cfg)
	w := sim.NewWorld(cfg.WorldGravity)

	var states []motion.JumpState
	c.Vertical.OnTransition(func(tr motion.Transition) { states = append(states, tr.To) })

	c.Intents.SetMoveAxis(1)
	c.Intents.PressJump()
	res := c.Step(w.Env(true), dt)
	if !res.Vertical.Jumped || !res.Grounded {
		t.Fatalf("expected grounded jump, got %+v", res)
	}
	c.Intents.ReleaseJump()

	for i := 0; i < 600 && c.Vertical.State() != motion.JumpGrounded; i++ {
		res = c.Step(w.Env(true), dt)
		if !res.Grounded && res.Horizontal.Mode != motion.ModeAerial {
			t.Fatalf("airborne tick in mode %v", res.Horizontal.Mode)
		}
	}
	want := []motion.JumpState{motion.JumpJumping, motion.JumpFalling, motion.JumpGrounded}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("state %d = %v, want %v", i, states[i], want[i])
		}
	}
	if w.Pos.X <= 0 {
		t.Fatalf("expected rightward travel, x=%v", w.Pos.X)
	}
}

func TestCharacterGate(t *testing.T) {
	const dt = 1.0 / 60
	cfg := motion.DefaultConfig()
	c := newCharacter(t, cfg)
	w := sim.NewWorld(cfg.WorldGravity)

	c.Intents.SetMoveAxis(1)
	for i := 0; i < 10; i++ {
		c.Step(w.Env(true), dt)
	}
	if w.Vel.X == 0 {
		t.Fatalf("expected horizontal motion before gating")
	}

	c.Intents.PressJump()
	res := c.Step(w.Env(false), dt)
	if res.Vertical.Jumped {
		t.Fatalf("jumped while gated")
	}
	if w.Vel.X != 0 || res.Horizontal.VelocityX != 0 {
		t.Fatalf("horizontal velocity %v while gated", w.Vel.X)
	}
	for i := 0; i < 5; i++ {
		c.Step(w.Env(false), dt)
		if w.Vel.X != 0 {
			t.Fatalf("gated tick %d: vx=%v", i, w.Vel.X)
		}
	}

	res = c.Step(w.Env(true), dt)
	if res.Vertical.Jumped {
		t.Fatalf("request made while gated fired after release")
	}
}

func TestCharacterGroundFilter(t *testing.T) {
	cfg := motion.DefaultConfig()
	cfg.Sensor.Filter = motion.GroundFilter{Mask: 1 << 4}
	c := newCharacter(t, cfg)
	w := sim.NewWorld(cfg.WorldGravity)

	c.Intents.PressJump()
	res := c.Step(w.Env(true), 1.0/60)
	if res.Grounded || res.Vertical.Jumped {
		t.Fatalf("filtered floor counted as ground: %+v", res)
	}
}

func TestCharacterReconfigure(t *testing.T) {
	cfg := motion.DefaultConfig()
	c := newCharacter(t, cfg)

	next := cfg
	next.Jump.JumpHeight = 4
	next.Movement.Walk.MaxSpeed = 6
	if err := c.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if c.Vertical.Config().JumpHeight != 4 || c.Horizontal.Config().Walk.MaxSpeed != 6 {
		t.Fatalf("tuning not applied")
	}

	gravity := next
	gravity.WorldGravity = 20
	if err := c.Reconfigure(gravity); !errors.Is(err, motion.ErrInvalidConfig) {
		t.Fatalf("expected gravity change to be rejected, got %v", err)
	}

	bad := next
	bad.Jump.TimeToApex = 0
	if err := c.Reconfigure(bad); !errors.Is(err, motion.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if c.Vertical.Config().TimeToApex != next.Jump.TimeToApex {
		t.Fatalf("rejected reconfigure changed tuning")
	}
}
