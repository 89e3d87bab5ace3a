package motion

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const eps = 1e-9

func testJumpConfig() JumpConfig {
	return JumpConfig{
		JumpHeight:              3,
		TimeToApex:              0.5,
		GroundGravityMultiplier: 1,
		JumpGravityMultiplier:   0.95,
		FallGravityMultiplier:   1.75,
		MaxFallSpeed:            12,
		JumpCutoffMultiplier:    1.75,
	}
}

func newVertical(t *testing.T, cfg JumpConfig, g float64) *VerticalController {
	t.Helper()
	c, err := NewVerticalController(cfg, g)
	if err != nil {
		t.Fatalf("NewVerticalController: %v", err)
	}
	return c
}

func TestGravityScenario(t *testing.T) {
	cfg := testJumpConfig()
	cfg.GroundGravityMultiplier = 1.5
	c := newVertical(t, cfg, 9.8)

	if got := c.GravityConstant(); math.Abs(got-24) > eps {
		t.Fatalf("gravity constant = %v, want 24", got)
	}
	if got := c.InitialJumpVelocity(); math.Abs(got-12) > eps {
		t.Fatalf("initial jump velocity = %v, want 12", got)
	}
	want := 24 * 1.5 / 9.8
	if got := c.GravityScale(); math.Abs(got-want) > eps {
		t.Fatalf("grounded gravity scale = %v, want %v", got, want)
	}
	out := c.Step(VerticalInput{Grounded: true, CanMove: true})
	if math.Abs(out.GravityScale-want) > eps {
		t.Fatalf("step gravity scale = %v, want %v", out.GravityScale, want)
	}
}

func TestVerticalTransitions(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, c *VerticalController)
	}{
		{
			name: "jump_from_grounded",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(true)
				out := c.Step(VerticalInput{Grounded: true, CanMove: true})
				if !out.Jumped || out.State != JumpJumping {
					t.Fatalf("expected jump, got %+v", out)
				}
				if math.Abs(out.VelocityY-12) > eps {
					t.Fatalf("impulse = %v, want 12", out.VelocityY)
				}
				if c.DesiredJump() {
					t.Fatalf("desired jump should be consumed")
				}
			},
		},
		{
			name: "jumping_to_falling_on_negative_velocity",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(true)
				c.Step(VerticalInput{Grounded: true, CanMove: true})
				if out := c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: 0}); out.State != JumpJumping {
					t.Fatalf("zero velocity should keep jumping, got %v", out.State)
				}
				if out := c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -0.1}); out.State != JumpFalling {
					t.Fatalf("expected falling, got %v", out.State)
				}
			},
		},
		{
			name: "falling_to_grounded_on_contact",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(true)
				c.Step(VerticalInput{Grounded: true, CanMove: true})
				c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -1})
				if out := c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -3}); out.State != JumpFalling {
					t.Fatalf("expected falling while airborne, got %v", out.State)
				}
				if out := c.Step(VerticalInput{Grounded: true, CanMove: true}); out.State != JumpGrounded {
					t.Fatalf("expected grounded, got %v", out.State)
				}
			},
		},
		{
			name: "grounded_has_no_spontaneous_exit",
			run: func(t *testing.T, c *VerticalController) {
				for _, vy := range []float64{-5, 0, 5} {
					out := c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: vy})
					if out.State != JumpGrounded {
						t.Fatalf("vy=%v: expected grounded, got %v", vy, out.State)
					}
				}
			},
		},
		{
			name: "airborne_request_is_dropped_not_buffered",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(true)
				out := c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -2})
				if out.Jumped || !out.Dropped || out.State != JumpGrounded {
					t.Fatalf("expected dropped request, got %+v", out)
				}
				if out.VelocityY != -2 {
					t.Fatalf("velocity changed by dropped jump: %v", out.VelocityY)
				}
				out = c.Step(VerticalInput{Grounded: true, CanMove: true})
				if out.Jumped || out.State != JumpGrounded {
					t.Fatalf("stale request fired on landing: %+v", out)
				}
			},
		},
		{
			name: "request_while_falling_is_dropped_on_landing_tick",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(true)
				c.Step(VerticalInput{Grounded: true, CanMove: true})
				c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -1})
				c.JumpPressed(true)
				out := c.Step(VerticalInput{Grounded: true, CanMove: true})
				if out.Jumped || !out.Dropped || out.State != JumpGrounded {
					t.Fatalf("expected landing without jump, got %+v", out)
				}
				out = c.Step(VerticalInput{Grounded: true, CanMove: true})
				if out.Jumped {
					t.Fatalf("stale request fired after landing")
				}
			},
		},
		{
			name: "gate_ignores_press",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(false)
				if c.DesiredJump() || c.JumpHeld() {
					t.Fatalf("press accepted while gated")
				}
				out := c.Step(VerticalInput{Grounded: true, CanMove: false})
				if out.Jumped {
					t.Fatalf("jumped while gated")
				}
			},
		},
		{
			name: "gate_discards_latched_request",
			run: func(t *testing.T, c *VerticalController) {
				c.JumpPressed(true)
				out := c.Step(VerticalInput{Grounded: true, CanMove: false})
				if out.Jumped || !out.Dropped {
					t.Fatalf("expected gated drop, got %+v", out)
				}
				out = c.Step(VerticalInput{Grounded: true, CanMove: true})
				if out.Jumped {
					t.Fatalf("gated request fired after gate opened")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newVertical(t, testJumpConfig(), 9.8))
		})
	}
}

func TestGravityScalePerState(t *testing.T) {
	const g = 9.8
	G := GravityConstant(3, 0.5)

	tests := []struct {
		name     string
		analog   bool
		release  bool
		falling  bool
		wantMult float64
	}{
		{name: "jumping_held", analog: true, wantMult: 0.95},
		{name: "jumping_released_analog", analog: true, release: true, wantMult: 0.95 * 1.75},
		{name: "jumping_released_digital", analog: false, release: true, wantMult: 0.95},
		{name: "falling", analog: true, falling: true, wantMult: 1.75},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testJumpConfig()
			cfg.AnalogJump = tc.analog
			c := newVertical(t, cfg, g)
			c.JumpPressed(true)
			out := c.Step(VerticalInput{Grounded: true, CanMove: true})
			if tc.release {
				c.JumpReleased(true)
				out = c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: 5})
			}
			if tc.falling {
				out = c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -1})
			}
			want := G * tc.wantMult / g
			if math.Abs(out.GravityScale-want) > eps {
				t.Fatalf("gravity scale = %v, want %v (state %v)", out.GravityScale, want, out.State)
			}
		})
	}
}

func TestVerticalListeners(t *testing.T) {
	c := newVertical(t, testJumpConfig(), 9.8)
	var transitions []Transition
	var jumps []JumpEvent
	c.OnTransition(func(tr Transition) { transitions = append(transitions, tr) })
	c.OnJump(func(ev JumpEvent) { jumps = append(jumps, ev) })

	c.JumpPressed(true)
	c.Step(VerticalInput{Grounded: true, CanMove: true})
	c.Step(VerticalInput{Grounded: false, CanMove: true, VelocityY: -1})
	c.Step(VerticalInput{Grounded: true, CanMove: true})

	want := []Transition{
		{From: JumpGrounded, To: JumpJumping},
		{From: JumpJumping, To: JumpFalling},
		{From: JumpFalling, To: JumpGrounded},
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d = %v, want %v", i, transitions[i], want[i])
		}
	}
	if len(jumps) != 1 || math.Abs(jumps[0].Velocity-12) > eps {
		t.Fatalf("jump events = %v", jumps)
	}
}

func TestClampFall(t *testing.T) {
	c := newVertical(t, testJumpConfig(), 9.8)
	tests := []struct {
		in, want float64
	}{
		{in: -20, want: -12},
		{in: -12, want: -12},
		{in: -3, want: -3},
		{in: 30, want: 30},
	}
	for _, tc := range tests {
		if got := c.ClampFall(tc.in); got != tc.want {
			t.Errorf("ClampFall(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJumpConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *JumpConfig)
	}{
		{"zero_apex", func(c *JumpConfig) { c.TimeToApex = 0 }},
		{"negative_apex", func(c *JumpConfig) { c.TimeToApex = -0.5 }},
		{"near_zero_apex", func(c *JumpConfig) { c.TimeToApex = 1e-9 }},
		{"nan_apex", func(c *JumpConfig) { c.TimeToApex = math.NaN() }},
		{"inf_apex", func(c *JumpConfig) { c.TimeToApex = math.Inf(1) }},
		{"zero_height", func(c *JumpConfig) { c.JumpHeight = 0 }},
		{"negative_fall_speed", func(c *JumpConfig) { c.MaxFallSpeed = -1 }},
		{"negative_multiplier", func(c *JumpConfig) { c.FallGravityMultiplier = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testJumpConfig()
			tc.mutate(&cfg)
			_, err := NewVerticalController(cfg, 9.8)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	t.Run("world_gravity", func(t *testing.T) {
		for _, g := range []float64{0, -9.8, math.NaN()} {
			if _, err := NewVerticalController(testJumpConfig(), g); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("gravity %v: expected ErrInvalidConfig, got %v", g, err)
			}
		}
	})

	t.Run("reconfigure_rejects_and_keeps_old", func(t *testing.T) {
		c := newVertical(t, testJumpConfig(), 9.8)
		bad := testJumpConfig()
		bad.TimeToApex = 0
		if err := c.Reconfigure(bad); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
		if c.Config().TimeToApex != 0.5 {
			t.Fatalf("config changed after rejected reconfigure")
		}
		if s := c.GravityScale(); math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("non-finite gravity scale %v", s)
		}
	})
}

func TestConfigValidateAggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jump.TimeToApex = 0
	cfg.Movement.Run.MaxSpeed = -1
	cfg.Sensor.ProbeDistance = 0
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, field := range []string{"time_to_apex", "run.max_speed", "probe_distance"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestJumpStateString(t *testing.T) {
	if JumpGrounded.String() != "grounded" || JumpJumping.String() != "jumping" || JumpFalling.String() != "falling" {
		t.Fatalf("unexpected state names")
	}
	if JumpState(9).String() != "JumpState(9)" {
		t.Fatalf("unexpected unknown name %q", JumpState(9).String())
	}
}
