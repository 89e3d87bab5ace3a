package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

func baseOptions(script string) Options {
	return Options{
		Script:      script,
		Level:       "flat",
		Prefab:      entity.PlayerPrefab,
		Ticks:       600,
		Dt:          1.0 / 60.0,
		Gravity:     entity.DefaultGravity,
		CloseGateAt: -1,
	}
}

func TestRunFlatWalkJump(t *testing.T) {
	trace, err := RunFlat(baseOptions("walk_jump"), zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !trace.ScriptDone {
		t.Fatal("expected script to finish")
	}
	if trace.Jumps() != 1 {
		t.Fatalf("expected one jump, got %d", trace.Jumps())
	}
	last := trace.Samples[len(trace.Samples)-1]
	if last.X < 10 || last.State != motion.JumpGrounded {
		t.Fatalf("unexpected final sample %+v", last)
	}
	// Released after 0.2s, so the hop is cut below the full 3 units.
	if p := trace.Peak(); p <= 0.5 || p >= 3 {
		t.Fatalf("unexpected peak %v", p)
	}
}

func TestRunFlatJumpSpamDropsAirbornePresses(t *testing.T) {
	opts := baseOptions("jump_spam")
	trace, err := RunFlat(opts, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if trace.Jumps() < 2 {
		t.Fatalf("expected several jumps, got %d", trace.Jumps())
	}
	if trace.Dropped() == 0 {
		t.Fatal("expected airborne presses to be dropped")
	}
	for _, s := range trace.Samples {
		if s.Jumped && s.Dropped {
			t.Fatalf("tick %d both jumped and dropped", s.Tick)
		}
	}
}

func TestRunFlatClosedGate(t *testing.T) {
	opts := baseOptions("walk_jump")
	opts.CloseGateAt = 0
	opts.Ticks = 240
	trace, err := RunFlat(opts, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if trace.Jumps() != 0 {
		t.Fatalf("closed gate must block jumps, got %d", trace.Jumps())
	}
	for _, s := range trace.Samples {
		if s.VX != 0 {
			t.Fatalf("tick %d: closed gate must hold vx at 0, got %v", s.Tick, s.VX)
		}
	}
}

func TestRunPhysicsShortHop(t *testing.T) {
	trace, err := RunPhysics(baseOptions("short_hop"), zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !trace.ScriptDone {
		t.Fatal("expected script to finish")
	}
	if trace.Jumps() != 2 || trace.Dropped() != 0 {
		t.Fatalf("expected two clean jumps, got %d jumps and %d dropped", trace.Jumps(), trace.Dropped())
	}
	if p := trace.Peak(); p < 2.8 || p > 3.6 {
		t.Fatalf("expected a full jump near 3 units, got %v", p)
	}
}

func TestRunErrors(t *testing.T) {
	opts := baseOptions("no_such_script")
	if _, err := RunFlat(opts, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing script")
	}
	opts = baseOptions("walk_jump")
	opts.Level = "missing"
	if _, err := RunPhysics(opts, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing level")
	}
}

func TestTraceWrite(t *testing.T) {
	trace := &Trace{Samples: []Sample{
		{Tick: 0, Grounded: true},
		{Tick: 1, Y: 0.2, Jumped: true, State: motion.JumpJumping},
		{Tick: 2, Y: 0.4, State: motion.JumpJumping},
		{Tick: 3, Y: 0.5, Dropped: true, State: motion.JumpJumping},
	}}
	var buf bytes.Buffer
	if err := trace.Write(&buf, 10); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"jump", "dropped", "jumps=1", "dropped=1", "peak=0.500"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") != 6 {
		t.Fatalf("expected header, 3 rows, blank line and summary:\n%s", out)
	}
}
