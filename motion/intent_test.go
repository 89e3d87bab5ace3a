package motion

import (
	"sync"
	"testing"
)

func TestIntentBufferEdges(t *testing.T) {
	tests := []struct {
		name       string
		events     func(b *IntentBuffer)
		wantDesire bool
		wantHeld   bool
	}{
		{
			name:       "press",
			events:     func(b *IntentBuffer) { b.PressJump() },
			wantDesire: true,
			wantHeld:   true,
		},
		{
			name: "tap_within_one_tick",
			events: func(b *IntentBuffer) {
				b.PressJump()
				b.ReleaseJump()
			},
			wantDesire: true,
			wantHeld:   false,
		},
		{
			name: "release_then_press",
			events: func(b *IntentBuffer) {
				b.ReleaseJump()
				b.PressJump()
			},
			wantDesire: true,
			wantHeld:   true,
		},
		{
			name:   "nothing",
			events: func(b *IntentBuffer) {},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newVertical(t, testJumpConfig(), 9.8)
			var b IntentBuffer
			tc.events(&b)
			b.Drain().Apply(v, nil, true)
			if v.DesiredJump() != tc.wantDesire || v.JumpHeld() != tc.wantHeld {
				t.Fatalf("desired=%v held=%v, want %v %v", v.DesiredJump(), v.JumpHeld(), tc.wantDesire, tc.wantHeld)
			}
		})
	}
}

func TestIntentBufferDrainClearsEdges(t *testing.T) {
	var b IntentBuffer
	b.SetMoveAxis(0.5)
	b.PressJump()
	b.PressSprint()

	first := b.Drain()
	if !first.JumpPressed || !first.SprintPressed || first.MoveAxis != 0.5 {
		t.Fatalf("first drain = %+v", first)
	}
	second := b.Drain()
	if second.JumpPressed || second.SprintPressed {
		t.Fatalf("edges survived drain: %+v", second)
	}
	if !second.JumpHeld || !second.SprintHeld || second.MoveAxis != 0.5 {
		t.Fatalf("levels lost on drain: %+v", second)
	}
}

func TestIntentApplySprint(t *testing.T) {
	h := newHorizontal(t, DefaultConfig().Movement)
	var b IntentBuffer
	b.PressSprint()
	b.Drain().Apply(nil, h, true)
	if !h.Sprinting() {
		t.Fatalf("expected sprinting")
	}
	b.ReleaseSprint()
	b.Drain().Apply(nil, h, true)
	if h.Sprinting() {
		t.Fatalf("expected sprint released")
	}
}

func TestIntentApplyGated(t *testing.T) {
	v := newVertical(t, testJumpConfig(), 9.8)
	h := newHorizontal(t, DefaultConfig().Movement)
	var b IntentBuffer
	b.SetMoveAxis(1)
	b.PressJump()
	b.PressSprint()
	b.Drain().Apply(v, h, false)
	if v.DesiredJump() || h.Sprinting() || h.MoveAxis() != 0 {
		t.Fatalf("gated intent reached controllers: jump=%v sprint=%v axis=%v", v.DesiredJump(), h.Sprinting(), h.MoveAxis())
	}
}

func TestIntentBufferConcurrentWriters(t *testing.T) {
	var b IntentBuffer
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				b.SetMoveAxis(float64(i%3) - 1)
				b.PressJump()
				b.ReleaseJump()
			}
		}(i)
	}
	wg.Wait()

	in := b.Drain()
	if !in.JumpPressed || !in.JumpReleased || in.JumpHeld {
		t.Fatalf("unexpected drained intent: %+v", in)
	}
	if in.MoveAxis < -1 || in.MoveAxis > 1 {
		t.Fatalf("axis out of range: %v", in.MoveAxis)
	}
}
