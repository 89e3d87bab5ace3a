package motion

import "sync"

// Intent is one tick's worth of input. Edges (Pressed/Released) latch between
// drains; levels and the axis are last-write-wins.
type Intent struct {
	MoveAxis       float64
	JumpPressed    bool
	JumpReleased   bool
	JumpHeld       bool
	SprintPressed  bool
	SprintReleased bool
	SprintHeld     bool
}

// IntentBuffer collects input events that may arrive from any goroutine
// between ticks.
type IntentBuffer struct {
	mu  sync.Mutex
	cur Intent
}

func (b *IntentBuffer) SetMoveAxis(axis float64) {
	b.mu.Lock()
	b.cur.MoveAxis = axis
	b.mu.Unlock()
}

func (b *IntentBuffer) PressJump() {
	b.mu.Lock()
	b.cur.JumpPressed = true
	b.cur.JumpHeld = true
	b.mu.Unlock()
}

func (b *IntentBuffer) ReleaseJump() {
	b.mu.Lock()
	b.cur.JumpReleased = true
	b.cur.JumpHeld = false
	b.mu.Unlock()
}

func (b *IntentBuffer) PressSprint() {
	b.mu.Lock()
	b.cur.SprintPressed = true
	b.cur.SprintHeld = true
	b.mu.Unlock()
}

func (b *IntentBuffer) ReleaseSprint() {
	b.mu.Lock()
	b.cur.SprintReleased = true
	b.cur.SprintHeld = false
	b.mu.Unlock()
}

// Drain returns the pending intent and clears the latched edges.
func (b *IntentBuffer) Drain() Intent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.cur
	b.cur.JumpPressed = false
	b.cur.JumpReleased = false
	b.cur.SprintPressed = false
	b.cur.SprintReleased = false
	return out
}

// Apply feeds the intent to both controllers in event order: a press is
// delivered before a release, and a release is only delivered if the button
// is still up at the end of the window.
func (in Intent) Apply(v *VerticalController, h *HorizontalController, canMove bool) {
	if h != nil {
		h.SetMoveAxis(in.MoveAxis, canMove)
		if in.SprintPressed {
			h.SprintStart(canMove)
		}
		if in.SprintReleased && !in.SprintHeld {
			h.SprintEnd(canMove)
		}
	}
	if v != nil {
		if in.JumpPressed {
			v.JumpPressed(canMove)
		}
		if in.JumpReleased && !in.JumpHeld {
			v.JumpReleased(canMove)
		}
	}
}
