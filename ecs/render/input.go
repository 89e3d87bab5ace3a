package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
)

const stickDeadzone = 0.2

// KeyState is one frame of device input already reduced to edges.
type KeyState struct {
	Axis           float64
	JumpPressed    bool
	JumpReleased   bool
	SprintPressed  bool
	SprintReleased bool
}

// KeyboardInputSystem forwards keyboard and first-gamepad input to every
// player that is not driven by a script.
type KeyboardInputSystem struct{}

func NewKeyboardInputSystem() *KeyboardInputSystem {
	return &KeyboardInputSystem{}
}

func (s *KeyboardInputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	state := ReadKeys()
	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, in *component.Input) {
		if in.Buffer == nil {
			return
		}
		if si, ok := ecs.Get(w, e, component.ScriptedInputComponent.Kind()); ok && !si.Done {
			return
		}
		state.ApplyTo(in.Buffer)
	})
}

// ReadKeys samples ebiten's input state for the current frame.
func ReadKeys() KeyState {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)

	var ks KeyState
	if left {
		ks.Axis -= 1
	}
	if right {
		ks.Axis += 1
	}

	for _, key := range []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp} {
		ks.JumpPressed = ks.JumpPressed || inpututil.IsKeyJustPressed(key)
		ks.JumpReleased = ks.JumpReleased || inpututil.IsKeyJustReleased(key)
	}
	for _, key := range []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShiftRight} {
		ks.SprintPressed = ks.SprintPressed || inpututil.IsKeyJustPressed(key)
		ks.SprintReleased = ks.SprintReleased || inpututil.IsKeyJustReleased(key)
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			ks.Axis = leftX
		}
		ks.JumpPressed = ks.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		ks.JumpReleased = ks.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		ks.SprintPressed = ks.SprintPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		ks.SprintReleased = ks.SprintReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightLeft)
	}
	return ks
}

// ApplyTo writes the frame into an intent buffer. Presses go before releases
// so a tap inside one frame still registers.
func (ks KeyState) ApplyTo(buf *motion.IntentBuffer) {
	buf.SetMoveAxis(ks.Axis)
	if ks.JumpPressed {
		buf.PressJump()
	}
	if ks.JumpReleased {
		buf.ReleaseJump()
	}
	if ks.SprintPressed {
		buf.PressSprint()
	}
	if ks.SprintReleased {
		buf.ReleaseSprint()
	}
}
