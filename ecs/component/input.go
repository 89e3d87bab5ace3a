package component

import "github.com/milk9111/platformer/motion"

// Input is the entity's intent buffer. Adapters write to it, the motion
// systems drain it once per tick.
type Input struct {
	Buffer *motion.IntentBuffer
}

var InputComponent = NewComponent[Input]()

// ScriptedInput drives Input from a tengo script instead of a device.
type ScriptedInput struct {
	Script string
	Tick   int
	Done   bool
}

var ScriptedInputComponent = NewComponent[ScriptedInput]()
