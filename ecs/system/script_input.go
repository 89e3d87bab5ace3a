package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/motion"
	"go.uber.org/zap"
)

const EventScriptDone = "script_done"

// ScriptLoader returns the source of a named script.
type ScriptLoader func(name string) ([]byte, error)

// ScriptFrame is what an input script can see each tick.
type ScriptFrame struct {
	Tick     int
	T        float64
	Grounded bool
	State    string
	X, Y     float64
	VX, VY   float64
}

// ScriptRunner runs one tengo input script. Every tick the script runs top
// to bottom with these globals set:
//
//	tick, t, grounded, state, x, y, vx, vy
//
// and may define axis (float), jump and sprint (held levels) and done.
// Held levels are turned into press and release edges here.
type ScriptRunner struct {
	compiled *tengo.Compiled
	jump     bool
	sprint   bool
}

var scriptInputs = []string{"tick", "t", "grounded", "state", "x", "y", "vx", "vy"}

func NewScriptRunner(src []byte) (*ScriptRunner, error) {
	compiled, err := CompileInputScript(src)
	if err != nil {
		return nil, err
	}
	return &ScriptRunner{compiled: compiled}, nil
}

// CompileInputScript compiles src with the input globals declared.
func CompileInputScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	for _, name := range scriptInputs {
		var zero any
		switch name {
		case "tick":
			zero = 0
		case "grounded":
			zero = false
		case "state":
			zero = ""
		default:
			zero = 0.0
		}
		if err := script.Add(name, zero); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// Step runs the script for one frame and writes its output to buf. It
// reports true once the script sets done or fails, after releasing every
// held button.
func (r *ScriptRunner) Step(f ScriptFrame, buf *motion.IntentBuffer) (bool, error) {
	err := r.run(f)

	axis := floatVar(r.compiled, "axis")
	jump := boolVar(r.compiled, "jump")
	sprint := boolVar(r.compiled, "sprint")
	done := err != nil || boolVar(r.compiled, "done")
	if done {
		axis, jump, sprint = 0, false, false
	}

	buf.SetMoveAxis(axis)
	switch {
	case jump && !r.jump:
		buf.PressJump()
	case !jump && r.jump:
		buf.ReleaseJump()
	}
	switch {
	case sprint && !r.sprint:
		buf.PressSprint()
	case !sprint && r.sprint:
		buf.ReleaseSprint()
	}
	r.jump, r.sprint = jump, sprint
	return done, err
}

func (r *ScriptRunner) run(f ScriptFrame) error {
	values := map[string]any{
		"tick":     f.Tick,
		"t":        f.T,
		"grounded": f.Grounded,
		"state":    f.State,
		"x":        f.X,
		"y":        f.Y,
		"vx":       f.VX,
		"vy":       f.VY,
	}
	for _, name := range scriptInputs {
		if err := r.compiled.Set(name, values[name]); err != nil {
			return err
		}
	}
	return r.compiled.Run()
}

func floatVar(c *tengo.Compiled, name string) float64 {
	if !c.IsDefined(name) {
		return 0
	}
	return c.Get(name).Float()
}

func boolVar(c *tengo.Compiled, name string) bool {
	if !c.IsDefined(name) {
		return false
	}
	return c.Get(name).Bool()
}

// ScriptedInputSystem feeds Input from scripts named by ScriptedInput.
// Compiled scripts are cached by name and cloned per entity.
type ScriptedInputSystem struct {
	load ScriptLoader
	dt   float64
	log  *zap.Logger

	compiled map[string]*tengo.Compiled
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	script string
	runner *ScriptRunner
}

func NewScriptedInputSystem(load ScriptLoader, dt float64, log *zap.Logger) *ScriptedInputSystem {
	return &ScriptedInputSystem{
		load:     load,
		dt:       dt,
		log:      logging.Or(log).Named("script"),
		compiled: make(map[string]*tengo.Compiled),
		runtimes: make(map[ecs.Entity]*scriptRuntime),
	}
}

// Invalidate drops a cached script so the next tick recompiles it.
func (s *ScriptedInputSystem) Invalidate(name string) {
	delete(s.compiled, name)
	for e, rt := range s.runtimes {
		if rt.script == name {
			delete(s.runtimes, e)
		}
	}
}

func (s *ScriptedInputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for e := range s.runtimes {
		if !w.IsAlive(e) {
			delete(s.runtimes, e)
		}
	}

	ecs.ForEach2(w, component.ScriptedInputComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, si *component.ScriptedInput, in *component.Input) {
		if si.Done || in.Buffer == nil {
			return
		}
		rt, err := s.runtime(e, si.Script)
		if err != nil {
			s.log.Error("load script", zap.Stringer("entity", e), zap.String("script", si.Script), zap.Error(err))
			si.Done = true
			return
		}

		done, err := rt.runner.Step(s.frame(w, e, si.Tick), in.Buffer)
		if err != nil {
			s.log.Error("run script", zap.Stringer("entity", e), zap.String("script", si.Script), zap.Int("tick", si.Tick), zap.Error(err))
		}
		si.Tick++
		if done {
			si.Done = true
			w.Events().Push(ecs.Event{Type: EventScriptDone, Entity: e, Data: si.Script})
			s.log.Info("script finished", zap.Stringer("entity", e), zap.String("script", si.Script), zap.Int("ticks", si.Tick))
		}
	})
}

func (s *ScriptedInputSystem) runtime(e ecs.Entity, name string) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.script == name {
		return rt, nil
	}
	base, ok := s.compiled[name]
	if !ok {
		if s.load == nil {
			return nil, fmt.Errorf("no script loader")
		}
		src, err := s.load(name)
		if err != nil {
			return nil, err
		}
		base, err = CompileInputScript(src)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		s.compiled[name] = base
	}
	rt := &scriptRuntime{script: name, runner: &ScriptRunner{compiled: base.Clone()}}
	s.runtimes[e] = rt
	return rt, nil
}

func (s *ScriptedInputSystem) frame(w *ecs.World, e ecs.Entity, tick int) ScriptFrame {
	f := ScriptFrame{Tick: tick, T: float64(tick) * s.dt}
	if gs, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok && gs.Sensor != nil {
		f.Grounded = gs.Sensor.IsGrounded()
	}
	if vm, ok := ecs.Get(w, e, component.VerticalMotionComponent.Kind()); ok && vm.Controller != nil {
		f.State = vm.Controller.State().String()
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		f.X, f.Y = t.X, t.Y
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		v := body.Body.Velocity()
		f.VX, f.VY = v.X, v.Y
	}
	return f
}
