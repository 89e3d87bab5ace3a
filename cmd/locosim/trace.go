package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/motion/sim"
	"github.com/milk9111/platformer/prefabs"
	"go.uber.org/zap"
)

type Options struct {
	Script  string
	Level   string
	Prefab  string
	Ticks   int
	Dt      float64
	Gravity float64
	Flat    bool
	// CloseGateAt closes the movement gate from that tick on. Negative
	// leaves it open.
	CloseGateAt int
}

// Sample is one traced tick.
type Sample struct {
	Tick     int
	X, Y     float64
	VX, VY   float64
	State    motion.JumpState
	Mode     motion.MovementMode
	Grounded bool
	Scale    float64
	Jumped   bool
	Dropped  bool
}

type Trace struct {
	Samples    []Sample
	ScriptDone bool
}

func (t *Trace) Jumps() int {
	n := 0
	for _, s := range t.Samples {
		if s.Jumped {
			n++
		}
	}
	return n
}

func (t *Trace) Dropped() int {
	n := 0
	for _, s := range t.Samples {
		if s.Dropped {
			n++
		}
	}
	return n
}

// Peak is the highest rise above the lowest grounded sample.
func (t *Trace) Peak() float64 {
	if len(t.Samples) == 0 {
		return 0
	}
	base := math.Inf(1)
	top := math.Inf(-1)
	for _, s := range t.Samples {
		if s.Grounded {
			base = math.Min(base, s.Y)
		}
		top = math.Max(top, s.Y)
	}
	if math.IsInf(base, 1) {
		base = t.Samples[0].Y
	}
	return top - base
}

func loadScript(name string) (*system.ScriptRunner, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load script %q: %w", name, err)
	}
	runner, err := system.NewScriptRunner(src)
	if err != nil {
		return nil, fmt.Errorf("compile script %q: %w", name, err)
	}
	return runner, nil
}

// RunFlat drives a bare motion.Character over an infinite floor.
func RunFlat(opts Options, log *zap.Logger) (*Trace, error) {
	cfg, err := prefabs.LoadLocomotionConfig(opts.Prefab, opts.Gravity)
	if err != nil {
		return nil, err
	}
	c, err := motion.NewCharacter(cfg)
	if err != nil {
		return nil, err
	}
	runner, err := loadScript(opts.Script)
	if err != nil {
		return nil, err
	}

	world := sim.NewWorld(opts.Gravity)
	world.GroundCategories = cfg.Sensor.Filter.Mask
	trace := &Trace{}

	for tick := 0; tick < opts.Ticks; tick++ {
		done, err := runner.Step(system.ScriptFrame{
			Tick:     tick,
			T:        float64(tick) * opts.Dt,
			Grounded: c.Sensor.IsGrounded(),
			State:    c.Vertical.State().String(),
			X:        world.Pos.X,
			Y:        world.Pos.Y,
			VX:       world.Vel.X,
			VY:       world.Vel.Y,
		}, c.Intents)
		if err != nil {
			log.Warn("script failed", zap.Int("tick", tick), zap.Error(err))
		}

		canMove := opts.CloseGateAt < 0 || tick < opts.CloseGateAt
		res := c.Step(world.Env(canMove), opts.Dt)
		trace.Samples = append(trace.Samples, Sample{
			Tick:     tick,
			X:        world.Pos.X,
			Y:        world.Pos.Y,
			VX:       world.Vel.X,
			VY:       world.Vel.Y,
			State:    res.Vertical.State,
			Mode:     res.Horizontal.Mode,
			Grounded: res.Grounded,
			Scale:    res.Vertical.GravityScale,
			Jumped:   res.Vertical.Jumped,
			Dropped:  res.Vertical.Dropped,
		})
		if done {
			trace.ScriptDone = true
			break
		}
	}
	return trace, nil
}

// RunPhysics drives the full ECS pipeline over a level.
func RunPhysics(opts Options, log *zap.Logger) (*Trace, error) {
	lvl, err := levels.LoadLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	w := ecs.NewWorld()
	res, err := entity.BuildLevel(w, lvl, opts.Gravity)
	if err != nil {
		return nil, err
	}
	if !res.Player.Valid() {
		return nil, fmt.Errorf("level %q has no player spawn", opts.Level)
	}
	if err := entity.AttachScript(w, res.Player, opts.Script); err != nil {
		return nil, err
	}

	p := system.NewPipeline(system.PipelineConfig{
		Gravity: opts.Gravity,
		Dt:      opts.Dt,
		Scripts: prefabs.LoadScript,
		Log:     log,
	})

	trace := &Trace{}
	player := res.Player
	for tick := 0; tick < opts.Ticks; tick++ {
		if tick == opts.CloseGateAt {
			if err := system.SetCanMove(w, player, false); err != nil {
				return nil, err
			}
		}
		p.Update(w)

		s := Sample{Tick: tick}
		for _, evt := range w.Events().Drain() {
			if evt.Entity == player && evt.Type == system.EventScriptDone {
				trace.ScriptDone = true
			}
		}
		if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			pos, vel := body.Body.Position(), body.Body.Velocity()
			s.X, s.Y, s.VX, s.VY = pos.X, pos.Y, vel.X, vel.Y
		}
		if vm, ok := ecs.Get(w, player, component.VerticalMotionComponent.Kind()); ok {
			s.State = vm.Last.State
			s.Scale = vm.Last.GravityScale
			s.Jumped = vm.Last.Jumped
			s.Dropped = vm.Last.Dropped
		}
		if hm, ok := ecs.Get(w, player, component.HorizontalMotionComponent.Kind()); ok {
			s.Mode = hm.Last.Mode
		}
		if gs, ok := ecs.Get(w, player, component.GroundSensorComponent.Kind()); ok {
			s.Grounded = gs.Sensor.IsGrounded()
		}
		trace.Samples = append(trace.Samples, s)
		if trace.ScriptDone {
			break
		}
	}
	return trace, nil
}

// Write prints every nth sample as an aligned table followed by a summary.
func (t *Trace) Write(out io.Writer, every int) error {
	if every <= 0 {
		every = 1
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "tick\tx\ty\tvx\tvy\tstate\tmode\tgrounded\tgravity\t")
	for i, s := range t.Samples {
		if i%every != 0 && !s.Jumped && !s.Dropped {
			continue
		}
		mark := ""
		switch {
		case s.Jumped:
			mark = " jump"
		case s.Dropped:
			mark = " dropped"
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%s\t%s\t%v\t%.3f\t%s\n",
			s.Tick, s.X, s.Y, s.VX, s.VY, s.State, s.Mode, s.Grounded, s.Scale, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nticks=%d jumps=%d dropped=%d peak=%.3f script_done=%v\n",
		len(t.Samples), t.Jumps(), t.Dropped(), t.Peak(), t.ScriptDone)
	return err
}
