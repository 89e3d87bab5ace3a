package system

import (
	"github.com/milk9111/platformer/ecs"
	"go.uber.org/zap"
)

type PipelineConfig struct {
	Gravity float64
	Dt      float64
	Scripts ScriptLoader
	Log     *zap.Logger
}

// Pipeline is the fixed locomotion tick: input, sensor, vertical controller,
// physics step, horizontal controller, then bookkeeping.
type Pipeline struct {
	*ecs.Scheduler

	Physics   *PhysicsSystem
	Scripts   *ScriptedInputSystem
	Animation *AnimationSystem
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	physics := NewPhysicsSystem(cfg.Gravity, cfg.Dt, cfg.Log)
	scripts := NewScriptedInputSystem(cfg.Scripts, cfg.Dt, cfg.Log)
	animation := NewAnimationSystem(cfg.Log)

	sched := ecs.NewScheduler(
		scripts,
		NewIntentSystem(),
		NewGateSystem(cfg.Log),
	)
	sched.AddNamed("PhysicsSync", ecs.SystemFunc(physics.Sync))
	sched.Add(NewGroundSensorSystem(physics, cfg.Log))
	sched.Add(NewVerticalMotionSystem(cfg.Log))
	sched.Add(physics)
	sched.Add(NewHorizontalMotionSystem(cfg.Dt))
	sched.Add(NewRespawnSystem(physics, cfg.Log))
	sched.Add(animation)
	return &Pipeline{Scheduler: sched, Physics: physics, Scripts: scripts, Animation: animation}
}
