// Command locosim runs a character headless under a tengo input script and
// prints a per-tick trace for tuning.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/logging"
	"go.uber.org/zap"
)

func main() {
	var opts Options
	flag.StringVar(&opts.Script, "script", "walk_jump", "input script in prefabs/scripts")
	flag.StringVar(&opts.Level, "level", "flat", "level to run in (ignored with -flat)")
	flag.StringVar(&opts.Prefab, "prefab", entity.PlayerPrefab, "prefab carrying the locomotion tuning")
	flag.IntVar(&opts.Ticks, "ticks", 600, "maximum ticks to simulate")
	flag.Float64Var(&opts.Dt, "dt", 1.0/60.0, "fixed timestep in seconds")
	flag.Float64Var(&opts.Gravity, "gravity", entity.DefaultGravity, "world gravity magnitude")
	flag.BoolVar(&opts.Flat, "flat", false, "use the point-body world instead of the physics engine")
	flag.IntVar(&opts.CloseGateAt, "gate", -1, "close the movement gate from this tick on")
	every := flag.Int("every", 1, "print every nth tick")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if err := logging.Init(logging.Config{Level: *logLevel, Console: true}); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()
	logger := logging.L()

	run := RunPhysics
	if opts.Flat {
		run = RunFlat
	}
	trace, err := run(opts, logger)
	if err != nil {
		logger.Fatal("simulate", zap.Error(err))
	}
	if err := trace.Write(os.Stdout, *every); err != nil {
		logger.Fatal("write trace", zap.Error(err))
	}
}
