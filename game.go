package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/render"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/prefabs"
	"go.uber.org/zap"
)

const (
	baseWidth      = 1280
	baseHeight     = 720
	ticksPerSecond = 60
	worldGravity   = entity.DefaultGravity
)

type GameConfig struct {
	Level         string
	Script        string
	Debug         bool
	Watch         bool
	PixelsPerUnit float64
	Log           *zap.Logger
}

type Game struct {
	frames int
	cfg    GameConfig
	log    *zap.Logger

	world    *ecs.World
	pipeline *system.Pipeline
	keyboard *render.KeyboardInputSystem
	renderer *render.RenderSystem
	camera   *render.Camera
	level    *levels.Level
	result   *entity.LevelResult
	watcher  *prefabs.Watcher

	debug  bool
	paused bool
}

func NewGame(cfg GameConfig) (*Game, error) {
	lvl, err := levels.LoadLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", cfg.Level, err)
	}

	g := &Game{
		cfg:      cfg,
		log:      logging.Or(cfg.Log),
		keyboard: render.NewKeyboardInputSystem(),
		camera:   render.NewCamera(baseWidth, baseHeight, cfg.PixelsPerUnit),
		level:    lvl,
		debug:    cfg.Debug,
	}
	g.renderer = render.NewRenderSystem(g.camera)

	if err := g.reset(); err != nil {
		return nil, err
	}

	if cfg.Watch {
		g.watcher = startWatcher(g.log)
	}
	return g, nil
}

// reset rebuilds the world from the current level.
func (g *Game) reset() error {
	world := ecs.NewWorld()
	res, err := entity.BuildLevel(world, g.level, worldGravity)
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		g.log.Warn("level entity skipped", zap.String("reason", skipped))
	}
	if !res.Player.Valid() {
		return fmt.Errorf("level %q has no player spawn", g.cfg.Level)
	}
	if g.cfg.Script != "" {
		if err := entity.AttachScript(world, res.Player, g.cfg.Script); err != nil {
			return err
		}
	}

	g.world = world
	g.result = res
	g.pipeline = system.NewPipeline(system.PipelineConfig{
		Gravity: worldGravity,
		Dt:      1.0 / ticksPerSecond,
		Scripts: prefabs.LoadScript,
		Log:     g.log,
	})
	g.camera.X, g.camera.Y = res.SpawnX, res.SpawnY
	g.log.Info("level loaded",
		zap.String("level", g.cfg.Level),
		zap.Int("ground_boxes", len(res.Ground)),
		zap.Float64("spawn_x", res.SpawnX),
		zap.Float64("spawn_y", res.SpawnY),
		zap.Strings("stages", g.pipeline.Stages()))
	return nil
}

func startWatcher(log *zap.Logger) *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts")} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		log.Info("hot reload disabled, no prefab directory on disk")
		return nil
	}
	w, err := prefabs.NewWatcher(prefabs.DefaultDebounce, dirs...)
	if err != nil {
		log.Warn("hot reload disabled", zap.Error(err))
		return nil
	}
	log.Info("watching for prefab changes", zap.Strings("dirs", dirs))
	return w
}

func (g *Game) Update() error {
	g.frames++
	g.handleHotkeys()
	g.applyReloads()

	if g.paused {
		return nil
	}

	g.keyboard.Update(g.world)
	g.pipeline.Update(g.world)
	for _, evt := range g.world.Events().Drain() {
		g.log.Debug("event", zap.Uint64("tick", evt.Tick), zap.String("type", evt.Type), zap.Stringer("entity", evt.Entity), zap.Any("data", evt.Data))
	}

	if t, ok := ecs.Get(g.world, g.result.Player, component.TransformComponent.Kind()); ok {
		bounds, _ := ecs.Get(g.world, g.result.Bounds, component.LevelBoundsComponent.Kind())
		w, h := 0.0, 0.0
		if bounds != nil {
			w, h = bounds.Width, bounds.Height
		}
		g.camera.Follow(t.X, t.Y, w, h)
	}
	return nil
}

func (g *Game) handleHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		open := !system.CanMove(g.world, g.result.Player)
		if err := system.SetCanMove(g.world, g.result.Player, open); err != nil {
			g.log.Warn("toggle movement gate", zap.Error(err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.reset(); err != nil {
			g.log.Error("reset level", zap.Error(err))
		}
	}
}

// applyReloads drains settled file changes between ticks. Invalid tuning is
// logged and the running controllers keep their last good configuration.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("watch error", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	name := change.Name()
	switch change.Kind {
	case prefabs.ChangeScript:
		g.pipeline.Scripts.Invalidate(name)
		g.log.Info("script reloaded", zap.String("script", name))
	case prefabs.ChangePrefab:
		cfg, err := prefabs.LoadLocomotionConfig(name, worldGravity)
		if err != nil {
			g.log.Warn("prefab rejected", zap.String("prefab", name), zap.Error(err))
			return
		}
		n, err := system.ApplyTuning(g.world, name, cfg)
		if err != nil {
			g.log.Warn("tuning rejected", zap.String("prefab", name), zap.Error(err))
			return
		}
		g.log.Info("tuning reloaded", zap.String("prefab", name), zap.Int("entities", n))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.world, screen)
	if g.debug {
		render.DrawDebug(g.world, g.pipeline.Physics.Space(), screen, g.camera)
	}

	status := fmt.Sprintf("FPS: %.2f  [F1] debug  [G] gate  [R] reset  [P] pause", ebiten.ActualFPS())
	if g.paused {
		status += "  PAUSED"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, baseHeight-20)
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("close watcher", zap.Error(err))
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
