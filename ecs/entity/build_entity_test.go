package entity

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/prefabs"
)

func useDiskPrefabs(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	old := prefabs.DiskDir
	prefabs.DiskDir = dir
	t.Cleanup(func() { prefabs.DiskDir = old })
}

func TestBuildPlayer(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayerAt(w, 3, 4)
	if err != nil {
		t.Fatalf("build player: %v", err)
	}

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || tr.X != 3 || tr.Y != 4 || tr.ScaleX != 1 {
		t.Fatalf("unexpected transform %+v", tr)
	}

	for name, has := range map[string]bool{
		"player_tag":    ecs.Has(w, e, component.PlayerTagComponent.Kind()),
		"physics_body":  ecs.Has(w, e, component.PhysicsBodyComponent.Kind()),
		"input":         ecs.Has(w, e, component.InputComponent.Kind()),
		"ground_sensor": ecs.Has(w, e, component.GroundSensorComponent.Kind()),
		"vertical":      ecs.Has(w, e, component.VerticalMotionComponent.Kind()),
		"horizontal":    ecs.Has(w, e, component.HorizontalMotionComponent.Kind()),
		"animation":     ecs.Has(w, e, component.AnimationParamsComponent.Kind()),
		"safe_respawn":  ecs.Has(w, e, component.SafeRespawnComponent.Kind()),
	} {
		if !has {
			t.Fatalf("expected %s on player", name)
		}
	}

	gate, _ := ecs.Get(w, e, component.MovementGateComponent.Kind())
	if !gate.CanMove || !gate.Initial {
		t.Fatalf("expected open gate, got %+v", gate)
	}

	vm, _ := ecs.Get(w, e, component.VerticalMotionComponent.Kind())
	gs, _ := ecs.Get(w, e, component.GravityScaleComponent.Kind())
	if gs.Scale != vm.Controller.GravityScale() {
		t.Fatalf("gravity scale %v does not match controller %v", gs.Scale, vm.Controller.GravityScale())
	}
	if gs.MaxFallSpeed != 12 {
		t.Fatalf("expected max fall speed 12, got %v", gs.MaxFallSpeed)
	}
	if vm.Controller.WorldGravity() != DefaultGravity {
		t.Fatalf("expected world gravity %v, got %v", DefaultGravity, vm.Controller.WorldGravity())
	}

	tuning, _ := ecs.Get(w, e, component.TuningComponent.Kind())
	if tuning.Prefab != PlayerPrefab || !tuning.Config.Jump.AnalogJump {
		t.Fatalf("unexpected tuning %+v", tuning)
	}
}

func TestBuildEntityFailuresLeaveNothing(t *testing.T) {
	useDiskPrefabs(t, map[string]string{
		"bad_jump.yaml": "name: bad\ncomponents:\n  transform: {}\n  locomotion:\n    jump:\n      time_to_apex: 0\n",
		"unknown.yaml":  "name: odd\ncomponents:\n  transform: {}\n  wings: {}\n",
		"empty.yaml":    "name: empty\n",
		"flat_box.yaml": "name: box\ncomponents:\n  physics_body:\n    width: 0\n    height: 1\n",
	})

	tests := []struct {
		prefab  string
		wantCfg bool
	}{
		{prefab: "bad_jump.yaml", wantCfg: true},
		{prefab: "unknown.yaml"},
		{prefab: "empty.yaml"},
		{prefab: "flat_box.yaml"},
		{prefab: "missing.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.prefab, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildEntity(w, tt.prefab)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantCfg && !errors.Is(err, motion.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("expected no live entities, got %d", n)
			}
		})
	}
}

func TestScriptedInputAddsInput(t *testing.T) {
	useDiskPrefabs(t, map[string]string{
		"bot.yaml": "name: bot\ncomponents:\n  scripted_input:\n    script: walk_jump\n  movement_gate:\n    initial: false\n",
	})
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "bot.yaml")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok || in.Buffer == nil {
		t.Fatal("expected input buffer")
	}
	si, _ := ecs.Get(w, e, component.ScriptedInputComponent.Kind())
	if si.Script != "walk_jump" {
		t.Fatalf("expected walk_jump, got %q", si.Script)
	}
	gate, _ := ecs.Get(w, e, component.MovementGateComponent.Kind())
	if gate.CanMove || gate.Initial {
		t.Fatalf("expected closed gate, got %+v", gate)
	}
}

func TestBuildFlatLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("flat")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	res, err := BuildLevel(w, lvl, DefaultGravity)
	if err != nil {
		t.Fatalf("build level: %v", err)
	}

	if len(res.Ground) != 1 {
		t.Fatalf("expected one merged floor box, got %d", len(res.Ground))
	}
	body, _ := ecs.Get(w, res.Ground[0], component.PhysicsBodyComponent.Kind())
	tr, _ := ecs.Get(w, res.Ground[0], component.TransformComponent.Kind())
	if body.Width != 12 || body.Height != 1 || !body.Static {
		t.Fatalf("unexpected floor body %+v", body)
	}
	if tr.X != 6 || tr.Y != 0.5 {
		t.Fatalf("expected floor centred at 6,0.5, got %v,%v", tr.X, tr.Y)
	}

	if !res.Player.Valid() || res.SpawnX != 1.5 || res.SpawnY != 2.5 {
		t.Fatalf("unexpected spawn %+v", res)
	}
	bounds, ok := ecs.Get(w, res.Bounds, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width != 12 || bounds.Height != 4 {
		t.Fatalf("unexpected bounds %+v", bounds)
	}
}

func TestMergeSolidTiles(t *testing.T) {
	// ##.
	// ##.
	// ###
	lvl := &levels.Level{
		Width:     3,
		Height:    3,
		Layers:    [][]int{{1, 1, 0, 1, 1, 0, 1, 1, 1}},
		LayerMeta: []levels.LayerMeta{{Physics: true}},
	}
	runs := mergeSolidTiles(lvl, 0)
	covered := 0
	for _, r := range runs {
		covered += r.w * r.h
	}
	if covered != 7 {
		t.Fatalf("expected 7 tiles covered, got %d (%+v)", covered, runs)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 rectangles, got %+v", runs)
	}
	if runs[0] != (tileRun{x: 0, row: 0, w: 2, h: 3}) {
		t.Fatalf("unexpected first run %+v", runs[0])
	}
}

func TestBuildLevelSkipsUnknownAndScripts(t *testing.T) {
	lvl := &levels.Level{
		Width:     4,
		Height:    2,
		TileSize:  2,
		Layers:    [][]int{{0, 0, 0, 0, 1, 1, 1, 1}},
		LayerMeta: []levels.LayerMeta{{Physics: true}},
		Entities: []levels.Entity{
			{Type: "player", X: 0, Y: 0, Props: map[string]any{"script": "jump_spam"}},
			{Type: "player", X: 1, Y: 0},
			{Type: "lamp", X: 2, Y: 0},
		},
	}
	w := ecs.NewWorld()
	res, err := BuildLevel(w, lvl, 20)
	if err != nil {
		t.Fatalf("build level: %v", err)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected 2 skipped entities, got %v", res.Skipped)
	}
	si, ok := ecs.Get(w, res.Player, component.ScriptedInputComponent.Kind())
	if !ok || si.Script != "jump_spam" {
		t.Fatal("expected scripted input on the player")
	}
	vm, _ := ecs.Get(w, res.Player, component.VerticalMotionComponent.Kind())
	if vm.Controller.WorldGravity() != 20 {
		t.Fatalf("expected world gravity 20, got %v", vm.Controller.WorldGravity())
	}
	if math.Abs(res.SpawnY-3) > 1e-9 {
		t.Fatalf("expected spawn y 3, got %v", res.SpawnY)
	}
}

func TestBuildLevelRejectsInvalid(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildLevel(w, &levels.Level{Width: 2, Height: 2, Layers: [][]int{{1}}}, DefaultGravity); !errors.Is(err, levels.ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
	if _, err := BuildLevel(w, nil, DefaultGravity); err == nil {
		t.Fatal("expected error for nil level")
	}
}
