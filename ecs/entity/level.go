package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// LevelResult lists what BuildLevel created.
type LevelResult struct {
	Player  ecs.Entity
	SpawnX  float64
	SpawnY  float64
	Ground  []ecs.Entity
	Bounds  ecs.Entity
	Skipped []string
}

// BuildLevel loads a level into the world: one static box per merged run of
// solid tiles, the level bounds and the entities it places. The grid is
// flipped so the bottom row sits on y = 0.
func BuildLevel(w *ecs.World, lvl *levels.Level, gravity float64) (*LevelResult, error) {
	if w == nil {
		return nil, fmt.Errorf("build level: world is nil")
	}
	if lvl == nil {
		return nil, fmt.Errorf("build level: level is nil")
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}

	ts := lvl.TileWorldSize()
	res := &LevelResult{}

	res.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, res.Bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  float64(lvl.Width) * ts,
		Height: float64(lvl.Height) * ts,
	}); err != nil {
		return nil, err
	}

	for i := range lvl.Layers {
		if !lvl.LayerHasPhysics(i) {
			continue
		}
		for _, r := range mergeSolidTiles(lvl, i) {
			cx := (float64(r.x) + float64(r.w)/2) * ts
			// r.row is the top row of the run.
			bottom := float64(lvl.Height-r.row-r.h) * ts
			cy := bottom + float64(r.h)*ts/2
			e, err := NewGroundBox(w, cx, cy, float64(r.w)*ts, float64(r.h)*ts)
			if err != nil {
				return nil, fmt.Errorf("build level: layer %d: %w", i, err)
			}
			res.Ground = append(res.Ground, e)
		}
	}

	for _, ent := range lvl.Entities {
		x, y := TileCenter(lvl, ent.X, ent.Y)
		switch strings.ToLower(ent.Type) {
		case "player":
			if res.Player.Valid() {
				res.Skipped = append(res.Skipped, fmt.Sprintf("player at %d,%d: duplicate spawn", ent.X, ent.Y))
				continue
			}
			e, err := NewPlayerAtWithGravity(w, x, y, gravity)
			if err != nil {
				return nil, fmt.Errorf("build level: %w", err)
			}
			if script, ok := ent.Props["script"].(string); ok && script != "" {
				if err := AttachScript(w, e, script); err != nil {
					return nil, fmt.Errorf("build level: %w", err)
				}
			}
			res.Player = e
			res.SpawnX, res.SpawnY = x, y
		default:
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s at %d,%d: unknown type", ent.Type, ent.X, ent.Y))
		}
	}

	return res, nil
}

// TileCenter returns the world position of a tile's centre.
func TileCenter(lvl *levels.Level, x, row int) (float64, float64) {
	ts := lvl.TileWorldSize()
	return (float64(x) + 0.5) * ts, (float64(lvl.Height-1-row) + 0.5) * ts
}

// AttachScript makes a tengo script drive the entity's input.
func AttachScript(w *ecs.World, e ecs.Entity, script string) error {
	if !ecs.Has(w, e, component.InputComponent.Kind()) {
		if err := addInput(w, e, nil, nil); err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.ScriptedInputComponent.Kind(), &component.ScriptedInput{Script: script})
}

type tileRun struct {
	x, row int
	w, h   int
}

// mergeSolidTiles greedily covers the solid tiles of a layer with rectangles,
// widest run first then extended downwards.
func mergeSolidTiles(lvl *levels.Level, layer int) []tileRun {
	width, height := lvl.Width, lvl.Height
	visited := make([]bool, width*height)
	open := func(x, y int) bool {
		return !visited[y*width+x] && lvl.Solid(layer, x, y)
	}

	var runs []tileRun
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && open(x2, y); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !open(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[yy*width+xx] = true
				}
			}
			runs = append(runs, tileRun{x: x, row: y, w: maxW, h: maxH})
		}
	}
	return runs
}

func physicsBody(w *ecs.World, e ecs.Entity) (*component.PhysicsBody, error) {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body == nil {
		return nil, fmt.Errorf("entity %v has no physics body", e)
	}
	return body, nil
}
