package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

var (
	defaultFill = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	facingMark  = color.RGBA{R: 255, G: 255, B: 255, A: 220}
)

// RenderSystem draws every collider as a flat rectangle.
type RenderSystem struct {
	Camera *Camera
}

func NewRenderSystem(cam *Camera) *RenderSystem {
	return &RenderSystem{Camera: cam}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || r.Camera == nil || w == nil || screen == nil {
		return
	}

	entities := w.Query(component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layerOf(w, entities[i]), layerOf(w, entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())

		fill := defaultFill
		if app, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok {
			fill = app.Color
		}

		x, y, wdt, hgt := r.Camera.RectToScreen(t.X, t.Y, body.Width, body.Height)
		vector.DrawFilledRect(screen, x, y, wdt, hgt, fill, false)

		if ecs.Has(w, e, component.HorizontalMotionComponent.Kind()) {
			// Eye on the facing side.
			eye := wdt / 4
			ex := x + wdt - eye - 2
			if t.ScaleX < 0 {
				ex = x + 2
			}
			vector.DrawFilledRect(screen, ex, y+hgt/5, eye, eye, facingMark, false)
		}
	}
}

func layerOf(w *ecs.World, e ecs.Entity) int {
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		return layer.Index
	}
	return 0
}
