package entity

import (
	"fmt"

	"github.com/milk9111/platformer/ecs"
)

const (
	PlayerPrefab = "player.yaml"
	GroundPrefab = "ground.yaml"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, PlayerPrefab)
}

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	return NewPlayerAtWithGravity(w, x, y, DefaultGravity)
}

func NewPlayerAtWithGravity(w *ecs.World, x, y, gravity float64) (ecs.Entity, error) {
	entity, err := BuildEntityWithGravity(w, PlayerPrefab, gravity)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// NewGroundBox builds a static box centred on (x, y).
func NewGroundBox(w *ecs.World, x, y, width, height float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, GroundPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("ground: override transform: %w", err)
	}
	body, err := physicsBody(w, e)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("ground: %w", err)
	}
	body.Width, body.Height = width, height
	return e, nil
}
