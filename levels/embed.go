package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// DiskDir is checked before the embedded levels. Empty disables it.
var DiskDir = "levels"

var ErrInvalidLevel = errors.New("invalid level")

// Level is a grid of tiles. Row 0 is the top row of the grid; builders flip
// it into the Y-up world.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity places a prefab at a tile position.
type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// TileWorldSize returns the tile edge in world units, defaulting to 1.
func (l *Level) TileWorldSize() float64 {
	if l.TileSize <= 0 {
		return 1
	}
	return l.TileSize
}

// LayerHasPhysics reports whether a layer's tiles collide.
func (l *Level) LayerHasPhysics(i int) bool {
	return i >= 0 && i < len(l.LayerMeta) && l.LayerMeta[i].Physics
}

// Solid reports whether the tile at (x, row) of layer i is filled.
func (l *Level) Solid(layer, x, row int) bool {
	if x < 0 || row < 0 || x >= l.Width || row >= l.Height {
		return false
	}
	idx := row*l.Width + x
	tiles := l.Layers[layer]
	return idx < len(tiles) && tiles[idx] > 0
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	for i, ent := range l.Entities {
		if ent.X < 0 || ent.Y < 0 || ent.X >= l.Width || ent.Y >= l.Height {
			return fmt.Errorf("%w: entity %d (%s) at %d,%d is outside the grid", ErrInvalidLevel, i, ent.Type, ent.X, ent.Y)
		}
	}
	return nil
}

func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// LoadLevel reads a level from DiskDir, falling back to the embedded copy.
func LoadLevel(name string) (*Level, error) {
	name = cleanLevelPath(name)
	if DiskDir != "" {
		if data, err := os.ReadFile(filepath.Join(DiskDir, name)); err == nil {
			return ParseLevel(data)
		}
	}
	return LoadLevelFromFS(name)
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, cleanLevelPath(name))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return ParseLevel(data)
}

func cleanLevelPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}
