package prefabs

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads a prefab and decodes it into T. An empty file yields the
// zero T.
func LoadSpec[T any](name string) (T, error) {
	var spec T
	data, err := Load(name)
	if err != nil {
		return spec, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		var zero T
		return zero, fmt.Errorf("prefabs: decode %s: %w", name, err)
	}
	return spec, nil
}

// YAMLColor is an sRGB colour written "#rrggbb" or "#rrggbbaa". Alpha
// defaults to opaque.
type YAMLColor struct {
	color.RGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("prefabs: line %d: color must be a string", value.Line)
	}
	hex := strings.TrimPrefix(value.Value, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return fmt.Errorf("prefabs: line %d: color %q is not #rrggbb or #rrggbbaa", value.Line, value.Value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fmt.Errorf("prefabs: line %d: color %q: %w", value.Line, value.Value, err)
	}
	c.RGBA = color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}
