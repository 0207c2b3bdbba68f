package config

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/particlefield/vmath"
)

// Color is an sRGB design token, written as "#rrggbb" in config files
type Color struct {
	colorful.Color
}

// MustHex parses a hex literal, for package-level defaults only
func MustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("config: bad color literal %q: %v", s, err))
	}
	return Color{c}
}

// NRGBA converts to a non-premultiplied color with the given alpha in [0,1]
func (c Color) NRGBA(alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(vmath.Clamp01(alpha)*255 + 0.5)}
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("color %q at line %d: %w", s, node.Line, err)
	}
	c.Color = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}
