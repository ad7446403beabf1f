package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGBA is a color.RGBA that reads and writes as "#rrggbb" or "#rrggbbaa" in YAML
type RGBA color.RGBA

// Color returns the value as color.RGBA
func (c RGBA) Color() color.RGBA {
	return color.RGBA(c)
}

// Hex formats the color as #rrggbb, adding the alpha byte when not opaque
func (c RGBA) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c RGBA) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

func (c *RGBA) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseHex(value.Value)
	if err != nil {
		return err
	}
	*c = RGBA(parsed)
	return nil
}

// ParseHex parses #rgb, #rrggbb and #rrggbbaa
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is ParseHex for package-level palettes
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha channel scaled by alpha in [0,1].
// The result stays non-premultiplied; renderer converts at draw time.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return c
	}
	if alpha <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(float64(c.A)*alpha + 0.5)
	return c
}
