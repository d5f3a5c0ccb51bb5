package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a straight-alpha color with each component in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Common colors.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// RGBA builds a Color from its components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Invert returns the color-inverse of c, keeping alpha.
func (c Color) Invert() Color {
	return Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B, A: c.A}
}

// Average returns the component-wise mean of a and b.
func Average(a, b Color) Color {
	return Color{
		R: (a.R + b.R) / 2,
		G: (a.G + b.G) / 2,
		B: (a.B + b.B) / 2,
		A: (a.A + b.A) / 2,
	}
}

// Highlight is the color used for construction guides and the selection
// overlay of a shape painted with fill and line.
func Highlight(fill, line Color) Color {
	return Average(fill, line).Invert()
}

// Hex formats c as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

func (c Color) String() string {
	return c.Hex()
}

// ParseHex parses #rgb, #rrggbb or #rrggbbaa.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decode implements envconfig.Decoder.
func (c *Color) Decode(value string) error {
	parsed, err := ParseHex(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
