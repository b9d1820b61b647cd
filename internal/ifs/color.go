package ifs

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGB tag. It marshals to and from "#rrggbb" text so
// documents keep the familiar hex notation while the core works on channels.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// ParseColor parses "#rrggbb" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseColor is ParseColor for package-level tables; it panics on bad input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// Normalized returns the channels divided by 255.
func (c Color) Normalized() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Palette is the color cycle assigned to newly created transforms.
var Palette = []Color{
	MustParseColor("#16a085"),
	MustParseColor("#e74c3c"),
	MustParseColor("#9b59b6"),
	MustParseColor("#f39c12"),
	MustParseColor("#3498db"),
	MustParseColor("#e91e63"),
	MustParseColor("#27ae60"),
	MustParseColor("#f1c40f"),
}

// PaletteColor returns the palette entry for the i-th transform.
func PaletteColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
