package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa". Invalid input yields opaque black.
func Hex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}

func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexString formats c as "#rrggbb", appending alpha only when it is not opaque.
func HexString(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
