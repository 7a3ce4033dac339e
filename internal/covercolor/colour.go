package covercolor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Fallback is the wood brown used when a cover colour cannot be derived.
var Fallback = color.RGBA{R: 0x8b, G: 0x45, B: 0x13, A: 0xff}

// SpineFactor darkens the cover colour for the spine.
const SpineFactor = 0.8

// ParseHex parses "#RGB", "#RRGGBB" or the same without the leading '#'.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("covercolor: invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("covercolor: invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale multiplies each channel by f (clamped to 0..255). Alpha is kept.
func Scale(c color.RGBA, f float32) color.RGBA {
	ch := func(v uint8) uint8 {
		x := float32(v) * f
		switch {
		case x < 0:
			return 0
		case x > 255:
			return 255
		}
		return uint8(x + 0.5)
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

// Spine returns the spine colour for a cover colour.
func Spine(c color.RGBA) color.RGBA {
	return Scale(c, SpineFactor)
}
