package imaging

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a CSS-style hex color into a packed ARGB value.
//
// Accepted forms are "#RGB", "#RRGGBB" and "#RRGGBBAA"; the leading '#' is
// optional. Colors without an alpha component are fully opaque.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	switch len(hex) {
	case 4, 7, 9:
	default:
		return 0, fmt.Errorf("invalid color %q: expected #RGB, #RRGGBB or #RRGGBBAA", s)
	}

	alpha := uint64(0xFF)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		alpha = a
		hex = hex[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}

	r, g, b := c.RGB255()
	return uint32(alpha)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// FormatColor renders a packed ARGB value as "#RRGGBB", or "#RRGGBBAA" when
// the color is not fully opaque.
func FormatColor(argb uint32) string {
	c := colorful.Color{
		R: float64(uint8(argb>>16)) / 255.0,
		G: float64(uint8(argb>>8)) / 255.0,
		B: float64(uint8(argb)) / 255.0,
	}
	hex := strings.ToUpper(c.Hex())
	if a := uint8(argb >> 24); a != 0xFF {
		hex += fmt.Sprintf("%02X", a)
	}
	return hex
}
