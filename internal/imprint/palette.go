package imprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB hex color in "#rrggbb" form.
type Color string

// Palette is the three-color brand palette applied to cover templates.
type Palette struct {
	Primary   Color `json:"primary"`
	Secondary Color `json:"secondary"`
	Accent    Color `json:"accent"`
}

// ParseColor normalizes a hex color string, accepting an optional leading '#'
// and three-digit shorthand. Shorthand requires the '#' prefix; a bare
// three-character value is too easy to confuse with a truncated color.
func ParseColor(value string) (Color, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	hasHash := strings.HasPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "#")
	switch len(trimmed) {
	case 3:
		if !hasHash {
			return "", false
		}
		expanded := make([]byte, 0, 6)
		for i := 0; i < 3; i++ {
			expanded = append(expanded, trimmed[i], trimmed[i])
		}
		trimmed = string(expanded)
	case 6:
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(trimmed, 16, 32); err != nil {
		return "", false
	}
	return Color("#" + trimmed), true
}

// Valid reports whether the color is a normalized "#rrggbb" value.
func (c Color) Valid() bool {
	parsed, ok := ParseColor(string(c))
	return ok && parsed == c
}

// RGB returns the 0-255 channel values. Invalid colors return zeros.
func (c Color) RGB() (r, g, b uint8) {
	parsed, ok := ParseColor(string(c))
	if !ok {
		return 0, 0, 0
	}
	value, _ := strconv.ParseUint(string(parsed[1:]), 16, 32)
	return uint8(value >> 16), uint8(value >> 8), uint8(value)
}

// Luminance returns the relative luminance in [0,1] used by the palette
// contrast and genre-convention rules.
func (c Color) Luminance() float64 {
	r, g, b := c.RGB()
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
}

// HexTriplet returns the color as "rrggbb" for LaTeX \definecolor use.
func (c Color) HexTriplet() string {
	return strings.ToUpper(strings.TrimPrefix(string(c), "#"))
}

// Valid reports whether all three palette entries are normalized hex colors.
func (p Palette) Valid() bool {
	return p.Primary.Valid() && p.Secondary.Valid() && p.Accent.Valid()
}

func (p Palette) String() string {
	return fmt.Sprintf("%s/%s/%s", p.Primary, p.Secondary, p.Accent)
}
