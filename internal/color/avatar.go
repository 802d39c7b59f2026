// Package color picks and checks profile accent colors.
package color

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// Accent colors share one saturation and lightness so any hue stays legible
// on both light and dark backgrounds.
const (
	accentSaturation = 0.4
	accentLightness  = 0.65
)

// ForUser returns the default accent color for a user as "#RRGGBB".
// The same ID always maps to the same color.
func ForUser(userID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	hue := float64(h.Sum32() % 360)

	r, g, b := hslToRGB(hue, accentSaturation, accentLightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Normalize returns s as an upper-case "#RRGGBB" string. It accepts the
// value with or without the leading hash and reports false for anything
// that is not six hex digits.
func Normalize(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return "", false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "", false
		}
	}
	return "#" + strings.ToUpper(s), true
}

// hslToRGB converts h in [0,360) and s, l in [0,1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r1, g1, b1 float64
	switch {
	case h < 60:
		r1, g1, b1 = c, x, 0
	case h < 120:
		r1, g1, b1 = x, c, 0
	case h < 180:
		r1, g1, b1 = 0, c, x
	case h < 240:
		r1, g1, b1 = 0, x, c
	case h < 300:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}

	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return to8(r1), to8(g1), to8(b1)
}
