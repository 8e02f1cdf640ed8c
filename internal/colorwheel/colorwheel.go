// Package colorwheel maps a touch position on a circular color picker to a
// hue and a hex color.  Every call is independent; nothing is remembered
// between gestures.
package colorwheel

import (
	"fmt"
	"math"
)

// Hue returns the angle in degrees, in [0, 360), of point (x, y) around the
// wheel centre (cx, cy).  0° points right and angles grow clockwise in
// screen coordinates (y down).
func Hue(cx, cy, x, y float64) float64 {
	deg := math.Atan2(y-cy, x-cx) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// HueToHex converts a hue at full saturation and half lightness to #rrggbb.
func HueToHex(hue float64) string {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	c := 1.0 // chroma for s=1, l=0.5
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
}

// FromPoint is Hue followed by HueToHex.
func FromPoint(cx, cy, x, y float64) string {
	return HueToHex(Hue(cx, cy, x, y))
}

func to8(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
