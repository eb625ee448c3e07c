// Package colorutil picks readable text colors for shift-type backgrounds.
package colorutil

import (
	"strconv"
	"strings"
)

const (
	DarkText  = "#1e293b"
	LightText = "#ffffff"
)

// RGB parses "#rrggbb" or "#rgb".
func RGB(hex string) (r, g, b int, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v>>16) & 0xff, int(v>>8) & 0xff, int(v) & 0xff, true
}

// Contrast returns the text color to draw on top of the hex background bg.
// "#abc" is expanded to "#aabbcc". Unparseable input gets LightText.
func Contrast(bg string) string {
	r, g, b, ok := RGB(bg)
	if !ok {
		return LightText
	}
	lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if lum > 0.55 {
		return DarkText
	}
	return LightText
}
