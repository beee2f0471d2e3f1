package theme

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	darkText  = "#121418"
	lightText = "#F8F8F8"
)

var (
	black = colorful.Color{}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

// normalizeHex returns hex as #RRGGBB in upper case. Short #RGB forms are
// expanded, longer forms are cut to six digits.
func normalizeHex(hex string) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch {
	case h == "":
		return ""
	case len(h) == 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case len(h) > 6:
		h = h[:6]
	}
	return "#" + strings.ToUpper(h)
}

func parseHex(hex string) (colorful.Color, bool) {
	h := normalizeHex(hex)
	if h == "" {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(h)
	return c, err == nil
}

// ContrastText returns a dark or light text color readable on top of hex.
func ContrastText(hex string) string {
	c, ok := parseHex(hex)
	if !ok {
		return darkText
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.55 {
		return darkText
	}
	return lightText
}

// blend moves hex towards target by amount in [0,1], in Lab space.
func blend(hex string, target colorful.Color, amount float64) string {
	c, ok := parseHex(hex)
	if !ok {
		return normalizeHex(hex)
	}
	amount = min(max(amount, 0), 1)
	return strings.ToUpper(c.BlendLab(target, amount).Clamped().Hex())
}

// shade derives a light/dark pair from one seed color: darker for light
// backgrounds, lighter for dark ones.
func shade(hex string, darken, lighten float64, fallback Color) Color {
	if normalizeHex(hex) == "" {
		return fallback
	}
	return Color{Light: blend(hex, black, darken), Dark: blend(hex, white, lighten)}
}

func solid(hex string) Color {
	h := normalizeHex(hex)
	return Color{Light: h, Dark: h}
}

// onColor is a solid fill with readable text on top of it.
func onColor(hex string) (fill, text Color) {
	return solid(hex), solid(ContrastText(hex))
}
