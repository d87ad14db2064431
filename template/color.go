package template

import (
	"fmt"
	"strconv"
	"strings"
)

// Color uses 0-255 RGB components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ParseColor parses #rgb, #rrggbb and #rrggbbaa notations (alpha ignored).
func ParseColor(value string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(raw) {
	case 3:
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("cannot parse color value %q", value)
	}
	n, err := strconv.ParseUint(raw[:6], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("cannot parse color value %q", value)
	}
	return Color{R: int(n >> 16), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
