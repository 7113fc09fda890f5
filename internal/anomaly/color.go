package anomaly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/color-anomaly-mcp/internal/imaging"
)

// ErrMalformedColor is returned when a color string is not a hex RGB value.
var ErrMalformedColor = errors.New("malformed color")

// ParseHexColor parses "#RRGGBB" or "#RGB" (the leading '#' is optional)
// into an RGB triple.
func ParseHexColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
	}
	c, err := imaging.ParseHexColor(hex)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrMalformedColor, s, err)
	}
	return RGB{R: int(c.R), G: int(c.G), B: int(c.B)}, nil
}

// Hex formats c as "#RRGGBB". Components outside 0-255 are clamped.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", clamp8(c.R), clamp8(c.G), clamp8(c.B))
}

func clamp8(v int) int {
	return max(0, min(255, v))
}
