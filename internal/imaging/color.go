package imaging

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrOutOfBounds is returned for pixel coordinates outside an image.
var ErrOutOfBounds = errors.New("coordinates outside image bounds")

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component is straight (not premultiplied):
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled pixel color in several representations.
//
// Hex is what the color inputs of the anomaly tools accept, so a sampled
// color can be passed straight back as color_one or color_two.
type ColorResult struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor returns the color of the raster pixel at (x, y).
//
// Coordinates are 0-based with origin at top-left. An error wrapping
// ErrOutOfBounds is returned when (x, y) is outside the raster.
func SampleColor(r *Raster, x, y int) (*ColorResult, error) {
	red, green, blue, alpha, err := r.RGBA(x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to sample color: %w", err)
	}

	return &ColorResult{
		X:    x,
		Y:    y,
		Hex:  fmt.Sprintf("#%02X%02X%02X", red, green, blue),
		RGB:  RGBColor{R: red, G: green, B: blue},
		RGBA: RGBAColor{R: red, G: green, B: blue, A: alpha},
		HSL:  toHSL(red, green, blue),
	}, nil
}

// toHSL converts 8-bit RGB to whole-number HSL.
func toHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
