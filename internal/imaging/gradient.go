package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientResult contains a left-to-right preview of the range between two
// colors.
type GradientResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	From        string `json:"from"`
	To          string `json:"to"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderGradient draws a horizontal RGB blend from one hex color to another.
func RenderGradient(from, to string, width, height int) (*GradientResult, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid gradient size %dx%d", width, height)
	}
	if width > MaxOutputSide || height > MaxOutputSide {
		return nil, fmt.Errorf("gradient %dx%d exceeds %d px per side", width, height, MaxOutputSide)
	}
	c1, err := opaqueColor(from)
	if err != nil {
		return nil, fmt.Errorf("invalid from color %q: %w", from, err)
	}
	c2, err := opaqueColor(to)
	if err != nil {
		return nil, fmt.Errorf("invalid to color %q: %w", to, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		col := c1.BlendRgb(c2, t).Clamped()
		draw.Draw(img, image.Rect(x, 0, x+1, height), image.NewUniform(col), image.Point{}, draw.Src)
	}

	encoded, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	return &GradientResult{
		Width:       width,
		Height:      height,
		From:        c1.Hex(),
		To:          c2.Hex(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func opaqueColor(hex string) (colorful.Color, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return colorful.Color{}, err
	}
	if c.A != 255 {
		return colorful.Color{}, fmt.Errorf("color must be opaque")
	}
	col, _ := colorful.MakeColor(c)
	return col, nil
}
