package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultMarkerColor is the anomaly marker color when none is given.
const DefaultMarkerColor = "#FF00FF"

// DefaultGridColor is the grid line color when none is given.
const DefaultGridColor = "#00FFFF80"

// MaxOutputSide limits the width and height of any rendered image.
const MaxOutputSide = 8192

// OverlayOptions controls how RenderOverlay draws anomaly markers.
type OverlayOptions struct {
	// MarkerColor is the hex color painted over each anomaly pixel.
	MarkerColor string

	// Dim darkens the underlying image so markers stand out. 0 leaves it
	// unchanged, 1 makes it black.
	Dim float64

	// GridSpacing draws a labeled coordinate grid every N pixels. 0 disables it.
	GridSpacing int

	// GridColor is the hex color ("#RRGGBB" or "#RRGGBBAA") of grid lines.
	GridColor string

	// Scale resizes the finished overlay. 0 or 1 keeps the original size.
	Scale float64
}

// OverlayResult contains the rendered overlay as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Markers     int    `json:"markers"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderOverlay draws points on top of the raster and returns the result as PNG.
//
// Points outside the raster are skipped and not counted as markers.
func RenderOverlay(r *Raster, points []image.Point, opts OverlayOptions) (*OverlayResult, error) {
	if !r.Valid() || r.Width == 0 || r.Height == 0 {
		return nil, fmt.Errorf("no image to render")
	}
	if opts.Dim < 0 || opts.Dim > 1 {
		return nil, fmt.Errorf("dim must be between 0 and 1, got %g", opts.Dim)
	}
	if opts.Scale < 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", opts.Scale)
	}
	if opts.Scale > 1 && float64(max(r.Width, r.Height))*opts.Scale > MaxOutputSide {
		return nil, fmt.Errorf("scale %g exceeds %d px per side for a %dx%d image",
			opts.Scale, MaxOutputSide, r.Width, r.Height)
	}
	if opts.MarkerColor == "" {
		opts.MarkerColor = DefaultMarkerColor
	}
	if opts.GridColor == "" {
		opts.GridColor = DefaultGridColor
	}

	marker, err := ParseHexColor(opts.MarkerColor)
	if err != nil {
		return nil, fmt.Errorf("invalid marker color: %w", err)
	}

	var canvas *image.RGBA
	if opts.Dim > 0 {
		canvas = adjust.Brightness(r.Image(), -opts.Dim)
	} else {
		canvas = clone.AsRGBA(r.Image())
	}

	if opts.GridSpacing > 0 {
		gridColor, err := ParseHexColor(opts.GridColor)
		if err != nil {
			return nil, fmt.Errorf("invalid grid color: %w", err)
		}
		drawGrid(canvas, opts.GridSpacing, gridColor)
	}

	markers := 0
	bounds := canvas.Bounds()
	for _, p := range points {
		if !p.In(bounds) {
			continue
		}
		canvas.SetRGBA(p.X, p.Y, marker)
		markers++
	}

	var out image.Image = canvas
	if opts.Scale > 0 && opts.Scale != 1.0 {
		w := max(1, int(float64(r.Width)*opts.Scale))
		h := max(1, int(float64(r.Height)*opts.Scale))
		out = imaging.Resize(canvas, w, h, imaging.NearestNeighbor)
	}

	encoded, err := encodePNG(out)
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Markers:     markers,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// drawGrid blends grid lines over img and labels each intersection with its
// coordinates.
func drawGrid(img *image.RGBA, spacing int, c color.RGBA) {
	bounds := img.Bounds()
	line := image.NewUniform(c)

	for x := bounds.Min.X + spacing; x < bounds.Max.X; x += spacing {
		draw.Draw(img, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), line, image.Point{}, draw.Over)
	}
	for y := bounds.Min.Y + spacing; y < bounds.Max.Y; y += spacing {
		draw.Draw(img, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), line, image.Point{}, draw.Over)
	}

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}
	for y := bounds.Min.Y + spacing; y < bounds.Max.Y; y += spacing {
		for x := bounds.Min.X + spacing; x < bounds.Max.X; x += spacing {
			drawLabel(img, x+2, y+2, strconv.Itoa(x)+","+strconv.Itoa(y), fg, bg)
		}
	}
}

// drawLabel writes text with its top-left corner at (x, y) on a filled box.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(x-1, y-1, x+width+1, y+height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + metrics.Ascent},
	}
	d.DrawString(text)
}

// ParseHexColor parses a hex color string like "#F00", "#FF0000" or
// "#FF000080". The leading '#' is optional.
func ParseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	// color.RGBA is alpha-premultiplied.
	if a != 255 {
		r = uint8(uint16(r) * uint16(a) / 255)
		g = uint8(uint16(g) * uint16(a) / 255)
		b = uint8(uint16(b) * uint16(a) / 255)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
