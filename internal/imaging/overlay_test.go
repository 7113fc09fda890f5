package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// decodeResultImage decodes a base64 PNG produced by a render function.
func decodeResultImage(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func rgb8(c color.Color) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestRenderOverlay_Markers(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(10, 10, color.RGBA{100, 100, 100, 255}))
	points := []image.Point{{1, 1}, {5, 7}}

	result, err := RenderOverlay(r, points, OverlayOptions{})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if result.Markers != 2 {
		t.Errorf("Markers: got %d, want 2", result.Markers)
	}
	if result.Width != 10 || result.Height != 10 {
		t.Errorf("size: got %dx%d, want 10x10", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	img := decodeResultImage(t, result.ImageBase64)
	if r, g, b := rgb8(img.At(5, 7)); r != 255 || g != 0 || b != 255 {
		t.Errorf("marker pixel: got (%d,%d,%d), want magenta", r, g, b)
	}
	if r, g, b := rgb8(img.At(0, 0)); r != 100 || g != 100 || b != 100 {
		t.Errorf("untouched pixel: got (%d,%d,%d), want (100,100,100)", r, g, b)
	}
}

func TestRenderOverlay_Dim(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(4, 4, color.RGBA{200, 200, 200, 255}))

	result, err := RenderOverlay(r, nil, OverlayOptions{Dim: 0.5})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	img := decodeResultImage(t, result.ImageBase64)
	red, _, _ := rgb8(img.At(2, 2))
	if red >= 200 {
		t.Errorf("dimmed pixel red = %d, want < 200", red)
	}
}

func TestRenderOverlay_SkipsOutsidePoints(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(4, 4, color.RGBA{0, 0, 0, 255}))
	points := []image.Point{{-1, 0}, {4, 0}, {0, 4}, {3, 3}}

	result, err := RenderOverlay(r, points, OverlayOptions{})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if result.Markers != 1 {
		t.Errorf("Markers: got %d, want 1", result.Markers)
	}
}

func TestRenderOverlay_Scale(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(10, 5, color.RGBA{0, 0, 0, 255}))

	result, err := RenderOverlay(r, []image.Point{{0, 0}}, OverlayOptions{Scale: 3})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if result.Width != 30 || result.Height != 15 {
		t.Errorf("size: got %dx%d, want 30x15", result.Width, result.Height)
	}

	// Nearest neighbor keeps the marker a solid 3x3 block.
	img := decodeResultImage(t, result.ImageBase64)
	if r, g, b := rgb8(img.At(2, 2)); r != 255 || g != 0 || b != 255 {
		t.Errorf("scaled marker pixel: got (%d,%d,%d), want magenta", r, g, b)
	}
}

func TestRenderOverlay_Grid(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(100, 100, color.RGBA{0, 0, 0, 255}))

	result, err := RenderOverlay(r, nil, OverlayOptions{GridSpacing: 50, GridColor: "#00FF00"})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	img := decodeResultImage(t, result.ImageBase64)
	if _, g, _ := rgb8(img.At(50, 10)); g != 255 {
		t.Errorf("grid line pixel green = %d, want 255", g)
	}
	if _, g, _ := rgb8(img.At(10, 10)); g != 0 {
		t.Errorf("off-grid pixel green = %d, want 0", g)
	}
}

func TestRenderOverlay_InvalidOptions(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(4, 4, color.RGBA{0, 0, 0, 255}))

	tests := []struct {
		name string
		opts OverlayOptions
	}{
		{"dim too high", OverlayOptions{Dim: 1.5}},
		{"dim negative", OverlayOptions{Dim: -0.1}},
		{"negative scale", OverlayOptions{Scale: -2}},
		{"scale past output limit", OverlayOptions{Scale: 10000}},
		{"bad marker color", OverlayOptions{MarkerColor: "#XYZ"}},
		{"bad grid color", OverlayOptions{GridSpacing: 2, GridColor: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderOverlay(r, nil, tt.opts); err == nil {
				t.Error("RenderOverlay should fail")
			}
		})
	}
}

func TestRenderOverlay_NoRaster(t *testing.T) {
	if _, err := RenderOverlay(nil, nil, OverlayOptions{}); err == nil {
		t.Error("RenderOverlay should fail without a raster")
	}
}

func TestRenderOverlay_ShortRaster(t *testing.T) {
	r := &Raster{Width: 4, Height: 4, Pix: make([]uint8, 8)}
	if _, err := RenderOverlay(r, nil, OverlayOptions{}); err == nil {
		t.Error("RenderOverlay should fail when Pix is too short")
	}
}

func TestRenderOverlay_DoesNotModifyRaster(t *testing.T) {
	r := RasterFromImage(createInMemoryImage(3, 3, color.RGBA{10, 10, 10, 255}))
	before := append([]uint8(nil), r.Pix...)

	if _, err := RenderOverlay(r, []image.Point{{1, 1}}, OverlayOptions{GridSpacing: 1}); err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if !bytes.Equal(before, r.Pix) {
		t.Error("RenderOverlay modified the source raster")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FFFF", color.RGBA{0, 0, 255, 255}, false},
		{"#FFFFFF00", color.RGBA{0, 0, 0, 0}, false},
		{"#FF0", color.RGBA{255, 255, 0, 255}, false},
		{" #b4b400 ", color.RGBA{180, 180, 0, 255}, false},
		{"", color.RGBA{}, true},
		{"#", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
		{"#1234567", color.RGBA{}, true},
		{"+12345", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHexColor(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
