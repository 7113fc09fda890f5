package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writePNG encodes img into dir under name and returns the file path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return writeFile(t, dir, name, buf.Bytes())
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// exifOrientation returns a JPEG APP1 segment holding a big-endian EXIF
// block with a single Orientation tag.
func exifOrientation(o uint16) []byte {
	payload := []byte{
		'E', 'x', 'i', 'f', 0, 0,
		'M', 'M', 0, 42, // TIFF header
		0, 0, 0, 8, // IFD0 offset
		0, 1, // one entry
		0x01, 0x12, 0, 3, 0, 0, 0, 1, byte(o >> 8), byte(o), 0, 0,
		0, 0, 0, 0, // no next IFD
	}
	size := len(payload) + 2
	return append([]byte{0xFF, 0xE1, byte(size >> 8), byte(size)}, payload...)
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "solid.png", createInMemoryImage(40, 30, color.RGBA{255, 0, 0, 255}))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("got %dx%d, want 40x30", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load decoded the file again")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestImageCache_LoadRaster(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "quadrants.png", createPatternImage(20, 10))

	r1, err := cache.LoadRaster(path)
	if err != nil {
		t.Fatalf("LoadRaster failed: %v", err)
	}
	if r1.Width != 20 || r1.Height != 10 || len(r1.Pix) != 20*10*4 {
		t.Fatalf("got %dx%d with %d bytes, want 20x10 with 800", r1.Width, r1.Height, len(r1.Pix))
	}

	corners := []struct {
		x, y    int
		r, g, b uint8
	}{
		{0, 0, 255, 0, 0},
		{19, 0, 0, 255, 0},
		{0, 9, 0, 0, 255},
		{19, 9, 255, 255, 255},
	}
	for _, c := range corners {
		red, green, blue, _, err := r1.RGBA(c.x, c.y)
		if err != nil {
			t.Fatalf("RGBA(%d,%d) failed: %v", c.x, c.y, err)
		}
		if red != c.r || green != c.g || blue != c.b {
			t.Errorf("(%d,%d): got (%d,%d,%d), want (%d,%d,%d)", c.x, c.y, red, green, blue, c.r, c.g, c.b)
		}
	}

	r2, err := cache.LoadRaster(path)
	if err != nil {
		t.Fatalf("second LoadRaster failed: %v", err)
	}
	if r1 != r2 {
		t.Error("second LoadRaster converted the image again")
	}
}

func TestImageCache_LoadRaster_ExifOrientation(t *testing.T) {
	// Orientation 6 means the stored pixels must be turned 90° clockwise.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createInMemoryImage(3, 2, color.RGBA{200, 200, 40, 255}), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	data := buf.Bytes()
	withExif := append(append(append([]byte{}, data[:2]...), exifOrientation(6)...), data[2:]...)
	path := writeFile(t, t.TempDir(), "rotated.jpg", withExif)

	r, err := NewImageCache().LoadRaster(path)
	if err != nil {
		t.Fatalf("LoadRaster failed: %v", err)
	}
	if r.Width != 2 || r.Height != 3 {
		t.Errorf("got %dx%d, want 2x3 after orientation", r.Width, r.Height)
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "evict.png", createInMemoryImage(4, 4, color.RGBA{10, 20, 30, 255}))

	r1, err := cache.LoadRaster(path)
	if err != nil {
		t.Fatalf("LoadRaster failed: %v", err)
	}

	cache.Evict(path)
	cache.Evict("/nonexistent/path")
	if cache.Len() != 0 {
		t.Fatalf("Len() after Evict = %d, want 0", cache.Len())
	}

	r2, err := cache.LoadRaster(path)
	if err != nil {
		t.Fatalf("LoadRaster after Evict failed: %v", err)
	}
	if r1 == r2 {
		t.Error("LoadRaster after Evict returned the evicted raster")
	}
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if _, err := cache.Load(writePNG(t, dir, name, createInMemoryImage(2, 2, color.Black))); err != nil {
			t.Fatalf("Load %s failed: %v", name, err)
		}
	}
	if cache.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.png")},
		{"not an image", writeFile(t, dir, "garbage.png", []byte("not an image"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewImageCache()
			if _, err := cache.LoadRaster(tt.path); err == nil {
				t.Error("LoadRaster should fail")
			}
			if cache.Len() != 0 {
				t.Error("failed load left an entry in the cache")
			}
		})
	}
}

func TestImageCache_ConcurrentLoadRaster(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "shared.png", createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255}))

	const workers = 64
	rasters := make([]*Raster, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rasters[i], errs[i] = cache.LoadRaster(path)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if rasters[i].Width != 50 || rasters[i].Height != 50 {
			t.Errorf("worker %d: got %dx%d", i, rasters[i].Width, rasters[i].Height)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "info.png", createInMemoryImage(200, 150, color.RGBA{255, 128, 64, 255}))

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Path != path {
		t.Errorf("Path: got %s, want %s", info.Path, path)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("size: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.ColorDepth != "8-bit" {
		t.Errorf("ColorDepth: got %s, want 8-bit", info.ColorDepth)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}

	if _, err := LoadImageInfo(cache, filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadImageInfo should fail for a missing file")
	}
}

func TestLoadImageInfo_FormatFromExtension(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()

	// The content is always PNG; the reported format follows the name.
	tests := map[string]string{
		".png":  "png",
		".jpg":  "jpeg",
		".jpeg": "jpeg",
		".gif":  "gif",
		".tif":  "tiff",
		".bmp":  "bmp",
		".xyz":  "unknown",
	}

	for ext, want := range tests {
		t.Run(ext, func(t *testing.T) {
			path := writePNG(t, dir, "format"+ext, createInMemoryImage(10, 10, color.White))
			info, err := LoadImageInfo(cache, path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != want {
				t.Errorf("Format: got %s, want %s", info.Format, want)
			}
		})
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, t.TempDir(), "dims.png", createInMemoryImage(300, 200, color.RGBA{100, 100, 100, 255}))

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("got %dx%d, want 300x200", dims.Width, dims.Height)
	}

	if _, err := GetDimensions(cache, filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("GetDimensions should fail for a missing file")
	}
}
