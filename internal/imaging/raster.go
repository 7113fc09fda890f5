package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrRasterSize is returned when a pixel slice does not hold exactly
// width*height*4 bytes.
var ErrRasterSize = errors.New("raster size mismatch")

// Raster is a decoded image as a flat, row-major slice of 8-bit
// non-premultiplied [R,G,B,A] values.
//
// A Raster is treated as read-only once built. Build it with NewRaster or
// RasterFromImage; a literal whose Pix is shorter than Width*Height*4 is
// rejected by Valid.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster wraps pix as a width x height raster without copying it.
func NewRaster(width, height int, pix []uint8) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrRasterSize, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrRasterSize, width, height, width*height*4, len(pix))
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// RasterFromImage converts any image to a Raster. The result matches what a
// browser canvas reports for the same image: straight (non-premultiplied)
// alpha and origin at (0,0).
func RasterFromImage(img image.Image) *Raster {
	// Clone always returns a tightly packed NRGBA with Min at (0,0).
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Raster{Width: b.Dx(), Height: b.Dy(), Pix: nrgba.Pix}
}

// Valid reports whether r is non-nil and Pix holds at least Width*Height
// pixels.
func (r *Raster) Valid() bool {
	if r == nil || r.Width < 0 || r.Height < 0 {
		return false
	}
	if r.Width == 0 || r.Height == 0 {
		return true
	}
	return r.Height <= len(r.Pix)/4/r.Width
}

// RGBA returns the channels of the pixel at (x, y).
func (r *Raster) RGBA(x, y int) (red, green, blue, alpha uint8, err error) {
	if !r.Valid() {
		return 0, 0, 0, 0, ErrRasterSize
	}
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0, 0, 0, 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, r.Width, r.Height)
	}
	off := (y*r.Width + x) * 4
	return r.Pix[off], r.Pix[off+1], r.Pix[off+2], r.Pix[off+3], nil
}

// Image returns an image.Image view sharing the raster's pixels.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
