// Package imaging loads images into rasters and renders results back onto them.
//
// Images are decoded once through ImageCache and converted to a Raster: a
// flat, row-major slice of straight-alpha [R,G,B,A] bytes with its origin at
// (0,0). The anomaly package classifies Rasters; this package supplies them
// and turns classification results into pictures.
//
// # Coordinate System
//
// All pixel coordinates are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Rasters handed out by the cache are
// shared between callers and must be treated as read-only. Rendering
// functions never modify the raster they draw over.
//
// # Rendering
//
//   - RenderOverlay paints anomaly markers over a dimmed copy of the image,
//     optionally with a labeled coordinate grid and a nearest-neighbor zoom.
//   - RenderGradient previews the blend between two chosen colors.
//
// Both return base64-encoded PNG.
package imaging
