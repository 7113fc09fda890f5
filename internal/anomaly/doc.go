// Package anomaly classifies raster pixels against an RGB color range.
//
// A Bound is an axis-aligned box in RGB space given by its Low and High
// corners. Classify walks a raster once in row-major order and reports every
// pixel whose red, green and blue channels all satisfy
//
//	Low[c] - tolerance <= value[c] <= High[c] + tolerance
//
// Alpha is ignored. The tolerance is a plain signed integer: a negative value
// shrinks the box, a large one pushes it past [0,255]. No clamping is applied.
//
// # Bound Ordering
//
// BoundFromColors turns two user-chosen colors into a Bound. With
// OrderingAsGiven the first color is Low and the second is High, exactly as
// picked, so a channel where the first color is brighter than the second
// matches nothing. OrderingNormalized takes the componentwise min and max
// instead.
//
// # Empty Input
//
// Classifying a nil or zero-area raster is not an error. It returns an empty
// list, which is the state before any image has been loaded.
//
// # Thread Safety
//
// Classify is a pure function over a read-only raster and may be called
// concurrently on independent rasters.
package anomaly
