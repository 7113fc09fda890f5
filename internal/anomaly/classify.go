package anomaly

import (
	"github.com/ironsheep/color-anomaly-mcp/internal/imaging"
)

// Point is the pixel coordinate of one anomaly.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Classify returns the coordinates of every pixel in r whose color lies in b
// widened by tolerance, in row-major order (y outer, x inner).
//
// A nil, empty or malformed raster yields an empty, non-nil list.
func Classify(r *imaging.Raster, b Bound, tolerance int) []Point {
	points := []Point{}
	if !r.Valid() || r.Width == 0 || r.Height == 0 {
		return points
	}

	w := b.Widen(tolerance)

	n := r.Width * r.Height
	for i := 0; i < n; i++ {
		off := i * 4
		red, green, blue := int(r.Pix[off]), int(r.Pix[off+1]), int(r.Pix[off+2])
		if red < w.Low.R || red > w.High.R ||
			green < w.Low.G || green > w.High.G ||
			blue < w.Low.B || blue > w.High.B {
			continue
		}
		points = append(points, Point{X: i % r.Width, Y: i / r.Width})
	}
	return points
}

// Extent is the smallest rectangle holding every anomaly, inclusive on all
// edges.
type Extent struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Result is a classification run together with the inputs that produced it.
type Result struct {
	ImageLoaded bool    `json:"image_loaded"`
	Bound       Bound   `json:"bound"`
	Sensitivity int     `json:"sensitivity"`
	Degenerate  bool    `json:"degenerate"`
	Count       int     `json:"count"`
	BoundingBox *Extent `json:"bounding_box,omitempty"`
	Anomalies   []Point `json:"anomalies"`
}

// Detect runs Classify and wraps the points with summary fields.
func Detect(r *imaging.Raster, b Bound, tolerance int) *Result {
	points := Classify(r, b, tolerance)
	return &Result{
		ImageLoaded: r != nil,
		Bound:       b,
		Sensitivity: tolerance,
		Degenerate:  b.Degenerate(tolerance),
		Count:       len(points),
		BoundingBox: extentOf(points),
		Anomalies:   points,
	}
}

func extentOf(points []Point) *Extent {
	if len(points) == 0 {
		return nil
	}
	e := &Extent{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		e.MinX = min(e.MinX, p.X)
		e.MaxX = max(e.MaxX, p.X)
		// Scan order means Y never decreases.
		e.MaxY = p.Y
	}
	return e
}
