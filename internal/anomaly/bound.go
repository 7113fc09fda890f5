package anomaly

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownOrdering is returned by ParseOrdering for unrecognized names.
var ErrUnknownOrdering = errors.New("unknown bound ordering")

// RGB is a color triple. Components are expected in 0-255 but are kept as
// int so that tolerance arithmetic never wraps.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Bound is an RGB box from Low to High, inclusive on both ends.
//
// Low is not required to be componentwise below High. A channel where it is
// not simply matches nothing.
type Bound struct {
	Low  RGB `json:"low"`
	High RGB `json:"high"`
}

// YellowBound is the preset range used for yellow anomalies.
var YellowBound = Bound{
	Low:  RGB{R: 180, G: 180, B: 0},
	High: RGB{R: 255, G: 255, B: 130},
}

// Widen returns the bound grown by tolerance on every side of every channel.
// Limits saturate at math.MinInt and math.MaxInt instead of wrapping.
func (b Bound) Widen(tolerance int) Bound {
	var w Bound
	w.Low.R, w.High.R = widen(b.Low.R, b.High.R, tolerance)
	w.Low.G, w.High.G = widen(b.Low.G, b.High.G, tolerance)
	w.Low.B, w.High.B = widen(b.Low.B, b.High.B, tolerance)
	return w
}

// Contains reports whether c lies inside the bound widened by tolerance.
func (b Bound) Contains(c RGB, tolerance int) bool {
	w := b.Widen(tolerance)
	return c.R >= w.Low.R && c.R <= w.High.R &&
		c.G >= w.Low.G && c.G <= w.High.G &&
		c.B >= w.Low.B && c.B <= w.High.B
}

// Degenerate reports whether any channel of the widened bound is empty.
func (b Bound) Degenerate(tolerance int) bool {
	w := b.Widen(tolerance)
	return w.Low.R > w.High.R || w.Low.G > w.High.G || w.Low.B > w.High.B
}

// widen returns lo-tol and hi+tol, saturated to the int range.
func widen(lo, hi, tol int) (int, int) {
	return subSat(lo, tol), addSat(hi, tol)
}

func addSat(a, b int) int {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt
	case b < 0 && s > a:
		return math.MinInt
	}
	return s
}

func subSat(a, b int) int {
	s := a - b
	switch {
	case b < 0 && s < a:
		return math.MaxInt
	case b > 0 && s > a:
		return math.MinInt
	}
	return s
}

// Ordering selects how BoundFromColors assigns two colors to Low and High.
type Ordering int

const (
	// OrderingAsGiven uses the first color as Low and the second as High.
	OrderingAsGiven Ordering = iota

	// OrderingNormalized uses the componentwise minimum as Low and the
	// componentwise maximum as High.
	OrderingNormalized
)

func (o Ordering) String() string {
	switch o {
	case OrderingAsGiven:
		return "as-given"
	case OrderingNormalized:
		return "normalized"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// ParseOrdering maps "as-given" or "normalized" to an Ordering.
// The empty string is OrderingAsGiven.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "as-given":
		return OrderingAsGiven, nil
	case "normalized":
		return OrderingNormalized, nil
	default:
		return OrderingAsGiven, fmt.Errorf("%w: %q", ErrUnknownOrdering, s)
	}
}

// BoundFromColors builds a Bound from two user-chosen colors.
func BoundFromColors(first, second RGB, ordering Ordering) Bound {
	if ordering != OrderingNormalized {
		return Bound{Low: first, High: second}
	}
	return Bound{
		Low:  RGB{R: min(first.R, second.R), G: min(first.G, second.G), B: min(first.B, second.B)},
		High: RGB{R: max(first.R, second.R), G: max(first.G, second.G), B: max(first.B, second.B)},
	}
}
