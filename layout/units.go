package layout

import (
	"image"
	"math"
)

// This file defines the pixel box type and the pure transforms between
// normalized and pixel coordinates.

// MinBoxPx is the smallest edge a clamped pixel box may have. Canvases
// smaller than this use their own dimension as the minimum.
const MinBoxPx = 8

// coordLimit keeps float→int conversions well inside the int range.
const coordLimit = 1 << 24

// PxBox is an integer pixel rectangle with a top-left origin.
type PxBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts the box to an image.Rectangle.
func (b PxBox) Rect() image.Rectangle { return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H) }

// Area returns the pixel count covered by the box.
func (b PxBox) Area() int { return b.W * b.H }

// Size returns the canvas dimensions, never smaller than 1x1.
func (c Canvas) Size() (int, int) { return max(1, c.Width), max(1, c.Height) }

// ClampBoxPx enforces the pixel box invariant: width and height within
// [minSize, canvasDimension], position within [0, canvasDimension-size].
// Both axes are treated identically.
func ClampBoxPx(b PxBox, c Canvas) PxBox {
	cw, ch := c.Size()
	b.W, b.X = clampAxis(b.W, b.X, cw)
	b.H, b.Y = clampAxis(b.H, b.Y, ch)
	return b
}

func clampAxis(size, pos, dim int) (int, int) {
	minSize := min(MinBoxPx, dim)
	size = min(max(size, minSize), dim)
	pos = min(max(pos, 0), dim-size)
	return size, pos
}

// DenormalizeBox converts a normalized box into clamped pixel coordinates,
// rounding to whole pixels.
func DenormalizeBox(nb NormalizedBox, c Canvas) PxBox {
	cw, ch := c.Size()
	return ClampBoxPx(PxBox{
		X: toPx(nb.X, cw),
		Y: toPx(nb.Y, ch),
		W: toPx(nb.W, cw),
		H: toPx(nb.H, ch),
	}, c)
}

// NormalizeBox clamps a pixel box and expresses it as canvas fractions.
func NormalizeBox(b PxBox, c Canvas) NormalizedBox {
	b = ClampBoxPx(b, c)
	cw, ch := c.Size()
	return NormalizedBox{
		X: float64(b.X) / float64(cw),
		Y: float64(b.Y) / float64(ch),
		W: float64(b.W) / float64(cw),
		H: float64(b.H) / float64(ch),
	}
}

func toPx(frac float64, dim int) int {
	v := finite(frac) * float64(dim)
	v = math.Max(-coordLimit, math.Min(coordLimit, v))
	return int(math.Round(v))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampEps tolerates float error so boxes ending exactly on an edge
// (x+w == 1) are left untouched.
const clampEps = 1e-9

// ClampNormalized applies the clamping rules to a normalized box: size in
// (0,1], position in [0, 1-size]. In-range boxes are returned unchanged.
func ClampNormalized(nb NormalizedBox) NormalizedBox {
	nb.W, nb.X = clampFrac(nb.W, nb.X)
	nb.H, nb.Y = clampFrac(nb.H, nb.Y)
	return nb
}

func clampFrac(size, pos float64) (float64, float64) {
	size, pos = finite(size), finite(pos)
	if size <= 0 {
		size = 0.01
	}
	if size > 1 {
		size = 1
	}
	if pos < 0 {
		pos = 0
	}
	if pos+size > 1+clampEps {
		pos = 1 - size
	}
	return size, pos
}

// SnapBoxPx rounds position and size to multiples of grid. A non-positive
// grid leaves the box unchanged. Sizes never snap to zero.
func SnapBoxPx(b PxBox, grid int) PxBox {
	if grid <= 1 {
		return b
	}
	snap := func(v int) int {
		return int(math.Round(float64(v)/float64(grid))) * grid
	}
	b.X, b.Y = snap(b.X), snap(b.Y)
	b.W, b.H = max(grid, snap(b.W)), max(grid, snap(b.H))
	return b
}

// LayoutSafeZonePx returns the canvas inset by round(min(w,h)*safeMarginRatio)
// on every side. It is a placement guide, not an enforced constraint.
func LayoutSafeZonePx(c Canvas) PxBox {
	cw, ch := c.Size()
	ratio := math.Max(0, math.Min(0.45, finite(c.SafeMarginRatio)))
	m := int(math.Round(float64(min(cw, ch)) * ratio))
	return PxBox{X: m, Y: m, W: cw - 2*m, H: ch - 2*m}
}
