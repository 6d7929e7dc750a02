package geometry

import "math"

// Point is a position on the page in physical millimetres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle in physical millimetres.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Normalize flips negative width/height so the box always extends
// down-right from its origin. Dragging from any corner can produce a
// negative extent; the normalized box covers the same region.
func (b Box) Normalize() Box {
	if b.W < 0 {
		b.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.Y += b.H
		b.H = -b.H
	}
	return b
}

// Right returns the right edge (X + W).
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the bottom edge (Y + H).
func (b Box) Bottom() float64 { return b.Y + b.H }

// Overlaps reports whether b and o share interior area. Touching edges
// do not count as overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.Right() && b.Right() > o.X &&
		b.Y < o.Bottom() && b.Bottom() > o.Y
}

// Contains reports whether the point (x, y) is inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.Right() && y >= b.Y && y <= b.Bottom()
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if b.W <= 0 || b.H <= 0 {
		return o
	}
	if o.W <= 0 || o.H <= 0 {
		return b
	}
	minX := min(b.X, o.X)
	minY := min(b.Y, o.Y)
	maxX := max(b.Right(), o.Right())
	maxY := max(b.Bottom(), o.Bottom())
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Snap rounds v to the nearest multiple of grid. Non-positive grids and
// non-finite values pass through unchanged; Snap never fails.
func Snap(v, grid float64) float64 {
	if grid <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v/grid) * grid
}

// Snap applies grid snapping independently to all four box components.
func (b Box) Snap(grid float64) Box {
	return Box{
		X: Snap(b.X, grid),
		Y: Snap(b.Y, grid),
		W: Snap(b.W, grid),
		H: Snap(b.H, grid),
	}
}
