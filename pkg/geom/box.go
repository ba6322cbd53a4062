// Package geom provides the geometric primitives and predicates used by the
// placement engine: axis-aligned bounding boxes, circular sectors, and the
// overlap/containment tests composed by the collision detector.
//
// All functions are pure. Inputs are never mutated and no state is kept, so
// identical inputs always produce identical results - the foundation of the
// engine's determinism guarantee.
package geom

import "math"

// Point is a position on the canvas plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance to q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Box is an axis-aligned bounding box. Invariant: XMin <= XMax, YMin <= YMax.
type Box struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// BoxFromCenter builds a box of the given size centered on c.
func BoxFromCenter(c Point, width, height float64) Box {
	return Box{
		XMin: c.X - width/2,
		YMin: c.Y - height/2,
		XMax: c.X + width/2,
		YMax: c.Y + height/2,
	}
}

// BoundsFromRange builds the symmetric canvas box [-xRange, xRange] x [-yRange, yRange].
func BoundsFromRange(xRange, yRange float64) Box {
	return Box{XMin: -xRange, YMin: -yRange, XMax: xRange, YMax: yRange}
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: (b.XMin + b.XMax) / 2, Y: (b.YMin + b.YMax) / 2}
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.XMax - b.XMin }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.YMax - b.YMin }

// Area returns the area of the box.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// Expand grows the box outward by margin on all sides.
// A negative margin shrinks it.
func (b Box) Expand(margin float64) Box {
	return Box{
		XMin: b.XMin - margin,
		YMin: b.YMin - margin,
		XMax: b.XMax + margin,
		YMax: b.YMax + margin,
	}
}

// ContainsPoint reports whether p lies inside the box, edges included.
func (b Box) ContainsPoint(p Point) bool {
	return b.XMin <= p.X && p.X <= b.XMax && b.YMin <= p.Y && p.Y <= b.YMax
}

// Overlaps reports whether two boxes overlap once both are expanded by
// margin. Touching edges (gap exactly equal to margin) count as clear.
func Overlaps(a, b Box, margin float64) bool {
	return !(a.XMax+margin <= b.XMin ||
		b.XMax+margin <= a.XMin ||
		a.YMax+margin <= b.YMin ||
		b.YMax+margin <= a.YMin)
}

// WithinBounds reports whether box lies entirely inside bounds shrunk by margin.
func WithinBounds(box, bounds Box, margin float64) bool {
	return box.XMin >= bounds.XMin+margin &&
		box.XMax <= bounds.XMax-margin &&
		box.YMin >= bounds.YMin+margin &&
		box.YMax <= bounds.YMax-margin
}

// Distance returns the shortest gap between two boxes. When the boxes
// overlap it returns the negated overlap depth, so callers can use the sign
// to distinguish separation from penetration.
func Distance(a, b Box) float64 {
	var dx, dy float64
	switch {
	case a.XMax < b.XMin:
		dx = b.XMin - a.XMax
	case b.XMax < a.XMin:
		dx = a.XMin - b.XMax
	}
	switch {
	case a.YMax < b.YMin:
		dy = b.YMin - a.YMax
	case b.YMax < a.YMin:
		dy = a.YMin - b.YMax
	}

	if dx == 0 && dy == 0 {
		overlapX := math.Min(a.XMax, b.XMax) - math.Max(a.XMin, b.XMin)
		overlapY := math.Min(a.YMax, b.YMax) - math.Max(a.YMin, b.YMin)
		return -math.Min(overlapX, overlapY)
	}
	return math.Hypot(dx, dy)
}

// Clamp returns p constrained to lie inside the box shrunk by margin.
func (b Box) Clamp(p Point, margin float64) Point {
	return Point{
		X: math.Max(b.XMin+margin, math.Min(p.X, b.XMax-margin)),
		Y: math.Max(b.YMin+margin, math.Min(p.Y, b.YMax-margin)),
	}
}
