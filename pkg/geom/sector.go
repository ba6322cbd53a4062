package geom

import "math"

// centerEpsilon is the distance below which a point is treated as sitting on
// the sector center. Such points are always inside: the angle of a
// zero-length vector is undefined and must not decide containment.
const centerEpsilon = 0.01

// Sector is a circular sector obstacle. Angles are in degrees, measured
// counterclockwise from the positive X axis, and are normalized to [0, 360)
// on use. A range with Start > End wraps across 0°.
type Sector struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Start  float64 `json:"start_angle"`
	End    float64 `json:"end_angle"`
}

// normalizeDeg maps an angle to [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ContainsPoint reports whether p lies inside the sector: within Radius of
// Center and with its polar angle inside the [Start, End] range, treating a
// wrapped range as [Start, 360) ∪ [0, End].
func (s Sector) ContainsPoint(p Point) bool {
	dx := p.X - s.Center.X
	dy := p.Y - s.Center.Y
	dist := math.Hypot(dx, dy)

	if dist > s.Radius {
		return false
	}
	if dist < centerEpsilon {
		return true
	}

	angle := normalizeDeg(math.Atan2(dy, dx) * 180 / math.Pi)
	start := normalizeDeg(s.Start)
	end := normalizeDeg(s.End)

	if start <= end {
		return start <= angle && angle <= end
	}
	return angle >= start || angle <= end
}

// samplePoints returns the representative points tested against a sector:
// the box center, its four corners, and its four edge midpoints.
func samplePoints(b Box) [9]Point {
	cx := (b.XMin + b.XMax) / 2
	cy := (b.YMin + b.YMax) / 2
	return [9]Point{
		{cx, cy},
		{b.XMin, b.YMin},
		{b.XMax, b.YMin},
		{b.XMin, b.YMax},
		{b.XMax, b.YMax},
		{cx, b.YMin},
		{cx, b.YMax},
		{b.XMin, cy},
		{b.XMax, cy},
	}
}

// BoxIntersectsSector reports whether any of the box's sample points lies
// inside the sector. This is a conservative approximation, not exact
// polygon-arc clipping: a sector tip poking through an edge between two
// sample points goes undetected. The fixed sample set keeps the predicate
// cheap and fully deterministic.
func BoxIntersectsSector(b Box, s Sector) bool {
	for _, p := range samplePoints(b) {
		if s.ContainsPoint(p) {
			return true
		}
	}
	return false
}
