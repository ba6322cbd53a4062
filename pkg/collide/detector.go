// Package collide composes the geometry kernel's predicates into the three
// checks placement needs: label-vs-bounds, label-vs-obstacles, and
// label-vs-already-placed.
//
// A Detector carries only configuration (canvas bounds and margins) - never
// scene state. Every check is evaluated fresh against the sets passed in, so
// two checks with identical arguments always agree.
package collide

import "github.com/svanholm/plotpin/pkg/geom"

// Detector bundles the canvas bounds and margin constants used by the
// placement checks.
type Detector struct {
	// Bounds is the canvas rectangle labels must stay inside.
	Bounds geom.Box

	// BorderMargin shrinks the placeable region away from the canvas edge.
	BorderMargin float64

	// CollisionMargin is the minimum gap required between label boxes.
	CollisionMargin float64
}

// New creates a detector for the given canvas bounds and margins.
func New(bounds geom.Box, borderMargin, collisionMargin float64) Detector {
	return Detector{
		Bounds:          bounds,
		BorderMargin:    borderMargin,
		CollisionMargin: collisionMargin,
	}
}

// WithinCanvas reports whether the candidate box lies fully inside the
// canvas bounds shrunk by the border margin.
func (d Detector) WithinCanvas(box geom.Box) bool {
	return geom.WithinBounds(box, d.Bounds, d.BorderMargin)
}

// HitsObstacles reports whether the candidate box intersects any sector.
func (d Detector) HitsObstacles(box geom.Box, sectors []geom.Sector) bool {
	for _, s := range sectors {
		if geom.BoxIntersectsSector(box, s) {
			return true
		}
	}
	return false
}

// HitsPlaced reports whether the candidate box comes within the collision
// margin of any already-placed box.
func (d Detector) HitsPlaced(box geom.Box, placed []geom.Box) bool {
	for _, other := range placed {
		if geom.Overlaps(box, other, d.CollisionMargin) {
			return true
		}
	}
	return false
}

// Accepts reports whether a candidate box passes all three checks.
func (d Detector) Accepts(box geom.Box, sectors []geom.Sector, placed []geom.Box) bool {
	return d.WithinCanvas(box) &&
		!d.HitsObstacles(box, sectors) &&
		!d.HitsPlaced(box, placed)
}
