// Package place implements the deterministic directional placement
// algorithm: for one anchor, try a fixed, ordered ring of candidate offsets
// and return the first one the collision detector accepts.
//
// Determinism contract: the candidate rings are package-level constants
// whose slice order IS the tie-break priority. Nothing in this package
// iterates a map or consults a clock or random source, so identical inputs
// always produce the identical placement.
package place

import (
	"github.com/svanholm/plotpin/pkg/collide"
	"github.com/svanholm/plotpin/pkg/geom"
)

// Offset is one candidate position relative to the anchor, with the
// direction tag reported back to callers.
type Offset struct {
	DX, DY float64
	Tag    string
}

// Ring is the primary candidate ring, in priority order: diagonals first
// (upper-right preferred), then the sides, then straight above and below.
// The order is fixed; earlier entries win contested space.
var Ring = []Offset{
	{1.2, 0.8, "upper-right"},
	{-1.2, 0.8, "upper-left"},
	{1.2, -0.8, "lower-right"},
	{-1.2, -0.8, "lower-left"},
	{1.6, 0, "right"},
	{-1.6, 0, "left"},
	{0, 1.2, "above"},
	{0, -1.2, "below"},
}

// ExtendedRing is the second, farther ring tried when every primary
// candidate collides. Same ordering discipline as Ring.
var ExtendedRing = []Offset{
	{2.0, 1.2, "far-upper-right"},
	{-2.0, 1.2, "far-upper-left"},
	{2.0, -1.2, "far-lower-right"},
	{-2.0, -1.2, "far-lower-left"},
	{2.2, 0.4, "far-right"},
	{-2.2, 0.4, "far-left"},
	{0.8, 1.8, "far-above"},
	{0.8, -1.8, "far-below"},
}

// TagFallback marks a placement that could not avoid collisions: the label
// sits at the first-priority offset regardless of what it hits.
const TagFallback = "upper-right/unresolved"

// Sizer resolves a label category to its box dimensions.
// Supplied by configuration, not computed here.
type Sizer func(category string) (width, height float64)

// Placement is the outcome for a single anchor.
type Placement struct {
	Pos geom.Point
	Tag string
	// Resolved is false when no candidate was collision-free and the
	// fallback position was used.
	Resolved bool
}

// Placer runs the directional search for individual anchors.
// It is stateless across calls; the accumulated placed-box list is owned by
// the caller and passed in per call.
type Placer struct {
	Detector collide.Detector
	SizeFor  Sizer
}

// New creates a placer over the given detector and size table.
func New(det collide.Detector, sizeFor Sizer) *Placer {
	return &Placer{Detector: det, SizeFor: sizeFor}
}

// Place finds a position for one label. It walks Ring then ExtendedRing in
// priority order and returns the first candidate whose box stays on canvas,
// clears every sector, and clears every already-placed box. When no
// candidate qualifies it returns the first-priority position flagged
// unresolved - the search always terminates within the two fixed rings.
func (p *Placer) Place(anchor geom.Point, category string, sectors []geom.Sector, placed []geom.Box) Placement {
	width, height := p.SizeFor(category)

	for _, ring := range [][]Offset{Ring, ExtendedRing} {
		for _, off := range ring {
			pos := geom.Point{X: anchor.X + off.DX, Y: anchor.Y + off.DY}
			box := geom.BoxFromCenter(pos, width, height)
			if p.Detector.Accepts(box, sectors, placed) {
				return Placement{Pos: pos, Tag: off.Tag, Resolved: true}
			}
		}
	}

	first := Ring[0]
	return Placement{
		Pos:      geom.Point{X: anchor.X + first.DX, Y: anchor.Y + first.DY},
		Tag:      TagFallback,
		Resolved: false,
	}
}

// BoxFor returns the label box for a committed position, using the size for
// the given category. Used by callers to feed manual and cached placements
// back into the placed-box list.
func (p *Placer) BoxFor(pos geom.Point, category string) geom.Box {
	width, height := p.SizeFor(category)
	return geom.BoxFromCenter(pos, width, height)
}

// ValidateManualPosition reports whether a manually chosen position keeps
// the label box on canvas. It intentionally ignores obstacles and other
// labels: a user move is respected even when it overlaps, only an
// off-canvas position is rejected at input time. A relaxed margin is used
// so labels may sit close to the edge.
func (p *Placer) ValidateManualPosition(pos geom.Point, category string) bool {
	box := p.BoxFor(pos, category)
	return geom.WithinBounds(box, p.Detector.Bounds, 0.1)
}
