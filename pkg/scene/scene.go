// Package scene defines the value-snapshot input model for the placement
// engine: anchors, sector obstacles, measurement lines, and canvas bounds.
//
// A Scene is the canonical serialization format fed to the engine by the CLI
// and the HTTP surface. It is a plain value type: the engine never holds a
// reference to a live scene, it receives a snapshot per layout call. This is
// a deliberate departure from observer-driven hosts - explicit re-invocation
// with a fresh snapshot replaces implicit change notification.
package scene

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/svanholm/plotpin/pkg/errors"
	"github.com/svanholm/plotpin/pkg/geom"
)

// Label categories. The category selects the label box size from the
// engine configuration.
const (
	CategoryDevice      = "device"
	CategoryMeasurement = "measurement"
	CategoryUser        = "user"
)

// ValidCategories is the set of recognized label categories.
var ValidCategories = map[string]bool{
	CategoryDevice:      true,
	CategoryMeasurement: true,
	CategoryUser:        true,
}

// Anchor is a fixed point that owns at most one label. The ID is the stable
// identity used for processing order, cache keys, and manual overrides.
type Anchor struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"` // defaults to "device"
}

// Point returns the anchor position.
func (a Anchor) Point() geom.Point { return geom.Point{X: a.X, Y: a.Y} }

// Sector is a circular-sector obstacle in scene coordinates.
// Angles are degrees counterclockwise from the positive X axis.
type Sector struct {
	CenterX float64 `json:"center_x" yaml:"center_x"`
	CenterY float64 `json:"center_y" yaml:"center_y"`
	Radius  float64 `json:"radius" yaml:"radius"`
	Start   float64 `json:"start_angle" yaml:"start_angle"`
	End     float64 `json:"end_angle" yaml:"end_angle"`
}

// Geom converts the sector to its geometry-kernel form.
func (s Sector) Geom() geom.Sector {
	return geom.Sector{
		Center: geom.Point{X: s.CenterX, Y: s.CenterY},
		Radius: s.Radius,
		Start:  s.Start,
		End:    s.End,
	}
}

// Measurement is a line from one point to another with an optional caption.
// Measurements are painted by the renderer; they do not participate in
// collision avoidance.
type Measurement struct {
	FromX float64 `json:"from_x" yaml:"from_x"`
	FromY float64 `json:"from_y" yaml:"from_y"`
	ToX   float64 `json:"to_x" yaml:"to_x"`
	ToY   float64 `json:"to_y" yaml:"to_y"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
}

// Bounds describes the symmetric canvas [-XRange, XRange] x [-YRange, YRange].
type Bounds struct {
	XRange float64 `json:"x_range" yaml:"x_range"`
	YRange float64 `json:"y_range" yaml:"y_range"`
}

// Box returns the bounds as a geometry-kernel box.
func (b Bounds) Box() geom.Box { return geom.BoundsFromRange(b.XRange, b.YRange) }

// Scene is a complete snapshot of the annotated plane.
type Scene struct {
	Anchors      []Anchor      `json:"anchors" yaml:"anchors"`
	Sectors      []Sector      `json:"sectors,omitempty" yaml:"sectors,omitempty"`
	Measurements []Measurement `json:"measurements,omitempty" yaml:"measurements,omitempty"`
	Bounds       Bounds        `json:"bounds" yaml:"bounds"`
}

// Normalize fills in defaults: anchors without an ID get a generated UUID,
// anchors without a category default to "device", and anchors are sorted by
// ID so downstream processing order is reproducible regardless of input
// order. Returns the scene for chaining.
func (s *Scene) Normalize() *Scene {
	for i := range s.Anchors {
		if s.Anchors[i].ID == "" {
			s.Anchors[i].ID = uuid.NewString()
		}
		if s.Anchors[i].Category == "" {
			s.Anchors[i].Category = CategoryDevice
		}
	}
	slices.SortFunc(s.Anchors, func(a, b Anchor) int {
		return strings.Compare(a.ID, b.ID)
	})
	return s
}

// Validate checks the scene boundary invariants. The returned map holds one
// error per offending anchor ID; scene-level problems (bounds, sectors) are
// returned as the second value. A scene with per-anchor problems is still
// usable - the engine skips and flags the offending anchors rather than
// aborting the pass.
func (s *Scene) Validate() (map[string]error, error) {
	if err := errors.ValidateRange(s.Bounds.XRange, s.Bounds.YRange); err != nil {
		return nil, err
	}

	for i, sec := range s.Sectors {
		if err := errors.ValidateFinite("sector center", sec.CenterX, sec.CenterY); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %d", i)
		}
		if err := errors.ValidateRadius(sec.Radius); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %d", i)
		}
		if err := errors.ValidateFinite("sector angles", sec.Start, sec.End); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %d", i)
		}
	}

	perAnchor := make(map[string]error)
	seen := make(map[string]bool, len(s.Anchors))
	for _, a := range s.Anchors {
		if err := errors.ValidateElementID(a.ID); err != nil {
			perAnchor[a.ID] = err
			continue
		}
		if seen[a.ID] {
			perAnchor[a.ID] = errors.New(errors.ErrCodeInvalidAnchor, "duplicate anchor id %q", a.ID)
			continue
		}
		seen[a.ID] = true
		if err := errors.ValidateFinite("anchor position", a.X, a.Y); err != nil {
			perAnchor[a.ID] = err
			continue
		}
		if a.Category != "" && !ValidCategories[a.Category] {
			perAnchor[a.ID] = errors.New(errors.ErrCodeInvalidAnchor, "unknown category %q", a.Category)
		}
	}
	if len(perAnchor) == 0 {
		perAnchor = nil
	}
	return perAnchor, nil
}

// GeomSectors converts all scene sectors to their geometry-kernel form.
func (s *Scene) GeomSectors() []geom.Sector {
	if len(s.Sectors) == 0 {
		return nil
	}
	out := make([]geom.Sector, len(s.Sectors))
	for i, sec := range s.Sectors {
		out[i] = sec.Geom()
	}
	return out
}

// AnchorByID returns the anchor with the given ID, or false when absent.
func (s *Scene) AnchorByID(id string) (Anchor, bool) {
	for _, a := range s.Anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}
