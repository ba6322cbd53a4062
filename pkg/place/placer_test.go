package place

import (
	"testing"

	"github.com/svanholm/plotpin/pkg/collide"
	"github.com/svanholm/plotpin/pkg/geom"
)

func testSizer(category string) (float64, float64) {
	switch category {
	case "measurement":
		return 2.5, 1.2
	case "user":
		return 1.8, 0.6
	default:
		return 2.0, 0.8
	}
}

func newTestPlacer() *Placer {
	det := collide.New(geom.BoundsFromRange(10, 10), 0.3, 0.1)
	return New(det, testSizer)
}

func TestPlaceFirstCandidateWins(t *testing.T) {
	p := newTestPlacer()

	got := p.Place(geom.Point{}, "device", nil, nil)

	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	if got.Tag != "upper-right" {
		t.Errorf("Tag = %q, want upper-right", got.Tag)
	}
	if got.Pos.X != 1.2 || got.Pos.Y != 0.8 {
		t.Errorf("Pos = %v, want (1.2, 0.8)", got.Pos)
	}
}

func TestPlaceSkipsSector(t *testing.T) {
	p := newTestPlacer()

	// A sector covering the upper-right quadrant forces the search past the
	// first candidate.
	sectors := []geom.Sector{{Radius: 4, Start: 0, End: 90}}

	got := p.Place(geom.Point{}, "device", sectors, nil)

	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	if got.Tag == "upper-right" {
		t.Error("Tag = upper-right, want a later candidate")
	}
	box := geom.BoxFromCenter(got.Pos, 2.0, 0.8)
	if geom.BoxIntersectsSector(box, sectors[0]) {
		t.Errorf("accepted box %+v intersects the sector", box)
	}
}

func TestPlaceAvoidsPlacedBoxes(t *testing.T) {
	p := newTestPlacer()

	// Occupy the first candidate's spot.
	placed := []geom.Box{geom.BoxFromCenter(geom.Point{X: 1.2, Y: 0.8}, 2.0, 0.8)}

	got := p.Place(geom.Point{}, "device", nil, placed)

	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	if got.Tag != "upper-left" {
		t.Errorf("Tag = %q, want upper-left (next in priority order)", got.Tag)
	}
	box := p.BoxFor(got.Pos, "device")
	if geom.Overlaps(box, placed[0], 0.1) {
		t.Errorf("accepted box %+v overlaps the placed box", box)
	}
}

func TestPlaceNearEdgeStaysInBounds(t *testing.T) {
	p := newTestPlacer()

	// An anchor in the far upper-right corner: rightward and upward
	// candidates leave the canvas, so a leftward or downward one must win.
	got := p.Place(geom.Point{X: 9, Y: 9}, "device", nil, nil)

	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	box := p.BoxFor(got.Pos, "device")
	if !geom.WithinBounds(box, geom.BoundsFromRange(10, 10), 0.3) {
		t.Errorf("accepted box %+v leaves the canvas", box)
	}
}

func TestPlaceFallbackWhenFullySurrounded(t *testing.T) {
	p := newTestPlacer()

	// A full disc around the anchor swallows every candidate in both rings.
	sectors := []geom.Sector{{Radius: 8, Start: 0, End: 360}}

	got := p.Place(geom.Point{}, "device", sectors, nil)

	if got.Resolved {
		t.Fatal("Resolved = true, want false")
	}
	if got.Tag != TagFallback {
		t.Errorf("Tag = %q, want %q", got.Tag, TagFallback)
	}
	// Fallback is the first-priority offset regardless of collisions.
	if got.Pos.X != 1.2 || got.Pos.Y != 0.8 {
		t.Errorf("Pos = %v, want (1.2, 0.8)", got.Pos)
	}
}

func TestPlaceExtendedRingReached(t *testing.T) {
	p := newTestPlacer()

	// Cover the primary ring with placed boxes at each primary offset, but
	// leave the extended ring clear.
	var placed []geom.Box
	for _, off := range Ring {
		placed = append(placed, geom.BoxFromCenter(geom.Point{X: off.DX, Y: off.DY}, 2.0, 0.8))
	}

	got := p.Place(geom.Point{}, "device", nil, placed)

	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	found := false
	for _, off := range ExtendedRing {
		if got.Tag == off.Tag {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Tag = %q, want an extended-ring tag", got.Tag)
	}
}

func TestPlaceDeterministic(t *testing.T) {
	p := newTestPlacer()
	sectors := []geom.Sector{{Radius: 3, Start: 315, End: 45}}
	placed := []geom.Box{geom.BoxFromCenter(geom.Point{X: -1.2, Y: 0.8}, 2.0, 0.8)}

	first := p.Place(geom.Point{X: 0.5, Y: -0.5}, "measurement", sectors, placed)
	for i := 0; i < 50; i++ {
		got := p.Place(geom.Point{X: 0.5, Y: -0.5}, "measurement", sectors, placed)
		if got != first {
			t.Fatalf("run %d: placement %+v differs from first %+v", i, got, first)
		}
	}
}

func TestValidateManualPosition(t *testing.T) {
	p := newTestPlacer()

	if !p.ValidateManualPosition(geom.Point{X: 0, Y: 0}, "device") {
		t.Error("centered manual position rejected")
	}
	if p.ValidateManualPosition(geom.Point{X: 9.9, Y: 0}, "device") {
		t.Error("off-canvas manual position accepted")
	}
}
