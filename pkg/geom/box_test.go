package geom

import (
	"math"
	"testing"
)

func TestBoxFromCenter(t *testing.T) {
	b := BoxFromCenter(Point{X: 1, Y: -2}, 2.0, 0.8)

	if b.XMin != 0 || b.XMax != 2 {
		t.Errorf("x span = [%v, %v], want [0, 2]", b.XMin, b.XMax)
	}
	if b.YMin != -2.4 || b.YMax != -1.6 {
		t.Errorf("y span = [%v, %v], want [-2.4, -1.6]", b.YMin, b.YMax)
	}
	if c := b.Center(); c.X != 1 || c.Y != -2 {
		t.Errorf("Center() = %v, want (1, -2)", c)
	}
}

func TestOverlaps(t *testing.T) {
	base := Box{XMin: 0, YMin: 0, XMax: 2, YMax: 1}

	tests := []struct {
		name   string
		other  Box
		margin float64
		want   bool
	}{
		{"identical", base, 0, true},
		{"contained", Box{XMin: 0.5, YMin: 0.25, XMax: 1.5, YMax: 0.75}, 0, true},
		{"partial overlap", Box{XMin: 1, YMin: 0.5, XMax: 3, YMax: 2}, 0, true},
		{"disjoint right", Box{XMin: 3, YMin: 0, XMax: 4, YMax: 1}, 0, false},
		{"disjoint above", Box{XMin: 0, YMin: 2, XMax: 2, YMax: 3}, 0, false},
		{"touching edges", Box{XMin: 2, YMin: 0, XMax: 3, YMax: 1}, 0, false},
		{"clear but within margin", Box{XMin: 2.05, YMin: 0, XMax: 3, YMax: 1}, 0.1, true},
		{"gap equals margin", Box{XMin: 2.1, YMin: 0, XMax: 3, YMax: 1}, 0.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(base, tt.other, tt.margin); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The predicate is symmetric.
			if got := Overlaps(tt.other, base, tt.margin); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinBounds(t *testing.T) {
	bounds := BoundsFromRange(10, 10)

	tests := []struct {
		name   string
		box    Box
		margin float64
		want   bool
	}{
		{"centered", BoxFromCenter(Point{}, 2, 1), 0.3, true},
		{"flush with margin", Box{XMin: -9.7, YMin: -9.7, XMax: 0, YMax: 0}, 0.3, true},
		{"into margin", Box{XMin: -9.8, YMin: 0, XMax: 0, YMax: 1}, 0.3, false},
		{"outside", Box{XMin: 9, YMin: 9, XMax: 11, YMax: 11}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinBounds(tt.box, bounds, tt.margin); got != tt.want {
				t.Errorf("WithinBounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	a := Box{XMin: 0, YMin: 0, XMax: 1, YMax: 1}

	tests := []struct {
		name  string
		other Box
		want  float64
	}{
		{"gap right", Box{XMin: 3, YMin: 0, XMax: 4, YMax: 1}, 2},
		{"diagonal gap", Box{XMin: 4, YMin: 5, XMax: 5, YMax: 6}, 5}, // 3-4-5 triangle
		{"overlap depth", Box{XMin: 0.5, YMin: 0, XMax: 1.5, YMax: 1}, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(a, tt.other)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	bounds := BoundsFromRange(5, 5)

	p := bounds.Clamp(Point{X: 8, Y: -12}, 0.5)
	if p.X != 4.5 || p.Y != -4.5 {
		t.Errorf("Clamp() = %v, want (4.5, -4.5)", p)
	}

	inside := Point{X: 1, Y: 2}
	if got := bounds.Clamp(inside, 0.5); got != inside {
		t.Errorf("Clamp() moved an interior point: %v", got)
	}
}
