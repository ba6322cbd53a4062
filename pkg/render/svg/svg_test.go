package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/engine"
	"github.com/svanholm/plotpin/pkg/scene"
)

func testScene() scene.Scene {
	return scene.Scene{
		Anchors: []scene.Anchor{
			{ID: "dev-1", Name: "Pump", X: 0, Y: 0, Category: scene.CategoryDevice},
			{ID: "dev-2", X: 3, Y: -2, Category: scene.CategoryDevice},
		},
		Sectors: []scene.Sector{
			{CenterX: -4, CenterY: 4, Radius: 2, Start: 0, End: 90},
			{CenterX: 5, CenterY: 5, Radius: 1, Start: 0, End: 360},
		},
		Measurements: []scene.Measurement{
			{FromX: -2, FromY: -2, ToX: 2, ToY: -2, Label: "4.0m"},
		},
		Bounds: scene.Bounds{XRange: 10, YRange: 10},
	}
}

func testLabels() map[string]engine.LabelResult {
	return map[string]engine.LabelResult{
		"dev-1": {X: 1.2, Y: 0.8, DirectionTag: "upper-right", Resolved: true, Mode: "auto"},
		"dev-2": {X: 4.2, Y: -1.2, DirectionTag: "upper-right/unresolved", Resolved: false, Mode: "auto"},
	}
}

func TestRenderProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	r := New(0, config.Default())

	if err := r.Render(&buf, testScene(), testLabels()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<svg",
		"</svg>",
		"<rect",   // canvas and label boxes
		"<circle", // anchor markers and the full-circle sector
		"<path",   // the wedge sector
		"<line",   // measurement and leader lines
		"Pump",    // anchor name used as label text
		"dev-2",   // nameless anchor falls back to its ID
		"4.0m",    // measurement caption
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderUnresolvedStyle(t *testing.T) {
	var buf bytes.Buffer
	r := New(DefaultScale, config.Default())

	if err := r.Render(&buf, testScene(), testLabels()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), styleUnresolved) {
		t.Error("unresolved label not drawn in the distinguishing style")
	}
}

func TestRenderSkipsUnplacedAnchors(t *testing.T) {
	var buf bytes.Buffer
	r := New(DefaultScale, config.Default())

	// No labels at all: only markers, no label boxes besides the canvas.
	if err := r.Render(&buf, testScene(), nil); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "<rect"); n != 1 {
		t.Errorf("rect count = %d, want 1 (canvas only)", n)
	}
}

func TestRenderRejectsDegenerateBounds(t *testing.T) {
	var buf bytes.Buffer
	r := New(DefaultScale, config.Default())

	sc := testScene()
	sc.Bounds = scene.Bounds{}
	if err := r.Render(&buf, sc, nil); err == nil {
		t.Error("Render() accepted zero-size bounds")
	}
}
