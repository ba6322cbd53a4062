// Package svg paints a scene and its committed label placements as an SVG
// document: canvas bounds, sector obstacles, anchor markers, measurement
// lines, and the label boxes themselves, with unresolved labels drawn in a
// distinguishing style.
//
// Rendering is a host-side collaborator around the engine. It reads layout
// results; it never computes or adjusts positions.
package svg

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/engine"
	"github.com/svanholm/plotpin/pkg/scene"
)

// DefaultScale is the pixels-per-scene-unit conversion factor.
const DefaultScale = 40.0

// Styles for the painted parts.
const (
	styleCanvas     = "fill:#ffffff;stroke:#333333;stroke-width:2"
	styleSector     = "fill:#ff6b6b;fill-opacity:0.25;stroke:#c0392b;stroke-width:1"
	styleAnchor     = "fill:#2c3e50"
	styleMeasure    = "stroke:#7f8c8d;stroke-width:1;stroke-dasharray:6,3"
	styleLeader     = "stroke:#95a5a6;stroke-width:1"
	styleLabel      = "fill:#ecf0f1;stroke:#2980b9;stroke-width:1.5"
	styleManual     = "fill:#fdf6e3;stroke:#8e44ad;stroke-width:1.5"
	styleUnresolved = "fill:#ecf0f1;stroke:#e74c3c;stroke-width:1.5;stroke-dasharray:4,3"
	styleText       = "font-family:sans-serif;font-size:12px;fill:#2c3e50;text-anchor:middle;dominant-baseline:middle"
	styleCaption    = "font-family:sans-serif;font-size:11px;fill:#7f8c8d;text-anchor:middle"
)

// Renderer converts scene coordinates (origin centered, y up) to SVG pixel
// coordinates (origin top-left, y down).
type Renderer struct {
	Scale  float64
	Config config.Config
}

// New creates a renderer. A zero scale falls back to DefaultScale.
func New(scale float64, cfg config.Config) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Renderer{Scale: scale, Config: cfg}
}

// Render paints the scene with its layout results to w.
func (r *Renderer) Render(w io.Writer, sc scene.Scene, labels map[string]engine.LabelResult) error {
	width := int(2 * sc.Bounds.XRange * r.Scale)
	height := int(2 * sc.Bounds.YRange * r.Scale)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render: degenerate canvas %dx%d", width, height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, styleCanvas)

	for _, sec := range sc.Sectors {
		r.drawSector(canvas, sc, sec)
	}
	for _, m := range sc.Measurements {
		r.drawMeasurement(canvas, sc, m)
	}
	for _, a := range sc.Anchors {
		r.drawAnchor(canvas, sc, a, labels[a.ID])
	}

	canvas.End()
	return nil
}

// px converts a scene point to pixel coordinates.
func (r *Renderer) px(sc scene.Scene, x, y float64) (int, int) {
	return int((x + sc.Bounds.XRange) * r.Scale), int((sc.Bounds.YRange - y) * r.Scale)
}

func (r *Renderer) drawSector(canvas *svg.SVG, sc scene.Scene, sec scene.Sector) {
	cx, cy := r.px(sc, sec.CenterX, sec.CenterY)
	rad := int(sec.Radius * r.Scale)

	span := math.Mod(sec.End-sec.Start, 360)
	if span < 0 {
		span += 360
	}
	if span == 0 {
		// Start == end denotes the full disc.
		canvas.Circle(cx, cy, rad, styleSector)
		return
	}

	x1, y1 := r.px(sc,
		sec.CenterX+sec.Radius*math.Cos(sec.Start*math.Pi/180),
		sec.CenterY+sec.Radius*math.Sin(sec.Start*math.Pi/180))
	x2, y2 := r.px(sc,
		sec.CenterX+sec.Radius*math.Cos(sec.End*math.Pi/180),
		sec.CenterY+sec.Radius*math.Sin(sec.End*math.Pi/180))

	large := 0
	if span > 180 {
		large = 1
	}
	// Scene angles run counterclockwise; with the flipped pixel Y axis that
	// is the SVG sweep=0 direction.
	path := fmt.Sprintf("M%d,%d L%d,%d A%d,%d 0 %d,0 %d,%d Z",
		cx, cy, x1, y1, rad, rad, large, x2, y2)
	canvas.Path(path, styleSector)
}

func (r *Renderer) drawMeasurement(canvas *svg.SVG, sc scene.Scene, m scene.Measurement) {
	x1, y1 := r.px(sc, m.FromX, m.FromY)
	x2, y2 := r.px(sc, m.ToX, m.ToY)
	canvas.Line(x1, y1, x2, y2, styleMeasure)
	if m.Label != "" {
		canvas.Text((x1+x2)/2, (y1+y2)/2-4, m.Label, styleCaption)
	}
}

func (r *Renderer) drawAnchor(canvas *svg.SVG, sc scene.Scene, a scene.Anchor, l engine.LabelResult) {
	ax, ay := r.px(sc, a.X, a.Y)
	canvas.Circle(ax, ay, 4, styleAnchor)

	if l.Mode == "" {
		// Skipped or never placed: marker only.
		return
	}

	w, h := r.Config.SizeFor(a.Category)
	lx, ly := r.px(sc, l.X, l.Y)
	boxW := int(w * r.Scale)
	boxH := int(h * r.Scale)

	canvas.Line(ax, ay, lx, ly, styleLeader)

	style := styleLabel
	switch {
	case !l.Resolved:
		style = styleUnresolved
	case l.Mode == "manual":
		style = styleManual
	}
	canvas.Rect(lx-boxW/2, ly-boxH/2, boxW, boxH, style)

	text := a.Name
	if text == "" {
		text = a.ID
	}
	canvas.Text(lx, ly, text, styleText)
}
