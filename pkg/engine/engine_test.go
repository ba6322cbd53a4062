package engine

import (
	"context"
	"math"
	"testing"

	"github.com/svanholm/plotpin/pkg/cache"
	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/errors"
	"github.com/svanholm/plotpin/pkg/scene"
	"github.com/svanholm/plotpin/pkg/store"
)

func testScene(anchors []scene.Anchor, sectors []scene.Sector) scene.Scene {
	return scene.Scene{
		Anchors: anchors,
		Sectors: sectors,
		Bounds:  scene.Bounds{XRange: 10, YRange: 10},
	}
}

func newTestEngine() *Engine {
	return New(config.Default(), nil, nil, nil, nil)
}

func TestComputeLayoutSingleAnchor(t *testing.T) {
	e := newTestEngine()
	sc := testScene([]scene.Anchor{{ID: "a", X: 0, Y: 0}}, nil)

	res, err := e.ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	got, ok := res.Labels["a"]
	if !ok {
		t.Fatal("no result for anchor a")
	}
	if !got.Resolved {
		t.Error("Resolved = false, want true")
	}
	if got.DirectionTag != "upper-right" {
		t.Errorf("DirectionTag = %q, want upper-right", got.DirectionTag)
	}
	if got.X != 1.2 || got.Y != 0.8 {
		t.Errorf("position = (%v, %v), want (1.2, 0.8)", got.X, got.Y)
	}
	if got.Mode != store.ModeAuto {
		t.Errorf("Mode = %q, want auto", got.Mode)
	}
}

func TestComputeLayoutSectorForcesNextCandidate(t *testing.T) {
	e := newTestEngine()
	sc := testScene(
		[]scene.Anchor{{ID: "a", X: 0, Y: 0}},
		[]scene.Sector{{Radius: 4, Start: 0, End: 90}},
	)

	res, err := e.ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	got := res.Labels["a"]
	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	if got.DirectionTag == "upper-right" {
		t.Error("DirectionTag = upper-right, want a later candidate")
	}
}

func TestComputeLayoutCloseAnchorsDoNotOverlap(t *testing.T) {
	e := newTestEngine()
	sc := testScene([]scene.Anchor{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 0.1, Y: 0.1},
	}, nil)

	res, err := e.ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	la, lb := res.Labels["a"], res.Labels["b"]
	if !la.Resolved || !lb.Resolved {
		t.Fatalf("Resolved = %v/%v, want both true", la.Resolved, lb.Resolved)
	}
	// Default device boxes are 2.0 x 0.8; centers must be at least a box
	// apart on one axis for the boxes to clear.
	dx := la.X - lb.X
	dy := la.Y - lb.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx < 2.0 && dy < 0.8 {
		t.Errorf("labels overlap: a=(%v,%v) b=(%v,%v)", la.X, la.Y, lb.X, lb.Y)
	}
}

func TestManualOverridePermanence(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	sc := testScene([]scene.Anchor{{ID: "A", X: 0, Y: 0}}, nil)

	if _, err := e.ComputeLayout(ctx, sc); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordManualMove(ctx, "A", 5, 5); err != nil {
		t.Fatalf("RecordManualMove() error = %v", err)
	}

	// Re-run with a new obstacle covering the old auto-computed region.
	sc2 := testScene(
		[]scene.Anchor{{ID: "A", X: 0, Y: 0}},
		[]scene.Sector{{Radius: 4, Start: 0, End: 90}},
	)
	res, err := e.ComputeLayout(ctx, sc2)
	if err != nil {
		t.Fatal(err)
	}

	got := res.Labels["A"]
	if got.X != 5 || got.Y != 5 {
		t.Errorf("manual position moved to (%v, %v), want (5, 5)", got.X, got.Y)
	}
	if got.Mode != store.ModeManual {
		t.Errorf("Mode = %q, want manual", got.Mode)
	}

	// Reset releases the pin; the next pass recomputes.
	if err := e.ResetToAuto(ctx, "A"); err != nil {
		t.Fatalf("ResetToAuto() error = %v", err)
	}
	res, err = e.ComputeLayout(ctx, sc2)
	if err != nil {
		t.Fatal(err)
	}
	got = res.Labels["A"]
	if got.X == 5 && got.Y == 5 {
		t.Error("position unchanged after ResetToAuto")
	}
	if got.Mode != store.ModeAuto {
		t.Errorf("Mode = %q, want auto", got.Mode)
	}
}

func TestComputeLayoutUnresolvableFallback(t *testing.T) {
	e := newTestEngine()
	sc := testScene(
		[]scene.Anchor{{ID: "a", X: 0, Y: 0}},
		[]scene.Sector{{Radius: 8, Start: 0, End: 360}},
	)

	res, err := e.ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	got := res.Labels["a"]
	if got.Resolved {
		t.Fatal("Resolved = true, want false")
	}
	if got.X != 1.2 || got.Y != 0.8 {
		t.Errorf("fallback position = (%v, %v), want first-priority (1.2, 0.8)", got.X, got.Y)
	}
	if res.Stats.Unresolved != 1 {
		t.Errorf("Stats.Unresolved = %d, want 1", res.Stats.Unresolved)
	}
}

func TestComputeLayoutDeterministic(t *testing.T) {
	sc := testScene([]scene.Anchor{
		{ID: "n1", X: 0, Y: 0},
		{ID: "n2", X: 0.5, Y: 0.2, Category: scene.CategoryMeasurement},
		{ID: "n3", X: -2, Y: 1, Category: scene.CategoryUser},
	}, []scene.Sector{{Radius: 3, Start: 315, End: 45}})

	first, err := newTestEngine().ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 10; run++ {
		// Fresh engine each run: no shared store, no shared cache.
		res, err := newTestEngine().ComputeLayout(context.Background(), sc)
		if err != nil {
			t.Fatal(err)
		}
		for id, want := range first.Labels {
			if got := res.Labels[id]; got != want {
				t.Fatalf("run %d, %s: %+v != %+v", run, id, got, want)
			}
		}
	}
}

func TestComputeLayoutForceStrategyDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = config.StrategyForce

	same := []scene.Anchor{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 0, Y: 0},
	}
	sc := testScene(same, nil)

	first, err := New(cfg, nil, nil, nil, nil).ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	// Coincident anchors separate via the ID hash, identically every run.
	if first.Labels["a"] == first.Labels["b"] {
		t.Error("coincident labels were not separated")
	}
	for run := 0; run < 10; run++ {
		res, err := New(cfg, nil, nil, nil, nil).ComputeLayout(context.Background(), sc)
		if err != nil {
			t.Fatal(err)
		}
		for id, want := range first.Labels {
			if got := res.Labels[id]; got != want {
				t.Fatalf("run %d, %s: %+v != %+v", run, id, got, want)
			}
		}
	}
}

func TestComputeLayoutReusesUnchangedContext(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	sc := testScene([]scene.Anchor{{ID: "a", X: 0, Y: 0}}, nil)

	if _, err := e.ComputeLayout(ctx, sc); err != nil {
		t.Fatal(err)
	}
	res, err := e.ComputeLayout(ctx, sc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Reused != 1 || res.Stats.Placed != 0 {
		t.Errorf("Stats = %+v, want one reused, none placed", res.Stats)
	}
}

func TestComputeLayoutRecomputesOnContextChange(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	if _, err := e.ComputeLayout(ctx, testScene([]scene.Anchor{{ID: "a", X: 0, Y: 0}}, nil)); err != nil {
		t.Fatal(err)
	}

	// Adding an obstacle changes the context signature.
	sc2 := testScene(
		[]scene.Anchor{{ID: "a", X: 0, Y: 0}},
		[]scene.Sector{{Radius: 4, Start: 0, End: 90}},
	)
	res, err := e.ComputeLayout(ctx, sc2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Placed != 1 || res.Stats.Reused != 0 {
		t.Errorf("Stats = %+v, want one placed, none reused", res.Stats)
	}
	if res.Labels["a"].DirectionTag == "upper-right" {
		t.Error("placement not recomputed against the new obstacle")
	}
}

func TestComputeLayoutSkipsInvalidAnchor(t *testing.T) {
	e := newTestEngine()
	sc := testScene([]scene.Anchor{
		{ID: "good", X: 0, Y: 0},
		{ID: "bad", X: 1, Y: 2, Category: "spaceship"},
	}, nil)

	res, err := e.ComputeLayout(context.Background(), sc)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v, want per-element skip", err)
	}

	if _, ok := res.Labels["good"]; !ok {
		t.Error("valid anchor missing from results")
	}
	if _, ok := res.Labels["bad"]; ok {
		t.Error("invalid anchor present in results")
	}
	if _, ok := res.Skipped["bad"]; !ok {
		t.Error("invalid anchor not reported in Skipped")
	}
}

func TestComputeLayoutCacheHit(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	sc := testScene([]scene.Anchor{{ID: "a", X: 0, Y: 0}}, nil)

	e1 := New(config.Default(), nil, fc, nil, nil)
	first, err := e1.ComputeLayout(ctx, sc)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first pass reported a cache hit")
	}

	// A second engine with a fresh store but the same cache reuses the
	// committed layout.
	e2 := New(config.Default(), nil, fc, nil, nil)
	second, err := e2.ComputeLayout(ctx, sc)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second pass missed the cache")
	}
	if second.Labels["a"] != first.Labels["a"] {
		t.Errorf("cached result %+v differs from computed %+v", second.Labels["a"], first.Labels["a"])
	}
}

func TestRecordManualMoveValidation(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	if err := e.RecordManualMove(ctx, "", 1, 2); !errors.Is(err, errors.ErrCodeInvalidAnchor) {
		t.Errorf("empty id error code = %v, want INVALID_ANCHOR", errors.GetCode(err))
	}
	if err := e.RecordManualMove(ctx, "a", math.NaN(), 0); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Error("non-finite manual position accepted")
	}
}

func TestResetToAutoUnknownID(t *testing.T) {
	e := newTestEngine()
	err := e.ResetToAuto(context.Background(), "ghost")
	if !errors.Is(err, errors.ErrCodeLabelNotFound) {
		t.Errorf("error code = %v, want LABEL_NOT_FOUND", errors.GetCode(err))
	}
}
