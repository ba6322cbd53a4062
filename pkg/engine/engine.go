package engine

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/svanholm/plotpin/pkg/cache"
	"github.com/svanholm/plotpin/pkg/collide"
	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/errors"
	"github.com/svanholm/plotpin/pkg/force"
	"github.com/svanholm/plotpin/pkg/geom"
	"github.com/svanholm/plotpin/pkg/observability"
	"github.com/svanholm/plotpin/pkg/place"
	"github.com/svanholm/plotpin/pkg/scene"
	"github.com/svanholm/plotpin/pkg/store"
)

// TagManual marks positions set by the user rather than the engine.
const TagManual = "manual"

// TagRefined marks positions produced by the force-directed strategy, which
// has no single candidate direction to report.
const TagRefined = "refined"

// LabelResult is the per-element outcome of a layout pass.
type LabelResult struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	DirectionTag string  `json:"direction_tag"`
	Resolved     bool    `json:"resolved"`
	Mode         string  `json:"mode"`
}

// Stats summarizes a layout pass.
type Stats struct {
	Total      int           `json:"total"`
	Placed     int           `json:"placed"`
	Reused     int           `json:"reused"`
	Manual     int           `json:"manual"`
	Unresolved int           `json:"unresolved"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"duration"`
}

// Result is the outcome of ComputeLayout.
type Result struct {
	// Labels maps element ID to its committed placement. Every valid
	// anchor appears here; no anchor is left without a position.
	Labels map[string]LabelResult `json:"labels"`

	// Skipped maps element IDs that failed validation to the reason. These
	// elements have no entry in Labels.
	Skipped map[string]string `json:"skipped,omitempty"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Engine runs layout passes. It is stateless apart from the store, cache,
// and logger; one Engine may serve concurrent callers with different scenes.
type Engine struct {
	Config config.Config
	Store  *store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// New creates an engine. Nil collaborators get safe defaults: an empty
// store, a disabled cache, the standard keyer, and a silent logger.
func New(cfg config.Config, st *store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Engine {
	if st == nil {
		st = store.New()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		Config: cfg,
		Store:  st,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ComputeLayout runs one full layout pass over the scene and returns the
// committed position for every valid anchor.
//
// Identical scene, configuration, and manual overrides always produce the
// identical result. Committed auto positions are reused, not recomputed,
// while their context signature still matches.
func (e *Engine) ComputeLayout(ctx context.Context, sc scene.Scene) (*Result, error) {
	start := time.Now()

	sc.Normalize()
	problems, err := sc.Validate()
	if err != nil {
		return nil, err
	}

	observability.Layout().OnLayoutStart(ctx, sceneHash(sc), len(sc.Anchors))

	result := &Result{
		Labels:  make(map[string]LabelResult),
		Skipped: make(map[string]string),
	}
	for id, perr := range problems {
		result.Skipped[id] = perr.Error()
	}
	result.Stats.Total = len(sc.Anchors)
	result.Stats.Skipped = len(result.Skipped)

	if hit, err := e.tryCached(ctx, sc, result); err != nil {
		e.Logger.Warn("layout cache lookup failed", "error", err)
	} else if hit {
		result.Stats.Duration = time.Since(start)
		e.finish(ctx, sc, result)
		return result, nil
	}

	bounds := sc.Bounds.Box()
	sectors := sc.GeomSectors()
	detector := collide.New(bounds, e.Config.Margins.Border, e.Config.Margins.Collision)
	placer := place.New(detector, e.Config.SizeFor)

	// Collect: split anchors into kept labels and ones needing placement.
	kept := make(map[string]store.Label)
	var needs []scene.Anchor
	for _, a := range sc.Anchors {
		if _, bad := result.Skipped[a.ID]; bad {
			continue
		}
		sig := e.contextSignature(a, sectors, bounds)
		if l, ok := e.Store.Get(a.ID); ok {
			if l.Mode == store.ModeManual {
				kept[a.ID] = l
				result.Stats.Manual++
				continue
			}
			if l.Signature == sig {
				kept[a.ID] = l
				result.Stats.Reused++
				continue
			}
		}
		needs = append(needs, a)
	}

	// Order: Normalize already sorted the anchors, so needs is sorted too.
	// Kept boxes are seeded in sorted-ID order as well.
	placed := make([]geom.Box, 0, len(sc.Anchors))
	for _, id := range sortedLabelIDs(kept) {
		a, _ := sc.AnchorByID(id)
		placed = append(placed, placer.BoxFor(kept[id].Pos, a.Category))
	}

	// Place.
	updates := make(map[string]store.Label, len(needs))
	var perr error
	switch e.Config.Strategy {
	case config.StrategyForce:
		perr = e.placeForce(ctx, needs, kept, sc, sectors, bounds, detector, placer, updates)
	default:
		e.placeDirectional(needs, sectors, placed, placer, updates)
	}
	if perr != nil {
		return nil, perr
	}
	for _, a := range needs {
		updates[a.ID] = withSignature(updates[a.ID], e.contextSignature(a, sectors, bounds))
	}

	// Commit.
	e.Store.Commit(ctx, updates)

	for id, l := range kept {
		result.Labels[id] = toResult(l)
	}
	for id, l := range updates {
		result.Labels[id] = toResult(l)
		result.Stats.Placed++
		if !l.Resolved {
			result.Stats.Unresolved++
		}
	}

	if err := e.storeCached(ctx, sc, result); err != nil {
		e.Logger.Warn("layout cache write failed", "error", err)
	}

	result.Stats.Duration = time.Since(start)
	e.finish(ctx, sc, result)
	return result, nil
}

// RecordManualMove pins an element to a user-chosen position. The position
// is recorded verbatim, even when it lies outside the current canvas; manual
// intent is preserved until the user acts again.
func (e *Engine) RecordManualMove(ctx context.Context, id string, x, y float64) error {
	if err := errors.ValidateElementID(id); err != nil {
		return err
	}
	if err := errors.ValidateFinite("manual position", x, y); err != nil {
		return err
	}

	e.Store.Set(ctx, id, store.Label{
		Pos:      geom.Point{X: x, Y: y},
		Mode:     store.ModeManual,
		Tag:      TagManual,
		Resolved: true,
	})
	e.Logger.Debug("recorded manual move", "id", id, "x", x, "y", y)
	return nil
}

// ResetToAuto clears a manual override so the next layout pass recomputes
// the element's position.
func (e *Engine) ResetToAuto(ctx context.Context, id string) error {
	return e.Store.ResetToAuto(ctx, id)
}

// ============================================================================
// Placement strategies
// ============================================================================

func (e *Engine) placeDirectional(needs []scene.Anchor, sectors []geom.Sector, placed []geom.Box, placer *place.Placer, updates map[string]store.Label) {
	for _, a := range needs {
		p := placer.Place(a.Point(), a.Category, sectors, placed)
		placed = append(placed, placer.BoxFor(p.Pos, a.Category))
		updates[a.ID] = store.Label{
			Pos:      p.Pos,
			Mode:     store.ModeAuto,
			Tag:      p.Tag,
			Resolved: p.Resolved,
		}
	}
}

func (e *Engine) placeForce(ctx context.Context, needs []scene.Anchor, kept map[string]store.Label, sc scene.Scene, sectors []geom.Sector, bounds geom.Box, detector collide.Detector, placer *place.Placer, updates map[string]store.Label) error {
	items := make([]force.Item, 0, len(needs)+len(kept))
	for _, id := range sortedLabelIDs(kept) {
		a, _ := sc.AnchorByID(id)
		items = append(items, force.Item{
			ID:       id,
			Anchor:   a.Point(),
			Category: a.Category,
			Pos:      kept[id].Pos,
			Fixed:    true,
		})
	}
	seed := place.Ring[0]
	for _, a := range needs {
		items = append(items, force.Item{
			ID:       a.ID,
			Anchor:   a.Point(),
			Category: a.Category,
			Pos:      geom.Point{X: a.X + seed.DX, Y: a.Y + seed.DY},
		})
	}

	refiner := force.New(e.Config.Refiner, bounds, e.Config.SizeFor)
	positions, err := refiner.Refine(ctx, items, sectors)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "force refinement interrupted")
	}

	// Resolved means the final box clears the canvas, every sector, and
	// every other final box.
	boxes := make([]geom.Box, len(items))
	for i, it := range items {
		boxes[i] = placer.BoxFor(positions[i], it.Category)
	}
	for i, it := range items {
		if it.Fixed {
			continue
		}
		others := make([]geom.Box, 0, len(boxes)-1)
		others = append(others, boxes[:i]...)
		others = append(others, boxes[i+1:]...)
		updates[it.ID] = store.Label{
			Pos:      positions[i],
			Mode:     store.ModeAuto,
			Tag:      TagRefined,
			Resolved: detector.Accepts(boxes[i], sectors, others),
		}
	}
	return nil
}

// ============================================================================
// Cache plumbing
// ============================================================================

// cacheKey derives the layout cache key from everything that determines the
// output: the scene content, the manual overrides, and the placement
// configuration.
func (e *Engine) cacheKey(sc scene.Scene) string {
	manual, _ := json.Marshal(e.manualSnapshot())
	return e.Keyer.LayoutKey(sceneHash(sc)+cache.Hash(manual), cache.LayoutKeyOpts{
		Strategy:        e.Config.Strategy,
		BorderMargin:    e.Config.Margins.Border,
		CollisionMargin: e.Config.Margins.Collision,
	})
}

func (e *Engine) tryCached(ctx context.Context, sc scene.Scene, result *Result) (bool, error) {
	key := e.cacheKey(sc)
	data, found, err := e.Cache.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return false, nil
	}

	var labels map[string]store.Label
	if err := json.Unmarshal(data, &labels); err != nil {
		// Corrupt entry: drop it and recompute.
		_ = e.Cache.Delete(ctx, key)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, "layout")

	e.Store.Commit(ctx, labels)
	for id, l := range labels {
		result.Labels[id] = toResult(l)
		switch {
		case l.Mode == store.ModeManual:
			result.Stats.Manual++
		default:
			result.Stats.Reused++
		}
		if !l.Resolved {
			result.Stats.Unresolved++
		}
	}
	result.CacheHit = true
	return true, nil
}

func (e *Engine) storeCached(ctx context.Context, sc scene.Scene, result *Result) error {
	labels := make(map[string]store.Label, len(result.Labels))
	for id := range result.Labels {
		if l, ok := e.Store.Get(id); ok {
			labels[id] = l
		}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	key := e.cacheKey(sc)
	if err := e.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
	return nil
}

// manualSnapshot lists the current manual overrides in sorted order, so the
// cache key is stable across map iteration order.
func (e *Engine) manualSnapshot() []store.Label {
	snap := e.Store.Snapshot()
	ids := make([]string, 0, len(snap))
	for id, l := range snap {
		if l.Mode == store.ModeManual {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]store.Label, 0, len(ids))
	for _, id := range ids {
		out = append(out, snap[id])
	}
	return out
}

// ============================================================================
// Helpers
// ============================================================================

func (e *Engine) finish(ctx context.Context, sc scene.Scene, result *Result) {
	observability.Layout().OnLayoutComplete(ctx, sceneHash(sc),
		result.Stats.Placed+result.Stats.Reused+result.Stats.Manual,
		result.Stats.Unresolved, result.Stats.Duration)

	e.Logger.Info("layout pass complete",
		"total", result.Stats.Total,
		"placed", result.Stats.Placed,
		"reused", result.Stats.Reused,
		"manual", result.Stats.Manual,
		"unresolved", result.Stats.Unresolved,
		"cache_hit", result.CacheHit,
		"duration", result.Stats.Duration)
}

// contextSignature hashes everything that invalidates a committed auto
// placement: the anchor itself, the obstacle set, the canvas bounds, and the
// configuration that shapes candidate boxes.
func (e *Engine) contextSignature(a scene.Anchor, sectors []geom.Sector, bounds geom.Box) string {
	payload, _ := json.Marshal(struct {
		Anchor   scene.Anchor   `json:"anchor"`
		Sectors  []geom.Sector  `json:"sectors"`
		Bounds   geom.Box       `json:"bounds"`
		Strategy string         `json:"strategy"`
		Margins  config.Margins `json:"margins"`
		Size     [2]float64     `json:"size"`
	}{a, sectors, bounds, e.Config.Strategy, e.Config.Margins, sizeOf(e.Config, a.Category)})
	return cache.Hash(payload)
}

func sizeOf(cfg config.Config, category string) [2]float64 {
	w, h := cfg.SizeFor(category)
	return [2]float64{w, h}
}

func sceneHash(sc scene.Scene) string {
	data, _ := scene.MarshalScene(sc)
	return cache.Hash(data)
}

func withSignature(l store.Label, sig string) store.Label {
	l.Signature = sig
	return l
}

func toResult(l store.Label) LabelResult {
	return LabelResult{
		X:            l.Pos.X,
		Y:            l.Pos.Y,
		DirectionTag: l.Tag,
		Resolved:     l.Resolved,
		Mode:         l.Mode,
	}
}

func sortedLabelIDs(m map[string]store.Label) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
