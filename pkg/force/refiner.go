// Package force implements the force-directed placement refiner: an
// iterative simulation that pushes overlapping labels apart, pulls drifting
// labels back toward their anchors, and repels labels from canvas edges and
// sector obstacles.
//
// The simulation is fully deterministic. Items are processed in slice order,
// all force constants come from configuration, and the one case that needs a
// tie-break (two labels at the same position, where no repulsion direction
// exists) is resolved by hashing the element ID onto a fixed set of
// directions instead of drawing a random angle.
package force

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/geom"
	"github.com/svanholm/plotpin/pkg/place"
)

// clampMargin keeps refined positions this far inside the canvas edge.
const clampMargin = 0.5

// degenerateDist is the separation below which two labels are considered
// coincident and the hash tie-break applies.
const degenerateDist = 0.01

// tieBreakAngles is the number of fixed directions the ID hash selects from.
const tieBreakAngles = 16

// Item is one label participating in the simulation.
type Item struct {
	ID       string
	Anchor   geom.Point
	Category string
	// Pos is the starting position, normally the anchor plus the
	// first-priority directional offset.
	Pos geom.Point
	// Fixed items (manual placements) exert forces on their neighbors but
	// never move themselves.
	Fixed bool
}

// Refiner runs the simulation. It carries only configuration; scene state is
// passed per call.
type Refiner struct {
	Params  config.Refiner
	Bounds  geom.Box
	SizeFor place.Sizer
}

// New creates a refiner over the given parameters, canvas bounds, and size
// table.
func New(params config.Refiner, bounds geom.Box, sizeFor place.Sizer) *Refiner {
	return &Refiner{Params: params, Bounds: bounds, SizeFor: sizeFor}
}

// Refine simulates the items until the largest per-iteration displacement
// falls below the convergence threshold or the iteration budget runs out.
// It returns the final position for each item, index-aligned with items.
//
// Cancellation is checked between iterations; on cancellation the positions
// reached so far are returned along with the context error.
func (r *Refiner) Refine(ctx context.Context, items []Item, sectors []geom.Sector) ([]geom.Point, error) {
	pos := make([]geom.Point, len(items))
	vel := make([]geom.Point, len(items))
	for i, it := range items {
		if it.Fixed {
			pos[i] = it.Pos
			continue
		}
		pos[i] = r.Bounds.Clamp(it.Pos, clampMargin)
	}

	for iter := 0; iter < r.Params.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return pos, err
		}

		maxMove := 0.0
		for i := range items {
			if items[i].Fixed {
				continue
			}
			f := r.totalForce(i, items, pos, sectors)

			vel[i].X = (vel[i].X + f.X) * r.Params.Damping
			vel[i].Y = (vel[i].Y + f.Y) * r.Params.Damping

			step := math.Hypot(vel[i].X, vel[i].Y)
			if step > r.Params.MaxStep {
				scale := r.Params.MaxStep / step
				vel[i].X *= scale
				vel[i].Y *= scale
			}

			next := r.Bounds.Clamp(geom.Point{X: pos[i].X + vel[i].X, Y: pos[i].Y + vel[i].Y}, clampMargin)
			moved := pos[i].DistanceTo(next)
			pos[i] = next
			if moved > maxMove {
				maxMove = moved
			}
		}

		if maxMove < r.Params.ConvergeEps {
			break
		}
	}
	return pos, nil
}

// totalForce sums the four force contributions acting on item i.
func (r *Refiner) totalForce(i int, items []Item, pos []geom.Point, sectors []geom.Sector) geom.Point {
	var f geom.Point

	wi, hi := r.SizeFor(items[i].Category)
	boxI := geom.BoxFromCenter(pos[i], wi, hi)

	// Label-label repulsion. Overlapping pairs get a strong push, merely
	// nearby pairs a weak one.
	for j := range items {
		if j == i {
			continue
		}
		wj, hj := r.SizeFor(items[j].Category)
		boxJ := geom.BoxFromCenter(pos[j], wj, hj)

		dx := pos[i].X - pos[j].X
		dy := pos[i].Y - pos[j].Y
		dist := math.Hypot(dx, dy)

		if dist < degenerateDist {
			// Coincident labels: no direction to push along, so derive
			// one from the pair's IDs. The lower-ID item moves along the
			// hashed direction and the other moves opposite.
			dir := tieBreakDirection(items[i].ID, items[j].ID)
			if items[i].ID > items[j].ID {
				dir.X, dir.Y = -dir.X, -dir.Y
			}
			f.X += dir.X * r.Params.Repulsion * 3.0
			f.Y += dir.Y * r.Params.Repulsion * 3.0
			continue
		}

		ux, uy := dx/dist, dy/dist
		switch {
		case geom.Overlaps(boxI, boxJ, 0):
			strength := r.Params.Repulsion * 3.0 / dist
			f.X += ux * strength
			f.Y += uy * strength
		case dist < r.Params.NearbyRadius:
			strength := r.Params.Repulsion * 0.5 / dist
			f.X += ux * strength
			f.Y += uy * strength
		}
	}

	// Anchor attraction, engaged only once the label has drifted beyond the
	// slack distance.
	anchorDist := pos[i].DistanceTo(items[i].Anchor)
	if anchorDist > r.Params.AnchorSlack {
		ux := (items[i].Anchor.X - pos[i].X) / anchorDist
		uy := (items[i].Anchor.Y - pos[i].Y) / anchorDist
		pull := r.Params.Attraction * (anchorDist - r.Params.AnchorSlack)
		f.X += ux * pull
		f.Y += uy * pull
	}

	// Boundary repulsion: push inward when a box edge comes within the
	// clamp margin of the canvas edge.
	if boxI.XMin < r.Bounds.XMin+clampMargin {
		f.X += r.Params.BoundaryPush
	}
	if boxI.XMax > r.Bounds.XMax-clampMargin {
		f.X -= r.Params.BoundaryPush
	}
	if boxI.YMin < r.Bounds.YMin+clampMargin {
		f.Y += r.Params.BoundaryPush
	}
	if boxI.YMax > r.Bounds.YMax-clampMargin {
		f.Y -= r.Params.BoundaryPush
	}

	// Sector repulsion: push radially away from any sector the box touches.
	for _, s := range sectors {
		if !geom.BoxIntersectsSector(boxI, s) {
			continue
		}
		dx := pos[i].X - s.Center.X
		dy := pos[i].Y - s.Center.Y
		dist := math.Hypot(dx, dy)
		if dist < degenerateDist {
			dir := hashDirection(items[i].ID)
			f.X += dir.X * r.Params.SectorPush
			f.Y += dir.Y * r.Params.SectorPush
			continue
		}
		f.X += dx / dist * r.Params.SectorPush
		f.Y += dy / dist * r.Params.SectorPush
	}

	return f
}

// tieBreakDirection picks the separation direction for a coincident pair.
// Both members see the same direction (the caller negates it for one side),
// keyed on the lexicographically smaller ID so the choice is independent of
// iteration order.
func tieBreakDirection(a, b string) geom.Point {
	if b < a {
		a = b
	}
	return hashDirection(a)
}

// hashDirection maps an element ID onto one of tieBreakAngles unit vectors
// via FNV-1a. The same ID always yields the same direction.
func hashDirection(id string) geom.Point {
	h := fnv.New32a()
	h.Write([]byte(id))
	angle := float64(h.Sum32()%tieBreakAngles) * (2 * math.Pi / tieBreakAngles)
	return geom.Point{X: math.Cos(angle), Y: math.Sin(angle)}
}
