package handler

import (
	"github.com/afelia/fakewater/internal/tags"
	"github.com/afelia/fakewater/internal/world"
	"go.uber.org/zap"
)

// BlockAccess is the slice of the host the fluid rules need.
type BlockAccess interface {
	Material(c world.Coord) world.Material
	SetMaterial(c world.Coord, m world.Material) bool
}

// PropagateFlow tags to when fluid from a tagged fluid cell spreads into it.
// It must run before the host commits the flow. Cells that cannot hold fluid
// never receive the tag. Reports whether to was tagged.
func PropagateFlow(blocks BlockAccess, store *tags.Store, from, to world.Coord) bool {
	if !blocks.Material(from).Fluid() || !store.IsTagged(from) {
		return false
	}
	if !blocks.Material(to).CanHoldFluid() {
		return false
	}
	store.SetTagged(to, true)
	return true
}

// HandleFluidFlow carries the tag along an ordinary flow. The flow itself
// is never cancelled.
func HandleFluidFlow(ev *world.FluidFlow, deps *Deps) {
	PropagateFlow(deps.World, deps.Tags, ev.From, ev.To)
}

// HandleBlockForm replaces natural water formation inside fake water with a
// tagged water block. Formation is overridden when the forming cell already
// holds fluid and it, or one of its neighbours, is tagged fake water.
func HandleBlockForm(ev *world.BlockForm, deps *Deps) {
	if ev.Proposed != world.Water {
		return
	}
	if !deps.World.Material(ev.Coord).Fluid() {
		return
	}
	if !deps.Config.FakeWater.TagAllFormations && !taggedFluidAround(deps.World, deps.Tags, ev.Coord) {
		return
	}
	ev.Cancel()
	deps.World.SetMaterial(ev.Coord, world.Water)
	deps.Tags.SetTagged(ev.Coord, true)
	deps.Log.Debug("fake water formed", zap.Stringer("at", ev.Coord))
}

func taggedFluidAround(blocks BlockAccess, store *tags.Store, c world.Coord) bool {
	if store.IsTagged(c) {
		return true
	}
	for _, n := range c.Neighbours() {
		if blocks.Material(n).Fluid() && store.IsTagged(n) {
			return true
		}
	}
	return false
}

// FloodResult reports what a flood pass touched.
type FloodResult struct {
	Visited []world.Coord // in visit order
	Newly   int           // cells that were not tagged before
}

// Flood tags the 6-connected body of fluid around start, limited to cells
// within radius of start on every axis. Each fluid cell is visited once.
// Non-fluid cells are not recorded as visited, so a later pass can still
// reach them once they hold fluid. A non-fluid start visits nothing.
func Flood(blocks BlockAccess, store *tags.Store, start world.Coord, radius int) FloodResult {
	var res FloodResult
	if radius < 0 || !blocks.Material(start).Fluid() {
		return res
	}

	visited := map[world.Coord]struct{}{start: {}}
	queue := []world.Coord{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if !store.IsTagged(cur) {
			res.Newly++
		}
		store.SetTagged(cur, true)
		res.Visited = append(res.Visited, cur)

		for _, n := range cur.Neighbours() {
			if _, seen := visited[n]; seen {
				continue
			}
			if !withinRadius(start, n, radius) || !blocks.Material(n).Fluid() {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return res
}

func withinRadius(a, b world.Coord, r int) bool {
	for i := 0; i < 3; i++ {
		d := a.Pos[i] - b.Pos[i]
		if d < -r || d > r {
			return false
		}
	}
	return true
}

// FloodRadius clamps a requested radius to the configured bounds. A
// negative request selects the default radius.
func FloodRadius(requested int, deps *Deps) int {
	cfg := deps.Config.FakeWater
	if requested < 0 {
		requested = cfg.DefaultFloodRadius
	}
	if requested > cfg.MaxFloodRadius {
		requested = cfg.MaxFloodRadius
	}
	return requested
}
