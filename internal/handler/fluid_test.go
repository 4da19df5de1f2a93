package handler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/afelia/fakewater/internal/config"
	"github.com/afelia/fakewater/internal/core/event"
	"github.com/afelia/fakewater/internal/locale"
	"github.com/afelia/fakewater/internal/persist"
	"github.com/afelia/fakewater/internal/tags"
	"github.com/afelia/fakewater/internal/world"
	"github.com/df-mc/dragonfly/server/block/cube"
	"go.uber.org/zap/zaptest"
)

const testWorld = "w"

type memBackend struct {
	entries []string
}

func (m *memBackend) Name() string { return "memory" }

func (m *memBackend) LoadEntries(context.Context) ([]string, error) {
	return append([]string(nil), m.entries...), nil
}

func (m *memBackend) SaveEntries(_ context.Context, entries []string) error {
	m.entries = append([]string(nil), entries...)
	return nil
}

func newTestDeps(t *testing.T, backends ...tags.Backend) *Deps {
	t.Helper()
	log := zaptest.NewLogger(t)
	bus := event.NewBus()
	st := world.NewState(bus, testWorld)
	var backend tags.Backend = &memBackend{}
	if len(backends) > 0 {
		backend = backends[0]
	}
	deps := &Deps{
		Config: config.Defaults(),
		Log:    log,
		Bus:    bus,
		World:  st,
		Tags:   tags.NewStore(backend, st, log),
		Locale: locale.New("en"),
	}
	RegisterAll(deps)
	return deps
}

func at(x, y, z int) world.Coord { return world.C(testWorld, x, y, z) }

func TestPropagateFlowFromTaggedSource(t *testing.T) {
	deps := newTestDeps(t)
	src, dst := at(0, 0, 0), at(0, 0, 1)
	deps.World.SetMaterial(src, world.Water)
	deps.Tags.SetTagged(src, true)

	if !deps.World.FlowFluid(src, dst) {
		t.Fatal("flow rejected")
	}
	if !deps.Tags.IsTagged(dst) {
		t.Fatal("destination not tagged")
	}
	if deps.World.Material(dst) != world.Water {
		t.Fatalf("destination = %v, want water", deps.World.Material(dst))
	}
}

func TestPropagateFlowUntaggedSource(t *testing.T) {
	deps := newTestDeps(t)
	src, dst := at(0, 0, 0), at(1, 0, 0)
	deps.World.SetMaterial(src, world.Water)

	if !deps.World.FlowFluid(src, dst) {
		t.Fatal("flow rejected")
	}
	if deps.Tags.IsTagged(dst) {
		t.Fatal("ordinary water must not spread the tag")
	}
}

func TestPropagateFlowNeverTagsSolidOrDrySource(t *testing.T) {
	deps := newTestDeps(t)
	src, dst := at(0, 0, 0), at(0, 1, 0)

	// tagged but dry source
	deps.Tags.SetTagged(src, true)
	if PropagateFlow(deps.World, deps.Tags, src, dst) {
		t.Fatal("tag propagated from a non-fluid source")
	}

	// fluid source into stone
	deps.World.SetMaterial(src, world.Water)
	deps.World.SetMaterial(dst, world.Stone)
	if PropagateFlow(deps.World, deps.Tags, src, dst) {
		t.Fatal("tag propagated into stone")
	}
	if deps.Tags.IsTagged(dst) {
		t.Fatal("stone cell tagged")
	}
}

func TestBlockFormInsideFakeWater(t *testing.T) {
	deps := newTestDeps(t)
	tagged, forming := at(0, 0, 0), at(1, 0, 0)
	deps.World.SetMaterial(tagged, world.Water)
	deps.World.SetMaterial(forming, world.Water)
	deps.Tags.SetTagged(tagged, true)

	if deps.World.FormBlock(forming, world.Water) {
		t.Fatal("natural formation should be replaced")
	}
	if !deps.Tags.IsTagged(forming) || deps.World.Material(forming) != world.Water {
		t.Fatal("formed cell should be tagged water")
	}
}

func TestBlockFormOutsideFakeWater(t *testing.T) {
	deps := newTestDeps(t)
	c := at(5, 5, 5)
	deps.World.SetMaterial(c, world.Water)

	if !deps.World.FormBlock(c, world.Water) {
		t.Fatal("plain formation cancelled")
	}
	if deps.Tags.IsTagged(c) {
		t.Fatal("plain formation tagged")
	}

	deps.Config.FakeWater.TagAllFormations = true
	if deps.World.FormBlock(c, world.Water) {
		t.Fatal("tag_all_formations should replace every water formation")
	}
	if !deps.Tags.IsTagged(c) {
		t.Fatal("tag_all_formations did not tag")
	}
}

func TestBlockFormIgnoresNonWater(t *testing.T) {
	deps := newTestDeps(t)
	c := at(0, 0, 0)
	deps.World.SetMaterial(c, world.Water)
	deps.Tags.SetTagged(c, true)

	if !deps.World.FormBlock(c, world.Stone) {
		t.Fatal("stone formation cancelled")
	}
	if deps.World.Material(c) != world.Stone {
		t.Fatalf("material = %v", deps.World.Material(c))
	}
}

func TestFloodVisitsEachFluidCellOnce(t *testing.T) {
	deps := newTestDeps(t)
	// 3x3 slab of water at y=0 with a stone plug in the middle
	for x := -1; x <= 1; x++ {
		for z := -1; z <= 1; z++ {
			deps.World.SetMaterial(at(x, 0, z), world.Water)
		}
	}
	deps.World.SetMaterial(at(0, 0, 0), world.Stone)
	// reachable only through the edge of the radius
	deps.World.SetMaterial(at(2, 0, 0), world.Water)

	res := Flood(deps.World, deps.Tags, at(1, 0, 0), 1)

	seen := map[world.Coord]int{}
	for _, c := range res.Visited {
		seen[c]++
		if seen[c] > 1 {
			t.Fatalf("%v visited twice", c)
		}
		if deps.World.Material(c) != world.Water {
			t.Fatalf("visited non-fluid %v", c)
		}
	}
	// radius 1 around (1,0,0) covers x in [0,2], z in [-1,1]
	want := []world.Coord{
		at(1, 0, 0), at(1, 0, 1), at(1, 0, -1), at(2, 0, 0),
		at(0, 0, 1), at(0, 0, -1),
	}
	if len(res.Visited) != len(want) {
		t.Fatalf("visited %v, want %v", res.Visited, want)
	}
	for _, c := range want {
		if seen[c] != 1 || !deps.Tags.IsTagged(c) {
			t.Errorf("%v not visited and tagged", c)
		}
	}
	if deps.Tags.IsTagged(at(0, 0, 0)) {
		t.Error("stone plug tagged")
	}
	if deps.Tags.IsTagged(at(-1, 0, 0)) {
		t.Error("cell outside radius tagged")
	}
	if res.Newly != len(want) {
		t.Errorf("newly = %d", res.Newly)
	}

	again := Flood(deps.World, deps.Tags, at(1, 0, 0), 1)
	if again.Newly != 0 || len(again.Visited) != len(want) {
		t.Errorf("second flood = %+v", again)
	}
}

func TestFloodNonFluidStart(t *testing.T) {
	deps := newTestDeps(t)
	deps.World.SetMaterial(at(0, 0, 1), world.Water)

	res := Flood(deps.World, deps.Tags, at(0, 0, 0), 4)
	if len(res.Visited) != 0 || deps.Tags.Len() != 0 {
		t.Fatalf("flood from air = %+v", res)
	}
}

func TestFloodRadiusClamp(t *testing.T) {
	deps := newTestDeps(t)
	deps.Config.FakeWater.DefaultFloodRadius = 3
	deps.Config.FakeWater.MaxFloodRadius = 10

	if r := FloodRadius(-1, deps); r != 3 {
		t.Errorf("default = %d", r)
	}
	if r := FloodRadius(5, deps); r != 5 {
		t.Errorf("in range = %d", r)
	}
	if r := FloodRadius(99, deps); r != 10 {
		t.Errorf("clamped = %d", r)
	}
}

func TestFlowFloodSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yml")
	file := persist.NewYAMLFile(path, zaptest.NewLogger(t))
	deps := newTestDeps(t, file)

	a, b, c := at(0, 0, 0), at(0, 0, 1), at(0, 0, 2)
	deps.World.SetMaterial(a, world.Water)
	deps.World.SetMaterial(c, world.Water)
	deps.Tags.SetTagged(a, true)

	if !deps.World.FlowFluid(a, b) {
		t.Fatal("flow rejected")
	}
	res := Flood(deps.World, deps.Tags, b, 1)
	if len(res.Visited) != 3 {
		t.Fatalf("visited %v, want 3 cells", res.Visited)
	}

	ctx := context.Background()
	if err := deps.Tags.SaveAll(ctx); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	reloaded := tags.NewStore(persist.NewYAMLFile(path, zaptest.NewLogger(t)), deps.World, zaptest.NewLogger(t))
	set, err := reloaded.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(set) != 3 {
		t.Fatalf("reloaded %v", set)
	}
	for _, want := range []world.Coord{a, b, c} {
		if !reloaded.IsTagged(want) {
			t.Errorf("%v lost across reload", want)
		}
	}
}

func TestFlowCommandUsesFace(t *testing.T) {
	deps := newTestDeps(t)
	src := at(0, 0, 0)
	deps.World.SetMaterial(src, world.Water)
	deps.Tags.SetTagged(src, true)

	var out recorder
	HandleCommand(&out, "flow w 0 0 0 south", deps)
	if !deps.Tags.IsTagged(src.Side(cube.FaceSouth)) {
		t.Fatalf("south neighbour not tagged; output %v", out.lines)
	}
}
