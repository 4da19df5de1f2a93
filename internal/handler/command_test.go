package handler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/afelia/fakewater/internal/locale"
	"github.com/afelia/fakewater/internal/world"
)

type recorder struct {
	lines []string
}

func (r *recorder) SendMessage(msg string) { r.lines = append(r.lines, msg) }

func (r *recorder) last() string {
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

func TestGetFakeWaterBucketPlayersOnly(t *testing.T) {
	deps := newTestDeps(t)
	var out recorder
	HandleCommand(&out, "getfakewaterbucket", deps)
	if out.last() != locale.MsgPlayersOnly {
		t.Fatalf("reply = %q", out.last())
	}
}

func TestGetFakeWaterBucketGivesTwo(t *testing.T) {
	deps := newTestDeps(t)
	var out recorder
	HandleCommand(&out, "join carol w 0 0 0", deps)
	p := deps.World.PlayerByName("carol")
	if p == nil {
		t.Fatalf("join failed: %v", out.lines)
	}

	HandleCommand(&out, "as carol /getfakewaterbucket", deps)
	if n := p.Inv.CountTagged(FakeWaterTag); n != BucketsPerGrant {
		t.Fatalf("marked buckets = %d", n)
	}
	msgs := p.RecentMessages()
	if len(msgs) == 0 || msgs[len(msgs)-1] != locale.MsgReceivedBucket {
		t.Fatalf("player messages = %v", msgs)
	}
	for _, it := range p.Inv.Items {
		if it.DisplayName != locale.MsgBucketName || it.Kind != world.ItemWaterBucket {
			t.Errorf("item = %+v", it)
		}
	}
}

func TestGetFakeWaterBucketFullInventory(t *testing.T) {
	deps := newTestDeps(t)
	var out recorder
	HandleCommand(&out, "join dave w 0 0 0", deps)
	p := deps.World.PlayerByName("dave")
	for !p.Inv.IsFull() {
		p.Inv.AddItem(&world.ItemStack{Kind: world.ItemBucket})
	}

	if got := GiveFakeWaterBuckets(p, deps); got != 0 {
		t.Fatalf("gave %d into a full inventory", got)
	}
	if msgs := p.RecentMessages(); msgs[len(msgs)-1] != locale.MsgInventoryFull {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestPlayersCannotUseConsoleCommands(t *testing.T) {
	deps := newTestDeps(t)
	var out recorder
	HandleCommand(&out, "join erin w 0 0 0", deps)
	HandleCommand(&out, "as erin tag w 1 1 1", deps)

	if deps.Tags.IsTagged(at(1, 1, 1)) {
		t.Fatal("player ran a console command")
	}
	msgs := deps.World.PlayerByName("erin").RecentMessages()
	if len(msgs) == 0 || !strings.HasPrefix(msgs[0], "Unknown command") {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestConsoleCommands(t *testing.T) {
	deps := newTestDeps(t)
	var out recorder

	HandleCommand(&out, "setblock w 0 0 0 water", deps)
	HandleCommand(&out, "setblock w 0 0 1 water", deps)
	HandleCommand(&out, "flood w 0 0 0 2", deps)
	if !deps.Tags.IsTagged(at(0, 0, 0)) || !deps.Tags.IsTagged(at(0, 0, 1)) {
		t.Fatalf("flood did not tag; output %v", out.lines)
	}

	HandleCommand(&out, "untag w 0 0 1", deps)
	if deps.Tags.IsTagged(at(0, 0, 1)) {
		t.Fatal("untag failed")
	}

	HandleCommand(&out, "tag nowhere 0 0 0", deps)
	if !strings.HasPrefix(out.last(), "Unknown world") {
		t.Fatalf("reply = %q", out.last())
	}

	HandleCommand(&out, "move", deps)
	if !strings.HasPrefix(out.last(), "Usage: move") {
		t.Fatalf("reply = %q", out.last())
	}

	HandleCommand(&out, "bogus", deps)
	if !strings.HasPrefix(out.last(), "Unknown command") {
		t.Fatalf("reply = %q", out.last())
	}
}

func TestDamageCommand(t *testing.T) {
	deps := newTestDeps(t)
	var out recorder
	HandleCommand(&out, "join finn w 0 0 0", deps)
	HandleCommand(&out, "damage finn poison 5", deps)
	HandleCommand(&out, "damage finn generic 2.5", deps)

	if h := deps.World.PlayerByName("finn").Health; h != world.DefaultMaxHealth-2.5 {
		t.Fatalf("health = %v", h)
	}
}

func TestSaveCommand(t *testing.T) {
	backend := &memBackend{}
	deps := newTestDeps(t, backend)
	var out recorder
	HandleCommand(&out, "tag w 3 4 5", deps)
	HandleCommand(&out, "save", deps)

	if len(backend.entries) != 1 || backend.entries[0] != "w:3:4:5" {
		t.Fatalf("saved %v", backend.entries)
	}
	if deps.Tags.Dirty() {
		t.Fatal("store still dirty after save")
	}
}

func TestConsoleSenderWritesLines(t *testing.T) {
	var buf bytes.Buffer
	ConsoleSender{W: &buf}.SendMessage("hello")
	if buf.String() != "hello\n" {
		t.Fatalf("wrote %q", buf.String())
	}
}
