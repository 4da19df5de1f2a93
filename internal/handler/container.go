package handler

import (
	"github.com/afelia/fakewater/internal/world"
	"go.uber.org/zap"
)

// FakeWaterTag marks a container item whose fluid is fake water.
const FakeWaterTag = "fake_water"

// IsFakeWaterContainer reports whether the item carries the marker.
func IsFakeWaterContainer(it *world.ItemStack) bool {
	return it.HasTag(FakeWaterTag)
}

// NewFakeWaterBucket builds a marked water bucket.
func NewFakeWaterBucket(displayName string) *world.ItemStack {
	it := &world.ItemStack{Kind: world.ItemWaterBucket, DisplayName: displayName}
	it.SetTag(FakeWaterTag, "true")
	return it
}

// HandleBucketFill tags the source cell when a marked bucket scoops from it.
// The host removes the fluid afterwards, so the tag stays inert until the
// cell holds fluid again.
func HandleBucketFill(ev *world.BucketFill, deps *Deps) {
	if !IsFakeWaterContainer(ev.Player.Inv.MainHand()) {
		return
	}
	markAsFakeWater(ev.Target(), deps)
}

// HandleBucketEmpty tags the cell a marked bucket pours into. The host then
// places the water, which is fake from its first tick.
func HandleBucketEmpty(ev *world.BucketEmpty, deps *Deps) {
	if !IsFakeWaterContainer(ev.Player.Inv.MainHand()) {
		return
	}
	markAsFakeWater(ev.Target(), deps)
}

// markAsFakeWater clears the cell to air, then tags it.
func markAsFakeWater(c world.Coord, deps *Deps) {
	deps.World.SetMaterial(c, world.Air)
	deps.Tags.SetTagged(c, true)
	deps.Log.Debug("marked fake water", zap.Stringer("at", c))
}
