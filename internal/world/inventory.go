package world

import "maps"

const MaxInventorySize = 36

// ItemKind is the template of an item stack.
type ItemKind uint8

const (
	ItemBucket ItemKind = iota + 1
	ItemWaterBucket
)

func (k ItemKind) String() string {
	switch k {
	case ItemBucket:
		return "bucket"
	case ItemWaterBucket:
		return "water_bucket"
	}
	return "unknown"
}

// ItemStack is a single item instance. Tags is the item's persistent data
// container; it travels with the item through Clone and bucket transforms.
type ItemStack struct {
	Kind        ItemKind
	DisplayName string
	Tags        map[string]string
}

// HasTag reports whether the item carries key.
func (it *ItemStack) HasTag(key string) bool {
	if it == nil {
		return false
	}
	_, ok := it.Tags[key]
	return ok
}

// SetTag stores key=value on the item.
func (it *ItemStack) SetTag(key, value string) {
	if it.Tags == nil {
		it.Tags = make(map[string]string, 1)
	}
	it.Tags[key] = value
}

// Clone returns a deep copy, tags included.
func (it *ItemStack) Clone() *ItemStack {
	c := *it
	c.Tags = maps.Clone(it.Tags)
	return &c
}

// Inventory holds a player's in-memory item list.
// Accessed only from the game loop goroutine.
type Inventory struct {
	Items []*ItemStack
	Held  int // index of the main-hand slot in Items
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Items: make([]*ItemStack, 0, 16),
	}
}

// Size returns the number of item slots used.
func (inv *Inventory) Size() int {
	return len(inv.Items)
}

// IsFull returns true if inventory is at max capacity.
func (inv *Inventory) IsFull() bool {
	return len(inv.Items) >= MaxInventorySize
}

// AddItem stores a copy of it. Returns the stored item, or nil when full.
func (inv *Inventory) AddItem(it *ItemStack) *ItemStack {
	if inv.IsFull() {
		return nil
	}
	c := it.Clone()
	inv.Items = append(inv.Items, c)
	return c
}

// MainHand returns the held item, or nil for an empty hand.
func (inv *Inventory) MainHand() *ItemStack {
	if inv.Held < 0 || inv.Held >= len(inv.Items) {
		return nil
	}
	return inv.Items[inv.Held]
}

// Select moves the main hand to slot i.
func (inv *Inventory) Select(i int) bool {
	if i < 0 || i >= len(inv.Items) {
		return false
	}
	inv.Held = i
	return true
}

// CountTagged counts items carrying key.
func (inv *Inventory) CountTagged(key string) int {
	n := 0
	for _, it := range inv.Items {
		if it.HasTag(key) {
			n++
		}
	}
	return n
}
