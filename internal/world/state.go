package world

import (
	"sort"

	"github.com/afelia/fakewater/internal/core/event"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

// dimension is one named world: a sparse block map where absent cells are air.
type dimension struct {
	name   string
	blocks map[cube.Pos]Material
}

// State is the sandbox host: worlds, blocks and online players. Every
// mutation that a real server would announce goes through the bus first.
// Accessed only from the game loop goroutine.
type State struct {
	bus     *event.Bus
	worlds  map[string]*dimension
	players map[uuid.UUID]*PlayerInfo
	byName  map[string]*PlayerInfo
	sink    MessageSink
}

func NewState(bus *event.Bus, worldNames ...string) *State {
	s := &State{
		bus:     bus,
		worlds:  make(map[string]*dimension, len(worldNames)),
		players: make(map[uuid.UUID]*PlayerInfo, 64),
		byName:  make(map[string]*PlayerInfo, 64),
	}
	for _, n := range worldNames {
		s.AddWorld(n)
	}
	return s
}

// SetMessageSink installs a callback that mirrors every player chat line.
func (s *State) SetMessageSink(fn MessageSink) {
	s.sink = fn
	for _, p := range s.players {
		p.sink = fn
	}
}

// ---------- worlds & blocks ----------

func (s *State) AddWorld(name string) {
	if _, ok := s.worlds[name]; ok {
		return
	}
	s.worlds[name] = &dimension{name: name, blocks: make(map[cube.Pos]Material, 256)}
}

// HasWorld reports whether a world with this name is loaded.
func (s *State) HasWorld(name string) bool {
	_, ok := s.worlds[name]
	return ok
}

// WorldNames returns loaded world names, sorted.
func (s *State) WorldNames() []string {
	out := make([]string, 0, len(s.worlds))
	for n := range s.worlds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Material returns the block at c; unknown worlds read as air.
func (s *State) Material(c Coord) Material {
	d, ok := s.worlds[c.World]
	if !ok {
		return Air
	}
	return d.blocks[c.Pos]
}

// SetMaterial writes a block directly, without raising events.
func (s *State) SetMaterial(c Coord, m Material) bool {
	d, ok := s.worlds[c.World]
	if !ok {
		return false
	}
	if m == Air {
		delete(d.blocks, c.Pos)
	} else {
		d.blocks[c.Pos] = m
	}
	return true
}

// FlowFluid spreads fluid from one cell into a face-adjacent cell.
// Returns false if the flow is impossible or was cancelled.
func (s *State) FlowFluid(from, to Coord) bool {
	if from.World != to.World || !adjacent(from.Pos, to.Pos) {
		return false
	}
	if !s.Material(from).Fluid() || !s.Material(to).CanHoldFluid() {
		return false
	}
	if !event.Publish(s.bus, &FluidFlow{From: from, To: to}) {
		return false
	}
	return s.SetMaterial(to, Water)
}

// FormBlock applies natural block formation at c.
func (s *State) FormBlock(c Coord, m Material) bool {
	if !s.HasWorld(c.World) {
		return false
	}
	if !event.Publish(s.bus, &BlockForm{Coord: c, Proposed: m}) {
		return false
	}
	return s.SetMaterial(c, m)
}

func adjacent(a, b cube.Pos) bool {
	d := 0
	for i := 0; i < 3; i++ {
		v := a[i] - b[i]
		if v < 0 {
			v = -v
		}
		d += v
	}
	return d == 1
}

// ---------- players ----------

// AddPlayer puts a new session into the world at pos with full health.
func (s *State) AddPlayer(name, worldName string, pos cube.Pos) (*PlayerInfo, bool) {
	if !s.HasWorld(worldName) {
		return nil, false
	}
	if _, taken := s.byName[name]; taken {
		return nil, false
	}
	p := &PlayerInfo{
		ID:        uuid.New(),
		Name:      name,
		World:     worldName,
		Pos:       pos,
		Health:    DefaultMaxHealth,
		MaxHealth: DefaultMaxHealth,
		Inv:       NewInventory(),
		sink:      s.sink,
	}
	s.players[p.ID] = p
	s.byName[name] = p
	event.Publish(s.bus, &PlayerJoin{Player: p})
	return p, true
}

// RemovePlayer disconnects a session. Listeners learn about it next tick.
func (s *State) RemovePlayer(id uuid.UUID) bool {
	p, ok := s.players[id]
	if !ok {
		return false
	}
	delete(s.players, id)
	delete(s.byName, p.Name)
	event.Emit(s.bus, PlayerQuit{ID: id, Name: p.Name})
	return true
}

func (s *State) Player(id uuid.UUID) *PlayerInfo {
	return s.players[id]
}

func (s *State) PlayerByName(name string) *PlayerInfo {
	return s.byName[name]
}

func (s *State) PlayerCount() int {
	return len(s.players)
}

// AllPlayers calls fn for every online player.
func (s *State) AllPlayers(fn func(*PlayerInfo)) {
	for _, p := range s.players {
		fn(p)
	}
}

// MovePlayer moves p to pos in its current world and announces the move.
func (s *State) MovePlayer(p *PlayerInfo, pos cube.Pos) {
	from := p.Pos
	p.Pos = pos
	event.Publish(s.bus, &PlayerMove{Player: p, From: from, To: pos})
}

// DamagePlayer applies damage unless a listener cancels it.
// Returns false when cancelled or the player is already dead.
func (s *State) DamagePlayer(p *PlayerInfo, cause DamageCause, amount float64) bool {
	if p.Dead || amount <= 0 {
		return false
	}
	ev := &EntityDamage{Player: p, Cause: cause, Amount: amount}
	if !event.Publish(s.bus, ev) {
		return false
	}
	p.SetHealth(p.Health - ev.Amount)
	return true
}

// FillBucket scoops water from clicked.Side(face) into the held empty bucket.
func (s *State) FillBucket(p *PlayerInfo, clicked Coord, face cube.Face) bool {
	held := p.Inv.MainHand()
	target := clicked.Side(face)
	if held == nil || held.Kind != ItemBucket || !s.Material(target).Fluid() {
		return false
	}
	if !event.Publish(s.bus, &BucketFill{Player: p, Clicked: clicked, Face: face}) {
		return false
	}
	s.SetMaterial(target, Air)
	held.Kind = ItemWaterBucket
	return true
}

// EmptyBucket pours the held water bucket into clicked.Side(face).
func (s *State) EmptyBucket(p *PlayerInfo, clicked Coord, face cube.Face) bool {
	held := p.Inv.MainHand()
	target := clicked.Side(face)
	if held == nil || held.Kind != ItemWaterBucket || !s.HasWorld(target.World) || !s.Material(target).CanHoldFluid() {
		return false
	}
	if !event.Publish(s.bus, &BucketEmpty{Player: p, Clicked: clicked, Face: face}) {
		return false
	}
	s.SetMaterial(target, Water)
	held.Kind = ItemBucket
	return true
}
