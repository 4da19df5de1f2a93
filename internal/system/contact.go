package system

import (
	"time"

	"github.com/afelia/fakewater/internal/config"
	"github.com/afelia/fakewater/internal/core/sched"
	"github.com/afelia/fakewater/internal/locale"
	"github.com/afelia/fakewater/internal/scripting"
	"github.com/afelia/fakewater/internal/tags"
	"github.com/afelia/fakewater/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactState is a player's standing relative to fake water.
type ContactState uint8

const (
	Dry ContactState = iota
	InFakeWater
)

func (s ContactState) String() string {
	if s == InFakeWater {
		return "IN_FAKE_WATER"
	}
	return "DRY"
}

type contact struct {
	state      ContactState
	lastDamage time.Time
	swept      bool        // lastDamage came from the sweep
	loop       *sched.Task // nil when no loop is running
}

// ContactTracker follows every online player in and out of fake water and
// damages them while they stay in it. Accessed only from the game loop.
type ContactTracker struct {
	world  *world.State
	tags   *tags.Store
	sched  *sched.Scheduler
	lua    *scripting.Engine
	cfg    config.FakeWaterConfig
	msgs   *locale.Printer
	log    *zap.Logger
	now    func() time.Time
	states map[uuid.UUID]*contact
	sweep  *sched.Task
}

// NewContactTracker builds a tracker. now may be nil to use the wall clock.
func NewContactTracker(
	ws *world.State,
	store *tags.Store,
	scheduler *sched.Scheduler,
	lua *scripting.Engine,
	cfg config.FakeWaterConfig,
	msgs *locale.Printer,
	log *zap.Logger,
	now func() time.Time,
) *ContactTracker {
	if now == nil {
		now = time.Now
	}
	return &ContactTracker{
		world:  ws,
		tags:   store,
		sched:  scheduler,
		lua:    lua,
		cfg:    cfg,
		msgs:   msgs,
		log:    log,
		now:    now,
		states: make(map[uuid.UUID]*contact, 64),
	}
}

// InFakeWater reports whether p's feet or head cell is tagged fluid.
func (t *ContactTracker) InFakeWater(p *world.PlayerInfo) bool {
	return t.isFakeWater(p.FeetCell()) || t.isFakeWater(p.HeadCell())
}

func (t *ContactTracker) isFakeWater(c world.Coord) bool {
	return t.world.Material(c).Fluid() && t.tags.IsTagged(c)
}

// State returns the player's contact state; unknown players are Dry.
func (t *ContactTracker) State(id uuid.UUID) ContactState {
	if st, ok := t.states[id]; ok {
		return st.state
	}
	return Dry
}

// LoopActive reports whether a damage loop is running for the player.
func (t *ContactTracker) LoopActive(id uuid.UUID) bool {
	st, ok := t.states[id]
	return ok && st.loop != nil
}

// Tracked returns how many players have a state entry.
func (t *ContactTracker) Tracked() int { return len(t.states) }

func (t *ContactTracker) entry(id uuid.UUID) *contact {
	st, ok := t.states[id]
	if !ok {
		st = &contact{}
		t.states[id] = st
	}
	return st
}

// OnJoin checks a freshly joined player, who may spawn inside fake water.
func (t *ContactTracker) OnJoin(p *world.PlayerInfo) {
	t.OnMove(p)
}

// OnMove runs the state transition after p changed position.
func (t *ContactTracker) OnMove(p *world.PlayerInfo) {
	inside := t.InFakeWater(p)
	st, known := t.states[p.ID]
	if !known && !inside {
		return
	}
	if st == nil {
		st = t.entry(p.ID)
	}

	switch {
	case inside && st.state == Dry:
		st.state = InFakeWater
		p.SendMessage(t.msgs.Sprintf(locale.MsgPoisoned))
		t.log.Debug("player entered fake water", zap.String("player", p.Name), zap.Stringer("at", p.FeetCell()))
		t.startLoop(p.ID, st)
	case !inside && st.state == InFakeWater:
		t.leave(p, st)
	}
}

// Forget cancels the player's loop and drops their state.
func (t *ContactTracker) Forget(id uuid.UUID) {
	st, ok := t.states[id]
	if !ok {
		return
	}
	if st.loop != nil {
		st.loop.Cancel()
	}
	delete(t.states, id)
}

func (t *ContactTracker) leave(p *world.PlayerInfo, st *contact) {
	st.state = Dry
	t.stopLoop(st)
	p.SendMessage(t.msgs.Sprintf(locale.MsgLeftWater))
	t.log.Debug("player left fake water", zap.String("player", p.Name))
}

func (t *ContactTracker) startLoop(id uuid.UUID, st *contact) {
	if st.loop != nil {
		return
	}
	st.loop = t.sched.RunTaskTimer(0, t.cfg.LoopIntervalTicks, func(task *sched.Task) {
		t.loopTick(id, task)
	})
}

func (t *ContactTracker) stopLoop(st *contact) {
	if st.loop != nil {
		st.loop.Cancel()
		st.loop = nil
	}
}

func (t *ContactTracker) loopTick(id uuid.UUID, task *sched.Task) {
	st, ok := t.states[id]
	p := t.world.Player(id)
	if !ok || st.loop != task || p == nil {
		// player gone before the quit notification arrived
		task.Cancel()
		return
	}
	if !t.InFakeWater(p) {
		t.leave(p, st)
		return
	}
	if st.swept && t.now().Sub(st.lastDamage) < t.cfg.DamageInterval {
		return // the sweep already hit this interval
	}
	if !t.applyDamage(p, st, "loop") {
		t.stopLoop(st)
	}
}

// applyDamage deals one unit of fake water damage under the configured
// policy. It returns false once the non-lethal floor is reached.
func (t *ContactTracker) applyDamage(p *world.PlayerInfo, st *contact, source string) bool {
	dmg := t.lua.CalcFakeWaterDamage(scripting.DamageContext{
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Lethal:    t.cfg.KillPlayerOnEnd,
		Source:    source,
	})

	if t.cfg.KillPlayerOnEnd {
		if p.Dead {
			return true
		}
		st.lastDamage, st.swept = t.now(), source == "sweep"
		t.world.DamagePlayer(p, world.CauseFakeWater, dmg)
		if p.Dead {
			t.log.Info("player killed by fake water", zap.String("player", p.Name))
		}
		return true
	}

	room := p.Health - t.cfg.PoisonReserve
	if room <= 0 {
		return false
	}
	if dmg > room {
		dmg = room
	}
	st.lastDamage, st.swept = t.now(), source == "sweep"
	t.world.DamagePlayer(p, world.CauseFakeWater, dmg)
	return p.Health > t.cfg.PoisonReserve
}
