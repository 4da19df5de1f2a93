package system

import (
	"github.com/afelia/fakewater/internal/core/sched"
	"github.com/afelia/fakewater/internal/world"
)

// StartSweep schedules the global damage sweep. It is a no-op when the sweep
// is disabled or already running.
func (t *ContactTracker) StartSweep() {
	if !t.cfg.SweepEnabled || t.sweep != nil {
		return
	}
	t.sweep = t.sched.RunTaskTimer(0, t.cfg.SweepIntervalTicks, func(*sched.Task) {
		t.Sweep()
	})
}

// StopSweep cancels the sweep task.
func (t *ContactTracker) StopSweep() {
	if t.sweep != nil {
		t.sweep.Cancel()
		t.sweep = nil
	}
}

// Sweep damages every online player standing in fake water who has no
// running loop and whose last damage is at least damage_interval old.
// Returns how many were damaged.
func (t *ContactTracker) Sweep() int {
	now := t.now()
	hit := 0
	t.world.AllPlayers(func(p *world.PlayerInfo) {
		if !t.InFakeWater(p) {
			return
		}
		st := t.entry(p.ID)
		if st.loop != nil {
			return // the loop owns this player's cadence
		}
		if !st.lastDamage.IsZero() && now.Sub(st.lastDamage) < t.cfg.DamageInterval {
			return
		}
		before := p.Health
		t.applyDamage(p, st, "sweep")
		if p.Health != before {
			hit++
		}
	})
	return hit
}
