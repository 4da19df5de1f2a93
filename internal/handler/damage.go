package handler

import "github.com/afelia/fakewater/internal/world"

// HandleEntityDamage cancels poison damage for every player, whether or not
// they are in fake water. Fake water damage uses its own cause.
func HandleEntityDamage(ev *world.EntityDamage) {
	if ev.Player != nil && ev.Cause == world.CausePoison {
		ev.Cancel()
	}
}
