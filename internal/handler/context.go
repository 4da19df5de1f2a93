package handler

import (
	"github.com/afelia/fakewater/internal/config"
	"github.com/afelia/fakewater/internal/core/event"
	"github.com/afelia/fakewater/internal/locale"
	"github.com/afelia/fakewater/internal/tags"
	"github.com/afelia/fakewater/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactTracker is the player side of the mechanic; see system.ContactTracker.
type ContactTracker interface {
	OnJoin(p *world.PlayerInfo)
	OnMove(p *world.PlayerInfo)
	Forget(id uuid.UUID)
}

// Deps holds shared dependencies injected into all event and command handlers.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	Bus     *event.Bus
	World   *world.State
	Tags    *tags.Store
	Contact ContactTracker
	Locale  *locale.Printer
}

// RegisterAll subscribes every handler to the bus. Order matters only
// between handlers of the same event type.
func RegisterAll(deps *Deps) {
	event.Subscribe(deps.Bus, func(ev *world.FluidFlow) {
		HandleFluidFlow(ev, deps)
	})
	event.Subscribe(deps.Bus, func(ev *world.BlockForm) {
		HandleBlockForm(ev, deps)
	})
	event.Subscribe(deps.Bus, func(ev *world.BucketFill) {
		HandleBucketFill(ev, deps)
	})
	event.Subscribe(deps.Bus, func(ev *world.BucketEmpty) {
		HandleBucketEmpty(ev, deps)
	})
	event.Subscribe(deps.Bus, func(ev *world.EntityDamage) {
		HandleEntityDamage(ev)
	})
	if deps.Contact != nil {
		event.Subscribe(deps.Bus, func(ev *world.PlayerJoin) {
			deps.Contact.OnJoin(ev.Player)
		})
		event.Subscribe(deps.Bus, func(ev *world.PlayerMove) {
			deps.Contact.OnMove(ev.Player)
		})
		event.Subscribe(deps.Bus, func(ev world.PlayerQuit) {
			deps.Contact.Forget(ev.ID)
		})
	}
}
