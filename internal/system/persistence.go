package system

import (
	"context"
	"time"

	coresys "github.com/afelia/fakewater/internal/core/system"
	"github.com/afelia/fakewater/internal/tags"
	"go.uber.org/zap"
)

// PersistenceSystem periodically writes the tag store back to its backend.
// Phase 3 (Persist).
type PersistenceSystem struct {
	store     *tags.Store
	log       *zap.Logger
	timeout   time.Duration
	tickCount int
	interval  int // auto-save every N ticks; 0 disables
}

func NewPersistenceSystem(store *tags.Store, log *zap.Logger, intervalTicks int, timeout time.Duration) *PersistenceSystem {
	return &PersistenceSystem{
		store:    store,
		log:      log,
		timeout:  timeout,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if !s.store.Dirty() {
		return // nothing changed since the last save
	}
	if err := s.save(); err == nil {
		s.log.Debug("auto-saved fake water blocks", zap.Int("count", s.store.Len()))
	}
}

// SaveNow writes the store regardless of the dirty flag.
// Called for graceful shutdown.
func (s *PersistenceSystem) SaveNow() error {
	return s.save()
}

func (s *PersistenceSystem) save() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	// SaveAll logs its own failures
	return s.store.SaveAll(ctx)
}
