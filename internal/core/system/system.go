package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: drain console commands
	PhasePreUpdate              // 1: deliver last tick's deferred events
	PhaseUpdate                 // 2: scheduler tasks (damage loops, sweep)
	PhasePersist                // 3: tag store auto-save
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
