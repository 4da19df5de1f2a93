package system

import (
	"time"

	coresys "github.com/afelia/fakewater/internal/core/system"
	"github.com/afelia/fakewater/internal/handler"
)

// ConsoleSystem drains console command lines read by the stdin goroutine and
// runs them on the game loop. Phase 0 (Input).
type ConsoleSystem struct {
	lines      <-chan string
	sender     handler.CommandSender
	deps       *handler.Deps
	maxPerTick int
}

func NewConsoleSystem(lines <-chan string, sender handler.CommandSender, deps *handler.Deps, maxPerTick int) *ConsoleSystem {
	if maxPerTick < 1 {
		maxPerTick = 1
	}
	return &ConsoleSystem{lines: lines, sender: sender, deps: deps, maxPerTick: maxPerTick}
}

func (s *ConsoleSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ConsoleSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case line, ok := <-s.lines:
			if !ok {
				return
			}
			handler.HandleCommand(s.sender, line, s.deps)
		default:
			return
		}
	}
}
