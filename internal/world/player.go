package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

const (
	DefaultMaxHealth = 20.0
	maxRecentMessages = 16
)

// PlayerInfo holds in-memory data for a player currently in-world.
// Accessed only from the game loop goroutine; no locks needed.
type PlayerInfo struct {
	ID        uuid.UUID // session id, stable for the connection
	Name      string
	World     string
	Pos       cube.Pos // block the player's feet are in
	Health    float64
	MaxHealth float64
	Dead      bool
	Inv       *Inventory

	recent []string
	sink   MessageSink
}

// MessageSink receives every chat line sent to a player.
type MessageSink func(p *PlayerInfo, msg string)

// FeetCell is the cell occupied by the player's lower body.
func (p *PlayerInfo) FeetCell() Coord {
	return Coord{World: p.World, Pos: p.Pos}
}

// HeadCell is the cell directly above the feet.
func (p *PlayerInfo) HeadCell() Coord {
	return Coord{World: p.World, Pos: p.Pos.Side(cube.FaceUp)}
}

// SendMessage delivers a chat line to the player.
func (p *PlayerInfo) SendMessage(msg string) {
	if len(p.recent) == maxRecentMessages {
		copy(p.recent, p.recent[1:])
		p.recent = p.recent[:maxRecentMessages-1]
	}
	p.recent = append(p.recent, msg)
	if p.sink != nil {
		p.sink(p, msg)
	}
}

// RecentMessages returns the last few chat lines, oldest first.
func (p *PlayerInfo) RecentMessages() []string {
	return append([]string(nil), p.recent...)
}

// SetHealth clamps h into [0, MaxHealth] and updates Dead.
func (p *PlayerInfo) SetHealth(h float64) {
	if h < 0 {
		h = 0
	}
	if h > p.MaxHealth {
		h = p.MaxHealth
	}
	p.Health = h
	p.Dead = h <= 0
}
