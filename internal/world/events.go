package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

// Intents below are published synchronously through the event bus before the
// host commits them. Handlers may call Cancel to veto the natural outcome.

type cancelState struct {
	cancelled bool
}

func (c *cancelState) Cancel()         { c.cancelled = true }
func (c *cancelState) Cancelled() bool { return c.cancelled }

// FluidFlow: fluid in From is about to spread into the adjacent cell To.
type FluidFlow struct {
	cancelState
	From Coord
	To   Coord
}

// BlockForm: the host is about to set Coord to Proposed as a result of
// natural formation.
type BlockForm struct {
	cancelState
	Coord    Coord
	Proposed Material
}

// BucketFill: Player is scooping fluid from Clicked.Side(Face).
type BucketFill struct {
	cancelState
	Player  *PlayerInfo
	Clicked Coord
	Face    cube.Face
}

// Target is the cell the bucket takes fluid from.
func (e *BucketFill) Target() Coord { return e.Clicked.Side(e.Face) }

// BucketEmpty: Player is pouring fluid into Clicked.Side(Face).
type BucketEmpty struct {
	cancelState
	Player  *PlayerInfo
	Clicked Coord
	Face    cube.Face
}

// Target is the cell the fluid is placed into.
func (e *BucketEmpty) Target() Coord { return e.Clicked.Side(e.Face) }

// DamageCause classifies an incoming damage intent.
type DamageCause string

const (
	CauseGeneric   DamageCause = "generic"
	CausePoison    DamageCause = "poison"
	CauseDrowning  DamageCause = "drowning"
	CauseFakeWater DamageCause = "fake_water"
)

// EntityDamage: an entity is about to take Amount damage. Player is nil when
// the victim is not a player.
type EntityDamage struct {
	cancelState
	Player *PlayerInfo
	Cause  DamageCause
	Amount float64
}

// PlayerMove is delivered synchronously after the position was updated.
type PlayerMove struct {
	Player *PlayerInfo
	From   cube.Pos
	To     cube.Pos
}

// PlayerJoin is delivered synchronously once the player is in the world.
type PlayerJoin struct {
	Player *PlayerInfo
}

// PlayerQuit is a deferred notification, delivered on the next tick.
type PlayerQuit struct {
	ID   uuid.UUID
	Name string
}
