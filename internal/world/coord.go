package world

import (
	"strconv"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Coord identifies a single block cell: a world name plus an integer position.
// It is comparable and used directly as a map key.
type Coord struct {
	World string
	Pos   cube.Pos
}

// C is shorthand for building a Coord.
func C(world string, x, y, z int) Coord {
	return Coord{World: world, Pos: cube.Pos{x, y, z}}
}

// Side returns the neighbouring cell on the given face.
func (c Coord) Side(f cube.Face) Coord {
	return Coord{World: c.World, Pos: c.Pos.Side(f)}
}

// Neighbours returns the six face-adjacent cells.
func (c Coord) Neighbours() [6]Coord {
	var out [6]Coord
	for i, f := range cube.Faces() {
		out[i] = c.Side(f)
	}
	return out
}

// String renders the persisted form "world:x:y:z".
func (c Coord) String() string {
	b := make([]byte, 0, len(c.World)+24)
	b = append(b, c.World...)
	for _, v := range [3]int{c.Pos.X(), c.Pos.Y(), c.Pos.Z()} {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}

// Less orders coords by world, then x, y, z.
func (c Coord) Less(o Coord) bool {
	if c.World != o.World {
		return c.World < o.World
	}
	for i := 0; i < 3; i++ {
		if c.Pos[i] != o.Pos[i] {
			return c.Pos[i] < o.Pos[i]
		}
	}
	return false
}
