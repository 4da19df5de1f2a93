package tags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/afelia/fakewater/internal/world"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// ParseEntry decodes one persisted entry. The canonical form is
// "world:x:y:z"; files written by older builds used "x:y:z:world" and are
// still accepted. An entry that parses both ways, such as a legacy entry
// for a world with a numeric name, is read in canonical order.
func ParseEntry(s string) (world.Coord, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return world.Coord{}, fmt.Errorf("entry %q: want 4 fields, got %d", s, len(parts))
	}
	if pos, err := parsePos(parts[1:]); err == nil && parts[0] != "" {
		return world.Coord{World: parts[0], Pos: pos}, nil
	}
	if pos, err := parsePos(parts[:3]); err == nil && parts[3] != "" {
		return world.Coord{World: parts[3], Pos: pos}, nil
	}
	return world.Coord{}, fmt.Errorf("entry %q: non-numeric coordinate", s)
}

func parsePos(fields []string) (cube.Pos, error) {
	var pos cube.Pos
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return cube.Pos{}, err
		}
		pos[i] = v
	}
	return pos, nil
}

// FormatEntries renders coords in persisted form, preserving order.
func FormatEntries(set TagSet) []string {
	out := make([]string, len(set))
	for i, c := range set {
		out[i] = c.String()
	}
	return out
}
