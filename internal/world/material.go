package world

import "strings"

// Material is the block type stored in a cell. The zero value is Air.
type Material uint8

const (
	Air Material = iota
	Water
	Stone
	Dirt
	Sand
	Glass
)

var materialNames = [...]string{
	Air:   "air",
	Water: "water",
	Stone: "stone",
	Dirt:  "dirt",
	Sand:  "sand",
	Glass: "glass",
}

func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return "unknown"
}

// Fluid reports whether the cell holds flowing/still fluid.
func (m Material) Fluid() bool { return m == Water }

// Replaceable reports whether fluid may flow into the cell.
func (m Material) Replaceable() bool { return m == Air }

// CanHoldFluid is true for cells that are fluid now or may become fluid.
func (m Material) CanHoldFluid() bool { return m.Fluid() || m.Replaceable() }

// ParseMaterial resolves a material by name (case-insensitive).
func ParseMaterial(s string) (Material, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range materialNames {
		if name == s {
			return Material(i), true
		}
	}
	return Air, false
}
