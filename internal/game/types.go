// internal/game/types.go
//
// Core type definitions for the Caps i Caps engine.
// Defines:
//   - Kind: gear kind and its base template.
//   - Direction: absolute base direction (North/West/South/East).
//   - Topology: R/L cell type derived from coordinate parity.
//   - Pos, Gear, Mouse and the status/result enums.

package game

import "fmt"

// Kind identifies one of the four gear templates.
type Kind int

const (
	G1 Kind = iota + 1
	G2
	G3
	G4
)

// Kinds lists every gear kind in inventory order.
var Kinds = [...]Kind{G1, G2, G3, G4}

// templates[k][i] reports whether template slot i exists on kind k.
var templates = [...][4]bool{
	G1: {true, false, false, false},
	G2: {true, false, true, false},
	G3: {true, true, false, true},
	G4: {true, true, true, true},
}

func (k Kind) String() string { return fmt.Sprintf("G%d", int(k)) }

// Valid reports whether k is one of G1..G4.
func (k Kind) Valid() bool { return k >= G1 && k <= G4 }

// ParseKind maps "G1".."G4" to a Kind.
func ParseKind(s string) (Kind, bool) {
	if len(s) != 2 || s[0] != 'G' {
		return 0, false
	}
	k := Kind(s[1] - '0')
	return k, k.Valid()
}

// Direction is an absolute base direction. Values are quarter turns
// counter-clockwise from North.
type Direction int

const (
	North Direction = iota
	West
	South
	East
)

// Opposite returns the direction rotated by 180 degrees.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// Step returns the coordinate delta for d (y grows northward).
func (d Direction) Step() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case West:
		return -1, 0
	case South:
		return 0, -1
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	return [...]string{"N", "W", "S", "E"}[d]
}

// Topology is the R/L type of a board cell.
type Topology byte

const (
	TopoR Topology = 'R'
	TopoL Topology = 'L'
)

// CellType returns R when x+y is even and L otherwise.
func CellType(x, y int) Topology {
	if (x+y)%2 == 0 {
		return TopoR
	}
	return TopoL
}

// Pos is a 1-indexed board coordinate.
type Pos struct {
	X, Y int
}

func (p Pos) String() string { return fmt.Sprintf("P%d%d", p.X, p.Y) }

// Neighbor returns the adjacent coordinate in direction d.
func (p Pos) Neighbor(d Direction) Pos {
	dx, dy := d.Step()
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Gear is a placed piece. Rotation counts quarter turns; template slot i
// points at absolute direction (i + Rotation) mod 4.
type Gear struct {
	Kind     Kind
	Rotation int
}

// HasSlot reports whether template slot i physically exists.
func (g Gear) HasSlot(i int) bool {
	return i >= 0 && i < 4 && templates[g.Kind][i]
}

// Points returns the absolute direction of template slot i.
func (g Gear) Points(i int) Direction {
	return Direction((i + g.Rotation) % 4)
}

// SlotFacing returns the existing slot that points at d, if any.
func (g Gear) SlotFacing(d Direction) (int, bool) {
	for i := 0; i < 4; i++ {
		if g.HasSlot(i) && g.Points(i) == d {
			return i, true
		}
	}
	return 0, false
}

// MouseStatus is the lifecycle stage of a mouse.
type MouseStatus string

const (
	Waiting MouseStatus = "WAITING"
	InPlay  MouseStatus = "IN_PLAY"
	Escaped MouseStatus = "ESCAPED"
)

// Mouse is one of the pieces the player tries to lead off the board.
type Mouse struct {
	ID     string      // "M1", "M2", ...
	Num    int         // numeric id, resolution order
	Column int         // waiting slot P<Column>0
	Status MouseStatus //
	Pos    Pos         // board cell while IN_PLAY
	OnBase int         // template slot while IN_PLAY, -1 otherwise
}

// Location renders the mouse position: "P<x>0" while waiting, the cell id
// while in play and "OUT" once escaped.
func (m Mouse) Location() string {
	switch m.Status {
	case Waiting:
		return fmt.Sprintf("P%d0", m.Column)
	case Escaped:
		return "OUT"
	}
	return m.Pos.String()
}

// Result is the terminal classification of a match.
type Result string

const (
	InProgress Result = "IN_PROGRESS"
	Victory    Result = "VICTORY"
	Timeout    Result = "TIMEOUT"
)
