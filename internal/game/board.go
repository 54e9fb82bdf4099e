// internal/game/board.go
//
// Board model: the grid of cells, each empty, an obstacle, or holding a gear.
// Cell types (R/L) are derived from coordinates and never stored.
// Base occupancy is derived from the mouse list on demand (see BaseCode).

package game

import (
	"strings"

	"github.com/ixentbench/capsicaps/internal/levels"
)

type cell struct {
	obstacle bool
	gear     *Gear
}

// Board is the playing grid. The zero value is unusable; see NewBoard.
type Board struct {
	Width, Height int
	cells         []cell
}

// NewBoard builds an empty board from a level template.
func NewBoard(l levels.Level) *Board {
	b := &Board{Width: l.Width, Height: l.Height, cells: make([]cell, l.Width*l.Height)}
	for y := 1; y <= l.Height; y++ {
		for x := 1; x <= l.Width; x++ {
			b.cells[b.index(Pos{x, y})].obstacle = l.Obstacle(x, y)
		}
	}
	return b
}

func (b *Board) index(p Pos) int { return (p.Y-1)*b.Width + (p.X - 1) }

// InBounds reports whether p is a board cell.
func (b *Board) InBounds(p Pos) bool {
	return p.X >= 1 && p.X <= b.Width && p.Y >= 1 && p.Y <= b.Height
}

// Obstacle reports whether p is an obstacle.
func (b *Board) Obstacle(p Pos) bool {
	return b.InBounds(p) && b.cells[b.index(p)].obstacle
}

// GearAt returns the gear at p, or nil.
func (b *Board) GearAt(p Pos) *Gear {
	if !b.InBounds(p) {
		return nil
	}
	return b.cells[b.index(p)].gear
}

// GearCount returns the number of placed gears.
func (b *Board) GearCount() int {
	n := 0
	for _, c := range b.cells {
		if c.gear != nil {
			n++
		}
	}
	return n
}

// HasAdjacentGear reports whether any 4-neighbor of p holds a gear.
func (b *Board) HasAdjacentGear(p Pos) bool {
	for d := North; d <= East; d++ {
		if b.GearAt(p.Neighbor(d)) != nil {
			return true
		}
	}
	return false
}

// CheckPlacement applies the board-level placement rules: in bounds, not an
// obstacle, not occupied, first gear in row 1, later gears adjacent to one
// already placed. Inventory is checked by the match.
func (b *Board) CheckPlacement(p Pos) error {
	switch {
	case !b.InBounds(p):
		return invalid(ErrOutOfBounds, "%s on a %dx%d board", p, b.Width, b.Height)
	case b.Obstacle(p):
		return invalid(ErrObstacle, "%s", p)
	case b.GearAt(p) != nil:
		return invalid(ErrOccupied, "%s", p)
	}
	if b.GearCount() == 0 {
		if p.Y != 1 {
			return invalid(ErrFirstRow, "%s is in row %d", p, p.Y)
		}
		return nil
	}
	if !b.HasAdjacentGear(p) {
		return invalid(ErrNotAdjacent, "%s", p)
	}
	return nil
}

// Place puts a gear at p with rotation r. Callers must run CheckPlacement first.
func (b *Board) Place(p Pos, k Kind, r int) {
	b.cells[b.index(p)].gear = &Gear{Kind: k, Rotation: mod4(r)}
}

// RowGears returns the positions holding gears in row y, ascending by x.
func (b *Board) RowGears(y int) []Pos {
	var out []Pos
	for x := 1; x <= b.Width; x++ {
		p := Pos{x, y}
		if b.GearAt(p) != nil {
			out = append(out, p)
		}
	}
	return out
}

// Clone deep-copies the board.
func (b *Board) Clone() *Board {
	nb := &Board{Width: b.Width, Height: b.Height, cells: make([]cell, len(b.cells))}
	for i, c := range b.cells {
		nb.cells[i].obstacle = c.obstacle
		if c.gear != nil {
			g := *c.gear
			nb.cells[i].gear = &g
		}
	}
	return nb
}

// occupancy maps each gear cell to the mouse ids on its template slots.
// It is rebuilt from the mouse list every time so it cannot drift.
type occupancy map[Pos][4]string

func occupancyOf(mice []Mouse) occupancy {
	occ := make(occupancy)
	for _, m := range mice {
		if m.Status != InPlay || m.OnBase < 0 || m.OnBase > 3 {
			continue
		}
		slots := occ[m.Pos]
		slots[m.OnBase] = m.ID
		occ[m.Pos] = slots
	}
	return occ
}

func (o occupancy) free(p Pos, slot int) bool { return o[p][slot] == "" }

// Base slot states in a B-code.
const (
	BaseEmpty    = '0'
	BaseOccupied = '1'
	BaseAbsent   = '2'
)

// BaseCode returns the 4-digit descriptor of the gear at p, one digit per
// template slot: '2' absent, '1' occupied, '0' empty. Empty string when p
// holds no gear.
func (b *Board) BaseCode(p Pos, mice []Mouse) string {
	return b.baseCode(p, occupancyOf(mice))
}

func (b *Board) baseCode(p Pos, occ occupancy) string {
	g := b.GearAt(p)
	if g == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < 4; i++ {
		switch {
		case !g.HasSlot(i):
			sb.WriteByte(BaseAbsent)
		case !occ.free(p, i):
			sb.WriteByte(BaseOccupied)
		default:
			sb.WriteByte(BaseEmpty)
		}
	}
	return sb.String()
}

// Encode returns the board encoding keyed by cell id:
//   - "obstacle"
//   - "P<x><y><R|L>" for an empty cell
//   - "G<kind>P<x><y><R|L><rotation>B<code>" for a gear
func (b *Board) Encode(mice []Mouse) map[string]string {
	occ := occupancyOf(mice)
	out := make(map[string]string, len(b.cells))
	for y := 1; y <= b.Height; y++ {
		for x := 1; x <= b.Width; x++ {
			p := Pos{x, y}
			out[p.String()] = b.encodeCell(p, occ)
		}
	}
	return out
}

func (b *Board) encodeCell(p Pos, occ occupancy) string {
	if b.Obstacle(p) {
		return "obstacle"
	}
	topo := string(CellType(p.X, p.Y))
	g := b.GearAt(p)
	if g == nil {
		return p.String() + topo
	}
	return g.Kind.String() + p.String() + topo + string(rune('0'+g.Rotation)) + "B" + b.baseCode(p, occ)
}

func mod4(v int) int { return ((v % 4) + 4) % 4 }
