// internal/game/mice.go
//
// Mouse movement resolver.
//
// Jump rule: a mouse on a slot pointing at direction d moves to the gear on
// the neighboring cell in direction d when that gear has an empty slot
// pointing back (d+180). A mouse on the top row whose slot points North
// leaves the board.
//
// Scoring per transition:
//   North (upward) +10, South (downward) -10, West/East (lateral) +5,
//   leaving the board +10. Entering from the waiting bay scores nothing.
//
// Resolution runs passes over the in-play mice in ascending id order until a
// pass moves nobody. Each mouse moves at most once per triggering event, so a
// jump that frees a slot can let a different mouse follow in the same event.
// When two mice want the same slot, the lower id gets it.

package game

// Entry records a waiting mouse stepping onto a row-1 gear.
type Entry struct {
	Mouse string
	To    Pos
	Slot  int
}

// Jump records one mouse transition.
type Jump struct {
	Mouse    string
	From     Pos
	FromSlot int
	To       Pos // zero when Escaped
	ToSlot   int
	Dir      Direction
	Points   int
	Escaped  bool
}

// Points awarded for leaving the board.
const escapePoints = 10

func jumpPoints(d Direction) int {
	switch d {
	case North:
		return 10
	case South:
		return -10
	default:
		return 5
	}
}

// admit lets waiting mice onto row 1. A mouse at P<x>0 enters the gear at
// P<x>1 when that gear has an empty slot pointing South. When only is non-nil
// just that cell is considered.
func admit(b *Board, mice []Mouse, only *Pos) []Entry {
	var out []Entry
	occ := occupancyOf(mice)
	for i := range mice {
		m := &mice[i]
		if m.Status != Waiting {
			continue
		}
		target := Pos{X: m.Column, Y: 1}
		if only != nil && target != *only {
			continue
		}
		g := b.GearAt(target)
		if g == nil {
			continue
		}
		slot, ok := g.SlotFacing(South)
		if !ok || !occ.free(target, slot) {
			continue
		}
		m.Status, m.Pos, m.OnBase = InPlay, target, slot
		slots := occ[target]
		slots[slot] = m.ID
		occ[target] = slots
		out = append(out, Entry{Mouse: m.ID, To: target, Slot: slot})
	}
	return out
}

// resolveJumps runs the jump rule to a fixed point.
func resolveJumps(b *Board, mice []Mouse) []Jump {
	var out []Jump
	moved := make([]bool, len(mice))
	for {
		progress := false
		for i := range mice {
			if moved[i] || mice[i].Status != InPlay {
				continue
			}
			if j, ok := tryJump(b, mice, i); ok {
				moved[i] = true
				progress = true
				out = append(out, j)
			}
		}
		if !progress {
			return out
		}
	}
}

func tryJump(b *Board, mice []Mouse, i int) (Jump, bool) {
	m := &mice[i]
	g := b.GearAt(m.Pos)
	if g == nil || !g.HasSlot(m.OnBase) {
		return Jump{}, false
	}
	d := g.Points(m.OnBase)
	target := m.Pos.Neighbor(d)

	if d == North && target.Y > b.Height {
		j := Jump{Mouse: m.ID, From: m.Pos, FromSlot: m.OnBase, Dir: d, Points: escapePoints, Escaped: true}
		m.Status, m.Pos, m.OnBase = Escaped, Pos{}, -1
		return j, true
	}

	tg := b.GearAt(target)
	if tg == nil {
		return Jump{}, false
	}
	slot, ok := tg.SlotFacing(d.Opposite())
	if !ok || !occupancyOf(mice).free(target, slot) {
		return Jump{}, false
	}
	j := Jump{Mouse: m.ID, From: m.Pos, FromSlot: m.OnBase, To: target, ToSlot: slot, Dir: d, Points: jumpPoints(d)}
	m.Pos, m.OnBase = target, slot
	return j, true
}
