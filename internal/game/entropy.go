// internal/game/entropy.go
//
// Entropy event: fires once, on the placement that empties the inventory.
// Every gear in the penultimate row is moved to a uniformly permuted position
// within that row and given a uniformly random rotation. Mice riding a moved
// gear travel with it and keep their template slot, which always exists
// because slot existence depends only on the gear kind.

package game

import (
	"fmt"
	"strings"

	"github.com/ixentbench/capsicaps/internal/rng"
)

// Relocation describes one gear moved by the entropy event.
type Relocation struct {
	From, To Pos
	B        int
}

// entropyRow returns the row the event shuffles.
func entropyRow(height int) int {
	if height-1 < 1 {
		return 1
	}
	return height - 1
}

// shuffleRow permutes the gears of row y using src. Draw order: one
// permutation, then one rotation per destination in ascending x.
func shuffleRow(b *Board, mice []Mouse, y int, src rng.Source) []Relocation {
	slots := b.RowGears(y)
	if len(slots) == 0 {
		return nil
	}
	gears := make([]Gear, len(slots))
	for i, p := range slots {
		gears[i] = *b.GearAt(p)
	}

	perm := rng.Perm(src, len(slots))
	moves := make([]Relocation, len(slots))
	dest := make(map[Pos]Pos, len(slots))
	for i, to := range slots {
		from := slots[perm[i]]
		g := gears[perm[i]]
		g.Rotation = src.Intn(4)
		b.cells[b.index(to)].gear = &g
		moves[i] = Relocation{From: from, To: to, B: g.Rotation}
		dest[from] = to
	}

	for i := range mice {
		if mice[i].Status != InPlay {
			continue
		}
		if to, ok := dest[mice[i].Pos]; ok {
			mice[i].Pos = to
		}
	}
	return moves
}

// describeEntropy renders the history entry for an entropy event.
func describeEntropy(moves []Relocation) string {
	if len(moves) == 0 {
		return "TOTAL ENTROPY: No targets."
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = fmt.Sprintf("%s->%s(b=%d)", m.From, m.To, m.B)
	}
	return "TOTAL ENTROPY: " + strings.Join(parts, ", ")
}
