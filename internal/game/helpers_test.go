package game

import (
	"strings"
	"testing"

	"github.com/ixentbench/capsicaps/internal/levels"
)

// scripted is an rng.Source that replays fixed values (mod n).
type scripted struct {
	vals []int
	i    int
}

func (s *scripted) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

func openLevel(w, h int, inv map[string]int) levels.Level {
	return levels.Level{
		ID: "t", Width: w, Height: h, Map: strings.Repeat("1", w*h),
		Inventory: inv, MaxMoves: 50, IdealMoves: 10,
	}
}

// rotationMatch returns a match already in the rotation phase with the given
// gears placed directly on the board.
func rotationMatch(t *testing.T, w, h int, gears map[Pos]Gear) *Match {
	t.Helper()
	m := New(openLevel(w, h, map[string]int{"G1": 1}), Options{ID: "test", Source: &scripted{}})
	for k := range m.Inventory {
		m.Inventory[k] = 0
	}
	m.EntropyFired = true
	for p, g := range gears {
		m.Board.Place(p, g.Kind, g.Rotation)
	}
	return m
}

func mustSubmit(t *testing.T, m *Match, cmd string) Outcome {
	t.Helper()
	out, err := m.Submit(cmd)
	if err != nil {
		t.Fatalf("Submit(%q): %v", cmd, err)
	}
	return out
}

func mouse(m *Match, id string) *Mouse {
	for i := range m.Mice {
		if m.Mice[i].ID == id {
			return &m.Mice[i]
		}
	}
	return nil
}

// putMouse seats a mouse on a gear slot.
func putMouse(m *Match, id string, p Pos, slot int) {
	mo := mouse(m, id)
	mo.Status, mo.Pos, mo.OnBase = InPlay, p, slot
}
