package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/ixentbench/capsicaps/internal/levels"
)

func TestCellType(t *testing.T) {
	tests := []struct {
		x, y int
		want Topology
	}{
		{1, 1, TopoR}, {2, 1, TopoL}, {1, 2, TopoL}, {2, 2, TopoR}, {3, 4, TopoL},
	}
	for _, tt := range tests {
		if got := CellType(tt.x, tt.y); got != tt.want {
			t.Errorf("CellType(%d,%d) = %c, want %c", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestTemplates(t *testing.T) {
	want := map[Kind]string{G1: "0222", G2: "0202", G3: "0020", G4: "0000"}
	for _, k := range Kinds {
		for r := 0; r < 4; r++ {
			b := NewBoard(openLevel(1, 1, map[string]int{"G1": 1}))
			b.Place(Pos{1, 1}, k, r)
			code := b.BaseCode(Pos{1, 1}, nil)
			if len(code) != 4 {
				t.Fatalf("%s rot %d: code %q is not 4 digits", k, r, code)
			}
			// The descriptor is per template slot, so rotation never changes it.
			if code != want[k] {
				t.Errorf("%s rot %d: code = %s, want %s", k, r, code, want[k])
			}
			n := strings.Count(code, "0") + strings.Count(code, "1") + strings.Count(code, "2")
			if n != 4 {
				t.Errorf("%s rot %d: base states sum to %d", k, r, n)
			}
		}
	}
}

func TestSlotFacing(t *testing.T) {
	g := Gear{Kind: G3, Rotation: 1}
	// G3 slots 0,1,3 at rotation 1 point W, S, N.
	cases := []struct {
		d    Direction
		slot int
		ok   bool
	}{
		{West, 0, true}, {South, 1, true}, {North, 3, true}, {East, 0, false},
	}
	for _, c := range cases {
		slot, ok := g.SlotFacing(c.d)
		if ok != c.ok || (ok && slot != c.slot) {
			t.Errorf("SlotFacing(%s) = %d,%v want %d,%v", c.d, slot, ok, c.slot, c.ok)
		}
	}
}

func TestBaseCodeOccupancy(t *testing.T) {
	b := NewBoard(openLevel(2, 2, map[string]int{"G1": 1}))
	b.Place(Pos{1, 1}, G4, 0)
	mice := []Mouse{
		{ID: "M1", Status: InPlay, Pos: Pos{1, 1}, OnBase: 2},
		{ID: "M2", Status: Waiting, Column: 2, OnBase: -1},
	}
	if got := b.BaseCode(Pos{1, 1}, mice); got != "0010" {
		t.Fatalf("BaseCode = %s, want 0010", got)
	}
	if got := b.BaseCode(Pos{2, 2}, mice); got != "" {
		t.Fatalf("BaseCode on empty cell = %q", got)
	}
}

func TestEncode(t *testing.T) {
	l := levels.Level{ID: "x", Width: 2, Height: 2, Map: "1101", Inventory: map[string]int{"G1": 1}, MaxMoves: 1, IdealMoves: 1}
	b := NewBoard(l)
	b.Place(Pos{1, 1}, G2, 3)
	enc := b.Encode([]Mouse{{ID: "M1", Status: InPlay, Pos: Pos{1, 1}, OnBase: 2}})
	want := map[string]string{
		"P11": "G2P11R3B0212",
		"P21": "P21L",
		"P12": "obstacle",
		"P22": "P22R",
	}
	for k, v := range want {
		if enc[k] != v {
			t.Errorf("encoding[%s] = %q, want %q", k, enc[k], v)
		}
	}
	if len(enc) != 4 {
		t.Errorf("encoding has %d cells, want 4", len(enc))
	}
}

func TestCheckPlacement(t *testing.T) {
	l := levels.Level{ID: "x", Width: 3, Height: 3, Map: "111101111", Inventory: map[string]int{"G1": 1}, MaxMoves: 1, IdealMoves: 1}
	b := NewBoard(l)

	if err := b.CheckPlacement(Pos{1, 2}); !errors.Is(err, ErrFirstRow) {
		t.Fatalf("first gear outside row 1: got %v", err)
	}
	if err := b.CheckPlacement(Pos{2, 1}); err != nil {
		t.Fatalf("first gear in row 1: %v", err)
	}
	b.Place(Pos{2, 1}, G1, 0)

	cases := []struct {
		p    Pos
		want error
	}{
		{Pos{2, 1}, ErrOccupied},
		{Pos{2, 2}, ErrObstacle},
		{Pos{1, 3}, ErrNotAdjacent},
		{Pos{4, 1}, ErrOutOfBounds},
	}
	for _, c := range cases {
		err := b.CheckPlacement(c.p)
		if !errors.Is(err, c.want) {
			t.Errorf("CheckPlacement(%s) = %v, want %v", c.p, err, c.want)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("CheckPlacement(%s) error is not a ValidationError", c.p)
		}
	}
	if err := b.CheckPlacement(Pos{1, 1}); err != nil {
		t.Errorf("adjacent placement rejected: %v", err)
	}
}
