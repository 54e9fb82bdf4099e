package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRotatePropagation(t *testing.T) {
	b := NewBoard(openLevel(3, 3, map[string]int{"G1": 1}))
	b.Place(Pos{1, 1}, G4, 0) // R
	b.Place(Pos{2, 1}, G2, 0) // L
	b.Place(Pos{3, 1}, G1, 3) // R
	b.Place(Pos{3, 2}, G3, 1) // L
	b.Place(Pos{1, 3}, G4, 2) // R, not connected

	net, err := b.Rotate(Pos{1, 1}, +1)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if len(net) != 4 {
		t.Fatalf("network size = %d, want 4", len(net))
	}

	want := map[Pos]int{
		{1, 1}: 1, // same type as seed: +1
		{2, 1}: 3, // opposite: -1
		{3, 1}: 0, // same: 3+1
		{3, 2}: 0, // opposite: 1-1
		{1, 3}: 2, // untouched
	}
	for p, r := range want {
		if got := b.GearAt(p).Rotation; got != r {
			t.Errorf("%s rotation = %d, want %d", p, got, r)
		}
	}
}

func TestRotateSeedOnLType(t *testing.T) {
	b := NewBoard(openLevel(2, 1, map[string]int{"G1": 1}))
	b.Place(Pos{1, 1}, G4, 0) // R
	b.Place(Pos{2, 1}, G4, 0) // L
	if _, err := b.Rotate(Pos{2, 1}, -1); err != nil {
		t.Fatal(err)
	}
	if b.GearAt(Pos{2, 1}).Rotation != 3 || b.GearAt(Pos{1, 1}).Rotation != 1 {
		t.Fatalf("rotations = %d,%d want 1,3", b.GearAt(Pos{1, 1}).Rotation, b.GearAt(Pos{2, 1}).Rotation)
	}
}

func TestRotateEmptyCell(t *testing.T) {
	b := NewBoard(openLevel(2, 2, map[string]int{"G1": 1}))
	if _, err := b.Rotate(Pos{1, 1}, 1); !errors.Is(err, ErrNoGear) {
		t.Fatalf("expected ErrNoGear, got %v", err)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		b := NewBoard(openLevel(5, 5, map[string]int{"G1": 1}))
		var placed []Pos
		for y := 1; y <= 5; y++ {
			for x := 1; x <= 5; x++ {
				if r.Intn(2) == 0 {
					p := Pos{x, y}
					b.Place(p, Kinds[r.Intn(4)], r.Intn(4))
					placed = append(placed, p)
				}
			}
		}
		if len(placed) == 0 {
			continue
		}
		before := make(map[Pos]int, len(placed))
		for _, p := range placed {
			before[p] = b.GearAt(p).Rotation
		}
		seed := placed[r.Intn(len(placed))]
		delta := 1 - 2*r.Intn(2)
		if _, err := b.Rotate(seed, delta); err != nil {
			t.Fatal(err)
		}
		if _, err := b.Rotate(seed, -delta); err != nil {
			t.Fatal(err)
		}
		for _, p := range placed {
			if got := b.GearAt(p).Rotation; got != before[p] {
				t.Fatalf("trial %d: %s rotation %d after round trip, want %d", trial, p, got, before[p])
			}
		}
	}
}
