package levels

import (
	"errors"
	"strings"
	"testing"

	"github.com/ixentbench/capsicaps/assets"
)

func TestEmbeddedCatalog(t *testing.T) {
	data, err := assets.LevelsJSON()
	if err != nil {
		t.Fatalf("read embedded levels: %v", err)
	}
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("parse embedded levels: %v", err)
	}

	ids := c.IDs()
	if strings.Join(ids, ",") != "1,2,3,4,5,6" {
		t.Fatalf("unexpected ids %v", ids)
	}

	l, err := c.Get("2")
	if err != nil {
		t.Fatalf("get level 2: %v", err)
	}
	if l.Width != 4 || l.Height != 4 {
		t.Errorf("level 2 dims = %dx%d, want 4x4", l.Width, l.Height)
	}
	// P32 and P23 are obstacles in level 2.
	if !l.Obstacle(3, 2) || !l.Obstacle(2, 3) {
		t.Errorf("expected obstacles at P32 and P23")
	}
	if l.Obstacle(1, 1) {
		t.Errorf("P11 should be playable")
	}
	if got := l.MouseColumns(); len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Errorf("default mouse columns = %v", got)
	}
}

func TestGetUnknown(t *testing.T) {
	data, _ := assets.LevelsJSON()
	c, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("99"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Level{
		ID: "x", Width: 3, Height: 3, Map: "111111111",
		Inventory: map[string]int{"G1": 1}, MaxMoves: 5, IdealMoves: 3,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base level should validate: %v", err)
	}

	cases := []struct {
		name string
		mut  func(l *Level)
	}{
		{"too wide", func(l *Level) { l.Width = 10; l.Map = strings.Repeat("1", 30) }},
		{"short map", func(l *Level) { l.Map = "1111" }},
		{"bad map char", func(l *Level) { l.Map = "11111111x" }},
		{"unknown kind", func(l *Level) { l.Inventory = map[string]int{"G9": 1} }},
		{"negative count", func(l *Level) { l.Inventory = map[string]int{"G1": -1, "G2": 2} }},
		{"empty inventory", func(l *Level) { l.Inventory = map[string]int{"G1": 0} }},
		{"mouse off board", func(l *Level) { l.Mice = []int{4} }},
		{"duplicate mouse", func(l *Level) { l.Mice = []int{1, 1} }},
		{"no budget", func(l *Level) { l.MaxMoves = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := base
			l.Inventory = map[string]int{"G1": 1}
			tc.mut(&l)
			if err := l.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	data := []byte(`[
		{"id":"a","width":1,"height":1,"map":"1","inventory":{"G1":1},"max_moves":1,"ideal_moves":1},
		{"id":"a","width":1,"height":1,"map":"1","inventory":{"G1":1},"max_moves":1,"ideal_moves":1}
	]`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
