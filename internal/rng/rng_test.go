package rng

import (
	"sort"
	"testing"
)

func TestDeterministicStream(t *testing.T) {
	a := NewByteGenerator("seed", "match-1", 0)
	b := NewByteGenerator("seed", "match-1", 0)
	for i := 0; i < 100; i++ {
		fa, fb := a.NextFloat(), b.NextFloat()
		if fa != fb {
			t.Fatalf("float %d differs: %f != %f", i, fa, fb)
		}
		if fa < 0 || fa >= 1 {
			t.Fatalf("float %d out of range [0, 1): %f", i, fa)
		}
	}
}

func TestStreamsDiffer(t *testing.T) {
	a := NewByteGenerator("seed", "match-1", 0)
	b := NewByteGenerator("seed", "match-2", 0)
	same := true
	for i := 0; i < 8; i++ {
		if a.Next() != b.Next() {
			same = false
		}
	}
	if same {
		t.Fatal("different streams produced identical bytes")
	}
}

func TestIntnRange(t *testing.T) {
	g := NewByteGenerator("range", "s", 1)
	for n := 1; n <= 9; n++ {
		for i := 0; i < 200; i++ {
			if v := g.Intn(n); v < 0 || v >= n {
				t.Fatalf("Intn(%d) = %d", n, v)
			}
		}
	}
}

func TestPerm(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"single", 1},
		{"row of five", 5},
		{"row of eight", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Perm(NewByteGenerator("perm", tt.name, 0), tt.n)
			if len(p) != tt.n {
				t.Fatalf("len = %d, want %d", len(p), tt.n)
			}
			got := append([]int(nil), p...)
			sort.Ints(got)
			for i, v := range got {
				if v != i {
					t.Fatalf("not a permutation: %v", p)
				}
			}
		})
	}
}

func TestPermReplays(t *testing.T) {
	p1 := Perm(NewByteGenerator("s", "m", 0), 6)
	p2 := Perm(NewByteGenerator("s", "m", 0), 6)
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("perm differs at %d: %v vs %v", i, p1, p2)
		}
	}
}

func TestDeriveSeed(t *testing.T) {
	a := DeriveSeed("salt", "id-1")
	if a != DeriveSeed("salt", "id-1") {
		t.Fatal("DeriveSeed is not deterministic")
	}
	if a == DeriveSeed("salt", "id-2") || a == DeriveSeed("other", "id-1") {
		t.Fatal("DeriveSeed collided across inputs")
	}
	if len(a) != 64 {
		t.Fatalf("seed length = %d, want 64 hex chars", len(a))
	}
	if len(RandomSalt()) != 32 {
		t.Fatal("RandomSalt should be 32 hex chars")
	}
}
