// internal/game/network.go
//
// Gear rotation propagator.
//
// A rotation input on one gear turns its whole network: every gear reachable
// through 4-adjacent gears. Gears on cells of the seed's type turn by delta,
// gears on the opposite type turn by -delta. All new rotations are computed
// before any is written.

package game

// Network returns the gears connected to seed in breadth-first order
// (neighbors visited N, W, S, E). Nil when seed holds no gear.
func (b *Board) Network(seed Pos) []Pos {
	if b.GearAt(seed) == nil {
		return nil
	}
	seen := map[Pos]bool{seed: true}
	queue := []Pos{seed}
	for i := 0; i < len(queue); i++ {
		for d := North; d <= East; d++ {
			n := queue[i].Neighbor(d)
			if seen[n] || b.GearAt(n) == nil {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return queue
}

// Rotate turns the network of seed by delta quarter turns (+1 for +90,
// -1 for -90) and returns the affected positions.
func (b *Board) Rotate(seed Pos, delta int) ([]Pos, error) {
	net := b.Network(seed)
	if net == nil {
		return nil, invalid(ErrNoGear, "%s", seed)
	}
	seedType := CellType(seed.X, seed.Y)
	next := make([]int, len(net))
	for i, p := range net {
		d := delta
		if CellType(p.X, p.Y) != seedType {
			d = -delta
		}
		next[i] = mod4(b.GearAt(p).Rotation + d)
	}
	for i, p := range net {
		b.GearAt(p).Rotation = next[i]
	}
	return net, nil
}
