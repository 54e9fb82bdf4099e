// internal/game/engine.go
//
// Match engine for a single Caps i Caps session.
// Responsibilities:
//   - Create matches from level templates.
//   - Validate commands against phase, inventory and board rules.
//   - Apply placement / rotation / pre-move, then entries, entropy and jumps.
//   - Track score, history and the IN_PROGRESS → VICTORY/TIMEOUT transition.
//
// Notes:
//   - Phase is derived: placement while any inventory remains, rotation after.
//   - Every command is applied to a copy of the match and committed only when
//     it fully succeeds, so a rejected command never changes state.
//   - A Match is not safe for concurrent use; the session layer serialises
//     access per match.
package game

import (
	"fmt"

	"github.com/ixentbench/capsicaps/internal/command"
	"github.com/ixentbench/capsicaps/internal/levels"
	"github.com/ixentbench/capsicaps/internal/rng"
)

// Phase is the current stage of play.
type Phase string

const (
	PhasePlacement Phase = "PLACEMENT"
	PhaseRotation  Phase = "ROTATION"
)

// EntropyStream names the rng stream that drives the entropy event.
const EntropyStream = "entropy"

// Options configures a new match.
type Options struct {
	ID              string
	AgentID         string
	AvailableLevels []string

	// Seed keys the entropy stream. A random seed is drawn when both Seed
	// and Source are empty.
	Seed   string
	Source rng.Source // overrides Seed
}

// Match holds the full state of one game.
type Match struct {
	ID              string
	LevelID         string
	AgentID         string
	AvailableLevels []string

	Board     *Board
	Inventory map[Kind]int
	Mice      []Mouse // ascending by Num

	Turn       int
	MaxMoves   int
	IdealMoves int
	RawPoints  int
	History    []string
	Result     Result

	EntropyFired  bool
	LastReasoning string
	Seed          string

	src rng.Source
}

// New starts a match from a validated level template.
func New(l levels.Level, opts Options) *Match {
	m := &Match{
		ID:              opts.ID,
		LevelID:         l.ID,
		AgentID:         opts.AgentID,
		AvailableLevels: append([]string(nil), opts.AvailableLevels...),
		Board:           NewBoard(l),
		Inventory:       make(map[Kind]int, len(Kinds)),
		MaxMoves:        l.MaxMoves,
		IdealMoves:      l.IdealMoves,
		History:         []string{},
		Result:          InProgress,
		Seed:            opts.Seed,
		src:             opts.Source,
	}
	if m.src == nil {
		if m.Seed == "" {
			m.Seed = rng.RandomSalt()
		}
		m.src = rng.NewByteGenerator(m.Seed, EntropyStream, 0)
	}
	for _, k := range Kinds {
		m.Inventory[k] = 0
	}
	for name, n := range l.Inventory {
		if k, ok := ParseKind(name); ok {
			m.Inventory[k] = n
		}
	}
	for i, col := range l.MouseColumns() {
		m.Mice = append(m.Mice, Mouse{
			ID:     fmt.Sprintf("M%d", i+1),
			Num:    i + 1,
			Column: col,
			Status: Waiting,
			OnBase: -1,
		})
	}
	return m
}

// Outcome summarises an accepted move.
type Outcome struct {
	Action       command.Action
	Entries      []Entry
	Jumps        []Jump
	EntropyFired bool
	Entropy      []Relocation
	Points       int
}

// Message is the short status line for a move: "OK", plus the entropy
// mapping when the event fired.
func (o Outcome) Message() string {
	if o.EntropyFired {
		return "OK | " + describeEntropy(o.Entropy)
	}
	return "OK"
}

// InventoryLeft returns the total number of pieces still to place.
func (m *Match) InventoryLeft() int {
	n := 0
	for _, c := range m.Inventory {
		n += c
	}
	return n
}

// Phase derives the current phase from the inventory.
func (m *Match) Phase() Phase {
	if m.InventoryLeft() > 0 {
		return PhasePlacement
	}
	return PhaseRotation
}

// GameOver reports whether the match has reached a terminal result.
func (m *Match) GameOver() bool { return m.Result != InProgress }

// Submit parses and applies a command string.
// Grammar failures return *command.ParseError, rule failures *ValidationError.
func (m *Match) Submit(input string) (Outcome, error) {
	if m.GameOver() {
		return Outcome{}, invalid(ErrGameOver, "result %s", m.Result)
	}
	a, err := command.Parse(input)
	if err != nil {
		return Outcome{}, err
	}
	return m.Apply(a)
}

// Apply validates and executes a parsed action. The match is only modified
// when the whole action succeeds.
func (m *Match) Apply(a command.Action) (Outcome, error) {
	if m.GameOver() {
		return Outcome{}, invalid(ErrGameOver, "result %s", m.Result)
	}
	next := m.clone()
	out, err := next.apply(a)
	if err != nil {
		return Outcome{}, err
	}
	if err := next.verify(); err != nil {
		return Outcome{}, err
	}
	*m = *next
	return out, nil
}

func (m *Match) apply(a command.Action) (Outcome, error) {
	out := Outcome{Action: a}
	target := Pos{X: a.Target.X, Y: a.Target.Y}

	switch m.Phase() {
	case PhasePlacement:
		if a.Op != command.OpPlace {
			return out, invalid(ErrWrongPhase, "placement phase accepts only placement commands (%d pieces left)", m.InventoryLeft())
		}
		if a.Pre != nil {
			return out, invalid(ErrPairing, "pre-move cannot precede a placement")
		}
		k := Kind(a.Kind)
		if !k.Valid() || m.Inventory[k] < 1 {
			return out, invalid(ErrNoInventory, "%s", k)
		}
		if err := m.Board.CheckPlacement(target); err != nil {
			return out, err
		}

		m.Board.Place(target, k, a.B)
		m.Inventory[k]--
		// Entry is checked at the chosen b, before the rotation input.
		out.Entries = admit(m.Board, m.Mice, &target)
		if _, err := m.Board.Rotate(target, a.Delta); err != nil {
			return out, err
		}
		if m.InventoryLeft() == 0 && !m.EntropyFired {
			out.Entropy = shuffleRow(m.Board, m.Mice, entropyRow(m.Board.Height), m.src)
			out.EntropyFired = true
			m.EntropyFired = true
		}

	case PhaseRotation:
		if a.Op != command.OpRotate {
			return out, invalid(ErrWrongPhase, "inventory is empty, only rotations are accepted")
		}
		if err := m.requireGear(target); err != nil {
			return out, err
		}
		if a.Pre != nil {
			pre := Pos{X: a.Pre.Target.X, Y: a.Pre.Target.Y}
			if err := m.requireGear(pre); err != nil {
				return out, fmt.Errorf("pre-move: %w", err)
			}
			m.Board.GearAt(pre).Rotation = a.Pre.B
		}
		if _, err := m.Board.Rotate(target, a.Delta); err != nil {
			return out, err
		}
	}

	out.Entries = append(out.Entries, admit(m.Board, m.Mice, nil)...)
	out.Jumps = resolveJumps(m.Board, m.Mice)
	for _, j := range out.Jumps {
		out.Points += j.Points
	}

	m.RawPoints += out.Points
	m.Turn++
	m.History = append(m.History, fmt.Sprintf("J%d: %s", m.Turn, a))
	if out.EntropyFired {
		m.History = append(m.History, "[EVENT] "+describeEntropy(out.Entropy))
	}
	m.updateResult()
	return out, nil
}

func (m *Match) requireGear(p Pos) error {
	if !m.Board.InBounds(p) {
		return invalid(ErrOutOfBounds, "%s on a %dx%d board", p, m.Board.Width, m.Board.Height)
	}
	if m.Board.GearAt(p) == nil {
		return invalid(ErrNoGear, "%s", p)
	}
	return nil
}

func (m *Match) updateResult() {
	switch {
	case m.Rescued() == len(m.Mice):
		m.Result = Victory
	case m.Turn >= m.MaxMoves:
		m.Result = Timeout
	}
}

// Rescued counts escaped mice.
func (m *Match) Rescued() int {
	n := 0
	for _, mo := range m.Mice {
		if mo.Status == Escaped {
			n++
		}
	}
	return n
}

// CompletionPercent is the share of escaped mice, 0..100.
func (m *Match) CompletionPercent() float64 {
	if len(m.Mice) == 0 {
		return 0
	}
	return float64(m.Rescued()) / float64(len(m.Mice)) * 100
}

// BenchmarkScore is raw_points * ideal_moves / moves_used, truncated.
func (m *Match) BenchmarkScore() int {
	if m.Turn == 0 {
		return 0
	}
	return m.RawPoints * m.IdealMoves / m.Turn
}

// SetReasoning stores the opaque text echoed in snapshots.
func (m *Match) SetReasoning(s string) { m.LastReasoning = s }

func (m *Match) clone() *Match {
	c := *m
	c.Board = m.Board.Clone()
	c.Inventory = make(map[Kind]int, len(m.Inventory))
	for k, v := range m.Inventory {
		c.Inventory[k] = v
	}
	c.Mice = append([]Mouse(nil), m.Mice...)
	c.History = append([]string(nil), m.History...)
	return &c
}

// verify checks the physical invariants after a move.
func (m *Match) verify() error {
	counts := map[MouseStatus]int{}
	seen := make(map[Pos][4]bool)
	for _, mo := range m.Mice {
		counts[mo.Status]++
		switch mo.Status {
		case InPlay:
			g := m.Board.GearAt(mo.Pos)
			if g == nil {
				return &PhysicsError{Reason: fmt.Sprintf("%s is on %s which holds no gear", mo.ID, mo.Pos)}
			}
			if !g.HasSlot(mo.OnBase) {
				return &PhysicsError{Reason: fmt.Sprintf("%s is on absent slot %d of %s", mo.ID, mo.OnBase, mo.Pos)}
			}
			slots := seen[mo.Pos]
			if slots[mo.OnBase] {
				return &PhysicsError{Reason: fmt.Sprintf("slot %d of %s holds two mice", mo.OnBase, mo.Pos)}
			}
			slots[mo.OnBase] = true
			seen[mo.Pos] = slots
		case Waiting, Escaped:
			if mo.OnBase != -1 {
				return &PhysicsError{Reason: fmt.Sprintf("%s is %s but has on_base %d", mo.ID, mo.Status, mo.OnBase)}
			}
		default:
			return &PhysicsError{Reason: fmt.Sprintf("%s has unknown status %q", mo.ID, mo.Status)}
		}
	}
	if counts[Waiting]+counts[InPlay]+counts[Escaped] != len(m.Mice) {
		return &PhysicsError{Reason: "mouse count not conserved"}
	}
	for k, n := range m.Inventory {
		if n < 0 {
			return &PhysicsError{Reason: fmt.Sprintf("negative inventory for %s", k)}
		}
	}
	return nil
}
