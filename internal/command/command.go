// internal/command/command.go
//
// Move command grammar.
//
//   Placement:            G<kind>@P<x><y>(b=<0-3>)<+|->90      G4@P12(b=2)-90
//   Rotation:             G@P<x><y><+|->90                     G@P22+90
//   Pre-move + rotation:  G@P<x><y>:b=<0-3> ; G@P<x><y><+|->90 G@P13:b=1 ; G@P21+90
//
// Coordinates are single digits, 1-indexed. Input is ASCII and case-sensitive;
// only leading/trailing whitespace and whitespace around ';' are tolerated.
//
// Parse only checks the grammar. Whether an action is legal for the current
// match (phase, inventory, adjacency, pairing) is decided by the game package.

package command

import (
	"fmt"
	"regexp"
	"strings"
)

// Op is the kind of main action in a command.
type Op int

const (
	OpPlace Op = iota + 1
	OpRotate
)

func (o Op) String() string {
	switch o {
	case OpPlace:
		return "place"
	case OpRotate:
		return "rotate"
	}
	return "unknown"
}

// Cell is a 1-indexed board coordinate.
type Cell struct {
	X, Y int
}

// String renders the cell id, e.g. "P21".
func (c Cell) String() string { return fmt.Sprintf("P%d%d", c.X, c.Y) }

// PreMove sets a gear's orientation directly before the main rotation.
type PreMove struct {
	Target Cell
	B      int
}

// Action is a parsed command.
type Action struct {
	Op     Op
	Kind   int // gear kind 1..4, placement only
	Target Cell
	B      int // initial orientation, placement only
	Delta  int // +1 for +90, -1 for -90
	Pre    *PreMove
}

// String renders the action in canonical command form.
func (a Action) String() string {
	var main string
	switch a.Op {
	case OpPlace:
		main = fmt.Sprintf("G%d@%s(b=%d)%s", a.Kind, a.Target, a.B, signStr(a.Delta))
	default:
		main = fmt.Sprintf("G@%s%s", a.Target, signStr(a.Delta))
	}
	if a.Pre != nil {
		return fmt.Sprintf("G@%s:b=%d ; %s", a.Pre.Target, a.Pre.B, main)
	}
	return main
}

func signStr(delta int) string {
	if delta < 0 {
		return "-90"
	}
	return "+90"
}

// ParseError reports a grammar violation.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

var (
	placeRe  = regexp.MustCompile(`^G([1-4])@P([1-9])([1-9])\(b=([0-3])\)([+-])90$`)
	rotateRe = regexp.MustCompile(`^G@P([1-9])([1-9])([+-])90$`)
	preRe    = regexp.MustCompile(`^G@P([1-9])([1-9]):b=([0-3])$`)
)

// Parse turns a command string into an Action.
func Parse(input string) (Action, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Action{}, &ParseError{Input: input, Reason: "empty command"}
	}

	parts := strings.Split(s, ";")
	if len(parts) > 2 {
		return Action{}, &ParseError{Input: input, Reason: "at most one ';' separator is allowed"}
	}

	var pre *PreMove
	main := strings.TrimSpace(parts[len(parts)-1])
	if len(parts) == 2 {
		p, err := parsePre(strings.TrimSpace(parts[0]))
		if err != nil {
			return Action{}, &ParseError{Input: input, Reason: err.Error()}
		}
		pre = &p
	}

	a, err := parseMain(main)
	if err != nil {
		return Action{}, &ParseError{Input: input, Reason: err.Error()}
	}
	a.Pre = pre
	return a, nil
}

func parseMain(s string) (Action, error) {
	if m := placeRe.FindStringSubmatch(s); m != nil {
		return Action{
			Op:     OpPlace,
			Kind:   digit(m[1]),
			Target: Cell{X: digit(m[2]), Y: digit(m[3])},
			B:      digit(m[4]),
			Delta:  sign(m[5]),
		}, nil
	}
	if m := rotateRe.FindStringSubmatch(s); m != nil {
		return Action{
			Op:     OpRotate,
			Target: Cell{X: digit(m[1]), Y: digit(m[2])},
			Delta:  sign(m[3]),
		}, nil
	}
	switch {
	case s == "":
		return Action{}, fmt.Errorf("missing move after ';'")
	case strings.HasPrefix(s, "G@"):
		return Action{}, fmt.Errorf("rotation %q does not match G@P<x><y><+|->90", s)
	default:
		return Action{}, fmt.Errorf("placement %q does not match G<1-4>@P<x><y>(b=<0-3>)<+|->90", s)
	}
}

func parsePre(s string) (PreMove, error) {
	m := preRe.FindStringSubmatch(s)
	if m == nil {
		return PreMove{}, fmt.Errorf("pre-move %q does not match G@P<x><y>:b=<0-3>", s)
	}
	return PreMove{Target: Cell{X: digit(m[1]), Y: digit(m[2])}, B: digit(m[3])}, nil
}

func digit(s string) int { return int(s[0] - '0') }

func sign(s string) int {
	if s == "-" {
		return -1
	}
	return 1
}
