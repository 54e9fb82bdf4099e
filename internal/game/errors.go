// internal/game/errors.go
//
// Error taxonomy for move handling.
//   - command.ParseError: grammar violation (defined in the command package).
//   - ValidationError:    legal grammar, illegal for the current match.
//   - PhysicsError:       engine invariant broken after applying a move.
//
// Parse and validation failures leave the match untouched. A physics error
// also leaves the match untouched but signals a bug in the engine.

package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver    = errors.New("game over")
	ErrWrongPhase  = errors.New("wrong phase")
	ErrNoInventory = errors.New("no pieces of that kind remaining")
	ErrOutOfBounds = errors.New("cell outside the board")
	ErrObstacle    = errors.New("cell is an obstacle")
	ErrOccupied    = errors.New("cell already holds a gear")
	ErrFirstRow    = errors.New("first gear must be placed in row 1")
	ErrNotAdjacent = errors.New("cell has no adjacent gear")
	ErrNoGear      = errors.New("cell holds no gear")
	ErrPairing     = errors.New("pre-move must accompany a rotation")

	ErrPhysicsInvariant = errors.New("physics invariant violated")
)

// ValidationError wraps one of the sentinel errors above with context.
type ValidationError struct {
	Err    error
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Reason: fmt.Sprintf(format, args...)}
}

// PhysicsError reports a broken engine invariant.
type PhysicsError struct {
	Reason string
}

func (e *PhysicsError) Error() string { return fmt.Sprintf("%s: %s", ErrPhysicsInvariant, e.Reason) }

func (e *PhysicsError) Unwrap() error { return ErrPhysicsInvariant }
