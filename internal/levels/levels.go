// internal/levels/levels.go
//
// Level catalog for the game engine.
//
// Responsibilities:
//   - Load level templates from an environment-provided file or fall back to the
//     embedded defaults in assets/levels.json.
//   - Validate every template once (dimensions, map, inventory, mice, budgets).
//   - Supply lookups by id and the ordered list of ids.
//
// Environment variables:
//   LEVELS_FILE=/path/to/levels.json
//
// Constraints:
//   • Boards are at most 9x9 so that cells stay addressable as P<x><y>.
//   • Map strings are row-major from y=1 upward, '1' playable and '0' obstacle.
//   • Initialization of the default catalog runs once (sync.Once).

package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ixentbench/capsicaps/assets"
)

// MaxSide is the largest board side addressable by single-digit coordinates.
const MaxSide = 9

// ErrUnknownLevel is returned when a level id is not in the catalog.
var ErrUnknownLevel = errors.New("unknown level")

// Level is the static template a match is started from.
type Level struct {
	ID         string         `json:"id"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Map        string         `json:"map"`
	Inventory  map[string]int `json:"inventory"`
	Mice       []int          `json:"mice,omitempty"` // waiting-slot columns; default one per column
	MaxMoves   int            `json:"max_moves"`
	IdealMoves int            `json:"ideal_moves"`
}

// Obstacle reports whether (x, y) is an obstacle in the template.
// Coordinates are 1-indexed; out-of-range cells report false.
func (l Level) Obstacle(x, y int) bool {
	if x < 1 || x > l.Width || y < 1 || y > l.Height {
		return false
	}
	return l.Map[(y-1)*l.Width+(x-1)] == '0'
}

// MouseColumns returns the waiting-slot column of each mouse in id order.
func (l Level) MouseColumns() []int {
	if len(l.Mice) > 0 {
		return append([]int(nil), l.Mice...)
	}
	cols := make([]int, l.Width)
	for i := range cols {
		cols[i] = i + 1
	}
	return cols
}

// Validate checks a template for internal consistency.
func (l Level) Validate() error {
	if l.ID == "" {
		return errors.New("level: empty id")
	}
	if l.Width < 1 || l.Width > MaxSide || l.Height < 1 || l.Height > MaxSide {
		return fmt.Errorf("level %s: dimensions %dx%d out of range 1..%d", l.ID, l.Width, l.Height, MaxSide)
	}
	if len(l.Map) != l.Width*l.Height {
		return fmt.Errorf("level %s: map has %d cells, want %d", l.ID, len(l.Map), l.Width*l.Height)
	}
	for i := 0; i < len(l.Map); i++ {
		if l.Map[i] != '0' && l.Map[i] != '1' {
			return fmt.Errorf("level %s: invalid map character %q", l.ID, l.Map[i])
		}
	}
	total := 0
	for kind, n := range l.Inventory {
		switch kind {
		case "G1", "G2", "G3", "G4":
		default:
			return fmt.Errorf("level %s: unknown gear kind %q", l.ID, kind)
		}
		if n < 0 {
			return fmt.Errorf("level %s: negative count for %s", l.ID, kind)
		}
		total += n
	}
	if total == 0 {
		return fmt.Errorf("level %s: empty inventory", l.ID)
	}
	seen := make(map[int]bool, len(l.Mice))
	for _, x := range l.Mice {
		if x < 1 || x > l.Width {
			return fmt.Errorf("level %s: mouse column %d outside 1..%d", l.ID, x, l.Width)
		}
		if seen[x] {
			return fmt.Errorf("level %s: duplicate mouse column %d", l.ID, x)
		}
		seen[x] = true
	}
	if l.MaxMoves < 1 || l.IdealMoves < 1 {
		return fmt.Errorf("level %s: move budgets must be positive", l.ID)
	}
	return nil
}

// Catalog is an immutable set of validated levels.
type Catalog struct {
	byID  map[string]Level
	order []string
}

// Parse decodes and validates a JSON array of levels.
func Parse(data []byte) (*Catalog, error) {
	var list []Level
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	c := &Catalog{byID: make(map[string]Level, len(list))}
	for _, l := range list {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("level %s: duplicate id", l.ID)
		}
		c.byID[l.ID] = l
		c.order = append(c.order, l.ID)
	}
	if len(c.order) == 0 {
		return nil, errors.New("levels: catalog is empty")
	}
	sort.SliceStable(c.order, func(i, j int) bool { return lessID(c.order[i], c.order[j]) })
	return c, nil
}

// lessID orders numeric ids numerically and everything else lexically after them.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Get returns the level with the given id.
func (c *Catalog) Get(id string) (Level, error) {
	l, ok := c.byID[id]
	if !ok {
		return Level{}, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	return l, nil
}

// IDs returns the level ids in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Default loads the process-wide catalog exactly once.
// LEVELS_FILE, when set, replaces the embedded catalog entirely.
func Default() (*Catalog, error) {
	initOnce.Do(func() {
		var data []byte
		if path := os.Getenv("LEVELS_FILE"); path != "" {
			data, initialErr = os.ReadFile(path)
		} else {
			data, initialErr = assets.LevelsJSON()
		}
		if initialErr != nil {
			return
		}
		defaultCat, initialErr = Parse(data)
	})
	return defaultCat, initialErr
}
