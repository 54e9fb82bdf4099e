// internal/session/session.go
//
// Session service: the narrow command interface in front of the engine.
// Responsibilities:
//   - Start matches from the level catalog with a per-match entropy seed.
//   - Submit commands, turning parse/validation failures into Rejections.
//   - Serve read-only state and per-level leaderboards.
//   - Write a ledger row when a match ends.
//
// Notes:
//   - Commands for the same match are serialised with a per-match mutex;
//     different matches proceed in parallel.
//   - The ledger is optional. Without one, finished matches are only kept in
//     the registry and Leaderboard returns ErrNoLedger.

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ixentbench/capsicaps/internal/command"
	"github.com/ixentbench/capsicaps/internal/game"
	"github.com/ixentbench/capsicaps/internal/levels"
	"github.com/ixentbench/capsicaps/internal/rng"
	"github.com/ixentbench/capsicaps/internal/store"
)

// ErrNoLedger is returned by Leaderboard when no results ledger is configured.
var ErrNoLedger = errors.New("results ledger disabled")

// Ledger is the part of *store.Ledger the service uses.
type Ledger interface {
	Record(ctx context.Context, r store.Result) error
	Leaderboard(ctx context.Context, levelID string, limit int) ([]store.Result, error)
}

// Rejection kinds.
const (
	KindParse      = "PARSE_ERROR"
	KindValidation = "VALIDATION_ERROR"
)

// Rejection reports a command that was refused without changing the match.
type Rejection struct {
	Kind   string
	Reason string
	Err    error
}

func (r *Rejection) Error() string { return fmt.Sprintf("%s: %s", r.Kind, r.Reason) }

func (r *Rejection) Unwrap() error { return r.Err }

// StartOptions configures StartGame.
type StartOptions struct {
	AgentID string
	// Seed replays a recorded entropy stream. Derived from the server salt
	// and the match id when empty.
	Seed string
}

// Response is returned by every call that touches a match.
type Response struct {
	MatchID string `json:"match_id"`
	Msg     string `json:"msg"`
	game.Snapshot
}

// Service runs matches.
type Service struct {
	catalog *levels.Catalog
	matches store.Store
	ledger  Ledger
	salt    string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds a Service. ledger may be nil; an empty salt is replaced by a
// random one for the lifetime of the service.
func New(catalog *levels.Catalog, matches store.Store, ledger Ledger, salt string) *Service {
	if salt == "" {
		salt = rng.RandomSalt()
	}
	return &Service{
		catalog: catalog,
		matches: matches,
		ledger:  ledger,
		salt:    salt,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Levels lists the catalog ids.
func (s *Service) Levels() []string { return s.catalog.IDs() }

// StartGame creates a match on the given level.
func (s *Service) StartGame(ctx context.Context, levelID string, opts StartOptions) (Response, error) {
	l, err := s.catalog.Get(levelID)
	if err != nil {
		return Response{}, err
	}
	id := store.NewID()
	seed := opts.Seed
	if seed == "" {
		seed = rng.DeriveSeed(s.salt, id)
	}
	m := game.New(l, game.Options{
		ID:              id,
		AgentID:         SanitizeAgentID(opts.AgentID),
		AvailableLevels: s.catalog.IDs(),
		Seed:            seed,
	})
	if err := s.matches.Save(ctx, m); err != nil {
		return Response{}, fmt.Errorf("save match: %w", err)
	}
	log.Info().Str("match", id).Str("level", l.ID).Str("agent", m.AgentID).Msg("match started")
	return Response{MatchID: id, Msg: "OK", Snapshot: m.Snapshot()}, nil
}

// SubmitMove applies one command. A refused command returns a *Rejection
// together with the unchanged state. Physics invariant violations are
// returned as plain errors.
func (s *Service) SubmitMove(ctx context.Context, id, cmd, reasoning string) (Response, error) {
	m, err := s.matches.Get(ctx, id)
	if err != nil {
		return Response{}, err
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	out, err := m.Submit(cmd)
	if err != nil {
		var (
			pe  *command.ParseError
			ve  *game.ValidationError
			rej *Rejection
		)
		switch {
		case errors.As(err, &pe):
			rej = &Rejection{Kind: KindParse, Reason: pe.Reason, Err: err}
		case errors.As(err, &ve):
			rej = &Rejection{Kind: KindValidation, Reason: err.Error(), Err: err}
		default:
			log.Error().Err(err).Str("match", id).Str("command", cmd).Msg("move failed")
			return Response{}, err
		}
		log.Warn().Str("match", id).Str("kind", rej.Kind).Str("reason", rej.Reason).Msg("move rejected")
		return Response{MatchID: id, Msg: "ERROR: " + rej.Reason, Snapshot: m.Snapshot()}, rej
	}

	m.SetReasoning(reasoning)
	log.Debug().Str("match", id).Int("turn", m.Turn).Int("points", out.Points).
		Int("entries", len(out.Entries)).Int("jumps", len(out.Jumps)).Msg("move accepted")
	if out.EntropyFired {
		log.Info().Str("match", id).Int("gears", len(out.Entropy)).Msg("entropy event")
	}
	if m.GameOver() {
		s.finish(ctx, m)
	}
	if err := s.matches.Save(ctx, m); err != nil {
		return Response{}, fmt.Errorf("save match: %w", err)
	}
	return Response{MatchID: id, Msg: out.Message(), Snapshot: m.Snapshot()}, nil
}

// State returns the current snapshot without changing the match.
func (s *Service) State(ctx context.Context, id string) (Response, error) {
	m, err := s.matches.Get(ctx, id)
	if err != nil {
		return Response{}, err
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()
	return Response{MatchID: id, Msg: "OK", Snapshot: m.Snapshot()}, nil
}

// Seed returns the entropy seed of a match, for replays.
func (s *Service) Seed(ctx context.Context, id string) (string, error) {
	m, err := s.matches.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return m.Seed, nil
}

// Leaderboard returns the best recorded results for a level.
func (s *Service) Leaderboard(ctx context.Context, levelID string, limit int) ([]store.Result, error) {
	if s.ledger == nil {
		return nil, ErrNoLedger
	}
	return s.ledger.Leaderboard(ctx, levelID, limit)
}

func (s *Service) finish(ctx context.Context, m *game.Match) {
	log.Info().Str("match", m.ID).Str("result", string(m.Result)).
		Int("raw_points", m.RawPoints).Int("benchmark", m.BenchmarkScore()).
		Int("turn", m.Turn).Msg("match over")
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, store.ResultOf(m)); err != nil {
		log.Error().Err(err).Str("match", m.ID).Msg("record result")
	}
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// SanitizeAgentID keeps [A-Za-z0-9._-], turning spaces into '-'.
// An id with nothing left becomes "Unknown".
func SanitizeAgentID(id string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		}
		return -1
	}, strings.TrimSpace(id))
	if clean == "" {
		return "Unknown"
	}
	return clean
}
