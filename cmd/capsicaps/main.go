// cmd/capsicaps/main.go
//
// Command-line front end for the Caps i Caps engine.
//
// Subcommands:
//   levels                               list the level catalog
//   play -level N [-agent ID] [-seed S]  read commands from stdin, print a snapshot per command
//   replay -level N -seed S FILE         replay a move log and print the final snapshot
//   leaderboard -level N [-limit K]      print the best recorded results for a level
//
// Configuration comes from the environment (see internal/config).

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ixentbench/capsicaps/internal/config"
	"github.com/ixentbench/capsicaps/internal/levels"
	"github.com/ixentbench/capsicaps/internal/session"
	"github.com/ixentbench/capsicaps/internal/store"
)

func main() {
	cfg := config.Load()
	cfg.SetupLogging()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	catalog, err := levels.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load levels")
	}

	ctx := context.Background()
	args := os.Args[2:]
	switch os.Args[1] {
	case "levels":
		err = runLevels(catalog, os.Stdout)
	case "play":
		err = runPlay(ctx, cfg, catalog, args, os.Stdin, os.Stdout)
	case "replay":
		err = runReplay(ctx, cfg, catalog, args, os.Stdout)
	case "leaderboard":
		err = runLeaderboard(ctx, cfg, catalog, args, os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", os.Args[1]).Msg("command failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: capsicaps <levels|play|replay|leaderboard> [flags]")
}

func runLevels(catalog *levels.Catalog, w io.Writer) error {
	for _, id := range catalog.IDs() {
		l, err := catalog.Get(id)
		if err != nil {
			return err
		}
		pieces := 0
		for _, n := range l.Inventory {
			pieces += n
		}
		fmt.Fprintf(w, "%s\t%dx%d\tmice=%d\tpieces=%d\tmax_moves=%d\tideal_moves=%d\n",
			l.ID, l.Width, l.Height, len(l.MouseColumns()), pieces, l.MaxMoves, l.IdealMoves)
	}
	return nil
}

func runPlay(ctx context.Context, cfg config.Config, catalog *levels.Catalog, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	level := fs.String("level", "1", "Level id")
	agent := fs.String("agent", cfg.AgentID, "Agent id recorded with the result")
	seed := fs.String("seed", "", "Entropy seed (derived from ENTROPY_SALT when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ledger session.Ledger
	if cfg.ResultsDB != "" {
		l, err := store.OpenLedger(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer l.Close()
		ledger = l
	}
	svc := session.New(catalog, store.NewMemoryStore(), ledger, cfg.EntropySalt)

	resp, err := svc.StartGame(ctx, *level, session.StartOptions{AgentID: *agent, Seed: *seed})
	if err != nil {
		return err
	}
	if s, err := svc.Seed(ctx, resp.MatchID); err == nil {
		log.Info().Str("match", resp.MatchID).Str("seed", s).Msg("replay seed")
	}

	enc := json.NewEncoder(out)
	if err := enc.Encode(resp); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := commandOf(sc.Text())
		if line == "" {
			continue
		}
		resp, err = svc.SubmitMove(ctx, resp.MatchID, line, "")
		var rej *session.Rejection
		if err != nil && !errors.As(err, &rej) {
			return err
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if resp.Status.GameOver {
			break
		}
	}
	return sc.Err()
}

func runReplay(ctx context.Context, cfg config.Config, catalog *levels.Catalog, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	level := fs.String("level", "1", "Level id")
	seed := fs.String("seed", "", "Entropy seed recorded with the original match")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("replay: expected one move log file")
	}
	if *seed == "" {
		return errors.New("replay: -seed is required")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	moves, err := readMoveLog(f)
	if err != nil {
		return err
	}

	// Replays are not recorded.
	svc := session.New(catalog, store.NewMemoryStore(), nil, cfg.EntropySalt)
	resp, err := svc.StartGame(ctx, *level, session.StartOptions{AgentID: cfg.AgentID, Seed: *seed})
	if err != nil {
		return err
	}
	for i, mv := range moves {
		next, err := svc.SubmitMove(ctx, resp.MatchID, mv, "")
		var rej *session.Rejection
		if errors.As(err, &rej) {
			log.Warn().Int("line", i+1).Str("command", mv).Str("reason", rej.Reason).Msg("replayed move rejected")
		} else if err != nil {
			return err
		}
		resp = next
		if resp.Status.GameOver {
			break
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func runLeaderboard(ctx context.Context, cfg config.Config, catalog *levels.Catalog, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	level := fs.String("level", "1", "Level id")
	limit := fs.Int("limit", store.DefaultLeaderboardLimit, "Maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := catalog.Get(*level); err != nil {
		return err
	}
	if cfg.ResultsDB == "" {
		return session.ErrNoLedger
	}
	l, err := store.OpenLedger(cfg.ResultsDB)
	if err != nil {
		return err
	}
	defer l.Close()

	rows, err := l.Leaderboard(ctx, *level, *limit)
	if err != nil {
		return err
	}
	for i, r := range rows {
		fmt.Fprintf(out, "%2d. %-20s %-8s benchmark=%d raw=%d moves=%d/%d rescued=%.0f%% seed=%s\n",
			i+1, r.AgentID, r.Result, r.BenchmarkScore, r.RawPoints, r.MovesUsed, r.MaxMoves,
			r.CompletionPercent, r.Seed)
	}
	return nil
}
