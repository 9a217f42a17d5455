// Package app turns a loaded configuration into a ready game: the
// romanization table, the checked question bank and the session settings.
// The terminal and GUI front ends share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"kanatype/internal/bank"
	"kanatype/internal/config"
	"kanatype/internal/keyinput"
	"kanatype/internal/romaji"
	"kanatype/internal/sequencer"
	"kanatype/internal/session"
)

// Game is everything a front end needs to start playing.
type Game struct {
	Table     *romaji.Table
	Questions []bank.Question
	// Rejected lists questions dropped because the table cannot type them.
	Rejected bank.ValidationErrors
	Session  session.Config
	Shuffle  bool
	Seed     uint64
}

// LoadTable loads the table at path, or the built-in table when path is
// empty.
func LoadTable(path string) (*romaji.Table, error) {
	if path == "" {
		return romaji.Default(), nil
	}
	t, err := romaji.Load(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	return t, nil
}

// Prepare loads the table and bank named by cfg. With bank.skip_invalid set,
// untypeable questions are logged and dropped; otherwise they fail the load.
func Prepare(cfg *config.Config, log *slog.Logger) (*Game, error) {
	if log == nil {
		log = slog.Default()
	}

	startKey, err := cfg.StartKey()
	if err != nil {
		return nil, fmt.Errorf("game.start_key: %w", err)
	}
	nasal, err := cfg.NasalPolicy()
	if err != nil {
		return nil, fmt.Errorf("game.nasal: %w", err)
	}

	table, err := LoadTable(cfg.Table.Path)
	if err != nil {
		return nil, err
	}

	qs, err := bank.Load(config.ExpandPath(cfg.Bank.Path))
	if err != nil {
		return nil, err
	}

	g := &Game{
		Table:   table,
		Shuffle: cfg.Game.Shuffle,
		Seed:    cfg.Game.Seed,
		Session: session.Config{
			StartKey:     startKey,
			AdvanceDelay: cfg.AdvanceDelay(),
			Table:        table,
			Nasal:        nasal,
		},
	}

	if cfg.Bank.SkipInvalid {
		g.Questions, g.Rejected = bank.Filter(table, qs)
		for _, verr := range g.Rejected {
			log.Warn("dropping question", "index", verr.Index, "error", verr.Err)
		}
	} else {
		if err := bank.Validate(table, qs); err != nil {
			return nil, err
		}
		g.Questions = qs
	}

	if len(g.Questions) == 0 {
		return nil, fmt.Errorf("no playable questions: %w", bank.ErrEmptyBank)
	}
	if g.Shuffle && g.Seed == 0 {
		g.Seed = uint64(time.Now().UnixNano())
	}

	log.Info("bank loaded",
		"path", cfg.Bank.Path,
		"questions", len(g.Questions),
		"dropped", len(g.Rejected),
		"nasal", nasal.String(),
	)
	return g, nil
}

// NewSequencer returns a sequencer over the game's questions, shuffled with
// the game's seed when shuffling is on.
func (g *Game) NewSequencer() *sequencer.Sequencer {
	if !g.Shuffle {
		return sequencer.New(g.Questions)
	}
	return sequencer.New(g.Questions, sequencer.WithRand(rand.New(rand.NewPCG(g.Seed, g.Seed))))
}

// IsQuit reports whether err is a normal way for a game to end.
func IsQuit(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, keyinput.ErrInterrupted)
}
