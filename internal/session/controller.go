// Package session runs one trainer game: it routes keys to the matcher,
// moves through the question bank and tells the view what to draw.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kanatype/internal/bank"
	"kanatype/internal/matcher"
	"kanatype/internal/romaji"
	"kanatype/internal/sequencer"
	"kanatype/internal/view"
)

// Screen text.
const (
	TitleIdle     = "kanatype"
	TitleFinished = "Game Clear!"
)

// Config configures a Controller.
type Config struct {
	// StartKey starts a game from the idle and finished screens.
	StartKey rune

	// AdvanceDelay is the pause between completing a question and showing
	// the next one.
	AdvanceDelay time.Duration

	// Table is the romanization table. Nil uses the built-in table.
	Table *romaji.Table

	// Nasal selects how ん may be typed.
	Nasal matcher.NasalPolicy
}

// DefaultConfig returns the standard game settings.
func DefaultConfig() Config {
	return Config{
		StartKey:     ' ',
		AdvanceDelay: 300 * time.Millisecond,
		Nasal:        matcher.NasalLenient,
	}
}

// Controller owns the engine, the sequencer and the current phase. It is not
// safe for concurrent use; Run serializes keys and advances on one goroutine.
type Controller struct {
	cfg    Config
	engine *matcher.Engine
	seq    *sequencer.Sequencer
	view   view.Projector
	log    *slog.Logger

	phase    view.Phase
	question bank.Question
	skipped  int
}

// New creates a controller in the idle phase.
func New(seq *sequencer.Sequencer, proj view.Projector, cfg Config, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	if cfg.StartKey == 0 {
		cfg.StartKey = DefaultConfig().StartKey
	}
	return &Controller{
		cfg:    cfg,
		engine: matcher.New(cfg.Table, matcher.WithNasalPolicy(cfg.Nasal)),
		seq:    seq,
		view:   proj,
		log:    log,
		phase:  view.PhaseIdle,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() view.Phase { return c.phase }

// Skipped returns how many questions were skipped because their kana could
// not be typed with the table.
func (c *Controller) Skipped() int { return c.skipped }

// Render draws the current screen.
func (c *Controller) Render() error {
	return c.render(false)
}

// HandleKey processes one normalized key.
func (c *Controller) HandleKey(r rune) error {
	switch c.phase {
	case view.PhaseIdle, view.PhaseFinished:
		if r != c.cfg.StartKey {
			return nil
		}
		c.start()
		return c.render(false)
	}

	// The question is complete and waiting for its advance.
	if c.seq.Pending() || c.engine.Done() {
		return nil
	}

	res := c.engine.SubmitKey(r)
	if res.Outcome == matcher.OutcomeCompleted {
		c.log.Debug("question completed",
			"index", c.seq.Index(),
			"display", c.question.Display,
			"typed", c.engine.Typed())
		c.seq.ScheduleAdvance(c.cfg.AdvanceDelay)
	}
	return c.render(res.Miss())
}

// HandleAdvance applies a token delivered by the sequencer. Stale tokens are
// ignored.
func (c *Controller) HandleAdvance(tok sequencer.Token) error {
	if c.phase != view.PhasePlaying || !c.seq.Advance(tok) {
		return nil
	}
	c.load()
	return c.render(false)
}

func (c *Controller) start() {
	c.seq.Restart()
	c.skipped = 0
	c.phase = view.PhasePlaying
	c.log.Info("game started", "questions", c.seq.Len())
	c.load()
}

// load resets the engine on the current question, skipping questions the
// table cannot type, and finishes the game when the bank is exhausted.
func (c *Controller) load() {
	for {
		q, ok := c.seq.Current()
		if !ok {
			c.phase = view.PhaseFinished
			c.log.Info("game finished", "questions", c.seq.Len(), "skipped", c.skipped)
			return
		}
		if err := c.engine.Reset(q.Kana); err != nil {
			c.skipped++
			c.log.Error("skipping question",
				"index", c.seq.Index(),
				"display", q.Display,
				"kana", q.Kana,
				"error", err)
			c.seq.Skip()
			continue
		}
		c.question = q
		return
	}
}

func (c *Controller) render(miss bool) error {
	var p view.Projection
	switch c.phase {
	case view.PhaseIdle:
		p = view.Projection{
			Phase:  view.PhaseIdle,
			Title:  TitleIdle,
			Prompt: fmt.Sprintf("Press %s to Start", KeyName(c.cfg.StartKey)),
			Total:  c.seq.Len(),
		}
	case view.PhaseFinished:
		p = view.Projection{
			Phase:  view.PhaseFinished,
			Title:  TitleFinished,
			Prompt: fmt.Sprintf("Press %s to Restart", KeyName(c.cfg.StartKey)),
			Index:  c.seq.Len(),
			Total:  c.seq.Len(),
		}
	default:
		p = view.Project(c.question, c.engine.State(), c.engine.Hint(), c.seq.Index(), c.seq.Len())
		p.Miss = miss
	}

	if err := c.view.Render(p); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Run draws the idle screen and then processes keys and advances until ctx
// is canceled or keys is closed. Render errors stop the loop.
func (c *Controller) Run(ctx context.Context, keys <-chan rune) error {
	defer c.seq.Stop()

	if err := c.Render(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case r, ok := <-keys:
			if !ok {
				return nil
			}
			if err := c.HandleKey(r); err != nil {
				return err
			}

		case tok := <-c.seq.Due():
			if err := c.HandleAdvance(tok); err != nil {
				return err
			}
		}
	}
}

// KeyName returns the display name of a start key.
func KeyName(r rune) string {
	switch r {
	case ' ':
		return "Space"
	case '\r', '\n':
		return "Enter"
	default:
		return fmt.Sprintf("%q", r)
	}
}
