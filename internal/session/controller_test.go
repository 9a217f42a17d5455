package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanatype/internal/bank"
	"kanatype/internal/matcher"
	"kanatype/internal/sequencer"
	"kanatype/internal/view"
)

var questions = []bank.Question{
	{Display: "河童", Kana: "かっぱ"},
	{Display: "写真", Kana: "しゃしん"},
}

func newController(t *testing.T, qs []bank.Question, delay time.Duration) (*Controller, *sequencer.Sequencer, *view.Recorder, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	seq := sequencer.New(qs)
	rec := view.NewRecorder(64, nil)
	cfg := DefaultConfig()
	cfg.AdvanceDelay = delay
	return New(seq, rec, cfg, log), seq, rec, &logs
}

func last(t *testing.T, rec *view.Recorder) view.Projection {
	t.Helper()
	p, ok := rec.Last()
	require.True(t, ok, "nothing rendered")
	return p
}

func typeKeys(t *testing.T, c *Controller, keys string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.HandleKey(k))
	}
}

func advance(t *testing.T, c *Controller, seq *sequencer.Sequencer) {
	t.Helper()
	select {
	case tok := <-seq.Due():
		require.NoError(t, c.HandleAdvance(tok))
	case <-time.After(2 * time.Second):
		t.Fatal("advance never fired")
	}
}

func TestIdleIgnoresKeysUntilStart(t *testing.T) {
	c, _, rec, _ := newController(t, questions, 0)

	require.NoError(t, c.Render())
	p := last(t, rec)
	assert.Equal(t, view.PhaseIdle, p.Phase)
	assert.Equal(t, "Press Space to Start", p.Prompt)

	typeKeys(t, c, "ka")
	assert.Equal(t, view.PhaseIdle, c.Phase())
	assert.Len(t, rec.Frames(), 1)

	require.NoError(t, c.HandleKey(' '))
	p = last(t, rec)
	assert.Equal(t, view.PhasePlaying, p.Phase)
	assert.Equal(t, "河童", p.Display)
	assert.Equal(t, "ka", p.Hint)
}

func TestFullGame(t *testing.T) {
	c, seq, rec, logs := newController(t, questions, 0)
	require.NoError(t, c.HandleKey(' '))

	typeKeys(t, c, "kappa")
	p := last(t, rec)
	assert.Equal(t, "かっぱ", p.TypedKana)
	assert.Equal(t, "", p.UntypedKana)
	assert.Equal(t, "kappa", p.Typed)

	advance(t, c, seq)
	p = last(t, rec)
	assert.Equal(t, "写真", p.Display)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, "", p.Typed)

	typeKeys(t, c, "syasinn")
	advance(t, c, seq)

	p = last(t, rec)
	assert.Equal(t, view.PhaseFinished, p.Phase)
	assert.Equal(t, TitleFinished, p.Title)
	assert.Equal(t, "Press Space to Restart", p.Prompt)
	assert.Equal(t, view.PhaseFinished, c.Phase())
	assert.Contains(t, logs.String(), "game finished")

	// Restart from the finished screen.
	require.NoError(t, c.HandleKey(' '))
	p = last(t, rec)
	assert.Equal(t, view.PhasePlaying, p.Phase)
	assert.Equal(t, "河童", p.Display)
	assert.Equal(t, 0, p.Index)
}

func TestMissRendersFeedback(t *testing.T) {
	c, _, rec, _ := newController(t, questions, 0)
	require.NoError(t, c.HandleKey(' '))
	typeKeys(t, c, "k")

	require.NoError(t, c.HandleKey('z'))
	p := last(t, rec)
	assert.True(t, p.Miss)
	assert.Equal(t, "k", p.Typed)
	assert.Equal(t, "a", p.Hint)

	require.NoError(t, c.HandleKey('a'))
	assert.False(t, last(t, rec).Miss)
}

func TestKeysIgnoredWhileAdvancing(t *testing.T) {
	c, seq, rec, _ := newController(t, questions, time.Hour)
	require.NoError(t, c.HandleKey(' '))
	typeKeys(t, c, "kappa")
	require.True(t, seq.Pending())

	n := len(rec.Frames())
	typeKeys(t, c, "sha")
	assert.Len(t, rec.Frames(), n, "keys between completion and advance are dropped")
	assert.Equal(t, 0, seq.Index())
}

func TestRestartCancelsPendingAdvance(t *testing.T) {
	c, seq, rec, _ := newController(t, questions[:1], 0)
	require.NoError(t, c.HandleKey(' '))
	typeKeys(t, c, "kappa")

	var tok sequencer.Token
	select {
	case tok = <-seq.Due():
	case <-time.After(2 * time.Second):
		t.Fatal("advance never fired")
	}
	require.NoError(t, c.HandleAdvance(tok))
	require.Equal(t, view.PhaseFinished, c.Phase())

	require.NoError(t, c.HandleKey(' '))
	// The old token must not move the restarted game.
	require.NoError(t, c.HandleAdvance(tok))
	p := last(t, rec)
	assert.Equal(t, view.PhasePlaying, p.Phase)
	assert.Equal(t, 0, p.Index)
}

func TestUnknownKanaSkipped(t *testing.T) {
	qs := []bank.Question{
		{Display: "漢字", Kana: "漢字"},
		{Display: "本", Kana: "ほん"},
	}
	c, _, rec, logs := newController(t, qs, 0)
	require.NoError(t, c.HandleKey(' '))

	p := last(t, rec)
	assert.Equal(t, "本", p.Display)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, 1, c.Skipped())
	assert.Contains(t, logs.String(), "skipping question")
	assert.Contains(t, logs.String(), "unknown kana")
}

func TestAllQuestionsSkipped(t *testing.T) {
	c, _, rec, _ := newController(t, []bank.Question{{Display: "x", Kana: "x漢"}}, 0)
	require.NoError(t, c.HandleKey(' '))
	assert.Equal(t, view.PhaseFinished, last(t, rec).Phase)
}

func TestNasalPolicyApplied(t *testing.T) {
	seq := sequencer.New([]bank.Question{{Display: "換気", Kana: "かんき"}})
	rec := view.NewRecorder(8, nil)
	cfg := DefaultConfig()
	cfg.Nasal = matcher.NasalStrict
	c := New(seq, rec, cfg, nil)

	require.NoError(t, c.HandleKey(' '))
	typeKeys(t, c, "kan")
	require.NoError(t, c.HandleKey('k'))
	assert.True(t, last(t, rec).Miss, "strict policy needs nn")
}

func TestRenderError(t *testing.T) {
	seq := sequencer.New(questions)
	failing := view.ProjectorFunc(func(view.Projection) error { return errors.New("screen gone") })
	c := New(seq, failing, DefaultConfig(), nil)

	err := c.HandleKey(' ')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen gone")
}

func TestRun(t *testing.T) {
	c, _, rec, _ := newController(t, questions, time.Millisecond)
	keys := make(chan rune)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx, keys) }()

	send := func(s string) {
		for _, k := range s {
			keys <- k
		}
	}
	send(" kappa")
	require.Eventually(t, func() bool {
		p, _ := rec.Last()
		return p.Display == "写真"
	}, 2*time.Second, 5*time.Millisecond)

	send("shashinn")
	require.Eventually(t, func() bool {
		p, _ := rec.Last()
		return p.Phase == view.PhaseFinished
	}, 2*time.Second, 5*time.Millisecond)

	close(keys)
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunCanceled(t *testing.T) {
	c, _, _, _ := newController(t, questions, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Run(ctx, make(chan rune)), context.Canceled)
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "Space", KeyName(' '))
	assert.Equal(t, "Enter", KeyName('\r'))
	assert.Equal(t, "'s'", KeyName('s'))
}
