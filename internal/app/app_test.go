package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanatype/internal/bank"
	"kanatype/internal/config"
	"kanatype/internal/keyinput"
	"kanatype/internal/matcher"
)

func writeBank(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const mixedBank = `
[[questions]]
display = "寿司"
kana = "すし"

[[questions]]
display = "記号"
kana = "す★し"

[[questions]]
display = "河童"
kana = "かっぱ"
`

func TestPrepareDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Game.Seed = 7

	g, err := Prepare(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, bank.Default(), g.Questions)
	assert.Empty(t, g.Rejected)
	assert.Equal(t, ' ', g.Session.StartKey)
	assert.Equal(t, matcher.NasalLenient, g.Session.Nasal)
	assert.Equal(t, cfg.AdvanceDelay(), g.Session.AdvanceDelay)
	assert.Same(t, g.Table, g.Session.Table)
	assert.Equal(t, uint64(7), g.Seed)
}

func TestPrepareSkipsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bank.Path = writeBank(t, mixedBank)
	cfg.Bank.SkipInvalid = true

	g, err := Prepare(cfg, nil)
	require.NoError(t, err)

	require.Len(t, g.Questions, 2)
	assert.Equal(t, "すし", g.Questions[0].Kana)
	assert.Equal(t, "かっぱ", g.Questions[1].Kana)
	require.Len(t, g.Rejected, 1)
	assert.Equal(t, 1, g.Rejected[0].Index)
}

func TestPrepareRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bank.Path = writeBank(t, mixedBank)
	cfg.Bank.SkipInvalid = false

	_, err := Prepare(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "記号")
}

func TestPrepareNothingPlayable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bank.Path = writeBank(t, "[[questions]]\ndisplay = \"x\"\nkana = \"★\"\n")
	cfg.Bank.SkipInvalid = true

	_, err := Prepare(cfg, nil)
	assert.ErrorIs(t, err, bank.ErrEmptyBank)
}

func TestPrepareBadStartKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Game.StartKey = "ctrl+q"

	_, err := Prepare(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.start_key")
}

func TestLoadTableMissing(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestNewSequencerShuffleIsSeeded(t *testing.T) {
	g := &Game{Questions: bank.Default(), Shuffle: true, Seed: 42}

	order := func() []string {
		seq := g.NewSequencer()
		defer seq.Stop()
		var out []string
		for !seq.Done() {
			q, _ := seq.Current()
			out = append(out, q.Kana)
			seq.Skip()
		}
		return out
	}

	first := order()
	assert.Equal(t, first, order())
	assert.Len(t, first, len(bank.Default()))
}

func TestNewSequencerInOrder(t *testing.T) {
	g := &Game{Questions: bank.Default()}
	seq := g.NewSequencer()
	defer seq.Stop()

	q, ok := seq.Current()
	require.True(t, ok)
	assert.Equal(t, bank.Default()[0], q)
}

func TestIsQuit(t *testing.T) {
	assert.True(t, IsQuit(nil))
	assert.True(t, IsQuit(context.Canceled))
	assert.True(t, IsQuit(fmt.Errorf("run: %w", keyinput.ErrInterrupted)))
	assert.False(t, IsQuit(os.ErrClosed))
}
