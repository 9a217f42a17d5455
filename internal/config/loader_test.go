package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderRejectsInvalid(t *testing.T) {
	path := writeFile(t, "config.toml", "[game]\nnasal = \"sometimes\"\n")
	_, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.nasal")
}

func TestLoaderHotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nshake_ms = 100\n"), 0600))

	l := NewLoader(path)
	l.SetDebounce(50 * time.Millisecond)
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Display.ShakeMs)

	changed := make(chan [2]int, 4)
	l.OnChange(func(old, new *Config) {
		changed <- [2]int{old.Display.ShakeMs, new.Display.ShakeMs}
	})
	require.NoError(t, l.Watch())
	defer l.Close()

	require.NoError(t, os.WriteFile(path, []byte("[display]\nshake_ms = 500\n"), 0600))

	select {
	case got := <-changed:
		assert.Equal(t, [2]int{100, 500}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never ran")
	}
	assert.Equal(t, 500, l.Config().Display.ShakeMs)
}

func TestLoaderKeepsConfigOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nshake_ms = 100\n"), 0600))

	l := NewLoader(path)
	l.SetDebounce(50 * time.Millisecond)
	_, err := l.Load()
	require.NoError(t, err)
	require.NoError(t, l.Watch())
	defer l.Close()

	require.NoError(t, os.WriteFile(path, []byte("[display]\nshake_ms = -5\n"), 0600))

	select {
	case err := <-l.Errors():
		assert.Contains(t, err.Error(), "display.shake_ms")
	case <-time.After(5 * time.Second):
		t.Fatal("reload error never reported")
	}
	assert.Equal(t, 100, l.Config().Display.ShakeMs)
}

func TestLoaderCloseWithoutWatch(t *testing.T) {
	assert.NoError(t, NewLoader(filepath.Join(t.TempDir(), "c.toml")).Close())
}
