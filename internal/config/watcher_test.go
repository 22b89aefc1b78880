package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, path, model string) {
	t.Helper()
	body := `{"ai": {"provider": "gemini", "api_key": "AIzaTestKey123", "model": "` + model + `"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.json")
	writeConfigFile(t, path, "gemini-2.5-flash")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(NewLoader(path), zerolog.Nop(), func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	writeConfigFile(t, path, "gemini-2.5-pro")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "gemini-2.5-pro", cfg.AI.Model)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload never fired")
	}
}

func TestWatcherKeepsConfigOnInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.json")
	writeConfigFile(t, path, "gemini-2.5-flash")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(NewLoader(path), zerolog.Nop(), func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	// Broken JSON must not reach the callback.
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	select {
	case <-reloaded:
		t.Fatal("invalid config must not trigger a reload")
	case <-time.After(1 * time.Second):
	}
}

func TestWatcherStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.json")
	writeConfigFile(t, path, "gemini-2.5-flash")

	w, err := NewWatcher(NewLoader(path), zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
