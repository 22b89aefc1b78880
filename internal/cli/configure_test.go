package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/config"
)

func TestConfigureWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.json")

	cmd := GetRootCmd()
	cmd.SetArgs([]string{
		"configure",
		"--config", path,
		"--provider", "openai",
		"--api-key", "sk-test",
		"--model", "gpt-4o-mini",
	})
	output := &bytes.Buffer{}
	cmd.SetOut(output)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, output.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func TestConfigureRejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.json")

	cmd := GetRootCmd()
	cmd.SetArgs([]string{"configure", "--config", path, "--provider", "llama-at-home"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	assert.Error(t, err)
}
