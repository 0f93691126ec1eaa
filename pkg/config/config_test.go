package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/completions/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
model: davinci-002
temperature: 0.2
max_tokens: 64
system: You are terse.
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "davinci-002", cfg.Model)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-9)
	require.NotNil(t, cfg.MaxTokens)
	assert.Equal(t, 64, *cfg.MaxTokens)
	require.NotNil(t, cfg.System)
	assert.Equal(t, "You are terse.", *cfg.System)
}

func TestLoad_Partial(t *testing.T) {
	path := writeConfig(t, "model: babbage-002\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "babbage-002", cfg.Model)
	assert.Nil(t, cfg.Temperature)
	assert.Nil(t, cfg.MaxTokens)
	assert.Nil(t, cfg.System)
}

func TestLoad_EmptySystemIsExplicit(t *testing.T) {
	path := writeConfig(t, "system: \"\"\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.System)
	assert.Empty(t, *cfg.System)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CHAT_TEST_MODEL", "from-env")
	path := writeConfig(t, "model: ${CHAT_TEST_MODEL}\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: load")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "model: [unterminated\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate(t *testing.T) {
	hot := 3.0
	zero := 0

	assert.Error(t, config.Config{Temperature: &hot}.Validate())
	assert.Error(t, config.Config{MaxTokens: &zero}.Validate())
	assert.NoError(t, config.Config{}.Validate())
}
