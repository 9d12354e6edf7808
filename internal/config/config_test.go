package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adapted/internal/llm"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile, "ADAPTED_ADDR", "ADAPTED_ALLOWED_ORIGINS", "ADAPTED_DB",
		"ADAPTED_LOG_LEVEL", "ADAPTED_LOG_DEVELOPMENT", "ADAPTED_SEED", "ADAPTED_TASK_BANK",
		"ADAPTED_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"OPENROUTER_API_KEY", "OLLAMA_URL",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adapted.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.LLM.Provider)
	assert.False(t, cfg.InMemory())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  addr: "127.0.0.1:9000"
  allowed_origins: ["http://localhost:8501"]
  read_timeout: 5s
store:
  path: memory
llm:
  provider: ollama
  ollama:
    model: mistral
log:
  level: debug
random:
  seed: 42
classes:
  5a: [u1, u2]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:8501"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.True(t, cfg.InMemory())
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "mistral", cfg.LLM.Ollama.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, uint64(42), cfg.Random.Seed)
	assert.Equal(t, []string{"u1", "u2"}, cfg.Classes["5a"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "log:\n  level: warn\n")
	t.Setenv(EnvConfigFile, path)
	t.Setenv("ADAPTED_ADDR", ":7000")
	t.Setenv("ADAPTED_ALLOWED_ORIGINS", "http://a, http://b,")
	t.Setenv("ADAPTED_LOG_LEVEL", "ERROR")
	t.Setenv("ADAPTED_SEED", "7")
	t.Setenv("OLLAMA_URL", "http://gpu:11434")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, uint64(7), cfg.Random.Seed)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "http://gpu:11434", cfg.LLM.Ollama.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
		{"unknown provider", "llm:\n  provider: hal9000\n"},
		{"missing key", "llm:\n  provider: anthropic\n"},
		{"not yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
