package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(o *LoadOptions) { o.EnvFile = "" }

func clearProviderKeys(t *testing.T) {
	t.Helper()
	for _, name := range providerEnv {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearProviderKeys(t)

	cfg, err := Load("", noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, 5, cfg.Engine.MaxIterations)
	assert.Equal(t, 5*time.Minute, cfg.Engine.TaskTimeout)
	assert.Equal(t, 30*time.Second, cfg.Tools.Timeout)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Storage.ReportsDir)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_File(t *testing.T) {
	clearProviderKeys(t)

	path := filepath.Join(t.TempDir(), "agentnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
  cors_origins: ["http://localhost:3000"]
model:
  provider: mock
engine:
  max_model_calls: 7
  task_timeout: 90s
storage:
  reports_dir: /tmp/reports
`), 0o600))

	cfg, err := Load(path, noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "mock", cfg.Model.Provider)
	assert.Equal(t, 7, cfg.Engine.MaxModelCalls)
	assert.Equal(t, 90*time.Second, cfg.Engine.TaskTimeout)
	assert.Equal(t, "/tmp/reports", cfg.Storage.ReportsDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("AGENTNET_MODEL_PROVIDER", "OpenAI")
	t.Setenv("AGENTNET_ENGINE_MAX_MODEL_CALLS", "3")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load("", noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, 3, cfg.Engine.MaxModelCalls)
	assert.Equal(t, "sk-env", cfg.Model.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvFile(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("AGENTNET_MODEL_PROVIDER", "anthropic")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ANTHROPIC_API_KEY=sk-dotenv\n"), 0o600))

	cfg, err := Load("", func(o *LoadOptions) { o.EnvFile = envFile })
	require.NoError(t, err)

	assert.Equal(t, "sk-dotenv", cfg.Model.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Model:   ModelConfig{Provider: "cohere"},
		Logging: LoggingConfig{Level: "loud", Format: "xml"},
		Engine:  EngineConfig{MaxModelCalls: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.provider")
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "logging.format")
	assert.Contains(t, err.Error(), "engine limits")
}

func TestLogger(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug", Format: "json"}}

	l, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, l)
}
