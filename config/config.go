// Package config loads agentnet settings from defaults, an optional YAML
// file, an optional dotenv file and the environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (AGENTNET_<SECTION>_<KEY>, plus the provider
//     keys GEMINI_API_KEY, OPENAI_API_KEY and ANTHROPIC_API_KEY)
//  2. Variables from the dotenv file (only those not already set)
//  3. The YAML config file
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/agentnet/logging"
)

// Providers lists the supported model providers.
var Providers = []string{"gemini", "openai", "anthropic", "mock"}

// providerEnv maps providers to the environment variable holding their key.
var providerEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// Config holds all agentnet settings.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Model       ModelConfig       `mapstructure:"model"`
	Definitions DefinitionsConfig `mapstructure:"definitions"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Tools       ToolsConfig       `mapstructure:"tools"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	// NetworksDir anchors file paths sent to save/load.
	NetworksDir string `mapstructure:"networks_dir"`
}

// ModelConfig selects the LLM.
type ModelConfig struct {
	Provider    string  `mapstructure:"provider"`
	Name        string  `mapstructure:"name"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	// APIKey defaults to the provider's environment variable.
	APIKey string `mapstructure:"api_key"`
}

// DefinitionsConfig locates the agent and task definitions.
type DefinitionsConfig struct {
	// Dir overrides the embedded definitions when set.
	Dir          string `mapstructure:"dir"`
	DisableCache bool   `mapstructure:"disable_cache"`
}

// EngineConfig holds execution limits.
type EngineConfig struct {
	MaxConcurrentRuns int           `mapstructure:"max_concurrent_runs"`
	MaxModelCalls     int           `mapstructure:"max_model_calls"`
	MaxIterations     int           `mapstructure:"max_tool_iterations"`
	TaskTimeout       time.Duration `mapstructure:"task_timeout"`
}

// ToolsConfig configures tool execution and the web tools.
type ToolsConfig struct {
	Parallelism int           `mapstructure:"parallelism"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	MaxResults  int           `mapstructure:"max_results"`
	MaxChars    int           `mapstructure:"max_chars"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig configures the run report archive.
type StorageConfig struct {
	// ReportsDir enables the file archive; empty keeps reports in memory.
	ReportsDir string `mapstructure:"reports_dir"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	// EnvFile is read when present. Defaults to ".env".
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":4000")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.networks_dir", "")

	v.SetDefault("model.provider", "gemini")
	v.SetDefault("model.name", "")
	v.SetDefault("model.temperature", 0.7)
	v.SetDefault("model.max_tokens", 0)
	v.SetDefault("model.api_key", "")

	v.SetDefault("definitions.dir", "")
	v.SetDefault("definitions.disable_cache", false)

	v.SetDefault("engine.max_concurrent_runs", 10)
	v.SetDefault("engine.max_model_calls", 100)
	v.SetDefault("engine.max_tool_iterations", 5)
	v.SetDefault("engine.task_timeout", 5*time.Minute)

	v.SetDefault("tools.parallelism", 4)
	v.SetDefault("tools.timeout", 30*time.Second)
	v.SetDefault("tools.user_agent", "")
	v.SetDefault("tools.max_results", 5)
	v.SetDefault("tools.max_chars", 8000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("storage.reports_dir", "")
}

// Load reads the configuration. An empty path skips the YAML file; a path
// that does not exist is an error.
func Load(path string, optFns ...func(o *LoadOptions)) (*Config, error) {
	opts := LoadOptions{EnvFile: ".env"}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("AGENTNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Model.Provider = strings.ToLower(cfg.Model.Provider)
	if cfg.Model.APIKey == "" {
		if name, ok := providerEnv[cfg.Model.Provider]; ok {
			cfg.Model.APIKey = os.Getenv(name)
		}
	}

	cfg.Model.APIKey = os.ExpandEnv(cfg.Model.APIKey)

	return cfg, nil
}

// loadEnvFile exports the variables of a dotenv file that are not set yet.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")

	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for _, key := range ev.AllKeys() {
		name := strings.ToUpper(key)
		if os.Getenv(name) != "" {
			continue
		}
		if err := os.Setenv(name, ev.GetString(key)); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}

	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	known := false
	for _, p := range Providers {
		if c.Model.Provider == p {
			known = true
		}
	}

	if !known {
		errs = append(errs, fmt.Errorf("model.provider %q must be one of %s", c.Model.Provider, strings.Join(Providers, ", ")))
	} else if c.Model.Provider != "mock" && c.Model.APIKey == "" {
		errs = append(errs, fmt.Errorf("model.api_key is required for provider %s (or set %s)", c.Model.Provider, providerEnv[c.Model.Provider]))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, fmt.Errorf("logging.format %q must be json or text", c.Logging.Format))
	}

	if c.Engine.MaxConcurrentRuns < 0 || c.Engine.MaxModelCalls < 0 || c.Engine.MaxIterations < 0 {
		errs = append(errs, errors.New("engine limits must not be negative"))
	}

	if c.Engine.TaskTimeout < 0 || c.Tools.Timeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}

	return errors.Join(errs...)
}

// Logger builds the process logger described by the logging section.
func (c *Config) Logger() (*logging.NetLogger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    c.Logging.Format,
		Output:    os.Stderr,
		Component: "agentnet",
	}), nil
}
