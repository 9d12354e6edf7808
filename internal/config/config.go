// Package config loads the service configuration from YAML with
// ADAPTED_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/adapted/internal/llm"
)

// MemoryStore selects the in-process stores instead of sqlite.
const MemoryStore = "memory"

// EnvConfigFile names the config file when --config is not given.
const EnvConfigFile = "ADAPTED_CONFIG"

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	LLM    llm.Config   `yaml:"llm"`
	Log    LogConfig    `yaml:"log"`
	Random RandomConfig `yaml:"random"`

	// Classes maps a class id to the user ids on its roster.
	Classes map[string][]string `yaml:"classes"`

	// TaskBank is an optional YAML task bank replacing the built-in one.
	TaskBank string `yaml:"task_bank"`

	// AssistantTimeout bounds one assistant generation.
	AssistantTimeout time.Duration `yaml:"assistant_timeout" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr" validate:"required"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"gte=0"`
	// MaxUploadBytes caps PDF uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" validate:"gte=0"`
}

// StoreConfig selects the persistence backend. An empty path uses the
// default database location; "memory" keeps everything in process.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// RandomConfig fixes the seed of mentor messages and task sampling.
// Zero seeds from the runtime.
type RandomConfig struct {
	Seed uint64 `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxUploadBytes: 20 << 20,
		},
		LLM:              llm.DefaultConfig(),
		Log:              LogConfig{Level: "info"},
		Classes:          map[string][]string{},
		AssistantTimeout: 30 * time.Second,
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $ADAPTED_CONFIG, and no file at all yields the defaults.
// Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	cfg.LLM.Discover()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays ADAPTED_* environment variables onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ADAPTED_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ADAPTED_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ADAPTED_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("ADAPTED_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ADAPTED_LOG_DEVELOPMENT"); v != "" {
		c.Log.Development, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ADAPTED_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Random.Seed = seed
		}
	}
	if v := os.Getenv("ADAPTED_TASK_BANK"); v != "" {
		c.TaskBank = v
	}
	c.LLM.ApplyEnv()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the selected LLM provider.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// InMemory reports whether the in-process stores are selected.
func (c *Config) InMemory() bool {
	return c.Store.Path == MemoryStore
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
