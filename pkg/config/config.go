package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TANDEM_"

// Config holds runtime settings that are not command-line flags.
type Config struct {
	Shell           string        `koanf:"shell"            validate:"required"`
	SpinnerInterval time.Duration `koanf:"spinner_interval" validate:"gt=0"`
	NoPTY           bool          `koanf:"no_pty"`
	Dir             string        `koanf:"dir"              validate:"required"`
	Log             LogConfig     `koanf:"log"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// LogPath is where diagnostics are written while the TUI owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "logs", "tandem.log")
}

// Default returns the built-in configuration.
func Default() *Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	dir := ".tandem"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".tandem")
	}
	return &Config{
		Shell:           shell,
		SpinnerInterval: 100 * time.Millisecond,
		Dir:             dir,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// envToPath maps the supported environment variables to config keys.
var envToPath = map[string]string{
	"TANDEM_SHELL":            "shell",
	"TANDEM_SPINNER_INTERVAL": "spinner_interval",
	"TANDEM_NO_PTY":           "no_pty",
	"TANDEM_DIR":              "dir",
	"TANDEM_LOG_LEVEL":        "log.level",
	"TANDEM_LOG_JSON":         "log.json",
}

// Load reads defaults, then TANDEM_* environment variables, and validates
// the result.
func Load() (*Config, error) {
	return load(os.Environ)
}

func load(environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:      EnvPrefix,
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envToPath[key]
			if !ok {
				return "", nil
			}
			return path, strings.TrimSpace(value)
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
