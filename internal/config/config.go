// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads interpreter settings from a YAML file and command-line
// flags. Flags override the file; built-in defaults fill whatever neither sets.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/holomush/serialcli/internal/serial"
)

// CodeInvalidConfig marks configuration that failed to load or validate.
const CodeInvalidConfig = "INVALID_CONFIG"

// Config holds every setting. Keys match the flag names.
type Config struct {
	Listen            string  `koanf:"listen" json:"listen,omitempty" yaml:"listen" jsonschema:"description=TCP address for the serial bridge"`
	Device            string  `koanf:"device" json:"device,omitempty" yaml:"device" jsonschema:"description=Character device for the console command"`
	MetricsAddr       string  `koanf:"metrics-addr" json:"metrics-addr,omitempty" yaml:"metrics-addr" jsonschema:"description=Address for /metrics and health probes (empty disables)"`
	LogFormat         string  `koanf:"log-format" json:"log-format,omitempty" yaml:"log-format" jsonschema:"enum=json,enum=text"`
	LogLevel          string  `koanf:"log-level" json:"log-level,omitempty" yaml:"log-level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Banner            string  `koanf:"banner" json:"banner,omitempty" yaml:"banner" jsonschema:"description=Text written when a session starts"`
	Prompt            string  `koanf:"prompt" json:"prompt,omitempty" yaml:"prompt" jsonschema:"description=Text written before each line is read"`
	MaxLine           int     `koanf:"max-line" json:"max-line,omitempty" yaml:"max-line" jsonschema:"minimum=16,maximum=4096"`
	DeviceOpenRetries int     `koanf:"device-open-retries" json:"device-open-retries,omitempty" yaml:"device-open-retries" jsonschema:"minimum=0,maximum=100"`
	RateLimit         float64 `koanf:"rate-limit" json:"rate-limit,omitempty" yaml:"rate-limit" jsonschema:"minimum=0,description=Lines per second per session (0 disables)"`
	Burst             int     `koanf:"burst" json:"burst,omitempty" yaml:"burst" jsonschema:"minimum=1,maximum=1000"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Listen:            "127.0.0.1:2323",
		LogFormat:         "text",
		LogLevel:          "info",
		Banner:            "Type 'help' to view a list of registered commands.",
		Prompt:            "> ",
		MaxLine:           serial.DefaultMaxLine,
		DeviceOpenRetries: 10,
		RateLimit:         20,
		Burst:             10,
	}
}

func (c Config) toMap() map[string]any {
	return map[string]any{
		"listen":              c.Listen,
		"device":              c.Device,
		"metrics-addr":        c.MetricsAddr,
		"log-format":          c.LogFormat,
		"log-level":           c.LogLevel,
		"banner":              c.Banner,
		"prompt":              c.Prompt,
		"max-line":            c.MaxLine,
		"device-open-retries": c.DeviceOpenRetries,
		"rate-limit":          c.RateLimit,
		"burst":               c.Burst,
	}
}

// Load reads path (if non-empty), then overlays flags that were set on fs.
// Unset flags contribute their defaults only where the file is silent.
// fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		fileK := koanf.New(".")
		if err := fileK.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
		}
		if err := ValidateMap(fileK.Raw()); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
		}
		if err := k.Merge(fileK); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).Wrap(err)
		}
	}

	for key, val := range Defaults().toMap() {
		if k.Exists(key) {
			continue
		}
		if err := k.Set(key, val); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).With("key", key).Wrap(err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, oops.Code(CodeInvalidConfig).Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enums, covering values that arrived by flag.
func (c Config) Validate() error {
	if err := ValidateMap(c.toMap()); err != nil {
		return oops.Code(CodeInvalidConfig).Wrap(err)
	}
	return nil
}

// SessionConfig returns the terminal settings for serial sessions.
func (c Config) SessionConfig() serial.SessionConfig {
	return serial.SessionConfig{
		Banner:    c.Banner,
		Prompt:    c.Prompt,
		MaxLine:   c.MaxLine,
		RateLimit: c.RateLimit,
		Burst:     c.Burst,
	}
}

// YAML renders the effective configuration.
func (c Config) YAML() ([]byte, error) {
	out, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	return out, nil
}
