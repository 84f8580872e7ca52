// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test     TestConfig     `toml:"test"`
	Display  DisplayConfig  `toml:"display"`
	Provider ProviderConfig `toml:"provider"`
	Log      LogConfig      `toml:"log"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Mode     *string `toml:"mode"`
	Duration *int    `toml:"duration"`
	Words    *int    `toml:"words"`
	Topic    *string `toml:"topic"`
}

// DisplayConfig maps appearance settings.
type DisplayConfig struct {
	Theme  *string `toml:"theme"`
	Sound  *bool   `toml:"sound"`
	Smooth *int    `toml:"smooth"`
}

// ProviderConfig maps passage provider settings.
type ProviderConfig struct {
	Backend   *string   `toml:"backend"`
	Model     *string   `toml:"model"`
	BaseURL   *string   `toml:"base-url"`
	APIKeyEnv *string   `toml:"api-key-env"`
	Timeout   *Duration `toml:"timeout"`
	WordList  *string   `toml:"wordlist"`
}

// LogConfig maps diagnostic log settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
