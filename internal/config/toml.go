// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play PlayConfig `toml:"play"`
	Sync SyncConfig `toml:"sync"`
	Log  LogConfig  `toml:"log"`
}

// PlayConfig maps session settings.
type PlayConfig struct {
	Rounds       *int  `toml:"rounds"`
	Difficulty   *int  `toml:"difficulty"`
	Countdown    *int  `toml:"countdown"`
	Practice     *bool `toml:"practice"`
	PlayableOnly *bool `toml:"playable-only"`
}

// SyncConfig maps the remote results mirror.
type SyncConfig struct {
	UserID       *string   `toml:"user-id"`
	Endpoint     *string   `toml:"endpoint"`
	KafkaBrokers *[]string `toml:"kafka-brokers"`
	KafkaTopic   *string   `toml:"kafka-topic"`
	Timeout      *Duration `toml:"timeout"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
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
