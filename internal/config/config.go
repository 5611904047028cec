// Package config loads the shared TOML configuration used by the CLI tools.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DefaultPort is the packet logger's conventional local port.
const DefaultPort = 63247

// Config holds the parameters shared by the CLI tools.
type Config struct {
	Port   int    `toml:"port"`   // packet-logger server port on localhost
	Listen string `toml:"listen"` // feed listen address (packetfeed only)
	Debug  bool   `toml:"debug"`  // enable debug logging
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		Port:   DefaultPort,
		Listen: "127.0.0.1:0",
		Debug:  false,
	}
}

// Load reads a TOML file over the defaults. Only keys present in the file
// override; absent keys keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("listen") {
		cfg.Listen = raw.Listen
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 1~65535", c.Port)
	}
	return nil
}
