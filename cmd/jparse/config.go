// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"jparse/ast"
)

// configFileName is the optional settings file, discovered upward from the
// working directory so a project root can pin defaults for a whole tree.
const configFileName = "jparse.toml"

type config struct {
	Parse  parseConfig  `toml:"parse"`
	Output outputConfig `toml:"output"`
}

type parseConfig struct {
	MaxDepth int `toml:"max-depth"`
	Jobs     int `toml:"jobs"`
}

type outputConfig struct {
	Color string `toml:"color"`
}

func defaultConfig() config {
	return config{
		Parse:  parseConfig{MaxDepth: ast.DefaultMaxDepth},
		Output: outputConfig{Color: "auto"},
	}
}

// findConfig searches startDir and its parents for a jparse.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig returns the settings from the nearest jparse.toml, or the
// defaults when no config file exists.  Explicit flags override whatever is
// loaded here.
func loadConfig(startDir string) (config, error) {
	cfg := defaultConfig()
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Parse.MaxDepth <= 0 {
		cfg.Parse.MaxDepth = ast.DefaultMaxDepth
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Output.Color {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("invalid color mode %q (want auto, on or off)", c.Output.Color)
	}
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("invalid jobs value %d", c.Parse.Jobs)
	}
	return nil
}
