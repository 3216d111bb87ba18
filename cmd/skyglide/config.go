// cmd/skyglide/config.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skyglide/skyglide/log"
	"github.com/skyglide/skyglide/sim"
)

const CurrentConfigVersion = 1

// Config holds the user's choices from the last session.
type Config struct {
	Version  int
	Glider   string
	Task     string
	NumAI    int
	Sound    bool
	PlanView bool
	TickRate int
}

func DefaultConfig() Config {
	return Config{
		Version:  CurrentConfigVersion,
		Glider:   "Paraglider",
		Task:     "ridge",
		NumAI:    4,
		Sound:    true,
		TickRate: sim.DefaultTickRate,
	}
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "Skyglide")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

// DecodeConfig reads a config, filling in defaults for missing fields.
// A config from an older version is discarded.
func DecodeConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return DefaultConfig(), err
	}
	if c.Version != CurrentConfigVersion {
		return DefaultConfig(), nil
	}
	return c, nil
}

func (c *Config) Save(path string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadOrMakeDefaultConfig returns the saved config, or the default one if
// there is none. If the saved config is corrupt, the default is returned
// along with an error.
func LoadOrMakeDefaultConfig(path string, lg *log.Logger) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	} else if err != nil {
		return DefaultConfig(), err
	}
	defer f.Close()

	c, err := DecodeConfig(f)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	lg.Infof("Loaded config from %s", path)
	return c, nil
}
