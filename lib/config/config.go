// Copyright 2024 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the settings of the atm command. Values come from a
// YAML file, then from the environment (optionally seeded from a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"github.com/sboehler/atm/lib/store"
)

// Environment variables overriding the file.
const (
	EnvStoreBackend = "ATM_STORE_BACKEND"
	EnvStorePath    = "ATM_STORE_PATH"
	EnvLogLevel     = "ATM_LOG_LEVEL"
	EnvLogFile      = "ATM_LOG_FILE"
	EnvColor        = "ATM_COLOR"
)

// Config is the configuration. A nil Color leaves the decision to the
// terminal detection of the color package.
type Config struct {
	Store Store `yaml:"store"`
	Log   Log   `yaml:"log"`
	Color *bool `yaml:"color"`
}

// UseColor reports whether output should be colored.
func (c Config) UseColor() bool {
	if c.Color != nil {
		return *c.Color
	}
	return !color.NoColor
}

// Store configures the account store.
type Store struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Log configures logging. An empty file logs to standard error.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Store: Store{
			Backend: string(store.JSON),
			Path:    "users.json",
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// Load reads the YAML file at path, if any, and applies environment
// overrides. The given env files are loaded into the environment first; if
// none are given, a .env file in the working directory is used if present.
// The result is not validated, so that callers can apply their own overrides
// before calling Validate.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := loadEnv(envFiles); err != nil {
		return cfg, err
	}
	return cfg, cfg.applyEnv()
}

func readFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func loadEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf(".env: %w", err)
		}
		return nil
	}
	return godotenv.Load(files...)
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvStoreBackend); ok {
		c.Store.Backend = v
	}
	if v, ok := os.LookupEnv(EnvStorePath); ok {
		c.Store.Path = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		c.Log.File = v
	}
	if v, ok := os.LookupEnv(EnvColor); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvColor, err)
		}
		c.Color = &b
	}
	return nil
}

// Validate reports all invalid settings.
func (c Config) Validate() error {
	var err error
	if _, e := store.ParseBackend(c.Store.Backend); e != nil {
		err = multierr.Append(err, e)
	}
	if c.Store.Path == "" {
		err = multierr.Append(err, errors.New("store path must not be empty"))
	}
	if _, e := zapcore.ParseLevel(c.Log.Level); e != nil {
		err = multierr.Append(err, fmt.Errorf("log level: %w", e))
	}
	return err
}

// Backend returns the parsed store backend.
func (c Config) Backend() store.Backend {
	b, _ := store.ParseBackend(c.Store.Backend)
	return b
}
