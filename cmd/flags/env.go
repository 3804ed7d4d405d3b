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

package flags

import (
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sboehler/atm/lib/common/date"
	"github.com/sboehler/atm/lib/config"
	"github.com/sboehler/atm/lib/ledger"
	"github.com/sboehler/atm/lib/logging"
	"github.com/sboehler/atm/lib/registry"
	"github.com/sboehler/atm/lib/store"
)

// Env holds everything a command needs to work with the accounts.
type Env struct {
	Config   config.Config
	Log      *zap.Logger
	Store    store.Store
	Registry *registry.Registry
	Engine   *ledger.Engine

	closeLog func() error
}

// Config returns the configuration with flag overrides applied.
func (g *Global) Config(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return cfg, err
	}
	fs := cmd.Flags()
	if fs.Changed("store") {
		cfg.Store.Path = g.StorePath
	}
	if fs.Changed("backend") {
		cfg.Store.Backend = string(g.Backend.Value())
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = g.LogLevel
	}
	if fs.Changed("color") {
		cfg.Color = &g.Color
	}
	return cfg, cfg.Validate()
}

// Open loads the configuration, sets up logging and loads the accounts.
func (g *Global) Open(cmd *cobra.Command) (*Env, error) {
	cfg, err := g.Config(cmd)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	env := &Env{Config: cfg, Log: log, closeLog: closeLog}
	ctx := cmd.Context()
	if env.Store, err = store.Open(ctx, cfg.Backend(), cfg.Store.Path); err != nil {
		log.Error("cannot open store", zap.String("path", cfg.Store.Path), zap.Error(err))
		return nil, multierr.Append(err, closeLog())
	}
	opts := []registry.Option{registry.WithLogger(log)}
	if g.PINs != nil {
		opts = append(opts, registry.WithPINs(g.PINs))
	}
	if env.Registry, err = registry.Load(ctx, env.Store, opts...); err != nil {
		log.Error("cannot load accounts", zap.String("path", cfg.Store.Path), zap.Error(err))
		return nil, multierr.Combine(err, env.Store.Close(), closeLog())
	}
	env.Engine = ledger.New(env.Registry,
		ledger.WithClock(date.Clock(g.Today.Value())),
		ledger.WithLogger(log))
	return env, nil
}

// Close releases the store and flushes the log.
func (e *Env) Close() error {
	return multierr.Combine(e.Store.Close(), e.closeLog())
}
