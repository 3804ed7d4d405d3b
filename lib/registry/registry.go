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

// Package registry creates and authenticates accounts. It owns the resident
// copy of the account collection.
package registry

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sboehler/atm/lib/model/account"
	"github.com/sboehler/atm/lib/store"
)

var (
	// ErrAuthFailure is returned if no account matches the credentials.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrEmptyName is returned when registering without a display name.
	ErrEmptyName = errors.New("display name must not be empty")
)

// Registry holds the accounts loaded from a store.
type Registry struct {
	store store.Store
	pins  func() string
	log   *zap.Logger

	mu       sync.Mutex
	accounts []*account.Account
}

// Option configures a registry.
type Option func(*Registry)

// WithPINs sets the PIN generator.
func WithPINs(f func() string) Option {
	return func(r *Registry) { r.pins = f }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// Load creates a registry holding the accounts currently in the store.
func Load(ctx context.Context, s store.Store, opts ...Option) (*Registry, error) {
	r := &Registry{
		store: s,
		pins:  PINs(nil),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	accounts, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.accounts = accounts
	r.log.Debug("loaded accounts", zap.Int("count", len(accounts)))
	return r, nil
}

// Register creates a new account, persists the collection and returns the
// account. The returned PIN cannot be recovered later.
func (r *Registry) Register(ctx context.Context, name string) (*account.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := NextID(r.accounts)
	if err != nil {
		return nil, err
	}
	a := account.New(id, name, r.pins())
	r.accounts = append(r.accounts, a)
	if err := r.store.Save(ctx, r.accounts); err != nil {
		r.accounts = r.accounts[:len(r.accounts)-1]
		r.log.Error("register failed", zap.String("account", id), zap.Error(err))
		return nil, err
	}
	r.log.Debug("registered account", zap.String("account", id))
	return a.Clone(), nil
}

// Authenticate returns the account matching identifier and PIN exactly. It
// succeeds only if exactly one account matches. The result is the resident
// record, not a copy.
func (r *Registry) Authenticate(id, pin string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *account.Account
	for _, a := range r.accounts {
		if !a.Matches(id, pin) {
			continue
		}
		if found != nil {
			return nil, ErrAuthFailure
		}
		found = a
	}
	if found == nil {
		r.log.Debug("authentication failed", zap.String("account", id))
		return nil, ErrAuthFailure
	}
	return found, nil
}

// Save persists the resident collection.
func (r *Registry) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(ctx, r.accounts); err != nil {
		r.log.Error("save failed", zap.Error(err))
		return err
	}
	return nil
}

// Accounts returns copies of all accounts in insertion order.
func (r *Registry) Accounts() []*account.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*account.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		res = append(res, a.Clone())
	}
	return res
}
