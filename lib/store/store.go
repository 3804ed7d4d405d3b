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

// Package store persists the full collection of accounts.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sboehler/atm/lib/model/account"
)

// ErrStoreUnavailable is returned when the backing medium cannot be read or
// written, or when its content is not well-formed.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrConflict is returned when the collection was modified by someone else
// since it was loaded.
var ErrConflict = errors.New("concurrent modification")

// Store is a durable collection of accounts. Reads and writes always cover
// the whole collection, in insertion order.
type Store interface {
	Load(ctx context.Context) ([]*account.Account, error)
	Save(ctx context.Context, accounts []*account.Account) error
	Close() error
}

// Backend names a store implementation.
type Backend string

const (
	// JSON stores accounts in a single JSON file.
	JSON Backend = "json"
	// SQL stores accounts in a SQLite database.
	SQL Backend = "sqlite"
)

// Backends lists the supported backends.
var Backends = []Backend{JSON, SQL}

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	for _, b := range Backends {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown store backend %q (want one of %v)", s, Backends)
}

// Open opens the store at the given path.
func Open(ctx context.Context, b Backend, path string) (Store, error) {
	switch b {
	case JSON:
		return NewJSONFile(path), nil
	case SQL:
		return OpenSQLite(ctx, path)
	}
	return nil, fmt.Errorf("unknown store backend %q", b)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func normalize(accounts []*account.Account) []*account.Account {
	if accounts == nil {
		return []*account.Account{}
	}
	for _, a := range accounts {
		if a.Transactions == nil {
			a.Transactions = []account.Transaction{}
		}
	}
	return accounts
}
