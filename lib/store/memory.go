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

package store

import (
	"context"
	"sync"

	"github.com/sboehler/atm/lib/model/account"
)

// Memory keeps the accounts in memory. Err, if set, is returned by Save.
type Memory struct {
	mu       sync.Mutex
	accounts []*account.Account
	saves    int
	Err      error
}

var _ Store = (*Memory)(nil)

// NewMemory creates a memory store holding copies of the given accounts.
func NewMemory(accounts ...*account.Account) *Memory {
	return &Memory{accounts: clone(accounts)}
}

// Load implements Store.
func (s *Memory) Load(ctx context.Context) ([]*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return normalize(clone(s.accounts)), nil
}

// Save implements Store.
func (s *Memory) Save(ctx context.Context, accounts []*account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return unavailable("save", s.Err)
	}
	s.accounts = clone(accounts)
	s.saves++
	return nil
}

// Saves returns the number of successful saves.
func (s *Memory) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close implements Store.
func (s *Memory) Close() error {
	return nil
}

func clone(accounts []*account.Account) []*account.Account {
	res := make([]*account.Account, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, a.Clone())
	}
	return res
}
