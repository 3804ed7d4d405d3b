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

// Package account contains the account and transaction records kept in the
// store.
package account

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// IDPrefix is the fixed prefix of every account identifier.
const IDPrefix = "ACC"

// Account is a ledger holder together with its credential, balance and
// transaction history.
type Account struct {
	ID           string        `json:"accountID"`
	Name         string        `json:"name"`
	PIN          string        `json:"pin"`
	Balance      int64         `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// New creates an account with zero balance and empty history.
func New(id, name, pin string) *Account {
	return &Account{
		ID:           id,
		Name:         name,
		PIN:          pin,
		Transactions: []Transaction{},
	}
}

// Matches returns whether the given credentials match this account.
func (a *Account) Matches(id, pin string) bool {
	return a.ID == id && a.PIN == pin
}

// Append adds a transaction to the history and updates the balance.
func (a *Account) Append(t Transaction) {
	a.Transactions = append(a.Transactions, t)
	a.Balance += t.Signed()
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	c.Transactions = make([]Transaction, len(a.Transactions))
	copy(c.Transactions, a.Transactions)
	return &c
}

// Number returns the numeric part of the account identifier.
func (a *Account) Number() (int, error) {
	return ParseID(a.ID)
}

// ParseID returns the numeric suffix of an identifier. The suffix must
// consist of digits only.
func ParseID(id string) (int, error) {
	if !strings.HasPrefix(id, IDPrefix) {
		return 0, fmt.Errorf("identifier %q lacks prefix %q", id, IDPrefix)
	}
	suffix := id[len(IDPrefix):]
	n, err := strconv.Atoi(suffix)
	if err != nil || strings.TrimLeft(suffix, "0123456789") != "" {
		return 0, fmt.Errorf("identifier %q has no numeric suffix", id)
	}
	return n, nil
}

// FormatID creates an identifier from a number.
func FormatID(n int) string {
	return IDPrefix + strconv.Itoa(n)
}

// Validate verifies that the account is well-formed: a parsable identifier,
// a non-negative balance and well-formed transactions.
func (a *Account) Validate() error {
	var err error
	if a.ID == "" {
		err = multierr.Append(err, fmt.Errorf("account %q: empty identifier", a.Name))
	} else if _, e := ParseID(a.ID); e != nil {
		err = multierr.Append(err, fmt.Errorf("account %s: %w", a.ID, e))
	}
	for i, t := range a.Transactions {
		if e := t.Check(); e != nil {
			err = multierr.Append(err, fmt.Errorf("account %s: transaction %d: %w", a.ID, i, e))
		}
	}
	if a.Balance < 0 {
		err = multierr.Append(err, fmt.Errorf("account %s: negative balance %d", a.ID, a.Balance))
	}
	return err
}

// Check validates the account and verifies that the balance equals the sum
// of the history.
func (a *Account) Check() error {
	var sum int64
	for _, t := range a.Transactions {
		sum += t.Signed()
	}
	err := a.Validate()
	if sum != a.Balance {
		err = multierr.Append(err, fmt.Errorf("account %s: balance %d does not match history total %d", a.ID, a.Balance, sum))
	}
	return err
}

// ValidateAll validates every account and verifies that identifiers are
// unique.
func ValidateAll(accounts []*Account) error {
	return all(accounts, (*Account).Validate)
}

// CheckAll checks every account and verifies that identifiers are unique.
func CheckAll(accounts []*Account) error {
	return all(accounts, (*Account).Check)
}

func all(accounts []*Account, f func(*Account) error) error {
	var (
		err  error
		seen = make(map[string]bool, len(accounts))
	)
	for _, a := range accounts {
		err = multierr.Append(err, f(a))
		if seen[a.ID] {
			err = multierr.Append(err, fmt.Errorf("account %s: duplicate identifier", a.ID))
		}
		seen[a.ID] = true
	}
	return err
}
