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

// Package ledger applies deposits and withdrawals to accounts.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sboehler/atm/lib/common/date"
	"github.com/sboehler/atm/lib/model/account"
)

var (
	// ErrAccountNotFound is returned if identifier and PIN do not match an account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAmount is returned for non-numeric, fractional or non-positive amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds is returned if a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Accounts gives access to the resident accounts.
type Accounts interface {
	Authenticate(id, pin string) (*account.Account, error)
	Save(ctx context.Context) error
}

// Engine executes ledger operations. Every operation either succeeds and is
// persisted, or leaves the account unchanged.
type Engine struct {
	accounts Accounts
	today    func() time.Time
	log      *zap.Logger

	mu sync.Mutex
}

// Option configures an engine.
type Option func(*Engine)

// WithClock sets the source of the transaction date.
func WithClock(today func() time.Time) Option {
	return func(e *Engine) { e.today = today }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine.
func New(accounts Accounts, opts ...Option) *Engine {
	e := &Engine{
		accounts: accounts,
		today:    date.Today,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Balance returns the current balance.
func (e *Engine) Balance(id, pin string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.lookup(id, pin)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Deposit adds amount to the balance and returns the new balance.
func (e *Engine) Deposit(ctx context.Context, id, pin string, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amount <= 0 {
		return 0, invalid(amount)
	}
	a, err := e.lookup(id, pin)
	if err != nil {
		return 0, err
	}
	if a.Balance > math.MaxInt64-amount {
		return 0, fmt.Errorf("%w: balance would overflow", ErrInvalidAmount)
	}
	return e.apply(ctx, a, account.Deposit, amount)
}

// Withdraw subtracts amount from the balance and returns the new balance.
// It declines with ErrInsufficientFunds if amount exceeds the balance.
func (e *Engine) Withdraw(ctx context.Context, id, pin string, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amount <= 0 {
		return 0, invalid(amount)
	}
	a, err := e.lookup(id, pin)
	if err != nil {
		return 0, err
	}
	if amount > a.Balance {
		e.log.Debug("withdrawal declined",
			zap.String("account", id), zap.Int64("amount", amount), zap.Int64("balance", a.Balance))
		return a.Balance, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, a.Balance, amount)
	}
	return e.apply(ctx, a, account.Withdrawal, amount)
}

// History returns the transactions in chronological order. An account
// without transactions yields an empty slice.
func (e *Engine) History(id, pin string) ([]account.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.lookup(id, pin)
	if err != nil {
		return nil, err
	}
	res := make([]account.Transaction, len(a.Transactions))
	copy(res, a.Transactions)
	return res, nil
}

// Owner returns the display name of the account.
func (e *Engine) Owner(id, pin string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.lookup(id, pin)
	if err != nil {
		return "", err
	}
	return a.Name, nil
}

func (e *Engine) lookup(id, pin string) (*account.Account, error) {
	a, err := e.accounts.Authenticate(id, pin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
	}
	return a, nil
}

func (e *Engine) apply(ctx context.Context, a *account.Account, kind account.Kind, amount int64) (int64, error) {
	backup := a.Clone()
	a.Append(account.Transaction{
		Kind:   kind,
		Amount: amount,
		Date:   e.today(),
	})
	if err := e.accounts.Save(ctx); err != nil {
		*a = *backup
		return 0, err
	}
	e.log.Debug("applied transaction",
		zap.String("account", a.ID),
		zap.Stringer("kind", kind),
		zap.Int64("amount", amount),
		zap.Int64("balance", a.Balance))
	return a.Balance, nil
}

func invalid(amount int64) error {
	return fmt.Errorf("%w: %d is not positive", ErrInvalidAmount, amount)
}

var (
	maxAmount     = decimal.NewFromInt(math.MaxInt64)
	amountPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
)

// ParseAmount parses a positive whole amount. Fractional input is rejected,
// not truncated. Exponents are not accepted.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	switch {
	case !d.IsInteger():
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidAmount, s)
	case !d.IsPositive():
		return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, s)
	case d.GreaterThan(maxAmount):
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	return d.IntPart(), nil
}
