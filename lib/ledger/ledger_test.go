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

package ledger

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sboehler/atm/lib/common/date"
	"github.com/sboehler/atm/lib/model/account"
	"github.com/sboehler/atm/lib/registry"
	"github.com/sboehler/atm/lib/store"
)

var today = date.Date(2024, 3, 1)

type fixture struct {
	store    *store.Memory
	registry *registry.Registry
	engine   *Engine
}

func setup(t *testing.T, accounts ...*account.Account) *fixture {
	t.Helper()
	s := store.NewMemory(accounts...)
	r, err := registry.Load(context.Background(), s, registry.WithPINs(func() string { return "4821" }))
	if err != nil {
		t.Fatalf("registry.Load(): %v", err)
	}
	return &fixture{
		store:    s,
		registry: r,
		engine:   New(r, WithClock(func() time.Time { return today })),
	}
}

func TestScenario(t *testing.T) {
	var (
		ctx = context.Background()
		f   = setup(t)
	)
	a, err := f.registry.Register(ctx, "Ana")
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}
	if a.ID != "ACC1001" || a.Balance != 0 || len(a.Transactions) != 0 {
		t.Fatalf("Register(): unexpected account %+v", a)
	}

	if got, err := f.engine.Deposit(ctx, a.ID, a.PIN, 100); err != nil || got != 100 {
		t.Fatalf("Deposit(100): Got %d, %v, wanted 100", got, err)
	}
	if _, err := f.engine.Withdraw(ctx, a.ID, a.PIN, 150); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Withdraw(150): Got %v, wanted %v", err, ErrInsufficientFunds)
	}
	if got, _ := f.engine.Balance(a.ID, a.PIN); got != 100 {
		t.Fatalf("Balance(): Got %d, wanted 100", got)
	}
	if got, err := f.engine.Withdraw(ctx, a.ID, a.PIN, 40); err != nil || got != 60 {
		t.Fatalf("Withdraw(40): Got %d, %v, wanted 60", got, err)
	}

	got, err := f.engine.History(a.ID, a.PIN)
	if err != nil {
		t.Fatalf("History(): %v", err)
	}
	want := []account.Transaction{
		{Kind: account.Deposit, Amount: 100, Date: today},
		{Kind: account.Withdrawal, Amount: 40, Date: today},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected diff (-want,+got):\n%s\n", diff)
	}
	stored, _ := f.store.Load(ctx)
	if diff := cmp.Diff(want, stored[0].Transactions); diff != "" {
		t.Fatalf("unexpected stored diff (-want,+got):\n%s\n", diff)
	}
	if stored[0].Balance != 60 {
		t.Fatalf("stored balance: Got %d, wanted 60", stored[0].Balance)
	}
}

func TestBalanceInvariant(t *testing.T) {
	var (
		ctx      = context.Background()
		f        = setup(t, account.New("ACC1001", "Ana", "4821"))
		rnd      = rand.New(rand.NewSource(42))
		sum      int64
		last     int64
		ops      int
		declined int
	)
	for i := 0; i < 500; i++ {
		var (
			amount = rnd.Int63n(200) + 1
			got    int64
			err    error
		)
		if rnd.Intn(2) == 0 {
			got, err = f.engine.Deposit(ctx, "ACC1001", "4821", amount)
			if err == nil {
				sum += amount
			}
		} else {
			got, err = f.engine.Withdraw(ctx, "ACC1001", "4821", amount)
			if errors.Is(err, ErrInsufficientFunds) {
				declined++
				continue
			}
			if err == nil {
				sum -= amount
			}
		}
		if err != nil {
			t.Fatalf("operation %d: unexpected error %v", i, err)
		}
		if got < 0 {
			t.Fatalf("operation %d: negative balance %d", i, got)
		}
		last = got
		ops++
	}
	balance, err := f.engine.Balance("ACC1001", "4821")
	if err != nil {
		t.Fatalf("Balance(): %v", err)
	}
	if balance != sum || balance != last {
		t.Fatalf("Balance(): Got %d, wanted %d (last result %d)", balance, sum, last)
	}
	history, _ := f.engine.History("ACC1001", "4821")
	if len(history) != ops {
		t.Fatalf("History(): Got %d entries, wanted %d", len(history), ops)
	}
	if f.store.Saves() != ops {
		t.Fatalf("Saves(): Got %d, wanted %d", f.store.Saves(), ops)
	}
	if declined == 0 {
		t.Fatalf("expected some withdrawals to be declined")
	}
	stored, _ := f.store.Load(ctx)
	if err := account.CheckAll(stored); err != nil {
		t.Fatalf("CheckAll(): %v", err)
	}
}

func TestRejections(t *testing.T) {
	seeded := account.New("ACC1001", "Ana", "4821")
	seeded.Append(account.Transaction{Kind: account.Deposit, Amount: 50, Date: today})

	var tests = []struct {
		desc    string
		op      func(*Engine) (int64, error)
		wantErr error
	}{
		{
			desc:    "deposit zero",
			op:      func(e *Engine) (int64, error) { return e.Deposit(context.Background(), "ACC1001", "4821", 0) },
			wantErr: ErrInvalidAmount,
		},
		{
			desc:    "deposit negative",
			op:      func(e *Engine) (int64, error) { return e.Deposit(context.Background(), "ACC1001", "4821", -10) },
			wantErr: ErrInvalidAmount,
		},
		{
			desc:    "deposit overflow",
			op:      func(e *Engine) (int64, error) { return e.Deposit(context.Background(), "ACC1001", "4821", math.MaxInt64) },
			wantErr: ErrInvalidAmount,
		},
		{
			desc:    "withdraw zero",
			op:      func(e *Engine) (int64, error) { return e.Withdraw(context.Background(), "ACC1001", "4821", 0) },
			wantErr: ErrInvalidAmount,
		},
		{
			desc:    "withdraw too much",
			op:      func(e *Engine) (int64, error) { return e.Withdraw(context.Background(), "ACC1001", "4821", 51) },
			wantErr: ErrInsufficientFunds,
		},
		{
			desc:    "deposit wrong pin",
			op:      func(e *Engine) (int64, error) { return e.Deposit(context.Background(), "ACC1001", "4822", 10) },
			wantErr: ErrAccountNotFound,
		},
		{
			desc:    "withdraw unknown account",
			op:      func(e *Engine) (int64, error) { return e.Withdraw(context.Background(), "ACC1002", "4821", 10) },
			wantErr: ErrAccountNotFound,
		},
		{
			desc:    "balance wrong pin",
			op:      func(e *Engine) (int64, error) { return e.Balance("ACC1001", "0000") },
			wantErr: ErrAccountNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			f := setup(t, seeded)

			_, err := test.op(f.engine)

			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Got %v, wanted %v", err, test.wantErr)
			}
			got, _ := f.store.Load(context.Background())
			if diff := cmp.Diff([]*account.Account{seeded}, got); diff != "" {
				t.Fatalf("unexpected diff (-want,+got):\n%s\n", diff)
			}
			if f.store.Saves() != 0 {
				t.Fatalf("Saves(): Got %d, wanted 0", f.store.Saves())
			}
			h, err := f.engine.History("ACC1001", "4821")
			if err != nil || len(h) != 1 {
				t.Fatalf("History(): Got %v, %v", h, err)
			}
		})
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	var (
		ctx = context.Background()
		f   = setup(t, account.New("ACC1001", "Ana", "4821"))
	)
	if _, err := f.engine.Deposit(ctx, "ACC1001", "4821", 30); err != nil {
		t.Fatalf("Deposit(): %v", err)
	}
	f.store.Err = errors.New("disk full")

	if _, err := f.engine.Deposit(ctx, "ACC1001", "4821", 20); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("Deposit(): Got %v, wanted %v", err, store.ErrStoreUnavailable)
	}
	if _, err := f.engine.Withdraw(ctx, "ACC1001", "4821", 10); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("Withdraw(): Got %v, wanted %v", err, store.ErrStoreUnavailable)
	}

	if got, _ := f.engine.Balance("ACC1001", "4821"); got != 30 {
		t.Fatalf("Balance(): Got %d, wanted 30", got)
	}
	if h, _ := f.engine.History("ACC1001", "4821"); len(h) != 1 {
		t.Fatalf("History(): Got %d entries, wanted 1", len(h))
	}
}

func TestHistoryEmpty(t *testing.T) {
	f := setup(t, account.New("ACC1001", "Ana", "4821"))

	got, err := f.engine.History("ACC1001", "4821")

	if err != nil {
		t.Fatalf("History(): %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("History(): Got %#v, wanted empty slice", got)
	}
}

func TestHistoryIsCopy(t *testing.T) {
	var (
		ctx = context.Background()
		f   = setup(t, account.New("ACC1001", "Ana", "4821"))
	)
	if _, err := f.engine.Deposit(ctx, "ACC1001", "4821", 5); err != nil {
		t.Fatalf("Deposit(): %v", err)
	}
	h, _ := f.engine.History("ACC1001", "4821")
	h[0].Amount = 1000

	again, _ := f.engine.History("ACC1001", "4821")
	if again[0].Amount != 5 {
		t.Fatalf("History() exposes resident state")
	}
}

func TestParseAmount(t *testing.T) {
	var tests = []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "100", want: 100},
		{input: " 42 ", want: 42},
		{input: "1.0", want: 1},
		{input: "9223372036854775807", want: math.MaxInt64},
		{input: "9223372036854775808", wantErr: true},
		{input: "12.5", wantErr: true},
		{input: "0.99", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "1e3", wantErr: true},
		{input: "1E3", wantErr: true},
		{input: "1e100000000", wantErr: true},
		{input: "00000000000000000000000000000000000001", want: 1},
	}
	for _, test := range tests {
		got, err := ParseAmount(test.input)
		if test.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q): Got %d, %v, wanted %v", test.input, got, err, ErrInvalidAmount)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseAmount(%q): Got %d, wanted %d", test.input, got, test.want)
		}
	}
}
