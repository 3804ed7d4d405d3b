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

package teller

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sboehler/atm/lib/common/date"
	"github.com/sboehler/atm/lib/common/table"
	"github.com/sboehler/atm/lib/ledger"
	"github.com/sboehler/atm/lib/model/account"
)

// State is the state of a session.
type State int

const (
	// Idle waits for a menu choice.
	Idle State = iota
	// Querying shows the balance.
	Querying
	// Depositing runs a deposit.
	Depositing
	// Withdrawing runs a withdrawal.
	Withdrawing
	// Reviewing shows the history.
	Reviewing
	// Closed is the terminal state.
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Querying:
		return "querying"
	case Depositing:
		return "depositing"
	case Withdrawing:
		return "withdrawing"
	case Reviewing:
		return "reviewing"
	case Closed:
		return "closed"
	}
	return ""
}

// ErrNotAuthenticated is returned by Run before a successful Login.
var ErrNotAuthenticated = errors.New("session is not authenticated")

// Ledger executes the operations offered by the menu.
type Ledger interface {
	Owner(id, pin string) (string, error)
	Balance(id, pin string) (int64, error)
	Deposit(ctx context.Context, id, pin string, amount int64) (int64, error)
	Withdraw(ctx context.Context, id, pin string, amount int64) (int64, error)
	History(id, pin string) ([]account.Transaction, error)
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(id, pin string) (*account.Account, error)
}

// Session is one authenticated interactive run.
type Session struct {
	ledger  Ledger
	prompt  Prompter
	out     io.Writer
	log     *zap.Logger
	color   bool
	printer *message.Printer
	ok      *color.Color
	fail    *color.Color

	state   State
	id, pin string
}

// Option configures a session.
type Option func(*Session)

// WithColor enables colored output.
func WithColor(c bool) Option {
	return func(s *Session) { s.color = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session. Output goes to out.
func NewSession(l Ledger, p Prompter, out io.Writer, opts ...Option) *Session {
	s := &Session{
		ledger:  l,
		prompt:  p,
		out:     out,
		log:     zap.NewNop(),
		printer: message.NewPrinter(language.English),
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		state:   Closed,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.color {
		s.ok.EnableColor()
		s.fail.EnableColor()
	} else {
		s.ok.DisableColor()
		s.fail.DisableColor()
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Login asks for credentials. On success the session becomes idle.
func (s *Session) Login(auth Authenticator) error {
	s.println("Welcome to the authentication system.")
	id, pin, err := AskCredentials(s.prompt)
	if err != nil {
		s.failf("Error occurred during authentication: %v\n", err)
		return err
	}
	if _, err := auth.Authenticate(id, pin); err != nil {
		s.log.Info("authentication failed", zap.String("account", id))
		s.failf("Authentication failed. Please check your credentials.\n")
		return err
	}
	s.log.Info("session opened", zap.String("account", id))
	s.id, s.pin, s.state = id, pin, Idle
	return nil
}

// AskCredentials asks for account identifier and PIN.
func AskCredentials(p Prompter) (id, pin string, err error) {
	if id, err = p.Ask("Enter your account ID: "); err != nil {
		return "", "", err
	}
	if pin, err = p.Ask("Enter your PIN: "); err != nil {
		return "", "", err
	}
	return id, pin, nil
}

// Run shows the menu until the user exits or the input ends. Expected
// errors are reported and never end the loop.
func (s *Session) Run(ctx context.Context) error {
	if s.state == Closed {
		return ErrNotAuthenticated
	}
	defer func() { s.state = Closed }()
	for s.state != Closed {
		if err := ctx.Err(); err != nil {
			return err
		}
		answer, err := s.prompt.Ask(menu())
		if errors.Is(err, io.EOF) {
			s.println("")
			return nil
		}
		if err != nil {
			s.failf("Error occurred in the menu: %v\n", err)
			return nil
		}
		choice, ok := ParseChoice(answer)
		if !ok {
			s.failf("Invalid choice.\n")
			continue
		}
		s.Dispatch(ctx, choice)
	}
	return nil
}

// Dispatch executes one menu choice.
func (s *Session) Dispatch(ctx context.Context, c Choice) {
	if s.state == Closed {
		return
	}
	switch c {
	case CheckBalance:
		s.state = Querying
		s.checkBalance()
	case Deposit:
		s.state = Depositing
		s.deposit(ctx)
	case Withdraw:
		s.state = Withdrawing
		s.withdraw(ctx)
	case History:
		s.state = Reviewing
		s.history()
	case Exit:
		s.log.Info("session closed", zap.String("account", s.id))
		s.state = Closed
		return
	}
	s.state = Idle
}

func (s *Session) checkBalance() {
	name, err := s.ledger.Owner(s.id, s.pin)
	if err != nil {
		s.report("balance", err)
		return
	}
	balance, err := s.ledger.Balance(s.id, s.pin)
	if err != nil {
		s.report("balance", err)
		return
	}
	s.println(s.printer.Sprintf("Hello %s, your balance is %d", name, balance))
}

func (s *Session) deposit(ctx context.Context) {
	amount, err := s.askAmount("Enter the amount you want to deposit: ")
	if err != nil {
		s.report("deposit", err)
		return
	}
	balance, err := s.ledger.Deposit(ctx, s.id, s.pin, amount)
	if err != nil {
		s.report("deposit", err)
		return
	}
	s.okf("Deposit of $%d successful.\n", amount)
	s.println(s.printer.Sprintf("New balance: $%d", balance))
}

func (s *Session) withdraw(ctx context.Context) {
	amount, err := s.askAmount("Enter the amount you want to withdraw: ")
	if err != nil {
		s.report("withdrawal", err)
		return
	}
	balance, err := s.ledger.Withdraw(ctx, s.id, s.pin, amount)
	if err != nil {
		s.report("withdrawal", err)
		return
	}
	s.okf("Withdrawal of $%d successful.\n", amount)
	s.println(s.printer.Sprintf("New balance: $%d", balance))
}

func (s *Session) history() {
	name, err := s.ledger.Owner(s.id, s.pin)
	if err != nil {
		s.report("history", err)
		return
	}
	txs, err := s.ledger.History(s.id, s.pin)
	if err != nil {
		s.report("history", err)
		return
	}
	if len(txs) == 0 {
		s.println("No transaction history available.")
		return
	}
	s.println(fmt.Sprintf("Transaction history for %s:", name))
	r := table.TextRenderer{Color: s.color}
	if err := r.Render(Statement(txs), s.out); err != nil {
		s.log.Error("rendering history failed", zap.Error(err))
	}
}

// Statement builds a table listing the transactions.
func Statement(txs []account.Transaction) *table.Table {
	t := table.New(3)
	t.AddSeparatorRow()
	t.AddRow().AddText("Date", table.Center).AddText("Type", table.Center).AddText("Amount", table.Center)
	t.AddSeparatorRow()
	for _, tx := range txs {
		t.AddRow().
			AddText(date.Format(tx.Date), table.Left).
			AddText(tx.Kind.String(), table.Left).
			AddNumber(decimal.NewFromInt(tx.Signed()))
	}
	t.AddSeparatorRow()
	return t
}

func (s *Session) askAmount(question string) (int64, error) {
	answer, err := s.prompt.Ask(question)
	if err != nil {
		return 0, err
	}
	return ledger.ParseAmount(answer)
}

func (s *Session) report(op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		s.failf("Insufficient balance.\n")
	case errors.Is(err, ledger.ErrAccountNotFound):
		s.failf("User not found.\n")
	default:
		s.log.Warn("operation failed", zap.String("op", op), zap.String("account", s.id), zap.Error(err))
		s.failf("Error occurred during %s: %v\n", op, err)
	}
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) okf(format string, args ...interface{}) {
	s.ok.Fprint(s.out, s.printer.Sprintf(format, args...))
}

func (s *Session) failf(format string, args ...interface{}) {
	s.fail.Fprint(s.out, s.printer.Sprintf(format, args...))
}
