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
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/sboehler/atm/lib/common/date"
	"github.com/sboehler/atm/lib/model/account"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite stores the accounts in a SQLite database. Every Save replaces the
// collection in a single SQL transaction, guarded by a version counter: a
// Save fails with ErrConflict if another writer saved since the last Load.
type SQLite struct {
	db *sql.DB

	mu      sync.Mutex
	version int64
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, unavailable("create directory", err)
	}
	if err := migrateSQLite(path); err != nil {
		return nil, unavailable("migrate", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, unavailable("open", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, unavailable("ping", multierr.Append(err, db.Close()))
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, unavailable("pragma", multierr.Append(err, db.Close()))
	}
	db.SetMaxOpenConns(1)
	return &SQLite{db: db}, nil
}

func migrateSQLite(path string) (err error) {
	// The migration driver closes its connection, so it gets its own.
	mdb, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(mdb, &sqlite.Config{})
	if err != nil {
		return multierr.Append(err, mdb.Close())
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return multierr.Append(err, driver.Close())
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return multierr.Append(err, driver.Close())
	}
	defer func() {
		srcErr, dbErr := m.Close()
		err = multierr.Combine(err, srcErr, dbErr)
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context) ([]*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("begin", err)
	}
	defer tx.Rollback()

	var version int64
	if err := tx.QueryRowContext(ctx, "SELECT version FROM snapshot WHERE id = 1").Scan(&version); err != nil {
		return nil, unavailable("read version", err)
	}
	accounts, err := loadAccounts(ctx, tx)
	if err != nil {
		return nil, unavailable("load", err)
	}
	if err := account.ValidateAll(accounts); err != nil {
		return nil, unavailable("validate", err)
	}
	s.version = version
	return normalize(accounts), nil
}

func loadAccounts(ctx context.Context, tx *sql.Tx) ([]*account.Account, error) {
	rows, err := tx.QueryContext(ctx, "SELECT seq, account_id, name, pin, balance FROM accounts ORDER BY seq")
	if err != nil {
		return nil, err
	}
	var (
		accounts []*account.Account
		bySeq    = make(map[int64]*account.Account)
	)
	for rows.Next() {
		var (
			seq int64
			a   = new(account.Account)
		)
		if err := rows.Scan(&seq, &a.ID, &a.Name, &a.PIN, &a.Balance); err != nil {
			return nil, multierr.Append(err, rows.Close())
		}
		a.Transactions = []account.Transaction{}
		accounts = append(accounts, a)
		bySeq[seq] = a
	}
	if err := multierr.Append(rows.Err(), rows.Close()); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, "SELECT account_seq, kind, amount, occurred_on FROM transactions ORDER BY account_seq, position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			seq        int64
			kind, day  string
			t          account.Transaction
			parseError error
		)
		if err := rows.Scan(&seq, &kind, &t.Amount, &day); err != nil {
			return nil, err
		}
		a, ok := bySeq[seq]
		if !ok {
			return nil, fmt.Errorf("transaction references unknown account %d", seq)
		}
		if t.Kind, parseError = account.ParseKind(kind); parseError != nil {
			return nil, parseError
		}
		if t.Date, parseError = date.Parse(day); parseError != nil {
			return nil, parseError
		}
		a.Transactions = append(a.Transactions, t)
	}
	return accounts, rows.Err()
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, accounts []*account.Account) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreDone(tx.Rollback()))
		}
	}()
	res, err := tx.ExecContext(ctx, "UPDATE snapshot SET version = version + 1 WHERE id = 1 AND version = ?", s.version)
	if err != nil {
		return unavailable("bump version", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return unavailable("bump version", err)
	} else if n != 1 {
		return unavailable("save", ErrConflict)
	}
	if err := saveAccounts(ctx, tx, accounts); err != nil {
		return unavailable("save", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	s.version++
	return nil
}

func saveAccounts(ctx context.Context, tx *sql.Tx, accounts []*account.Account) error {
	for _, stmt := range []string{"DELETE FROM transactions", "DELETE FROM accounts"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for i, a := range accounts {
		seq := i + 1
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO accounts (seq, account_id, name, pin, balance) VALUES (?, ?, ?, ?, ?)",
			seq, a.ID, a.Name, a.PIN, a.Balance); err != nil {
			return fmt.Errorf("insert account %s: %w", a.ID, err)
		}
		for j, t := range a.Transactions {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO transactions (account_seq, position, kind, amount, occurred_on) VALUES (?, ?, ?, ?, ?)",
				seq, j, t.Kind.String(), t.Amount, date.Format(t.Date)); err != nil {
				return fmt.Errorf("insert transaction %d of account %s: %w", j, a.ID, err)
			}
		}
	}
	return nil
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
