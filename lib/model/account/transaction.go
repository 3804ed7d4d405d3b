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

package account

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sboehler/atm/lib/common/date"
)

// Kind is the kind of a transaction.
type Kind int

const (
	// Deposit increases the balance.
	Deposit Kind = iota
	// Withdrawal decreases the balance.
	Withdrawal
)

func (k Kind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	}
	return ""
}

// ParseKind parses a record tag.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "deposit":
		return Deposit, nil
	case "withdrawal":
		return Withdrawal, nil
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	s := k.String()
	if s == "" {
		return nil, fmt.Errorf("invalid transaction kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Transaction is an immutable record of one balance change.
type Transaction struct {
	Kind   Kind
	Amount int64
	Date   time.Time
}

// Signed returns the amount with the sign of its effect on the balance.
func (t Transaction) Signed() int64 {
	if t.Kind == Withdrawal {
		return -t.Amount
	}
	return t.Amount
}

// Check verifies that the transaction is well-formed.
func (t Transaction) Check() error {
	if t.Kind != Deposit && t.Kind != Withdrawal {
		return fmt.Errorf("invalid kind %d", int(t.Kind))
	}
	if t.Amount <= 0 {
		return fmt.Errorf("non-positive amount %d", t.Amount)
	}
	return nil
}

type transactionRecord struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	kind, err := t.Kind.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(transactionRecord{
		Type:   string(kind),
		Amount: t.Amount,
		Date:   date.Format(t.Date),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	var r transactionRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	kind, err := ParseKind(r.Type)
	if err != nil {
		return err
	}
	d, err := date.Parse(r.Date)
	if err != nil {
		return err
	}
	*t = Transaction{Kind: kind, Amount: r.Amount, Date: d}
	return nil
}
