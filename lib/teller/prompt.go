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

// Package teller drives an interactive session: it asks for credentials,
// shows the menu and dispatches choices to the ledger engine.
package teller

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyAnswer is returned when a question receives no answer.
var ErrEmptyAnswer = errors.New("you have to answer the question")

// Prompter asks a question and returns the answer.
type Prompter interface {
	Ask(question string) (string, error)
}

// LinePrompter reads one line per answer.
type LinePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ Prompter = (*LinePrompter)(nil)

// NewLinePrompter creates a prompter writing questions to out and reading
// answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Ask implements Prompter. It returns io.EOF when the input is exhausted
// and ErrEmptyAnswer for an empty line.
func (p *LinePrompter) Ask(question string) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", err
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	answer := strings.TrimRight(p.in.Text(), "\r")
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

// Choice is a menu entry.
type Choice int

const (
	// CheckBalance shows the balance.
	CheckBalance Choice = iota + 1
	// Deposit deposits money.
	Deposit
	// Withdraw withdraws money.
	Withdraw
	// History shows the transaction history.
	History
	// Exit ends the session.
	Exit
)

// Choices lists the menu entries in order.
var Choices = []Choice{CheckBalance, Deposit, Withdraw, History, Exit}

func (c Choice) String() string {
	switch c {
	case CheckBalance:
		return "Checking Balance"
	case Deposit:
		return "Depositing Money"
	case Withdraw:
		return "Withdrawing Money"
	case History:
		return "Viewing Transaction History"
	case Exit:
		return "Exit"
	}
	return ""
}

// ParseChoice parses a menu answer. Only the exact strings "1" to "5" are
// valid.
func ParseChoice(s string) (Choice, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '5' {
		return 0, false
	}
	return Choice(s[0] - '0'), true
}

func menu() string {
	var b strings.Builder
	b.WriteString("***Menu***\n")
	for _, c := range Choices {
		fmt.Fprintf(&b, " %d. %s\n", c, c)
	}
	b.WriteString(" make your choice: ")
	return b.String()
}
