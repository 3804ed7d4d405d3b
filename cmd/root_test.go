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

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"

	"github.com/sboehler/atm/cmd/cmdtest"
	"github.com/sboehler/atm/cmd/flags"
	"github.com/sboehler/atm/lib/config"
	"github.com/sboehler/atm/lib/registry"
	"github.com/sboehler/atm/lib/store"
)

func newCmd() *cobra.Command {
	return New(&flags.Global{PINs: func() string { return "4821" }})
}

const scenario = "ACC1001\n4821\n2\n100\n3\n150\n3\n40\n1\n4\n5\n"

func TestGolden(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			var (
				g    = goldie.New(t)
				p    = filepath.Join(t.TempDir(), "accounts."+backend)
				base = []string{"--store", p, "--backend", backend, "--color=false", "--today", "2024-03-01"}
			)

			got := cmdtest.Run(t, newCmd(), append([]string{"register", "--name", "Ana"}, base...), "")
			g.Assert(t, "register", got)

			got = cmdtest.Run(t, newCmd(), base, scenario)
			g.Assert(t, "session", got)

			got = cmdtest.Run(t, newCmd(), append([]string{"statement"}, base...), "ACC1001\n4821\n")
			g.Assert(t, "statement", got)

			got = cmdtest.Run(t, newCmd(), append([]string{"statement", "--csv"}, base...), "ACC1001\n4821\n")
			want := "Date,Type,Amount\n2024-03-01,deposit,100\n2024-03-01,withdrawal,-40\n"
			if diff := cmp.Diff(want, string(got)); diff != "" {
				t.Fatalf("unexpected diff (-want,+got):\n%s\n", diff)
			}

			got = cmdtest.Run(t, newCmd(), append([]string{"check"}, base...), "")
			if diff := cmp.Diff("1 account(s) ok\n", string(got)); diff != "" {
				t.Fatalf("unexpected diff (-want,+got):\n%s\n", diff)
			}
		})
	}
}

func TestRegisterPrompt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "users.json")
	args := []string{"register", "--store", p, "--color=false"}
	cmdtest.Run(t, newCmd(), args, "Ana\n")

	got := cmdtest.Run(t, newCmd(), args, "Ben\n")

	want := "Enter your name: User added successfully.\nAccount ID: ACC1002\nPIN: 4821\nKeep your PIN safe, it cannot be shown again.\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("unexpected diff (-want,+got):\n%s\n", diff)
	}
}

func TestLoginFailure(t *testing.T) {
	p := filepath.Join(t.TempDir(), "users.json")
	cmdtest.Run(t, newCmd(), []string{"register", "--name", "Ana", "--store", p}, "")

	out, _, err := cmdtest.RunErr(newCmd(), []string{"--store", p, "--color=false"}, "ACC1001\n1234\n")

	if !errors.Is(err, registry.ErrAuthFailure) {
		t.Fatalf("Execute(): Got %v, wanted %v", err, registry.ErrAuthFailure)
	}
	if !strings.HasSuffix(string(out), "Authentication failed. Please check your credentials.\n") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCorruptStore(t *testing.T) {
	p := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(p, []byte(`[{"accountID": "ACC1001", "balance": -1}]`), 0644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := cmdtest.RunErr(newCmd(), []string{"--store", p}, "")

	if !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("Execute(): Got %v, wanted %v", err, store.ErrStoreUnavailable)
	}
	if !strings.Contains(string(stderr), "cannot load accounts") {
		t.Fatalf("expected error log, got %q", stderr)
	}
}

func TestCheckReportsViolations(t *testing.T) {
	p := filepath.Join(t.TempDir(), "users.json")
	content := `[{"accountID": "ACC1001", "name": "Ana", "pin": "1", "balance": 70,
		"transactions": [{"type": "deposit", "amount": 50, "date": "2024-01-01"}]}]`
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := cmdtest.RunErr(newCmd(), []string{"check", "--store", p}, "")

	if err == nil {
		t.Fatal("Execute(): expected error")
	}
	want := "account ACC1001: balance 70 does not match history total 50\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("unexpected diff (-want,+got):\n%s\n", diff)
	}
}

func TestInvalidBackend(t *testing.T) {
	if _, _, err := cmdtest.RunErr(newCmd(), []string{"--backend", "badger"}, ""); err == nil {
		t.Fatal("Execute(): expected error")
	}
}

func TestBackendFlagOverridesEnvironment(t *testing.T) {
	t.Setenv(config.EnvStoreBackend, "badger")
	p := filepath.Join(t.TempDir(), "users.json")

	got := cmdtest.Run(t, newCmd(), []string{"register", "--name", "Ana", "--store", p, "--backend", "json", "--color=false"}, "")

	if !strings.Contains(string(got), "Account ID: ACC1001") {
		t.Fatalf("unexpected output %q", got)
	}
	if _, _, err := cmdtest.RunErr(newCmd(), []string{"check", "--store", p}, ""); err == nil {
		t.Fatal("Execute(): expected error for invalid backend from the environment")
	}
}

func TestCompletion(t *testing.T) {
	got := cmdtest.Run(t, newCmd(), []string{"completion", "bash"}, "")

	if !strings.Contains(string(got), "atm") {
		t.Fatalf("unexpected completion script %q", got)
	}
}
