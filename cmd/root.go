// Copyright 2020 Silvio Böhler
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

// Package cmd is the main command file for Cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sboehler/atm/cmd/check"
	"github.com/sboehler/atm/cmd/completion"
	"github.com/sboehler/atm/cmd/flags"
	"github.com/sboehler/atm/cmd/register"
	"github.com/sboehler/atm/cmd/session"
	"github.com/sboehler/atm/cmd/statement"
)

// CreateCmd creates the root command, which runs an interactive session.
func CreateCmd() *cobra.Command {
	return New(new(flags.Global))
}

// New creates the root command using the given global flags.
func New(g *flags.Global) *cobra.Command {
	c := session.CreateCmd(g)
	c.Use = "atm"
	c.Short = "atm is a terminal account ledger"
	c.Long = `atm is a terminal account ledger. Without a subcommand, it asks for your
account ID and PIN and lets you check your balance, deposit, withdraw and
view your transaction history.`
	c.SilenceUsage = true
	c.SilenceErrors = true
	g.Setup(c)
	c.AddCommand(register.CreateCmd(g))
	c.AddCommand(check.CreateCmd(g))
	c.AddCommand(statement.CreateCmd(g))
	c.AddCommand(completion.CreateCmd(c))
	return c
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	c := CreateCmd()
	if err := c.Execute(); err != nil {
		fmt.Fprintln(c.ErrOrStderr(), err)
		os.Exit(1)
	}
}
