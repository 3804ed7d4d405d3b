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

package statement

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/atm/cmd/flags"
	"github.com/sboehler/atm/lib/common/table"
	"github.com/sboehler/atm/lib/teller"
)

// CreateCmd creates the command.
func CreateCmd(g *flags.Global) *cobra.Command {
	r := runner{global: g}
	c := &cobra.Command{
		Use:   "statement",
		Short: "print the transaction history",
		Long:  `Ask for account ID and PIN and print the transaction history of the account, as a table or as CSV.`,
		Args:  cobra.NoArgs,
		RunE:  r.run,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	global *flags.Global
	csv    bool
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().BoolVar(&r.csv, "csv", false, "print as CSV")
}

func (r *runner) run(cmd *cobra.Command, args []string) (err error) {
	env, err := r.global.Open(cmd)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, env.Close()) }()

	var (
		out = cmd.OutOrStdout()
		p   = teller.NewLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	)
	id, pin, err := teller.AskCredentials(p)
	if err != nil {
		return err
	}
	txs, err := env.Engine.History(id, pin)
	if err != nil {
		return err
	}
	t := teller.Statement(txs)
	if r.csv {
		var rnd table.CSVRenderer
		return rnd.Render(t, out)
	}
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transaction history available.")
		return nil
	}
	rnd := table.TextRenderer{Color: env.Config.UseColor()}
	return rnd.Render(t, out)
}
