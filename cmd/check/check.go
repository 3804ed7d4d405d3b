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

package check

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/atm/cmd/flags"
	"github.com/sboehler/atm/lib/model/account"
)

// CreateCmd creates the command.
func CreateCmd(g *flags.Global) *cobra.Command {
	r := runner{global: g}
	return &cobra.Command{
		Use:   "check",
		Short: "check the account store",
		Long:  `Check that every balance equals the sum of its transactions and that account IDs are well-formed and unique.`,
		Args:  cobra.NoArgs,
		RunE:  r.run,
	}
}

type runner struct {
	global *flags.Global
}

func (r *runner) run(cmd *cobra.Command, args []string) (err error) {
	env, err := r.global.Open(cmd)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, env.Close()) }()

	accounts := env.Registry.Accounts()
	errs := multierr.Errors(account.CheckAll(accounts))
	for _, e := range errs {
		fmt.Fprintln(cmd.OutOrStdout(), e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d problem(s) found", len(errs))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d account(s) ok\n", len(accounts))
	return nil
}
