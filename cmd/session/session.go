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

package session

import (
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/atm/cmd/flags"
	"github.com/sboehler/atm/lib/teller"
)

// CreateCmd creates the command.
func CreateCmd(g *flags.Global) *cobra.Command {
	r := runner{global: g}
	return &cobra.Command{
		Use:   "session",
		Short: "run an interactive session",
		Long:  `Authenticate with account ID and PIN, then use the menu to check the balance, deposit, withdraw or view the transaction history.`,
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

	var (
		out = cmd.OutOrStdout()
		s   = teller.NewSession(
			env.Engine,
			teller.NewLinePrompter(cmd.InOrStdin(), out),
			out,
			teller.WithColor(env.Config.UseColor()),
			teller.WithLogger(env.Log))
	)
	if err := s.Login(env.Registry); err != nil {
		return err
	}
	return s.Run(cmd.Context())
}
