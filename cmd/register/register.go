// Copyright 2021 Silvio Böhler
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

package register

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/atm/cmd/flags"
	"github.com/sboehler/atm/lib/teller"
)

// CreateCmd creates the command.
func CreateCmd(g *flags.Global) *cobra.Command {
	r := runner{global: g}
	c := &cobra.Command{
		Use:   "register",
		Short: "create a new account",
		Long: `Create a new account with zero balance. The account ID and PIN are printed
once; the PIN cannot be shown again.`,
		Args: cobra.NoArgs,
		RunE: r.run,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	global *flags.Global
	name   string
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.name, "name", "n", "", "display name of the account holder")
}

func (r *runner) run(cmd *cobra.Command, args []string) (err error) {
	env, err := r.global.Open(cmd)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, env.Close()) }()

	out := cmd.OutOrStdout()
	name := r.name
	if name == "" {
		p := teller.NewLinePrompter(cmd.InOrStdin(), out)
		if name, err = p.Ask("Enter your name: "); err != nil {
			return err
		}
	}
	a, err := env.Registry.Register(cmd.Context(), name)
	if err != nil {
		return err
	}
	c := color.New(color.FgGreen)
	if !env.Config.UseColor() {
		c.DisableColor()
	}
	c.Fprintln(out, "User added successfully.")
	fmt.Fprintf(out, "Account ID: %s\nPIN: %s\n", a.ID, a.PIN)
	fmt.Fprintln(out, "Keep your PIN safe, it cannot be shown again.")
	return nil
}
