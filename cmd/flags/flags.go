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

package flags

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sboehler/atm/lib/common/date"
	"github.com/sboehler/atm/lib/store"
)

// DateFlag manages a flag to determine a date.
type DateFlag time.Time

var _ pflag.Value = (*DateFlag)(nil)

func (tf DateFlag) String() string {
	if tf.Value().IsZero() {
		return ""
	}
	return date.Format(tf.Value())
}

// Set implements pflag.Value.
func (tf *DateFlag) Set(v string) error {
	t, err := date.Parse(v)
	if err != nil {
		return err
	}
	*tf = (DateFlag)(t)
	return nil
}

// Type implements pflag.Value.
func (tf DateFlag) Type() string {
	return "YYYY-MM-DD"
}

// Value returns the flag value.
func (tf DateFlag) Value() time.Time {
	return time.Time(tf)
}

// BackendFlag manages a flag to select the store backend.
type BackendFlag struct {
	val store.Backend
}

var _ pflag.Value = (*BackendFlag)(nil)

func (bf BackendFlag) String() string {
	return string(bf.val)
}

// Set implements pflag.Value.
func (bf *BackendFlag) Set(v string) error {
	b, err := store.ParseBackend(v)
	if err != nil {
		return err
	}
	bf.val = b
	return nil
}

// Type implements pflag.Value.
func (bf BackendFlag) Type() string {
	return "json|sqlite"
}

// Value returns the backend.
func (bf BackendFlag) Value() store.Backend {
	return bf.val
}

// Global holds the flags shared by all commands.
type Global struct {
	ConfigPath string
	StorePath  string
	Backend    BackendFlag
	LogLevel   string
	Color      bool
	Today      DateFlag

	// PINs overrides the PIN generator.
	PINs func() string
}

// Setup registers the flags as persistent flags of c.
func (g *Global) Setup(c *cobra.Command) {
	c.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "configuration file (yaml)")
	c.PersistentFlags().StringVarP(&g.StorePath, "store", "s", "", "path of the account store")
	c.PersistentFlags().Var(&g.Backend, "backend", "store backend")
	c.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	c.PersistentFlags().BoolVar(&g.Color, "color", false, "print output in color (default: only on a terminal)")
	c.PersistentFlags().Var(&g.Today, "today", "date recorded on new transactions")
	c.PersistentFlags().MarkHidden("today")
}
