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

// Package cmdtest runs commands in tests.
package cmdtest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// Run executes the command with the given arguments and standard input and
// returns its standard output. It fails the test if the command fails.
func Run(t *testing.T, c *cobra.Command, args []string, stdin string) []byte {
	t.Helper()
	out, stderr, err := RunErr(c, args, stdin)
	if err != nil {
		t.Fatalf("%s %s: %v\nstderr:\n%s", c.Name(), strings.Join(args, " "), err, stderr)
	}
	return out
}

// RunErr executes the command and returns standard output, standard error
// and the error returned by the command.
func RunErr(c *cobra.Command, args []string, stdin string) ([]byte, []byte, error) {
	var out, stderr bytes.Buffer
	c.SetArgs(args)
	c.SetIn(strings.NewReader(stdin))
	c.SetOut(&out)
	c.SetErr(&stderr)
	err := c.ExecuteContext(context.Background())
	return out.Bytes(), stderr.Bytes(), err
}
