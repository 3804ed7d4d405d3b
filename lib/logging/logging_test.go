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

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sboehler/atm/lib/config"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, close, err := New(config.Log{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")
	if err := close(); err != nil {
		t.Fatalf("close(): %v", err)
	}

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "WARN\tshown") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestNewFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "atm.log")
	logger, close, err := New(config.Log{Level: "debug", File: p}, os.Stderr)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	logger.Debug("to file")
	if err := close(); err != nil {
		t.Fatalf("close(): %v", err)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Fatalf("unexpected log file content %q", b)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(config.Log{Level: "loud"}, os.Stderr); err == nil {
		t.Fatal("New(): expected error")
	}
}
