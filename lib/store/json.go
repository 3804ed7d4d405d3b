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

package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
	"go.uber.org/multierr"

	"github.com/sboehler/atm/lib/model/account"
)

var errTrailingData = errors.New("unexpected data after the account list")

// JSONFile stores the accounts as an indented JSON array in a single file.
// A missing file is an empty collection.
type JSONFile struct {
	path string
}

var _ Store = (*JSONFile)(nil)

// NewJSONFile creates a store backed by the file at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the path of the backing file.
func (s *JSONFile) Path() string {
	return s.path
}

// Load implements Store.
func (s *JSONFile) Load(ctx context.Context) (accounts []*account.Account, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*account.Account{}, nil
	}
	if err != nil {
		return nil, unavailable("open", err)
	}
	defer func() {
		if e := f.Close(); e != nil {
			err = multierr.Append(err, unavailable("close", e))
		}
	}()
	dec := json.NewDecoder(bufio.NewReader(f))
	switch err := dec.Decode(&accounts); {
	case err == io.EOF:
	case err != nil:
		return nil, unavailable("decode "+s.path, err)
	default:
		if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
			return nil, unavailable("decode "+s.path, multierr.Append(errTrailingData, err))
		}
	}
	if err := account.ValidateAll(accounts); err != nil {
		return nil, unavailable("validate "+s.path, err)
	}
	return normalize(accounts), nil
}

// Save implements Store. The file is replaced atomically.
func (s *JSONFile) Save(ctx context.Context, accounts []*account.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(normalize(accounts), "", "  ")
	if err != nil {
		return unavailable("encode", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(b)); err != nil {
		return unavailable("write "+s.path, err)
	}
	return nil
}

// Close implements Store.
func (s *JSONFile) Close() error {
	return nil
}
