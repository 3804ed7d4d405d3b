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

package registry

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/sboehler/atm/lib/model/account"
)

// BaseID is the number of the first account.
const BaseID = 1001

// NextID derives the next account identifier from the last account in
// insertion order. It does not scan for the maximum, so it relies on the
// store preserving insertion order.
func NextID(accounts []*account.Account) (string, error) {
	if len(accounts) == 0 {
		return account.FormatID(BaseID), nil
	}
	last := accounts[len(accounts)-1]
	n, err := last.Number()
	if err != nil {
		return "", fmt.Errorf("cannot derive next identifier: %w", err)
	}
	return account.FormatID(n + 1), nil
}

// PINs returns a generator of uniformly distributed 4-digit PINs in
// [1000, 9999]. A nil source uses the global one.
func PINs(r *rand.Rand) func() string {
	intn := rand.Intn
	if r != nil {
		intn = r.Intn
	}
	return func() string {
		return strconv.Itoa(1000 + intn(9000))
	}
}
