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

package date

import (
	"fmt"
	"time"
)

// Layout is the ISO calendar date layout used in records and flags.
const Layout = "2006-01-02"

// Date creates a new calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns today's date in the local time zone, as a UTC calendar date.
func Today() time.Time {
	return Truncate(time.Now().Local())
}

// Truncate drops the time of day from t.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format formats a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Clock returns a function which always yields the given date. A zero
// date yields Today.
func Clock(d time.Time) func() time.Time {
	if d.IsZero() {
		return Today
	}
	d = Truncate(d)
	return func() time.Time { return d }
}
