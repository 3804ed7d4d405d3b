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
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	var tests = []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-01-31", want: Date(2024, 1, 31)},
		{input: "2020-02-29", want: Date(2020, 2, 29)},
		{input: "2021-02-29", wantErr: true},
		{input: "2024-1-31", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, test := range tests {
		got, err := Parse(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", test.input, err)
		}
		if got != test.want {
			t.Errorf("Parse(%q): Got %v, wanted %v", test.input, got, test.want)
		}
		if s := Format(got); s != test.input {
			t.Errorf("Format(%v): Got %q, wanted %q", got, s, test.input)
		}
	}
}

func TestTruncate(t *testing.T) {
	in := time.Date(2024, 3, 9, 23, 59, 1, 5, time.FixedZone("X", 3600*5))
	if got, want := Truncate(in), Date(2024, 3, 9); got != want {
		t.Errorf("Truncate(%v): Got %v, wanted %v", in, got, want)
	}
}

func TestClock(t *testing.T) {
	d := time.Date(2023, 12, 24, 18, 30, 0, 0, time.UTC)
	if got, want := Clock(d)(), Date(2023, 12, 24); got != want {
		t.Errorf("Clock(%v)(): Got %v, wanted %v", d, got, want)
	}
	if got, want := Clock(time.Time{})(), Today(); got != want {
		t.Errorf("Clock(zero)(): Got %v, wanted %v", got, want)
	}
}
