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

package table

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// TextRenderer renders a table to text. Positive numbers are printed in
// green, negative ones in red.
type TextRenderer struct {
	Color bool
}

// Render renders the table.
func (r *TextRenderer) Render(t *Table, w io.Writer) error {
	var (
		green = color.New(color.FgGreen)
		red   = color.New(color.FgRed)
	)
	if r.Color {
		green.EnableColor()
		red.EnableColor()
	} else {
		green.DisableColor()
		red.DisableColor()
	}
	widths := make([]int, t.Width())
	for _, row := range t.rows {
		for i, c := range row.cells {
			if l := minLength(c); widths[i] < l {
				widths[i] = l
			}
		}
	}
	for _, row := range t.rows {
		if len(row.cells) == 0 {
			continue
		}
		first, last := "| ", " |\n"
		if row.cells[0].isSep() {
			first = "+-"
		}
		if row.cells[len(row.cells)-1].isSep() {
			last = "-+\n"
		}
		if err := writeString(w, first); err != nil {
			return err
		}
		for i, c := range row.cells {
			if err := renderCell(w, c, widths[i], green, red); err != nil {
				return err
			}
			if i < len(row.cells)-1 {
				if err := writeString(w, createSep(c, row.cells[i+1])); err != nil {
					return err
				}
			}
		}
		if err := writeString(w, last); err != nil {
			return err
		}
	}
	return nil
}

func renderCell(w io.Writer, c cell, l int, green, red *color.Color) error {
	switch t := c.(type) {

	case emptyCell:
		return writeStrings(w, " ", l)

	case SeparatorCell:
		return writeStrings(w, "-", l)

	case textCell:
		var (
			n      = utf8.RuneCountInString(t.Content)
			before int
		)
		switch t.Align {
		case Right:
			before = l - n
		case Center:
			before = (l - n) / 2
		}
		if err := writeStrings(w, " ", before); err != nil {
			return err
		}
		if err := writeString(w, t.Content); err != nil {
			return err
		}
		return writeStrings(w, " ", l-before-n)

	case numberCell:
		s := numToString(t.n)
		if err := writeStrings(w, " ", l-utf8.RuneCountInString(s)); err != nil {
			return err
		}
		var err error
		switch t.n.Sign() {
		case -1:
			_, err = red.Fprint(w, s)
		case 1:
			_, err = green.Fprint(w, s)
		default:
			_, err = io.WriteString(w, s)
		}
		return err
	}
	return fmt.Errorf("%v is not a valid cell type", c)
}

func writeStrings(w io.Writer, s string, l int) error {
	for i := 0; i < l; i++ {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func minLength(c cell) int {
	switch t := c.(type) {
	case textCell:
		return utf8.RuneCountInString(t.Content)
	case numberCell:
		return utf8.RuneCountInString(numToString(t.n))
	}
	return 0
}

func createSep(c1, c2 cell) string {
	switch {
	case c1.isSep() && c2.isSep():
		return "-+-"
	case c1.isSep():
		return "-+ "
	case c2.isSep():
		return " +-"
	default:
		return " | "
	}
}

func numToString(d decimal.Decimal) string {
	return addThousandsSep(d.String())
}

func addThousandsSep(e string) string {
	index := strings.Index(e, ".")
	if index < 0 {
		index = len(e)
	}
	var (
		b  strings.Builder
		ok bool
	)
	for i, ch := range e {
		if i >= index && ch != '-' {
			b.WriteString(e[i:])
			break
		}
		if (index-i)%3 == 0 && ok {
			b.WriteRune(',')
		}
		b.WriteRune(ch)
		if unicode.IsDigit(ch) {
			ok = true
		}
	}
	return b.String()
}
