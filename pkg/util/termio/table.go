// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	escapes := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
		escapes[i] = make([]string, width)
	}

	return &TablePrinter{widths, rows, escapes, true}
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(utf8.RuneCountInString(val)))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the colour to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible excape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidths puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidths(width uint) {
	for i := uint(0); i < uint(len(p.widths)); i++ {
		p.widths[i] = min(p.widths[i], width)
	}
}

// Print the table to a given writer.
func (p *TablePrinter) Print(out io.Writer) {
	for i := 0; i < len(p.rows); i++ {
		row := p.rows[i]
		escapes := p.escapes[i]
		//
		for j, col := range row {
			jth := col
			jthWidth := p.widths[j]
			jthEscape := escapes[j]
			// Print colour (if applicable)
			if p.enableEscapes && jthEscape != "" {
				fmt.Fprint(out, jthEscape)
			}
			// Print data
			if uint(utf8.RuneCountInString(col)) > jthWidth && jthWidth > 2 {
				jth = string([]rune(col)[0 : jthWidth-2])
				fmt.Fprintf(out, " %s..", leftPad(jth, jthWidth-2))
			} else {
				fmt.Fprintf(out, " %s", leftPad(jth, jthWidth))
			}
			// Cancel colour (if applicable)
			if p.enableEscapes && jthEscape != "" {
				fmt.Fprint(out, ResetAnsiEscape().Build())
			}

			fmt.Fprint(out, " |")
		}

		fmt.Fprintln(out)
	}
}

// leftPad right-aligns a string within a given number of runes.
func leftPad(text string, width uint) string {
	n := uint(utf8.RuneCountInString(text))
	if n >= width {
		return text
	}
	//
	return strings.Repeat(" ", int(width-n)) + text
}
