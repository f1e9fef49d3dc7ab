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
package plonkish

import (
	"fmt"
	"io"
	"math"

	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/consensys/go-maingate/pkg/util/termio"
)

// Highlighter identifies cells which should be highlighted.
type Highlighter = func(Cell) bool

// Printer encapsulates various configuration options useful for printing out
// tables in human-readable forms.
type Printer struct {
	// First row to print
	startRow uint
	// Last row to print
	endRow uint
	// Additional rows either side
	padding uint
	// Which cells to highlight
	highlighter Highlighter
	// Determine maximum width to print
	maxCellWidth uint
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer
func NewPrinter() *Printer {
	// Highlight nothing by default
	emptyHighlighter := func(cell Cell) bool {
		return false
	}
	//
	return &Printer{0, math.MaxUint, 0, emptyHighlighter, 16, true}
}

// Start configures the starting row for this printer.
func (p *Printer) Start(start uint) *Printer {
	p.startRow = start
	return p
}

// End configures the ending row (inclusive) for this printer.
func (p *Printer) End(end uint) *Printer {
	p.endRow = end
	return p
}

// Padding configures the number of padding rows (i.e. rows outside the affected
// area) to include for additional context.
func (p *Printer) Padding(padding uint) *Printer {
	p.padding = padding
	return p
}

// AnsiEscapes can be used to enable or disable the use of ANSI escape sequences
// (e.g. for showing colour in a terminal, etc)
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// Highlight configures a filter for cells which should be highlighted.  By
// default, no cells are highlighted.
func (p *Printer) Highlight(highlighter Highlighter) *Printer {
	p.highlighter = highlighter
	return p
}

// MaxCellWidth sets the maximum width to use for the cell data.
func (p *Printer) MaxCellWidth(width uint) *Printer {
	p.maxCellWidth = width
	return p
}

// Print a given table using the configured printer.  By default only rows which
// have been used are printed.  An explicit end row extends this up to that row,
// though padding never extends past the used rows.
func (p *Printer) Print(out io.Writer, table *Table) {
	var (
		start   = p.startRow - min(p.startRow, p.padding)
		limit   = max(table.UsedRows(), 1)
		columns = allColumns(table.ConstraintSystem())
	)
	//
	if p.endRow != math.MaxUint {
		limit = max(limit, min(p.endRow+1, table.Rows()))
	}
	//
	end := min(limit, satAdd(p.endRow, p.padding+1))
	//
	if start >= end {
		return
	}
	//
	tp := termio.NewTablePrinter(uint(1+len(columns)), 1+end-start)
	tp.AnsiEscapes(p.ansiEscapes)
	// Construct suitable escapes
	titleEscape := termio.NewAnsiEscape().FgColour(termio.TERM_WHITE)
	highlightEscape := termio.BoldAnsiEscape().FgColour(termio.TERM_RED)
	// Set column names
	tp.Set(0, 0, "row")
	//
	for i, col := range columns {
		tp.Set(uint(i+1), 0, col.String())
		tp.SetEscape(uint(i+1), 0, titleEscape)
	}
	// Fill table
	for row := start; row < end; row++ {
		tp.Set(0, 1+row-start, fmt.Sprintf("%d", row))
		tp.SetEscape(0, 1+row-start, titleEscape)
		//
		for i, col := range columns {
			cell := Cell{col, row}
			text := FormatValue(table.Get(cell))
			//
			if p.highlighter(cell) {
				if !p.ansiEscapes {
					// In a non-ANSI environment, use a marker "*" to identify highlighted cells.
					text = "*" + text
				}
				//
				tp.SetEscape(uint(i+1), 1+row-start, highlightEscape)
			}
			//
			tp.Set(uint(i+1), 1+row-start, text)
		}
	}
	//
	tp.SetMaxWidths(p.maxCellWidth)
	tp.Print(out)
}

// FormatValue produces a compact human-readable rendering of a value.  Values
// closer to the modulus than to zero are shown as negatives, whilst unknown
// values are shown as "?".
func FormatValue(val Value) string {
	if val.IsEmpty() {
		return "?"
	}
	//
	var (
		v   = val.Unwrap()
		neg = field.Neg(v)
		pos = v.String()
	)
	//
	if negText := neg.String(); len(negText) < len(pos) {
		return "-" + negText
	}
	//
	return pos
}

func allColumns(cs *ConstraintSystem) []Column {
	var columns []Column
	//
	for i := uint(0); i < cs.NumAdvice(); i++ {
		columns = append(columns, Column{ADVICE, i})
	}
	//
	for i := uint(0); i < cs.NumFixed(); i++ {
		columns = append(columns, Column{FIXED, i})
	}
	//
	for i := uint(0); i < cs.NumInstance(); i++ {
		columns = append(columns, Column{INSTANCE, i})
	}
	//
	return columns
}

func satAdd(x, y uint) uint {
	if x > math.MaxUint-y {
		return math.MaxUint
	}
	//
	return x + y
}
