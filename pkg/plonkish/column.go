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
	"cmp"
	"fmt"
)

// Kind identifies which of the three disjoint sets of columns a column belongs
// to.  Each kind has distinct update semantics: advice columns hold the
// witness, fixed columns hold selectors (and other constants) determined at
// key generation, and instance columns hold values public to the verifier.
type Kind uint8

const (
	// ADVICE columns hold witness values.
	ADVICE Kind = iota
	// FIXED columns hold values determined by the circuit itself.
	FIXED
	// INSTANCE columns hold public values.
	INSTANCE
)

func (k Kind) String() string {
	switch k {
	case ADVICE:
		return "advice"
	case FIXED:
		return "fixed"
	case INSTANCE:
		return "instance"
	}
	//
	return fmt.Sprintf("kind(%d)", k)
}

// Column abstracts a complete column identifier, irrespective of its kind.
type Column struct {
	// Kind of this column
	Kind Kind
	// Index of this column amongst all columns of the same kind.
	Index uint
}

// Cmp implements an ordering over columns, first by kind and then by index.
func (p Column) Cmp(q Column) int {
	if c := cmp.Compare(p.Kind, q.Kind); c != 0 {
		return c
	}
	//
	return cmp.Compare(p.Index, q.Index)
}

func (p Column) String() string {
	return fmt.Sprintf("%s[%d]", p.Kind, p.Index)
}

// Advice identifies an advice column.
type Advice struct{ index uint }

// Fixed identifies a fixed column.
type Fixed struct{ index uint }

// Instance identifies an instance column.
type Instance struct{ index uint }

// Column returns the untyped column identifier.
func (c Advice) Column() Column { return Column{ADVICE, c.index} }

// Column returns the untyped column identifier.
func (c Fixed) Column() Column { return Column{FIXED, c.index} }

// Column returns the untyped column identifier.
func (c Instance) Column() Column { return Column{INSTANCE, c.index} }

// AnyColumn is satisfied by each of the typed column handles.
type AnyColumn interface {
	Advice | Fixed | Instance
	Column() Column
}

// ============================================================================

// Cell identifies a unique cell within the table.
type Cell struct {
	// Column holding the cell
	Column Column
	// Absolute row of the cell
	Row uint
}

// NewCell constructs a new cell reference.
func NewCell(column Column, row uint) Cell {
	return Cell{column, row}
}

// Cmp implements an ordering over cells, first by column and then by row.
func (p Cell) Cmp(q Cell) int {
	if c := p.Column.Cmp(q.Column); c != 0 {
		return c
	}
	//
	return cmp.Compare(p.Row, q.Row)
}

func (p Cell) String() string {
	return fmt.Sprintf("%s@%d", p.Column, p.Row)
}

// ============================================================================

// Rotation identifies the row a query reads, relative to the row on which the
// enclosing constraint is evaluated.
type Rotation int

const (
	// Prev reads the previous row
	Prev Rotation = -1
	// Cur reads the current row
	Cur Rotation = 0
	// Next reads the next row
	Next Rotation = 1
)
