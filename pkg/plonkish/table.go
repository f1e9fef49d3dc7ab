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
	"errors"
	"fmt"

	"github.com/consensys/go-maingate/pkg/util/field"
)

// ErrNotEnoughRows is returned when an assignment targets a row beyond the end
// of the table.
var ErrNotEnoughRows = errors.New("not enough rows available")

// ErrColumnNotInPermutation is returned when a copy constraint refers to a
// column which has not been equality-enabled.
var ErrColumnNotInPermutation = errors.New("column not in permutation")

// ErrInstanceTooLong is returned when more instance values are provided than
// there are rows in the table.
var ErrInstanceTooLong = errors.New("instance values exceed table height")

// Copy records that two cells must hold identical values.
type Copy struct {
	Left  Cell
	Right Cell
}

// Table holds the contents of every cell for a given constraint system, along
// with the copy constraints recorded between them.  A table has 2^k rows.
// Fixed cells are zero until assigned, hence any selector left unassigned on a
// given row has the additive identity as its coefficient.  Advice cells are
// likewise known to be zero until assigned.
type Table struct {
	cs       *ConstraintSystem
	k        uint
	advice   [][]Value
	fixed    [][]field.Element
	instance [][]field.Element
	copies   []Copy
	// One past the highest row assigned (advice or fixed)
	used uint
}

// NewTable constructs a table of 2^k rows for the given constraint system,
// populating its instance columns from the values given.  Instance columns for
// which fewer values are given than there are rows are padded with zeros.
func NewTable(cs *ConstraintSystem, k uint, instance [][]field.Element) (*Table, error) {
	var (
		n        = uint(1) << k
		advice   = make([][]Value, cs.NumAdvice())
		fixed    = make([][]field.Element, cs.NumFixed())
		instData = make([][]field.Element, cs.NumInstance())
	)
	//
	if uint(len(instance)) > cs.NumInstance() {
		return nil, fmt.Errorf("%w: %d instance vectors for %d instance columns", ErrInvalidColumn,
			len(instance), cs.NumInstance())
	}
	//
	for i := range advice {
		advice[i] = make([]Value, n)
		for j := range advice[i] {
			advice[i][j] = Known(field.Zero())
		}
	}
	//
	for i := range fixed {
		fixed[i] = make([]field.Element, n)
	}
	//
	for i := range instData {
		instData[i] = make([]field.Element, n)
		//
		if i < len(instance) {
			if uint(len(instance[i])) > n {
				return nil, fmt.Errorf("%w: %d values for %d rows", ErrInstanceTooLong, len(instance[i]), n)
			}
			//
			copy(instData[i], instance[i])
		}
	}
	//
	return &Table{cs, k, advice, fixed, instData, nil, 0}, nil
}

// ConstraintSystem returns the constraint system this table was built for.
func (p *Table) ConstraintSystem() *ConstraintSystem { return p.cs }

// K returns log2 of the number of rows in this table.
func (p *Table) K() uint { return p.k }

// Rows returns the number of rows in this table.
func (p *Table) Rows() uint { return uint(1) << p.k }

// UsedRows returns one past the highest row into which any advice or fixed
// value has been assigned.
func (p *Table) UsedRows() uint { return p.used }

// Copies returns the copy constraints recorded so far, in order.
func (p *Table) Copies() []Copy { return p.copies }

// Instance returns the contents of a given instance column.
func (p *Table) Instance(column Instance) []field.Element {
	return p.instance[column.index]
}

// AssignAdvice writes a value into a given advice cell.  Unknown values are
// permitted.
func (p *Table) AssignAdvice(column Advice, row uint, val Value) error {
	if err := p.checkBounds(column.Column(), row); err != nil {
		return err
	}
	//
	p.advice[column.index][row] = val
	p.used = max(p.used, row+1)
	//
	return nil
}

// AssignFixed writes a value into a given fixed cell.
func (p *Table) AssignFixed(column Fixed, row uint, val field.Element) error {
	if err := p.checkBounds(column.Column(), row); err != nil {
		return err
	}
	//
	p.fixed[column.index][row] = val
	p.used = max(p.used, row+1)
	//
	return nil
}

// Copy records that two cells must hold the same value in any accepted
// assignment.  Both cells must reside in equality-enabled columns.  Copying a
// cell onto itself has no effect.
func (p *Table) Copy(left Cell, right Cell) error {
	for _, c := range []Cell{left, right} {
		if err := p.checkBounds(c.Column, c.Row); err != nil {
			return err
		} else if !p.cs.IsEqualityEnabled(c.Column) {
			return fmt.Errorf("%w: %s", ErrColumnNotInPermutation, c.Column)
		}
	}
	//
	if left != right {
		p.copies = append(p.copies, Copy{left, right})
	}
	//
	return nil
}

// Get returns the value held in a given cell.  Fixed and instance cells are
// always known.
func (p *Table) Get(cell Cell) Value {
	switch cell.Column.Kind {
	case ADVICE:
		return p.advice[cell.Column.Index][cell.Row]
	case FIXED:
		return Known(p.fixed[cell.Column.Index][cell.Row])
	case INSTANCE:
		return Known(p.instance[cell.Column.Index][cell.Row])
	}
	//
	panic(fmt.Sprintf("unknown column kind %s", cell.Column.Kind))
}

// Resolve determines the cell read by a given query when evaluated on a given
// row.  Rotations wrap around the table.
func (p *Table) Resolve(q Query, row uint) Cell {
	n := int(p.Rows())
	r := (int(row) + int(q.Rotation)) % n
	//
	if r < 0 {
		r += n
	}
	//
	return Cell{q.Column, uint(r)}
}

func (p *Table) checkBounds(column Column, row uint) error {
	if !p.cs.exists(column) {
		return fmt.Errorf("%w: %s", ErrInvalidColumn, column)
	} else if row >= p.Rows() {
		return fmt.Errorf("%w: row %d of %s (table has %d rows)", ErrNotEnoughRows, row, column, p.Rows())
	}
	//
	return nil
}
