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
	"slices"

	log "github.com/sirupsen/logrus"
)

// ErrColumnSupplyExhausted is returned when a column supply has no further
// columns to hand out.
var ErrColumnSupplyExhausted = errors.New("column supply exhausted")

// ErrInvalidColumn is returned for any reference to a column which does not exist
// or which is of the wrong kind for the requested operation.
var ErrInvalidColumn = errors.New("invalid column")

// Gate is a named set of polynomial identities which must vanish on every row.
type Gate struct {
	// Name of the gate, used in reports.
	Name string
	// Polynomials which must evaluate to zero.
	Polys []Expression
}

// Degree returns the maximum degree of any polynomial in this gate.
func (p Gate) Degree() uint {
	var d uint
	//
	for _, poly := range p.Polys {
		d = max(d, poly.Degree())
	}
	//
	return d
}

// ConstraintSystem records the column layout of a circuit, together with the
// gates registered over those columns.  It is populated once, when a circuit is
// configured, and is immutable thereafter.
type ConstraintSystem struct {
	numAdvice   uint
	numFixed    uint
	numInstance uint
	// Columns participating in the permutation argument, in order of
	// registration.
	equality []Column
	gates    []Gate
}

// NewConstraintSystem constructs an empty constraint system.
func NewConstraintSystem() *ConstraintSystem {
	return &ConstraintSystem{}
}

// AdviceColumn allocates a fresh advice column.
func (p *ConstraintSystem) AdviceColumn() Advice {
	p.numAdvice++
	return Advice{p.numAdvice - 1}
}

// FixedColumn allocates a fresh fixed column.
func (p *ConstraintSystem) FixedColumn() Fixed {
	p.numFixed++
	return Fixed{p.numFixed - 1}
}

// InstanceColumn allocates a fresh instance column.
func (p *ConstraintSystem) InstanceColumn() Instance {
	p.numInstance++
	return Instance{p.numInstance - 1}
}

// AdviceColumns allocates n fresh advice columns, returning them as a supply
// which hands them out in order of allocation.
func (p *ConstraintSystem) AdviceColumns(n uint) *ColumnSupply[Advice] {
	columns := make([]Advice, n)
	for i := range columns {
		columns[i] = p.AdviceColumn()
	}
	//
	return NewColumnSupply(columns...)
}

// FixedColumns allocates n fresh fixed columns, returning them as a supply which
// hands them out in order of allocation.
func (p *ConstraintSystem) FixedColumns(n uint) *ColumnSupply[Fixed] {
	columns := make([]Fixed, n)
	for i := range columns {
		columns[i] = p.FixedColumn()
	}
	//
	return NewColumnSupply(columns...)
}

// EnableEquality marks a given column as participating in the permutation
// argument, such that copy constraints can be applied to its cells.  Fixed
// columns cannot be equality-enabled.  Enabling a column more than once has no
// further effect.
func (p *ConstraintSystem) EnableEquality(column Column) error {
	if !p.exists(column) {
		return fmt.Errorf("%w: %s", ErrInvalidColumn, column)
	} else if column.Kind == FIXED {
		return fmt.Errorf("%w: cannot enable equality on %s", ErrInvalidColumn, column)
	} else if !p.IsEqualityEnabled(column) {
		p.equality = append(p.equality, column)
	}
	//
	return nil
}

// IsEqualityEnabled determines whether the given column participates in the
// permutation argument.
func (p *ConstraintSystem) IsEqualityEnabled(column Column) bool {
	return slices.Contains(p.equality, column)
}

// EqualityColumns returns the columns participating in the permutation argument.
func (p *ConstraintSystem) EqualityColumns() []Column {
	return p.equality
}

// CreateGate registers a gate consisting of one or more polynomial identities.
// Every query made by these polynomials must refer to an allocated column.
func (p *ConstraintSystem) CreateGate(name string, polys ...Expression) error {
	if len(polys) == 0 {
		return fmt.Errorf("gate %q has no constraints", name)
	}
	//
	for _, poly := range polys {
		for _, q := range poly.Queries(nil) {
			if !p.exists(q.Column) {
				return fmt.Errorf("%w: gate %q queries %s", ErrInvalidColumn, name, q.Column)
			}
		}
	}
	//
	gate := Gate{name, polys}
	p.gates = append(p.gates, gate)
	//
	log.Debugf("registered gate %q (degree %d)", name, gate.Degree())
	//
	return nil
}

// Gates returns the gates registered with this constraint system.
func (p *ConstraintSystem) Gates() []Gate {
	return p.gates
}

// Degree returns the maximum degree of any registered gate.
func (p *ConstraintSystem) Degree() uint {
	var d uint
	//
	for _, g := range p.gates {
		d = max(d, g.Degree())
	}
	//
	return d
}

// NumAdvice returns the number of allocated advice columns.
func (p *ConstraintSystem) NumAdvice() uint { return p.numAdvice }

// NumFixed returns the number of allocated fixed columns.
func (p *ConstraintSystem) NumFixed() uint { return p.numFixed }

// NumInstance returns the number of allocated instance columns.
func (p *ConstraintSystem) NumInstance() uint { return p.numInstance }

func (p *ConstraintSystem) exists(column Column) bool {
	switch column.Kind {
	case ADVICE:
		return column.Index < p.numAdvice
	case FIXED:
		return column.Index < p.numFixed
	case INSTANCE:
		return column.Index < p.numInstance
	}
	//
	return false
}

// ============================================================================
// Column supply
// ============================================================================

// ColumnSupply hands out a predetermined sequence of columns in order.  Once
// every column has been handed out, the supply is exhausted.
type ColumnSupply[C AnyColumn] struct {
	columns []C
	index   uint
}

// NewColumnSupply constructs a supply over the given columns.
func NewColumnSupply[C AnyColumn](columns ...C) *ColumnSupply[C] {
	return &ColumnSupply[C]{columns, 0}
}

// HasNext checks whether or not there are any columns remaining.
func (p *ColumnSupply[C]) HasNext() bool {
	return p.index < uint(len(p.columns))
}

// Next returns the next column, or an error if the supply is exhausted.
func (p *ColumnSupply[C]) Next() (C, error) {
	var empty C
	//
	if !p.HasNext() {
		return empty, ErrColumnSupplyExhausted
	}
	//
	next := p.columns[p.index]
	p.index++
	//
	return next, nil
}

// Count returns the number of columns left in the supply.
func (p *ColumnSupply[C]) Count() uint {
	return uint(len(p.columns)) - p.index
}
