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
package prover

import (
	"crypto/sha256"
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/fxamacker/cbor/v2"
)

// layout describes how a filled table lowers onto a gnark circuit.  Every
// advice cell within the used rows becomes a secret variable, and every
// instance cell referenced by the circuit becomes a public variable.  Fixed
// cells are folded into constants.
type layout struct {
	table *plonkish.Table
	// Number of rows of each advice column lowered into variables
	used uint
	// Number of rows of each instance column exposed as public variables
	public []uint
	// Offset of each instance column within the public variables
	offsets []uint
	// Gate polynomials which do not fold to zero
	checks []check
	// Copy constraints which involve at least one variable
	copies []plonkish.Copy
}

// check identifies a gate polynomial to be enforced on a given row.
type check struct {
	Gate uint
	Poly uint
	Row  uint
}

// newLayout determines the lowering of a given table.  Any polynomial or copy
// constraint which folds to a false constant statement makes the table
// unsatisfiable, regardless of its witness.
func newLayout(table *plonkish.Table) (*layout, error) {
	var (
		cs     = table.ConstraintSystem()
		public = make([]uint, cs.NumInstance())
		lay    = &layout{table: table, used: table.UsedRows(), public: public}
	)
	// Instance columns queried by gates are exposed in full.
	for _, gate := range cs.Gates() {
		for _, poly := range gate.Polys {
			for _, q := range poly.Queries(nil) {
				if q.Column.Kind == plonkish.INSTANCE {
					public[q.Column.Index] = table.Rows()
				}
			}
		}
	}
	//
	for _, c := range table.Copies() {
		for _, cell := range []plonkish.Cell{c.Left, c.Right} {
			if cell.Column.Kind == plonkish.INSTANCE {
				public[cell.Column.Index] = max(public[cell.Column.Index], cell.Row+1)
			}
		}
	}
	//
	lay.offsets = make([]uint, len(public))
	for i := 1; i < len(public); i++ {
		lay.offsets[i] = lay.offsets[i-1] + public[i-1]
	}
	// Fold every polynomial on every row
	for g, gate := range cs.Gates() {
		for p, poly := range gate.Polys {
			for row := uint(0); row < table.Rows(); row++ {
				res := plonkish.Evaluate[term](poly, lay.evaluator(nil, nil, row))
				//
				if !res.constant {
					lay.checks = append(lay.checks, check{uint(g), uint(p), row})
				} else if !res.value.IsZero() {
					return nil, fmt.Errorf("%w: constraint %d of gate %q is unsatisfiable on row %d", ErrUnsatisfiable,
						p, gate.Name, row)
				}
			}
		}
	}
	//
	for _, c := range table.Copies() {
		if lay.isVariable(c.Left) || lay.isVariable(c.Right) {
			lay.copies = append(lay.copies, c)
		} else if l, r := lay.constant(c.Left), lay.constant(c.Right); !l.Equal(&r) {
			return nil, fmt.Errorf("%w: copy %s = %s between constants", ErrUnsatisfiable, c.Left, c.Right)
		}
	}
	//
	return lay, nil
}

// NumAdvice returns the number of secret variables.
func (p *layout) NumAdvice() uint {
	return p.table.ConstraintSystem().NumAdvice() * p.used
}

// NumPublic returns the number of public variables.
func (p *layout) NumPublic() uint {
	var n uint
	for _, m := range p.public {
		n += m
	}
	//
	return n
}

// isVariable determines whether a given cell is lowered into a variable.
func (p *layout) isVariable(cell plonkish.Cell) bool {
	switch cell.Column.Kind {
	case plonkish.ADVICE:
		return cell.Row < p.used
	case plonkish.INSTANCE:
		return cell.Row < p.public[cell.Column.Index]
	}
	//
	return false
}

// index returns the position of a variable cell within either the secret or
// public variables, as appropriate.
func (p *layout) index(cell plonkish.Cell) uint {
	if cell.Column.Kind == plonkish.INSTANCE {
		return p.offsets[cell.Column.Index] + cell.Row
	}
	//
	return cell.Column.Index*p.used + cell.Row
}

// constant returns the value held in a cell which is not lowered into a
// variable.  Unassigned advice cells outside the used rows are zero.
func (p *layout) constant(cell plonkish.Cell) field.Element {
	return p.table.Get(cell).UnwrapOr(field.Zero())
}

// circuit constructs an empty gnark circuit of the right shape for this
// layout, suitable for compilation.
func (p *layout) circuit() *tableCircuit {
	return &tableCircuit{
		Public: make([]frontend.Variable, p.NumPublic()),
		Advice: make([]frontend.Variable, p.NumAdvice()),
		Layout: p,
	}
}

// assignment constructs a gnark circuit whose variables are assigned from the
// table.  Every advice value within the used rows must be known.
func (p *layout) assignment() (*tableCircuit, error) {
	var (
		cs         = p.table.ConstraintSystem()
		assignment = p.circuit()
	)
	//
	for col := uint(0); col < cs.NumAdvice(); col++ {
		for row := uint(0); row < p.used; row++ {
			cell := plonkish.NewCell(plonkish.Column{Kind: plonkish.ADVICE, Index: col}, row)
			val := p.table.Get(cell)
			//
			if val.IsEmpty() {
				return nil, fmt.Errorf("%w: %s", ErrMissingWitness, cell)
			}
			//
			assignment.Advice[p.index(cell)] = field.ToBigInt(val.Unwrap())
		}
	}
	//
	for col, rows := range p.public {
		for row := uint(0); row < rows; row++ {
			cell := plonkish.NewCell(plonkish.Column{Kind: plonkish.INSTANCE, Index: uint(col)}, row)
			assignment.Public[p.index(cell)] = field.ToBigInt(p.constant(cell))
		}
	}
	//
	return assignment, nil
}

// shape captures everything about a table which determines the compiled gnark
// circuit, but nothing about its witness.
type shape struct {
	K         uint
	Used      uint
	NumAdvice uint
	NumFixed  uint
	Public    []uint
	Gates     []string
	Fixed     [][]field.Element
	Checks    []check
	Copies    []plonkish.Copy
}

// fingerprint summarises the shape of this layout, such that two layouts with
// equal fingerprints lower onto the same gnark circuit.
func (p *layout) fingerprint() ([]byte, error) {
	cs := p.table.ConstraintSystem()
	s := shape{
		K:         p.table.K(),
		Used:      p.used,
		NumAdvice: cs.NumAdvice(),
		NumFixed:  cs.NumFixed(),
		Public:    p.public,
		Checks:    p.checks,
		Copies:    p.copies,
	}
	//
	for _, gate := range cs.Gates() {
		for _, poly := range gate.Polys {
			s.Gates = append(s.Gates, fmt.Sprintf("%s:%s", gate.Name, poly))
		}
	}
	//
	for col := uint(0); col < cs.NumFixed(); col++ {
		column := make([]field.Element, p.used)
		//
		for row := range column {
			cell := plonkish.NewCell(plonkish.Column{Kind: plonkish.FIXED, Index: col}, uint(row))
			column[row] = p.constant(cell)
		}
		//
		s.Fixed = append(s.Fixed, column)
	}
	//
	bytes, err := cbor.Marshal(s)
	if err != nil {
		return nil, err
	}
	//
	digest := sha256.Sum256(bytes)
	//
	return digest[:], nil
}
