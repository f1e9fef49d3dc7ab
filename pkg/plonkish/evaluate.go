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

	"github.com/consensys/go-maingate/pkg/util/field"
)

// Evaluator provides the semantics needed to evaluate an expression into some
// domain T.  For example, the mock prover evaluates expressions over concrete
// field elements whilst the proof backend evaluates them into circuit
// variables.
type Evaluator[T any] interface {
	// Constant lifts a field element into the domain.
	Constant(field.Element) T
	// Query resolves a column query for the row being evaluated.
	Query(Query) T
	// Add two values
	Add(T, T) T
	// Mul two values
	Mul(T, T) T
	// Neg computes the additive inverse of a value
	Neg(T) T
}

// Evaluate an expression using a given evaluator.
func Evaluate[T any](expr Expression, ev Evaluator[T]) T {
	switch e := expr.(type) {
	case Constant:
		return ev.Constant(e.Value)
	case Query:
		return ev.Query(e)
	case *Sum:
		acc := Evaluate(e.Args[0], ev)
		for _, arg := range e.Args[1:] {
			acc = ev.Add(acc, Evaluate(arg, ev))
		}
		//
		return acc
	case *Product:
		acc := Evaluate(e.Args[0], ev)
		for _, arg := range e.Args[1:] {
			acc = ev.Mul(acc, Evaluate(arg, ev))
		}
		//
		return acc
	case *Negated:
		return ev.Neg(Evaluate(e.Arg, ev))
	case *Scaled:
		return ev.Mul(ev.Constant(e.Factor), Evaluate(e.Arg, ev))
	default:
		panic(fmt.Sprintf("unknown expression %T", expr))
	}
}

// ============================================================================
// Row evaluator
// ============================================================================

// RowEvaluator evaluates expressions over the concrete contents of a table at a
// given row.  Queries which fall outside the table wrap around, matching the
// cyclic evaluation domain of the underlying polynomials.  Unknown advice
// values read as zero and are recorded so callers can report them.
type RowEvaluator struct {
	table *Table
	row   uint
	// Cells read which held unknown values
	Unknown []Cell
}

// NewRowEvaluator constructs an evaluator for a given row of a given table.
func NewRowEvaluator(table *Table, row uint) *RowEvaluator {
	return &RowEvaluator{table, row, nil}
}

// Constant implementation for Evaluator interface.
func (p *RowEvaluator) Constant(val field.Element) field.Element { return val }

// Query implementation for Evaluator interface.
func (p *RowEvaluator) Query(q Query) field.Element {
	cell := p.table.Resolve(q, p.row)
	val := p.table.Get(cell)
	//
	if val.IsEmpty() {
		p.Unknown = append(p.Unknown, cell)
		return field.Zero()
	}
	//
	return val.Unwrap()
}

// Add implementation for Evaluator interface.
func (p *RowEvaluator) Add(x, y field.Element) field.Element { return field.Sum(x, y) }

// Mul implementation for Evaluator interface.
func (p *RowEvaluator) Mul(x, y field.Element) field.Element { return field.Mul(x, y) }

// Neg implementation for Evaluator interface.
func (p *RowEvaluator) Neg(x field.Element) field.Element { return field.Neg(x) }
