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
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util/field"
)

// tableCircuit is the gnark circuit onto which a table lowers.
type tableCircuit struct {
	Public []frontend.Variable `gnark:",public"`
	Advice []frontend.Variable `gnark:",secret"`
	Layout *layout             `gnark:"-"`
}

// Define enforces every non-trivial gate polynomial and copy constraint.
func (p *tableCircuit) Define(api frontend.API) error {
	gates := p.Layout.table.ConstraintSystem().Gates()
	//
	for _, c := range p.Layout.checks {
		poly := gates[c.Gate].Polys[c.Poly]
		res := plonkish.Evaluate[term](poly, p.Layout.evaluator(api, p.lookup, c.Row))
		api.AssertIsEqual(res.asVariable(), 0)
	}
	//
	for _, c := range p.Layout.copies {
		api.AssertIsEqual(p.term(c.Left).asVariable(), p.term(c.Right).asVariable())
	}
	//
	return nil
}

func (p *tableCircuit) lookup(cell plonkish.Cell) frontend.Variable {
	if cell.Column.Kind == plonkish.INSTANCE {
		return p.Public[p.Layout.index(cell)]
	}
	//
	return p.Advice[p.Layout.index(cell)]
}

func (p *tableCircuit) term(cell plonkish.Cell) term {
	if p.Layout.isVariable(cell) {
		return term{variable: p.lookup(cell)}
	}
	//
	return constantTerm(p.Layout.constant(cell))
}

// ============================================================================
// Evaluation over gnark variables
// ============================================================================

// term is either a constant known when the circuit is compiled, or a gnark
// variable.  Constants are folded as far as possible, so that rows whose
// selectors are all zero emit no constraints.
type term struct {
	constant bool
	value    field.Element
	variable frontend.Variable
}

func constantTerm(val field.Element) term {
	return term{constant: true, value: val}
}

func (t term) isZero() bool {
	return t.constant && t.value.IsZero()
}

func (t term) isOne() bool {
	return t.constant && t.value.IsOne()
}

func (t term) asVariable() frontend.Variable {
	if t.constant {
		return field.ToBigInt(t.value)
	}
	//
	return t.variable
}

// evaluator implements plonkish.Evaluator over terms.  When no API is given,
// only the distinction between constants and variables is tracked, which is
// used to determine which constraints need emitting.
type evaluator struct {
	api    frontend.API
	lookup func(plonkish.Cell) frontend.Variable
	layout *layout
	row    uint
}

func (p *layout) evaluator(api frontend.API, lookup func(plonkish.Cell) frontend.Variable, row uint) *evaluator {
	return &evaluator{api, lookup, p, row}
}

func (p *evaluator) Constant(val field.Element) term {
	return constantTerm(val)
}

func (p *evaluator) Query(q plonkish.Query) term {
	cell := p.layout.table.Resolve(q, p.row)
	//
	if !p.layout.isVariable(cell) {
		return constantTerm(p.layout.constant(cell))
	} else if p.api == nil {
		return term{}
	}
	//
	return term{variable: p.lookup(cell)}
}

func (p *evaluator) Add(x, y term) term {
	switch {
	case x.constant && y.constant:
		return constantTerm(field.Sum(x.value, y.value))
	case x.isZero():
		return y
	case y.isZero():
		return x
	case p.api == nil:
		return term{}
	}
	//
	return term{variable: p.api.Add(x.asVariable(), y.asVariable())}
}

func (p *evaluator) Mul(x, y term) term {
	switch {
	case x.isZero() || y.isZero():
		return constantTerm(field.Zero())
	case x.constant && y.constant:
		return constantTerm(field.Mul(x.value, y.value))
	case x.isOne():
		return y
	case y.isOne():
		return x
	case p.api == nil:
		return term{}
	}
	//
	return term{variable: p.api.Mul(x.asVariable(), y.asVariable())}
}

func (p *evaluator) Neg(x term) term {
	switch {
	case x.constant:
		return constantTerm(field.Neg(x.value))
	case p.api == nil:
		return term{}
	}
	//
	return term{variable: p.api.Neg(x.variable)}
}
