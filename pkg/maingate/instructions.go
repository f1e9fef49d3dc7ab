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
package maingate

import (
	"fmt"

	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util"
	"github.com/consensys/go-maingate/pkg/util/field"
)

// The helpers below express common operations as single rows of the main gate.
// In each case the output selector is -1, so the row enforces "out = f(...)".
// Output values are computed from the operands when they are known, and are
// unknown otherwise.

// Mul constrains out = a * b.
func (p *MainGate) Mul(ctx *RegionCtx, a, b WrapValue) (plonkish.AssignedCell, error) {
	out := plonkish.MulValues(ValueOf(a), ValueOf(b))
	//
	return p.Apply(ctx, Row{
		QM:    util.Some(field.One()),
		State: p.operands(a, b),
		QO:    field.Int64(-1),
		Out:   FromValue(out),
	})
}

// Add constrains out = a + b.
func (p *MainGate) Add(ctx *RegionCtx, a, b WrapValue) (plonkish.AssignedCell, error) {
	return p.LinearCombination(ctx, []field.Element{field.One(), field.One()}, []WrapValue{a, b}, field.Zero())
}

// AddConstant constrains out = x + c.
func (p *MainGate) AddConstant(ctx *RegionCtx, x WrapValue, c field.Element) (plonkish.AssignedCell, error) {
	return p.LinearCombination(ctx, []field.Element{field.One()}, []WrapValue{x}, c)
}

// Pow5 constrains out = x^5.
func (p *MainGate) Pow5(ctx *RegionCtx, x WrapValue) (plonkish.AssignedCell, error) {
	out := util.MapOption(ValueOf(x), field.Pow5)
	//
	return p.Apply(ctx, Row{
		Q5:    p.selectors(field.One()),
		State: p.operands(x),
		QO:    field.Int64(-1),
		Out:   FromValue(out),
	})
}

// LinearCombination constrains out = Σ coeffs[i]*terms[i] + constant.  At most
// width terms can be combined in a single row.
func (p *MainGate) LinearCombination(ctx *RegionCtx, coeffs []field.Element, terms []WrapValue,
	constant field.Element) (plonkish.AssignedCell, error) {
	//
	if len(coeffs) != len(terms) {
		return plonkish.AssignedCell{}, fmt.Errorf("%w: %d coefficients for %d terms", ErrRowWidth, len(coeffs),
			len(terms))
	} else if uint(len(terms)) > p.config.Width {
		return plonkish.AssignedCell{}, fmt.Errorf("%w: %d terms for width %d", ErrRowWidth, len(terms),
			p.config.Width)
	}
	//
	out := plonkish.Known(constant)
	for i, t := range terms {
		out = plonkish.AddValues(out, plonkish.ScaleValue(ValueOf(t), coeffs[i]))
	}
	//
	row := Row{
		Q1:    p.selectors(coeffs...),
		State: p.operands(terms...),
		QO:    field.Int64(-1),
		Out:   FromValue(out),
	}
	//
	if !constant.IsZero() {
		row.RC = util.Some(constant)
	}
	//
	return p.Apply(ctx, row)
}

// AssertEqual constrains a = b, using a row with state[0] = a and out = b.
func (p *MainGate) AssertEqual(ctx *RegionCtx, a, b WrapValue) error {
	_, err := p.Apply(ctx, Row{
		Q1:    p.selectors(field.One()),
		State: p.operands(a),
		QO:    field.Int64(-1),
		Out:   b,
	})
	//
	return err
}

// selectors pads a prefix of selector values with zeros up to the gate width.
func (p *MainGate) selectors(prefix ...field.Element) []field.Element {
	selectors := make([]field.Element, p.config.Width)
	copy(selectors, prefix)
	//
	return selectors
}

// operands pads a prefix of state values with Zero placeholders up to the gate
// width.
func (p *MainGate) operands(prefix ...WrapValue) []WrapValue {
	state := make([]WrapValue, p.config.Width)
	//
	for i := range state {
		if i < len(prefix) {
			state[i] = prefix[i]
		} else {
			state[i] = Zero{}
		}
	}
	//
	return state
}
