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
	"errors"
	"fmt"

	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util"
	"github.com/consensys/go-maingate/pkg/util/field"
)

// ErrRowWidth is returned when a row provides a number of selectors or state
// values which differs from the width of the gate.
var ErrRowWidth = errors.New("row does not match gate width")

// Row describes the contents of a single row of the main gate.  Every field
// except QO and Out is optional: a nil slice or empty option means the
// corresponding selector is not written on this row, and hence its term drops
// out of the identity.
type Row struct {
	// Linear selectors q_1[0..T]
	Q1 []field.Element
	// Quintic selectors q_5[0..T]
	Q5 []field.Element
	// Multiplication selector q_m
	QM util.Option[field.Element]
	// State values state[0..T]
	State []WrapValue
	// Input selector q_i
	QI util.Option[field.Element]
	// Input value (nil when not used)
	Input WrapValue
	// Round constant
	RC util.Option[field.Element]
	// Output selector q_o
	QO field.Element
	// Output value, which must not be Zero.
	Out WrapValue
}

// MainGate is a single fixed-shape gate whose per-row selectors allow it to
// emulate additions, multiplications, quintic S-boxes and fan-in
// accumulations.
type MainGate struct {
	config Config
}

// New constructs a main gate from a given configuration.
func New(config Config) *MainGate {
	return &MainGate{config}
}

// Config returns the column layout of this gate.
func (p *MainGate) Config() Config {
	return p.config
}

// Width returns the width (T) of this gate.
func (p *MainGate) Width() uint {
	return p.config.Width
}

// Apply fills exactly one row of the gate at the cursor's current offset, and
// then advances the cursor.  Selectors are written first (q_1, q_5, q_m), then
// the state, then the input, the round constant, the output selector and
// finally the output.  Assigned values are re-assigned into this row and
// copy-constrained to their original cell.  The assigned output cell is
// returned.  Using Zero as the output is a programming error, and panics.
func (p *MainGate) Apply(ctx *RegionCtx, row Row) (plonkish.AssignedCell, error) {
	// Nothing is written for a row which cannot produce an output.
	switch row.Out.(type) {
	case Zero:
		panic("main gate output cannot be the Zero placeholder")
	case nil:
		panic("main gate output is missing")
	}
	//
	if err := p.checkWidth(row); err != nil {
		return plonkish.AssignedCell{}, err
	}
	//
	if row.Q1 != nil {
		for i, val := range row.Q1 {
			if _, err := ctx.AssignFixed("q_1", p.config.Q1[i], val); err != nil {
				return plonkish.AssignedCell{}, err
			}
		}
	}
	//
	if row.Q5 != nil {
		for i, val := range row.Q5 {
			if _, err := ctx.AssignFixed("q_5", p.config.Q5[i], val); err != nil {
				return plonkish.AssignedCell{}, err
			}
		}
	}
	//
	if row.QM.HasValue() {
		if _, err := ctx.AssignFixed("q_m", p.config.QM, row.QM.Unwrap()); err != nil {
			return plonkish.AssignedCell{}, err
		}
	}
	//
	if row.State != nil {
		for i, val := range row.State {
			if _, err := assignOperand(ctx, "state", p.config.State[i], val); err != nil {
				return plonkish.AssignedCell{}, err
			}
		}
	}
	//
	if row.QI.HasValue() {
		if _, err := ctx.AssignFixed("q_i", p.config.QI, row.QI.Unwrap()); err != nil {
			return plonkish.AssignedCell{}, err
		}
	}
	//
	if row.Input != nil {
		if _, err := assignOperand(ctx, "input", p.config.Input, row.Input); err != nil {
			return plonkish.AssignedCell{}, err
		}
	}
	//
	if row.RC.HasValue() {
		if _, err := ctx.AssignFixed("rc", p.config.RC, row.RC.Unwrap()); err != nil {
			return plonkish.AssignedCell{}, err
		}
	}
	//
	if _, err := ctx.AssignFixed("q_o", p.config.QO, row.QO); err != nil {
		return plonkish.AssignedCell{}, err
	}
	//
	out, err := p.assignOutput(ctx, row.Out)
	if err != nil {
		return plonkish.AssignedCell{}, err
	}
	//
	ctx.Next()
	//
	return out, nil
}

func (p *MainGate) assignOutput(ctx *RegionCtx, out WrapValue) (plonkish.AssignedCell, error) {
	switch w := out.(type) {
	case Unassigned:
		return ctx.AssignAdvice("out", p.config.Out, w.Value)
	case Assigned:
		return copyInto(ctx, "out", p.config.Out, w.Cell)
	default:
		panic(fmt.Sprintf("unexpected output %T", out))
	}
}

func (p *MainGate) checkWidth(row Row) error {
	width := int(p.config.Width)
	//
	switch {
	case row.Q1 != nil && len(row.Q1) != width:
		return fmt.Errorf("%w: %d linear selectors for width %d", ErrRowWidth, len(row.Q1), width)
	case row.Q5 != nil && len(row.Q5) != width:
		return fmt.Errorf("%w: %d quintic selectors for width %d", ErrRowWidth, len(row.Q5), width)
	case row.State != nil && len(row.State) != width:
		return fmt.Errorf("%w: %d state values for width %d", ErrRowWidth, len(row.State), width)
	}
	//
	return nil
}

// assignOperand places a state or input value into the current row.  Zero
// placeholders are skipped, leaving the cell at its default.
func assignOperand(ctx *RegionCtx, label string, column plonkish.Advice, val WrapValue) (util.Option[plonkish.AssignedCell],
	error) {
	//
	var (
		cell plonkish.AssignedCell
		err  error
	)
	//
	switch w := val.(type) {
	case Unassigned:
		cell, err = ctx.AssignAdvice(label, column, w.Value)
	case Assigned:
		cell, err = copyInto(ctx, label, column, w.Cell)
	case Zero:
		return util.None[plonkish.AssignedCell](), nil
	default:
		panic(fmt.Sprintf("unknown wrapped value %T", val))
	}
	//
	if err != nil {
		return util.None[plonkish.AssignedCell](), err
	}
	//
	return util.Some(cell), nil
}

// copyInto re-assigns the value of a previously assigned cell into the current
// row, and constrains the two cells to be equal.
func copyInto(ctx *RegionCtx, label string, column plonkish.Advice, src plonkish.AssignedCell) (plonkish.AssignedCell,
	error) {
	//
	dst, err := ctx.AssignAdvice(label, column, src.Value())
	if err != nil {
		return dst, err
	}
	//
	return dst, ctx.ConstrainEqual(dst.Cell(), src.Cell())
}
