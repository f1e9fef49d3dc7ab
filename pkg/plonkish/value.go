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
	"github.com/consensys/go-maingate/pkg/util"
	"github.com/consensys/go-maingate/pkg/util/field"
)

// Value is a witness value which may be unknown.  Values are unknown during
// key generation, when the circuit's shape is determined without any witness
// being available.
type Value = util.Option[field.Element]

// Known constructs a value holding a given field element.
func Known(val field.Element) Value {
	return util.Some(val)
}

// Unknown constructs a value whose contents are not (yet) known.
func Unknown() Value {
	return util.None[field.Element]()
}

// AddValues adds two values together.  The result is unknown if either is.
func AddValues(x, y Value) Value {
	return util.ZipOption(x, y, func(a, b field.Element) field.Element { return field.Sum(a, b) })
}

// MulValues multiplies two values together.  The result is unknown if either
// is.
func MulValues(x, y Value) Value {
	return util.ZipOption(x, y, field.Mul)
}

// ScaleValue multiplies a value by a known constant.
func ScaleValue(x Value, c field.Element) Value {
	return util.MapOption(x, func(a field.Element) field.Element { return field.Mul(a, c) })
}

// AssignedCell is the result of assigning a value into a cell.  It records both
// where the value was placed, and the value itself.
type AssignedCell struct {
	value Value
	cell  Cell
}

// NewAssignedCell constructs an assigned cell.
func NewAssignedCell(value Value, cell Cell) AssignedCell {
	return AssignedCell{value, cell}
}

// Value returns the value assigned to this cell.
func (p AssignedCell) Value() Value { return p.value }

// Cell returns the location of this cell.
func (p AssignedCell) Cell() Cell { return p.cell }
