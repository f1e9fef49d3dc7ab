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
	"github.com/consensys/go-maingate/pkg/util/field"
)

// WrapValue describes a value supplied to the main gate.  It is one of exactly
// three variants: Assigned (a previously placed cell, which must be
// copy-constrained to its new location), Unassigned (a fresh, possibly unknown,
// witness value) or Zero (a placeholder for a slot which carries no useful
// value).  Consumers must match on all three.
type WrapValue interface {
	wrapValue()
}

// Assigned wraps a previously assigned cell.
type Assigned struct {
	Cell plonkish.AssignedCell
}

// Unassigned wraps a fresh witness value.
type Unassigned struct {
	Value plonkish.Value
}

// Zero is a structural placeholder which participates in no useful value.  It
// can never be used as the output of a gate.
type Zero struct{}

func (Assigned) wrapValue()   {}
func (Unassigned) wrapValue() {}
func (Zero) wrapValue()       {}

// FromAssigned wraps a previously assigned cell.
func FromAssigned(cell plonkish.AssignedCell) WrapValue {
	return Assigned{cell}
}

// FromValue wraps a fresh (possibly unknown) witness value.
func FromValue(val plonkish.Value) WrapValue {
	return Unassigned{val}
}

// Known wraps a fresh witness value which is known.
func Known(val field.Element) WrapValue {
	return Unassigned{plonkish.Known(val)}
}

// ValueOf returns the value carried by a wrapped value.  The Zero placeholder
// carries a known zero.
func ValueOf(w WrapValue) plonkish.Value {
	switch w := w.(type) {
	case Assigned:
		return w.Cell.Value()
	case Unassigned:
		return w.Value
	case Zero:
		return plonkish.Known(field.Zero())
	default:
		panic(fmt.Sprintf("unknown wrapped value %T", w))
	}
}
