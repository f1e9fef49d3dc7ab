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
package mock

import (
	"fmt"
	"strings"

	"github.com/consensys/go-maingate/pkg/plonkish"
)

// Failure describes a reason why a table is not accepted by its constraint
// system.
type Failure interface {
	// Message provides a suitable error message
	Message() string
	// Cells identifies the cells involved in this failure.
	Cells() []plonkish.Cell
}

// ConstraintFailure reports a gate polynomial which did not vanish on a given
// row.
type ConstraintFailure struct {
	// Name of the failing gate
	Gate string
	// Index of the failing polynomial within the gate
	Poly uint
	// Row on which the polynomial failed
	Row uint
	// Value the polynomial evaluated to
	Result plonkish.Value
	// Cells read when evaluating the polynomial
	Queried []plonkish.Cell
}

// Message provides a suitable error message
func (p *ConstraintFailure) Message() string {
	return fmt.Sprintf("constraint %d of gate %q does not vanish on row %d (evaluates to %s)",
		p.Poly, p.Gate, p.Row, plonkish.FormatValue(p.Result))
}

// Cells identifies the cells involved in this failure.
func (p *ConstraintFailure) Cells() []plonkish.Cell {
	return p.Queried
}

func (p *ConstraintFailure) String() string {
	return p.Message()
}

// PermutationFailure reports a copy constraint between two cells holding
// different values.
type PermutationFailure struct {
	Left       plonkish.Cell
	LeftValue  plonkish.Value
	Right      plonkish.Cell
	RightValue plonkish.Value
}

// Message provides a suitable error message
func (p *PermutationFailure) Message() string {
	return fmt.Sprintf("copy constraint %s (%s) = %s (%s) does not hold", p.Left,
		plonkish.FormatValue(p.LeftValue), p.Right, plonkish.FormatValue(p.RightValue))
}

// Cells identifies the cells involved in this failure.
func (p *PermutationFailure) Cells() []plonkish.Cell {
	return []plonkish.Cell{p.Left, p.Right}
}

func (p *PermutationFailure) String() string {
	return p.Message()
}

// UnknownValueFailure reports a cell whose value was required, but which was
// never made known.  This arises when a circuit is synthesised for proving
// whilst some witness values are still missing.
type UnknownValueFailure struct {
	Cell plonkish.Cell
}

// Message provides a suitable error message
func (p *UnknownValueFailure) Message() string {
	return fmt.Sprintf("cell %s holds an unknown value", p.Cell)
}

// Cells identifies the cells involved in this failure.
func (p *UnknownValueFailure) Cells() []plonkish.Cell {
	return []plonkish.Cell{p.Cell}
}

func (p *UnknownValueFailure) String() string {
	return p.Message()
}

// ============================================================================

// VerifyError is returned when a table is rejected, and carries every failure
// found.
type VerifyError struct {
	Failures []Failure
}

// maxReported bounds the number of failures included in an error message.
const maxReported = 8

func (p *VerifyError) Error() string {
	var builder strings.Builder
	//
	fmt.Fprintf(&builder, "%d failure(s)", len(p.Failures))
	//
	for i, f := range p.Failures {
		if i == maxReported {
			fmt.Fprintf(&builder, "; and %d more", len(p.Failures)-maxReported)
			break
		}
		//
		builder.WriteString("; ")
		builder.WriteString(f.Message())
	}
	//
	return builder.String()
}
