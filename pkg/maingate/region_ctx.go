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
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util/field"
)

// RegionCtx is a cursor over the rows of a region.  Every assignment targets the
// row at the current offset, and the offset only ever moves forwards (via
// Next).  A RegionCtx owns nothing beyond its offset: all cell data lives in the
// underlying table.  A cursor must not be shared between concurrent callers,
// since row ordering is part of the layout.
type RegionCtx struct {
	region *plonkish.Region
	offset uint
}

// NewRegionCtx constructs a cursor over a given region, starting at a given
// offset within that region.
func NewRegionCtx(region *plonkish.Region, offset uint) *RegionCtx {
	return &RegionCtx{region, offset}
}

// Offset returns the current offset within the region.
func (p *RegionCtx) Offset() uint {
	return p.offset
}

// Region returns the region this cursor writes into.
func (p *RegionCtx) Region() *plonkish.Region {
	return p.region
}

// AssignFixed writes a value into a fixed column at the current offset.
func (p *RegionCtx) AssignFixed(label string, column plonkish.Fixed, val field.Element) (plonkish.AssignedCell, error) {
	return p.region.AssignFixed(label, column, p.offset, val)
}

// AssignAdvice writes a (possibly unknown) value into an advice column at the
// current offset.
func (p *RegionCtx) AssignAdvice(label string, column plonkish.Advice, val plonkish.Value) (plonkish.AssignedCell,
	error) {
	return p.region.AssignAdvice(label, column, p.offset, val)
}

// ConstrainEqual records that two cells must hold the same value.  Constraining
// a cell to itself has no effect.
func (p *RegionCtx) ConstrainEqual(left plonkish.Cell, right plonkish.Cell) error {
	if left == right {
		return nil
	}
	//
	return p.region.ConstrainEqual(left, right)
}

// Next advances the cursor to the following row.
func (p *RegionCtx) Next() {
	p.offset++
}
