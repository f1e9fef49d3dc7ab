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
	log "github.com/sirupsen/logrus"
)

// Region is a contiguous run of rows of the table, within which a component
// lays out its witness.  Assignments are made relative to the start of the
// region.  A region's height is determined by the highest offset assigned.
type Region struct {
	table *Table
	name  string
	start uint
	// One past the highest offset assigned
	height uint
}

// Name returns the name of this region.
func (p *Region) Name() string { return p.name }

// Start returns the absolute row at which this region begins.
func (p *Region) Start() uint { return p.start }

// Height returns the number of rows occupied by this region.
func (p *Region) Height() uint { return p.height }

// AssignAdvice assigns a value into an advice column at a given offset within
// this region.  The value may be unknown.
func (p *Region) AssignAdvice(label string, column Advice, offset uint, val Value) (AssignedCell, error) {
	row := p.start + offset
	//
	if err := p.table.AssignAdvice(column, row, val); err != nil {
		return AssignedCell{}, fmt.Errorf("assigning %q in region %q: %w", label, p.name, err)
	}
	//
	p.height = max(p.height, offset+1)
	//
	return AssignedCell{val, Cell{column.Column(), row}}, nil
}

// AssignFixed assigns a value into a fixed column at a given offset within this
// region.
func (p *Region) AssignFixed(label string, column Fixed, offset uint, val field.Element) (AssignedCell, error) {
	row := p.start + offset
	//
	if err := p.table.AssignFixed(column, row, val); err != nil {
		return AssignedCell{}, fmt.Errorf("assigning %q in region %q: %w", label, p.name, err)
	}
	//
	p.height = max(p.height, offset+1)
	//
	return AssignedCell{Known(val), Cell{column.Column(), row}}, nil
}

// ConstrainEqual records that two cells must hold the same value.  The cells
// need not reside within this region.
func (p *Region) ConstrainEqual(left Cell, right Cell) error {
	if err := p.table.Copy(left, right); err != nil {
		return fmt.Errorf("constraining %s = %s in region %q: %w", left, right, p.name, err)
	}
	//
	return nil
}

// ============================================================================
// Layouter
// ============================================================================

// Layouter places regions within the table.  Regions are laid out one after
// the other in the order in which they are assigned, hence no two regions ever
// share a row.
type Layouter struct {
	table   *Table
	next    uint
	regions []*Region
}

// NewLayouter constructs a layouter over a given table, starting from row 0.
func NewLayouter(table *Table) *Layouter {
	return &Layouter{table, 0, nil}
}

// Table returns the table being laid out.
func (p *Layouter) Table() *Table { return p.table }

// Regions returns the regions assigned so far.
func (p *Layouter) Regions() []*Region { return p.regions }

// AssignRegion allocates a new region directly after all previously assigned
// regions, and runs the given function to fill it.  Any error returned by the
// function aborts the synthesis pass.
func AssignRegion[T any](l *Layouter, name string, fn func(*Region) (T, error)) (T, error) {
	region := &Region{l.table, name, l.next, 0}
	//
	res, err := fn(region)
	if err != nil {
		return res, err
	}
	//
	l.next += region.height
	l.regions = append(l.regions, region)
	//
	log.Debugf("region %q occupies rows %d..%d", name, region.start, region.start+region.height)
	//
	return res, nil
}

// ConstrainInstance binds a cell to a given row of an instance column, such
// that both must hold the same value.
func (p *Layouter) ConstrainInstance(cell Cell, column Instance, row uint) error {
	if err := p.table.Copy(cell, Cell{column.Column(), row}); err != nil {
		return fmt.Errorf("constraining %s to instance row %d: %w", cell, row, err)
	}
	//
	return nil
}
