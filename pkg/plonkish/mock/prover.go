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
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util"
	"github.com/consensys/go-maingate/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Prover checks a filled table directly against its constraint system, without
// producing a proof.  This gives precise feedback on which constraints fail,
// and is the primary means of testing circuits.
type Prover struct {
	cs    *plonkish.ConstraintSystem
	table *plonkish.Table
}

// Run synthesises a circuit into a table of 2^k rows using the given instance
// values, and returns a prover which can check it.
func Run[C any](k uint, circuit plonkish.Circuit[C], instance [][]field.Element) (*Prover, error) {
	cs, table, err := plonkish.Synthesize(k, circuit, instance)
	if err != nil {
		return nil, err
	}
	//
	return &Prover{cs, table}, nil
}

// NewProver constructs a prover for an already filled table.
func NewProver(table *plonkish.Table) *Prover {
	return &Prover{table.ConstraintSystem(), table}
}

// ConstraintSystem returns the constraint system being checked.
func (p *Prover) ConstraintSystem() *plonkish.ConstraintSystem { return p.cs }

// Table returns the table being checked.  Modifying the table (e.g. to check
// that a tampered witness is rejected) affects subsequent calls to Verify.
func (p *Prover) Table() *plonkish.Table { return p.table }

// Verify checks every gate on every row, and every copy constraint.  If the
// table is accepted nil is returned, otherwise a *VerifyError.
func (p *Prover) Verify() error {
	if failures := p.Failures(); len(failures) > 0 {
		return &VerifyError{failures}
	}
	//
	return nil
}

// Failures returns every failure found in the table.  Gate failures are
// reported first (by gate, then polynomial, then row), followed by any copy
// constraint failures in the order in which they were recorded.  Each gate
// polynomial is checked in its own go-routine.
func (p *Prover) Failures() []Failure {
	var (
		stats    = util.NewPerfStats()
		failures []Failure
		unknown  = make(map[plonkish.Cell]bool)
		results  []chan polyResult
	)
	// Records an unknown cell, reporting each only once.
	reportUnknown := func(cell plonkish.Cell) {
		if !unknown[cell] {
			unknown[cell] = true
			failures = append(failures, &UnknownValueFailure{cell})
		}
	}
	// Launch checker for each polynomial
	for _, gate := range p.cs.Gates() {
		for i, poly := range gate.Polys {
			c := make(chan polyResult, 1)
			results = append(results, c)
			//
			go func() {
				c <- p.holdsEverywhere(gate.Name, uint(i), poly)
			}()
		}
	}
	// Read responses back in launch order, so reports are deterministic.
	for _, c := range results {
		res := <-c
		//
		for j, f := range res.failures {
			for _, cell := range res.unknown[j] {
				reportUnknown(cell)
			}
			//
			if f != nil {
				failures = append(failures, f)
			}
		}
	}
	//
	for _, c := range p.table.Copies() {
		lhs, rhs := p.table.Get(c.Left), p.table.Get(c.Right)
		//
		if lhs.IsEmpty() || rhs.IsEmpty() {
			for _, cell := range []plonkish.Cell{c.Left, c.Right} {
				if p.table.Get(cell).IsEmpty() {
					reportUnknown(cell)
				}
			}
		} else if l, r := lhs.Unwrap(), rhs.Unwrap(); !l.Equal(&r) {
			failures = append(failures, &PermutationFailure{c.Left, lhs, c.Right, rhs})
		}
	}
	//
	stats.Log("mock verification")
	log.Debugf("mock verification found %d failure(s)", len(failures))
	//
	return failures
}

// polyResult holds the outcome of checking one polynomial on every row.  For
// each row, the failure (or nil) and any unknown cells encountered.
type polyResult struct {
	failures []Failure
	unknown  [][]plonkish.Cell
}

func (p *Prover) holdsEverywhere(gate string, index uint, poly plonkish.Expression) polyResult {
	var (
		n   = p.table.Rows()
		res = polyResult{make([]Failure, n), make([][]plonkish.Cell, n)}
	)
	//
	for row := uint(0); row < n; row++ {
		res.failures[row], res.unknown[row] = p.holdsLocally(gate, index, poly, row)
	}
	//
	return res
}

// holdsLocally checks whether a given polynomial vanishes on a given row.
func (p *Prover) holdsLocally(gate string, index uint, poly plonkish.Expression,
	row uint) (Failure, []plonkish.Cell) {
	//
	ev := plonkish.NewRowEvaluator(p.table, row)
	res := plonkish.Evaluate[field.Element](poly, ev)
	//
	if res.IsZero() {
		return nil, ev.Unknown
	}
	//
	var cells []plonkish.Cell
	for _, q := range poly.Queries(nil) {
		cells = append(cells, p.table.Resolve(q, row))
	}
	//
	return &ConstraintFailure{gate, index, row, plonkish.Known(res), cells}, ev.Unknown
}
