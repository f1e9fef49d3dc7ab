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

	"github.com/consensys/go-maingate/pkg/util"
	"github.com/consensys/go-maingate/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Circuit describes a circuit which can be configured over a constraint system,
// and then synthesised into a table.  The type parameter C is the
// configuration produced by Configure and consumed by Synthesize.
type Circuit[C any] interface {
	// WithoutWitnesses returns a copy of this circuit with all witness values
	// replaced by unknown values, as used for key generation.
	WithoutWitnesses() Circuit[C]
	// Configure allocates the columns and registers the gates used by this
	// circuit.  This is called once per synthesis pass.
	Configure(cs *ConstraintSystem) C
	// Synthesize lays out the witness of this circuit.
	Synthesize(config C, layouter *Layouter) error
}

// Synthesize configures a fresh constraint system for the given circuit, then
// fills a table of 2^k rows by synthesising the circuit over it.  The given
// instance values populate the table's instance columns.  Any error arising
// during synthesis aborts the pass and is returned as is.
func Synthesize[C any](k uint, circuit Circuit[C], instance [][]field.Element) (*ConstraintSystem, *Table, error) {
	var (
		stats = util.NewPerfStats()
		cs    = NewConstraintSystem()
	)
	//
	config := circuit.Configure(cs)
	//
	table, err := NewTable(cs, k, instance)
	if err != nil {
		return nil, nil, err
	}
	//
	layouter := NewLayouter(table)
	//
	if err := circuit.Synthesize(config, layouter); err != nil {
		return nil, nil, fmt.Errorf("synthesis failed: %w", err)
	}
	//
	log.Debugf("synthesised %d rows (of %d) over %d advice, %d fixed and %d instance columns",
		table.UsedRows(), table.Rows(), cs.NumAdvice(), cs.NumFixed(), cs.NumInstance())
	stats.Log("synthesis")
	//
	return cs, table, nil
}
