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
	"testing"

	"github.com/consensys/gnark/test"
	"github.com/consensys/go-maingate/pkg/chain"
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainTable(t *testing.T, n uint, witness bool) (*plonkish.Table, field.Element) {
	params, err := chain.DefaultParams(2, n)
	require.NoError(t, err)
	//
	inputs := make([]field.Element, n)
	for i := range inputs {
		inputs[i] = field.Uint64(uint64(i + 2))
	}
	//
	expected, err := chain.Hash(params, inputs)
	require.NoError(t, err)
	//
	var circuit plonkish.Circuit[chain.Config] = chain.NewCircuit(params, inputs)
	if !witness {
		circuit = circuit.WithoutWitnesses()
	}
	//
	_, table, err := plonkish.Synthesize(chain.MinK(n), circuit, [][]field.Element{{expected}})
	require.NoError(t, err)
	//
	return table, expected
}

func TestLayout_Chain(t *testing.T) {
	table, _ := chainTable(t, 2, true)
	//
	lay, err := newLayout(table)
	require.NoError(t, err)
	// Width 2 uses four advice columns, over four used rows
	assert.Equal(t, uint(16), lay.NumAdvice())
	assert.Equal(t, []uint{1}, lay.public)
	assert.Equal(t, uint(1), lay.NumPublic())
	// One check per used row, and four copies (three carries and the output)
	assert.Len(t, lay.checks, 4)
	assert.Len(t, lay.copies, 4)
}

func TestLayout_UnusedRowsFold(t *testing.T) {
	params, err := chain.DefaultParams(2, 1)
	require.NoError(t, err)
	// A table much larger than needed
	_, table, err := plonkish.Synthesize(5, chain.NewCircuit(params, []field.Element{field.One()}), nil)
	require.NoError(t, err)
	//
	lay, err := newLayout(table)
	require.NoError(t, err)
	assert.Len(t, lay.checks, 2)
	assert.Equal(t, uint(8), lay.NumAdvice())
}

func TestLayout_IsSolved(t *testing.T) {
	table, _ := chainTable(t, 3, true)
	//
	lay, err := newLayout(table)
	require.NoError(t, err)
	//
	assignment, err := lay.assignment()
	require.NoError(t, err)
	assert.NoError(t, test.IsSolved(lay.circuit(), assignment, Curve.ScalarField()))
	// Change the public output
	assignment.Public[0] = 1
	assert.Error(t, test.IsSolved(lay.circuit(), assignment, Curve.ScalarField()))
}

func TestLayout_IsSolvedTampered(t *testing.T) {
	table, _ := chainTable(t, 2, true)
	//
	lay, err := newLayout(table)
	require.NoError(t, err)
	//
	assignment, err := lay.assignment()
	require.NoError(t, err)
	// Change the first state cell of row 0
	assignment.Advice[0] = 12345
	assert.Error(t, test.IsSolved(lay.circuit(), assignment, Curve.ScalarField()))
}

func TestLayout_MissingWitness(t *testing.T) {
	table, _ := chainTable(t, 2, false)
	//
	lay, err := newLayout(table)
	require.NoError(t, err)
	//
	_, err = lay.assignment()
	assert.ErrorIs(t, err, ErrMissingWitness)
}

// constantCircuit registers a gate which depends only on a fixed column, such
// that enabling it can never be satisfied.
type constantCircuit struct {
	enable bool
}

func (c *constantCircuit) WithoutWitnesses() plonkish.Circuit[plonkish.Fixed] { return c }

func (c *constantCircuit) Configure(cs *plonkish.ConstraintSystem) plonkish.Fixed {
	q := cs.FixedColumn()
	//
	if err := cs.CreateGate("never", plonkish.QueryFixed(q, plonkish.Cur)); err != nil {
		panic(err)
	}
	//
	return q
}

func (c *constantCircuit) Synthesize(q plonkish.Fixed, layouter *plonkish.Layouter) error {
	_, err := plonkish.AssignRegion(layouter, "never", func(region *plonkish.Region) (plonkish.AssignedCell, error) {
		val := field.Zero()
		if c.enable {
			val = field.One()
		}
		//
		return region.AssignFixed("q", q, 0, val)
	})
	//
	return err
}

func TestLayout_Unsatisfiable(t *testing.T) {
	_, table, err := plonkish.Synthesize(1, &constantCircuit{false}, nil)
	require.NoError(t, err)
	//
	lay, err := newLayout(table)
	require.NoError(t, err)
	assert.Empty(t, lay.checks)
	//
	_, table, err = plonkish.Synthesize(1, &constantCircuit{true}, nil)
	require.NoError(t, err)
	//
	_, err = newLayout(table)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
	//
	_, err = Setup(1, &constantCircuit{true})
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestLayout_Fingerprint(t *testing.T) {
	keygen, _ := chainTable(t, 2, false)
	witness, _ := chainTable(t, 2, true)
	other, _ := chainTable(t, 1, true)
	//
	fingerprint := func(table *plonkish.Table) []byte {
		lay, err := newLayout(table)
		require.NoError(t, err)
		//
		bytes, err := lay.fingerprint()
		require.NoError(t, err)
		//
		return bytes
	}
	//
	assert.Equal(t, fingerprint(keygen), fingerprint(witness))
	assert.NotEqual(t, fingerprint(keygen), fingerprint(other))
}
