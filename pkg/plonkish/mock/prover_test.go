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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareCircuit enforces y = x^2 on each enabled row, with each x copied from
// the previous y.
type squareCircuit struct {
	start plonkish.Value
	steps uint
}

type squareConfig struct {
	x, y plonkish.Advice
	s    plonkish.Fixed
	out  plonkish.Instance
}

func (c *squareCircuit) WithoutWitnesses() plonkish.Circuit[squareConfig] {
	return &squareCircuit{plonkish.Unknown(), c.steps}
}

func (c *squareCircuit) Configure(cs *plonkish.ConstraintSystem) squareConfig {
	config := squareConfig{cs.AdviceColumn(), cs.AdviceColumn(), cs.FixedColumn(), cs.InstanceColumn()}
	//
	for _, col := range []plonkish.Column{config.x.Column(), config.y.Column(), config.out.Column()} {
		if err := cs.EnableEquality(col); err != nil {
			panic(err)
		}
	}
	//
	x := plonkish.QueryAdvice(config.x, plonkish.Cur)
	y := plonkish.QueryAdvice(config.y, plonkish.Cur)
	s := plonkish.QueryFixed(config.s, plonkish.Cur)
	//
	if err := cs.CreateGate("square", plonkish.Mul(s, plonkish.Sub(y, plonkish.Mul(x, x)))); err != nil {
		panic(err)
	}
	//
	return config
}

func (c *squareCircuit) Synthesize(config squareConfig, layouter *plonkish.Layouter) error {
	y, err := plonkish.AssignRegion(layouter, "squares", func(region *plonkish.Region) (plonkish.AssignedCell, error) {
		var (
			val  = c.start
			prev plonkish.AssignedCell
		)
		//
		for i := uint(0); i < c.steps; i++ {
			if _, err := region.AssignFixed("s", config.s, i, field.One()); err != nil {
				return prev, err
			}
			//
			x, err := region.AssignAdvice("x", config.x, i, val)
			if err != nil {
				return x, err
			}
			//
			if i > 0 {
				if err := region.ConstrainEqual(x.Cell(), prev.Cell()); err != nil {
					return x, err
				}
			}
			//
			val = plonkish.MulValues(val, val)
			//
			if prev, err = region.AssignAdvice("y", config.y, i, val); err != nil {
				return prev, err
			}
		}
		//
		return prev, nil
	})
	//
	if err != nil {
		return err
	}
	//
	return layouter.ConstrainInstance(y.Cell(), config.out, 0)
}

func TestProver_Accepts(t *testing.T) {
	// 3 -> 9 -> 81 -> 6561
	prover, err := Run(3, &squareCircuit{plonkish.Known(field.Uint64(3)), 3},
		[][]field.Element{{field.Uint64(6561)}})
	//
	require.NoError(t, err)
	assert.NoError(t, prover.Verify())
	assert.Empty(t, prover.Failures())
}

func TestProver_WrongInstance(t *testing.T) {
	prover, err := Run(3, &squareCircuit{plonkish.Known(field.Uint64(3)), 3},
		[][]field.Element{{field.Uint64(6560)}})
	require.NoError(t, err)
	//
	failures := prover.Failures()
	require.Len(t, failures, 1)
	//
	failure, ok := failures[0].(*PermutationFailure)
	require.True(t, ok)
	assert.Equal(t, plonkish.NewCell(plonkish.Column{Kind: plonkish.INSTANCE, Index: 0}, 0), failure.Right)
	assert.Equal(t, plonkish.Known(field.Uint64(6561)), failure.LeftValue)
	assert.Contains(t, failure.Message(), "instance[0]@0 (6560)")
}

func TestProver_ConstraintFailure(t *testing.T) {
	circuit := &squareCircuit{plonkish.Known(field.Uint64(2)), 2}
	//
	prover, err := Run(2, circuit, [][]field.Element{{field.Uint64(16)}})
	require.NoError(t, err)
	require.NoError(t, prover.Verify())
	// Break row 1, keeping the copy into the instance intact.
	y := plonkish.Column{Kind: plonkish.ADVICE, Index: 1}
	require.NoError(t, prover.Table().AssignAdvice(plonkish.Advice{}, 1, plonkish.Known(field.Uint64(5))))
	// Writing into advice[0] also breaks the copy from row 0.
	failures := prover.Failures()
	require.Len(t, failures, 2)
	//
	cf, ok := failures[0].(*ConstraintFailure)
	require.True(t, ok)
	assert.Equal(t, "square", cf.Gate)
	assert.Equal(t, uint(1), cf.Row)
	assert.Contains(t, cf.Cells(), plonkish.NewCell(y, 1))
	// 16 - 25
	assert.Equal(t, plonkish.Known(field.Int64(-9)), cf.Result)
	//
	_, ok = failures[1].(*PermutationFailure)
	assert.True(t, ok)
}

func TestProver_UnknownValues(t *testing.T) {
	circuit := &squareCircuit{plonkish.Known(field.Uint64(2)), 2}
	// Synthesising without witnesses succeeds, but cannot be verified.
	prover, err := Run(2, circuit.WithoutWitnesses(), nil)
	require.NoError(t, err)
	//
	failures := prover.Failures()
	require.Len(t, failures, 4)
	//
	for _, f := range failures {
		_, ok := f.(*UnknownValueFailure)
		assert.True(t, ok)
	}
}

func TestVerifyError_Message(t *testing.T) {
	var failures []Failure
	//
	for i := uint(0); i < 10; i++ {
		failures = append(failures, &UnknownValueFailure{plonkish.NewCell(plonkish.Column{}, i)})
	}
	//
	var (
		err  error = &VerifyError{failures}
		verr *VerifyError
	)
	//
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &verr))
	assert.Len(t, verr.Failures, 10)
	assert.True(t, strings.HasPrefix(err.Error(), "10 failure(s); cell advice[0]@0 holds an unknown value"))
	assert.True(t, strings.HasSuffix(err.Error(), "; and 2 more"))
}
