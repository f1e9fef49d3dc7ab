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
package chain

import (
	"fmt"

	"github.com/consensys/go-maingate/pkg/maingate"
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Config is the configuration of a chain circuit.
type Config struct {
	MainGate maingate.Config
	// Instance column holding the final accumulator in row 0.
	Instance plonkish.Instance
}

// Circuit absorbs a sequence of private inputs into an accumulator, exposing
// the final accumulator as its only public value.
type Circuit struct {
	params Params
	inputs []plonkish.Value
}

// NewCircuit constructs a chain circuit over the given inputs.
func NewCircuit(params Params, inputs []field.Element) *Circuit {
	values := make([]plonkish.Value, len(inputs))
	//
	for i, x := range inputs {
		values[i] = plonkish.Known(x)
	}
	//
	return &Circuit{params, values}
}

// Params returns the parameters of this circuit.
func (c *Circuit) Params() Params {
	return c.params
}

// Len returns the number of inputs absorbed by this circuit.
func (c *Circuit) Len() uint {
	return uint(len(c.inputs))
}

// WithoutWitnesses returns an identically shaped circuit whose inputs are all
// unknown.
func (c *Circuit) WithoutWitnesses() plonkish.Circuit[Config] {
	values := make([]plonkish.Value, len(c.inputs))
	//
	for i := range values {
		values[i] = plonkish.Unknown()
	}
	//
	return &Circuit{c.params, values}
}

// Configure allocates a main gate of the configured width, along with an
// equality-enabled instance column.
func (c *Circuit) Configure(cs *plonkish.ConstraintSystem) Config {
	var (
		width    = c.params.Width
		instance = cs.InstanceColumn()
		advice   = cs.AdviceColumns(maingate.AdviceColumns(width))
		fixed    = cs.FixedColumns(maingate.FixedColumns(width))
	)
	//
	if err := cs.EnableEquality(instance.Column()); err != nil {
		panic(err)
	}
	//
	return Config{maingate.Configure(cs, advice, fixed, width), instance}
}

// Synthesize lays out two rows per input.  The first computes t = acc + x + rc
// and the second acc' = t^5, with the accumulator carried between them by copy
// constraints.  The initial accumulator is the Zero placeholder.
func (c *Circuit) Synthesize(config Config, layouter *plonkish.Layouter) error {
	if c.Len() > c.params.Capacity() {
		return fmt.Errorf("%w: %d inputs, capacity %d", ErrTooManyInputs, c.Len(), c.params.Capacity())
	}
	//
	gate := maingate.New(config.MainGate)
	//
	acc, err := plonkish.AssignRegion(layouter, "chain", func(region *plonkish.Region) (plonkish.AssignedCell, error) {
		ctx := maingate.NewRegionCtx(region, 0)
		// An empty chain still exposes its (zero) accumulator.
		if c.Len() == 0 {
			return gate.Apply(ctx, maingate.Row{QO: field.One(), Out: maingate.Known(field.Zero())})
		}
		//
		var (
			acc  maingate.WrapValue = maingate.Zero{}
			cell plonkish.AssignedCell
			err  error
		)
		//
		for i, x := range c.inputs {
			one := []field.Element{field.One(), field.One()}
			//
			cell, err = gate.LinearCombination(ctx, one, []maingate.WrapValue{acc, maingate.FromValue(x)},
				c.params.RoundConstants[i])
			if err != nil {
				return cell, err
			}
			//
			if cell, err = gate.Pow5(ctx, maingate.FromAssigned(cell)); err != nil {
				return cell, err
			}
			//
			acc = maingate.FromAssigned(cell)
		}
		//
		return cell, nil
	})
	//
	if err != nil {
		return err
	}
	//
	log.Debugf("chain of %d inputs (width %d) ends at %s", c.Len(), c.params.Width, acc.Cell())
	//
	return layouter.ConstrainInstance(acc.Cell(), config.Instance, 0)
}

// Statement identifies a chain circuit up to its witness, which is everything
// needed to regenerate its keys.
type Statement struct {
	K        uint `cbor:"1,keyasint"`
	Width    uint `cbor:"2,keyasint"`
	Capacity uint `cbor:"3,keyasint"`
	Inputs   uint `cbor:"4,keyasint"`
}

// Circuit constructs the chain circuit described by this statement, with all
// inputs unknown.
func (s Statement) Circuit() (*Circuit, error) {
	params, err := DefaultParams(s.Width, s.Capacity)
	if err != nil {
		return nil, err
	} else if s.Inputs > params.Capacity() {
		return nil, fmt.Errorf("%w: %d inputs, capacity %d", ErrTooManyInputs, s.Inputs, params.Capacity())
	}
	//
	values := make([]plonkish.Value, s.Inputs)
	//
	for i := range values {
		values[i] = plonkish.Unknown()
	}
	//
	return &Circuit{params, values}, nil
}
