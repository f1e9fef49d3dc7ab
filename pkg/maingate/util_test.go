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

// testConfig is the configuration of rowsCircuit.
type testConfig struct {
	gate     Config
	instance plonkish.Instance
}

// rowsCircuit is a circuit whose single region is filled by an arbitrary
// function, which makes it easy to exercise individual gate rows.
type rowsCircuit struct {
	width uint
	fill  func(gate *MainGate, ctx *RegionCtx) (plonkish.AssignedCell, error)
	// When set, the final cell returned by fill is bound to instance row 0.
	public bool
	// Recorded during synthesis so tests can inspect (or tamper with) cells.
	config testConfig
}

func (c *rowsCircuit) WithoutWitnesses() plonkish.Circuit[testConfig] {
	return c
}

func (c *rowsCircuit) Configure(cs *plonkish.ConstraintSystem) testConfig {
	instance := cs.InstanceColumn()
	if err := cs.EnableEquality(instance.Column()); err != nil {
		panic(err)
	}
	//
	advice := cs.AdviceColumns(AdviceColumns(c.width))
	fixed := cs.FixedColumns(FixedColumns(c.width))
	//
	return testConfig{Configure(cs, advice, fixed, c.width), instance}
}

func (c *rowsCircuit) Synthesize(config testConfig, layouter *plonkish.Layouter) error {
	c.config = config
	gate := New(config.gate)
	//
	out, err := plonkish.AssignRegion(layouter, "rows", func(region *plonkish.Region) (plonkish.AssignedCell, error) {
		return c.fill(gate, NewRegionCtx(region, 0))
	})
	//
	if err != nil {
		return err
	} else if c.public {
		return layouter.ConstrainInstance(out.Cell(), config.instance, 0)
	}
	//
	return nil
}

func fe(val int64) field.Element {
	return field.Int64(val)
}

func known(val int64) WrapValue {
	return Known(fe(val))
}
