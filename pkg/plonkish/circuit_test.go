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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doubleCircuit enforces b = 2a on every row in which its selector is enabled,
// and exposes the last b.
type doubleCircuit struct {
	inputs []Value
}

type doubleConfig struct {
	a, b     Advice
	s        Fixed
	instance Instance
}

func (c *doubleCircuit) WithoutWitnesses() Circuit[doubleConfig] {
	inputs := make([]Value, len(c.inputs))
	for i := range inputs {
		inputs[i] = Unknown()
	}
	//
	return &doubleCircuit{inputs}
}

func (c *doubleCircuit) Configure(cs *ConstraintSystem) doubleConfig {
	config := doubleConfig{cs.AdviceColumn(), cs.AdviceColumn(), cs.FixedColumn(), cs.InstanceColumn()}
	//
	for _, col := range []Column{config.a.Column(), config.b.Column(), config.instance.Column()} {
		if err := cs.EnableEquality(col); err != nil {
			panic(err)
		}
	}
	//
	poly := Mul(QueryFixed(config.s, Cur), Sub(QueryAdvice(config.b, Cur), Scale(QueryAdvice(config.a, Cur),
		field.Uint64(2))))
	//
	if err := cs.CreateGate("double", poly); err != nil {
		panic(err)
	}
	//
	return config
}

func (c *doubleCircuit) Synthesize(config doubleConfig, layouter *Layouter) error {
	var last AssignedCell
	//
	for i, input := range c.inputs {
		cell, err := AssignRegion(layouter, "double", func(region *Region) (AssignedCell, error) {
			if _, err := region.AssignFixed("s", config.s, 0, field.One()); err != nil {
				return AssignedCell{}, err
			}
			//
			a, err := region.AssignAdvice("a", config.a, 0, input)
			if err != nil {
				return a, err
			}
			// Chain each region onto the previous one
			if i > 0 {
				if err := region.ConstrainEqual(a.Cell(), last.Cell()); err != nil {
					return a, err
				}
			}
			//
			return region.AssignAdvice("b", config.b, 0, ScaleValue(input, field.Uint64(2)))
		})
		//
		if err != nil {
			return err
		}
		//
		last = cell
	}
	//
	return layouter.ConstrainInstance(last.Cell(), config.instance, 0)
}

func TestSynthesize_Regions(t *testing.T) {
	circuit := &doubleCircuit{[]Value{Known(field.Uint64(1)), Known(field.Uint64(2)), Known(field.Uint64(4))}}
	//
	cs, table, err := Synthesize(3, circuit, [][]field.Element{{field.Uint64(8)}})
	require.NoError(t, err)
	//
	assert.Len(t, cs.Gates(), 1)
	assert.Equal(t, uint(3), table.UsedRows())
	// Two chaining copies and one instance binding
	assert.Len(t, table.Copies(), 3)
	assert.Equal(t, Copy{NewCell(Column{ADVICE, 0}, 1), NewCell(Column{ADVICE, 1}, 0)}, table.Copies()[0])
	assert.Equal(t, Copy{NewCell(Column{ADVICE, 1}, 2), NewCell(Column{INSTANCE, 0}, 0)}, table.Copies()[2])
}

func TestSynthesize_RegionsDoNotOverlap(t *testing.T) {
	cs := NewConstraintSystem()
	a := cs.AdviceColumn()
	//
	table, err := NewTable(cs, 3, nil)
	require.NoError(t, err)
	//
	layouter := NewLayouter(table)
	//
	for _, height := range []uint{2, 1, 3} {
		_, err := AssignRegion(layouter, "r", func(region *Region) (bool, error) {
			for i := uint(0); i < height; i++ {
				if _, err := region.AssignAdvice("x", a, i, Known(field.One())); err != nil {
					return false, err
				}
			}
			//
			return true, nil
		})
		require.NoError(t, err)
	}
	//
	regions := layouter.Regions()
	require.Len(t, regions, 3)
	//
	for i, expected := range []uint{0, 2, 3} {
		assert.Equal(t, expected, regions[i].Start())
	}
	//
	assert.Equal(t, uint(3), regions[2].Height())
	assert.Equal(t, uint(6), table.UsedRows())
}

func TestSynthesize_RegionError(t *testing.T) {
	circuit := &doubleCircuit{make([]Value, 5)}
	// Five regions cannot fit into four rows
	_, _, err := Synthesize(2, circuit, nil)
	assert.ErrorIs(t, err, ErrNotEnoughRows)
	assert.True(t, strings.Contains(err.Error(), `region "double"`))
}

func TestSynthesize_InstanceMismatch(t *testing.T) {
	_, _, err := Synthesize(2, &doubleCircuit{nil}, [][]field.Element{{}, {}})
	assert.True(t, errors.Is(err, ErrInvalidColumn))
}

func TestPrinter_Print(t *testing.T) {
	circuit := &doubleCircuit{[]Value{Known(field.Uint64(5)), Known(field.Int64(-1))}}
	//
	_, table, err := Synthesize(3, circuit, nil)
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	//
	highlight := func(cell Cell) bool { return cell == NewCell(Column{ADVICE, 1}, 1) }
	NewPrinter().AnsiEscapes(false).Highlight(highlight).Print(&buf, table)
	//
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	//
	for _, title := range []string{"row", "advice[0]", "advice[1]", "fixed[0]", "instance[0]"} {
		assert.Contains(t, lines[0], title)
	}
	//
	assert.Contains(t, lines[1], " 10 |")
	assert.Contains(t, lines[2], " -1 |")
	assert.Contains(t, lines[2], "*-2 |")
	assert.NotContains(t, buf.String(), "\033")
}

func TestPrinter_Window(t *testing.T) {
	circuit := &doubleCircuit{[]Value{Known(field.Uint64(1)), Known(field.Uint64(2)), Known(field.Uint64(3))}}
	//
	_, table, err := Synthesize(3, circuit, nil)
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	//
	NewPrinter().AnsiEscapes(false).Start(1).End(1).Print(&buf, table)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "1 |"))
	// Padding extends the window in both directions, but not past the used rows
	buf.Reset()
	NewPrinter().AnsiEscapes(false).Start(1).End(1).Padding(5).Print(&buf, table)
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
}

func TestPrinter_WindowBeyondUsedRows(t *testing.T) {
	circuit := &doubleCircuit{[]Value{Known(field.Uint64(1)), Known(field.Uint64(2)), Known(field.Uint64(3))}}
	//
	_, table, err := Synthesize(3, circuit, nil)
	require.NoError(t, err)
	require.Equal(t, uint(3), table.UsedRows())
	//
	var buf bytes.Buffer
	//
	highlight := func(cell Cell) bool { return cell == NewCell(Column{ADVICE, 0}, 5) }
	NewPrinter().AnsiEscapes(false).Start(5).End(5).Highlight(highlight).Print(&buf, table)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "5 |"))
	assert.Contains(t, lines[1], "*0 |")
	// Padding stays within the used rows and the window
	buf.Reset()
	NewPrinter().AnsiEscapes(false).Start(5).End(5).Padding(1).Print(&buf, table)
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "4 |"))
	// The window is clamped to the table
	buf.Reset()
	NewPrinter().AnsiEscapes(false).Start(7).End(20).Print(&buf, table)
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "7 |"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "?", FormatValue(Unknown()))
	assert.Equal(t, "0", FormatValue(Known(field.Zero())))
	assert.Equal(t, "12", FormatValue(Known(field.Uint64(12))))
	assert.Equal(t, "-12", FormatValue(Known(field.Int64(-12))))
}
