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
	"fmt"

	"github.com/consensys/go-maingate/pkg/plonkish"
	log "github.com/sirupsen/logrus"
)

// GateName is the name under which the main gate identity is registered.
const GateName = "q_m*s[0]*s[1] + sum_i(q_1[i]*s[i] + q_5[i]*s[i]^5) + q_i*input + q_o*out + rc = 0"

// MinWidth is the smallest supported width, since the multiplication term reads
// both state[0] and state[1].
const MinWidth = 2

// ColumnSupply provides columns of a given kind, one at a time and in order.
type ColumnSupply[C any] interface {
	Next() (C, error)
}

// Config is the column layout of a main gate of a given width T.  It consists
// of T state columns plus an input and an output column (all advice), along
// with 2T+4 fixed selector columns.  A config is fixed once configured, and is
// shared by every row.
type Config struct {
	// Width (T) of the gate.
	Width uint
	// State columns
	State []plonkish.Advice
	// Input column
	Input plonkish.Advice
	// Output column
	Out plonkish.Advice
	// Multiplication selector, for state[0]*state[1]
	QM plonkish.Fixed
	// Linear selectors, one per state column
	Q1 []plonkish.Fixed
	// Quintic selectors, one per state column
	Q5 []plonkish.Fixed
	// Input selector
	QI plonkish.Fixed
	// Output selector
	QO plonkish.Fixed
	// Round constant
	RC plonkish.Fixed
}

// AdviceColumns returns the number of advice columns needed for a gate of a
// given width.
func AdviceColumns(width uint) uint {
	return width + 2
}

// FixedColumns returns the number of fixed columns needed for a gate of a given
// width.
func FixedColumns(width uint) uint {
	return 2*width + 4
}

// Configure draws the columns for a main gate of a given width from the advice
// and fixed supplies, enables equality on every advice column and registers the
// gate identity:
//
//	q_m·s[0]·s[1] + Σ_i (q_1[i]·s[i] + q_5[i]·s[i]^5) + q_i·input + q_o·out + rc = 0
//
// Advice columns are drawn in the order state[0..T], input, out.  Fixed columns
// are drawn in the order q_1[0..T], q_5[0..T], q_m, q_i, q_o, rc.  Configuration
// errors (a width below two, or an exhausted supply) are fatal and panic.
func Configure(cs *plonkish.ConstraintSystem, advice ColumnSupply[plonkish.Advice],
	fixed ColumnSupply[plonkish.Fixed], width uint) Config {
	//
	if width < MinWidth {
		panic(fmt.Sprintf("main gate width %d is below minimum of %d", width, MinWidth))
	}
	//
	config := Config{
		Width: width,
		State: drawColumns(advice, width, "state"),
		Input: drawColumn(advice, "input"),
		Out:   drawColumn(advice, "out"),
		Q1:    drawColumns(fixed, width, "q_1"),
		Q5:    drawColumns(fixed, width, "q_5"),
		QM:    drawColumn(fixed, "q_m"),
		QI:    drawColumn(fixed, "q_i"),
		QO:    drawColumn(fixed, "q_o"),
		RC:    drawColumn(fixed, "rc"),
	}
	//
	for _, col := range config.AdviceColumns() {
		if err := cs.EnableEquality(col.Column()); err != nil {
			panic(err)
		}
	}
	//
	if err := cs.CreateGate(GateName, config.Identity()); err != nil {
		panic(err)
	}
	//
	log.Debugf("configured main gate of width %d", width)
	//
	return config
}

// AdviceColumns returns every advice column of this config, in the order they
// were drawn.
func (p Config) AdviceColumns() []plonkish.Advice {
	columns := append([]plonkish.Advice{}, p.State...)
	//
	return append(columns, p.Input, p.Out)
}

// Identity constructs the polynomial enforced by the main gate on every row.
func (p Config) Identity() plonkish.Expression {
	var (
		state = make([]plonkish.Expression, p.Width)
		terms []plonkish.Expression
	)
	//
	for i, col := range p.State {
		state[i] = plonkish.QueryAdvice(col, plonkish.Cur)
	}
	// Multiplication term
	terms = append(terms, plonkish.Mul(plonkish.QueryFixed(p.QM, plonkish.Cur), state[0], state[1]))
	// Linear and quintic terms
	for i, s := range state {
		q1 := plonkish.QueryFixed(p.Q1[i], plonkish.Cur)
		q5 := plonkish.QueryFixed(p.Q5[i], plonkish.Cur)
		terms = append(terms, plonkish.Mul(q1, s), plonkish.Mul(q5, plonkish.Pow(s, 5)))
	}
	// Input, output and constant terms
	terms = append(terms,
		plonkish.Mul(plonkish.QueryFixed(p.QI, plonkish.Cur), plonkish.QueryAdvice(p.Input, plonkish.Cur)),
		plonkish.Mul(plonkish.QueryFixed(p.QO, plonkish.Cur), plonkish.QueryAdvice(p.Out, plonkish.Cur)),
		plonkish.QueryFixed(p.RC, plonkish.Cur))
	//
	return plonkish.Add(terms...)
}

func drawColumn[C any](supply ColumnSupply[C], name string) C {
	col, err := supply.Next()
	if err != nil {
		panic(fmt.Sprintf("configuring main gate column %s: %v", name, err))
	}
	//
	return col
}

func drawColumns[C any](supply ColumnSupply[C], n uint, name string) []C {
	columns := make([]C, n)
	//
	for i := range columns {
		columns[i] = drawColumn(supply, fmt.Sprintf("%s[%d]", name, i))
	}
	//
	return columns
}
