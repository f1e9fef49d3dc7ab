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
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/go-maingate/pkg/maingate"
	"github.com/consensys/go-maingate/pkg/util/field"
)

// ErrTooManyInputs is returned when a chain is given more inputs than it has
// round constants.
var ErrTooManyInputs = errors.New("too many inputs for chain parameters")

// domainTag separates the round constants of this chain from any other use of
// the same hash-to-field.
const domainTag = "go-maingate/chain/v1"

// Params determines an instance of the chain, namely the width of the main gate
// driving it and the round constant added at each step.  The number of round
// constants bounds the number of inputs which can be absorbed.
type Params struct {
	Width          uint
	RoundConstants []field.Element
}

// DefaultParams derives n round constants for a chain of a given width
// deterministically, by hashing a message identifying the width into the
// scalar field.
func DefaultParams(width uint, n uint) (Params, error) {
	if width < maingate.MinWidth {
		return Params{}, fmt.Errorf("invalid width %d (minimum %d)", width, maingate.MinWidth)
	} else if n == 0 {
		return Params{width, nil}, nil
	}
	//
	msg := fmt.Appendf(nil, "round constants (width %d)", width)
	//
	rcs, err := fr.Hash(msg, []byte(domainTag), int(n))
	if err != nil {
		return Params{}, fmt.Errorf("deriving round constants: %w", err)
	}
	//
	return Params{width, rcs}, nil
}

// Capacity returns the maximum number of inputs a chain with these parameters
// can absorb.
func (p Params) Capacity() uint {
	return uint(len(p.RoundConstants))
}

// Rows returns the number of main gate rows needed to absorb n inputs.
func Rows(n uint) uint {
	if n == 0 {
		return 1
	}
	//
	return 2 * n
}

// MinK returns the smallest k such that a table of 2^k rows can absorb n
// inputs.
func MinK(n uint) uint {
	var (
		k    uint
		rows = Rows(n)
	)
	//
	for uint(1)<<k < rows {
		k++
	}
	//
	return k
}

// Hash computes the chain natively, starting from a zero accumulator and
// absorbing each input as acc = (acc + x + rc)^5.
func Hash(params Params, inputs []field.Element) (field.Element, error) {
	if uint(len(inputs)) > params.Capacity() {
		return field.Zero(), fmt.Errorf("%w: %d inputs, capacity %d", ErrTooManyInputs, len(inputs),
			params.Capacity())
	}
	//
	acc := field.Zero()
	//
	for i, x := range inputs {
		acc = field.Pow5(field.Sum(acc, x, params.RoundConstants[i]))
	}
	//
	return acc, nil
}
