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
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is an element of the BN254 scalar field, which is the field over
// which all circuits in this module are arithmetised.
type Element = fr.Element

// Zero constructs a field element representing 0
func Zero() Element {
	var element Element
	//
	return element
}

// One constructs a field element representing 1
func One() Element {
	return fr.One()
}

// Uint64 construct a field element from a given uint64
func Uint64(val uint64) Element {
	var element Element
	//
	element.SetUint64(val)
	//
	return element
}

// Int64 construct a field element from a given int64.  Negative values are
// mapped to their additive inverse, such that Int64(-1) + One() == Zero().
func Int64(val int64) Element {
	var element Element
	//
	element.SetInt64(val)
	//
	return element
}

// FromString parses a field element from its decimal (or "0x"-prefixed
// hexadecimal) representation.
func FromString(text string) (Element, error) {
	var element Element
	//
	if _, err := element.SetString(text); err != nil {
		return element, fmt.Errorf("invalid field element %q: %w", text, err)
	}
	//
	return element, nil
}

// ToBigInt returns the canonical integer representation of a field element.
func ToBigInt(val Element) *big.Int {
	var res big.Int
	//
	return val.BigInt(&res)
}

// Pow5 computes x^5, which is the S-box used by the main gate's quintic term.
func Pow5(x Element) Element {
	var x2, x4, res Element
	//
	x2.Square(&x)
	x4.Square(&x2)
	res.Mul(&x4, &x)
	//
	return res
}

// Sum returns the sum of zero or more field elements.
func Sum(vals ...Element) Element {
	var res Element
	//
	for i := range vals {
		res.Add(&res, &vals[i])
	}
	//
	return res
}

// Mul returns the product of two field elements.
func Mul(x, y Element) Element {
	var res Element
	//
	return *res.Mul(&x, &y)
}

// Neg returns the additive inverse of a field element.
func Neg(x Element) Element {
	var res Element
	//
	return *res.Neg(&x)
}
