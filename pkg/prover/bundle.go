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
	"bytes"
	"fmt"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/fxamacker/cbor/v2"
)

// Bundle packages a proof with its public instance values, the statement it
// claims to prove and the verifying key it was made with.  A bundle is never
// trusted on its own: the verifier regenerates the key from the statement, and
// checks the proof against that.  Bundles are encoded in CBOR.
type Bundle struct {
	VerifyingKey []byte          `cbor:"1,keyasint"`
	Statement    cbor.RawMessage `cbor:"2,keyasint"`
	Proof        []byte          `cbor:"3,keyasint"`
	Public       [][]string      `cbor:"4,keyasint"`
}

// NewBundle constructs a bundle for a given proof, made using a given key for
// the circuit described by a given statement.  The statement is encoded as
// CBOR, and is decoded again by the verifier using DecodeStatement.
func NewBundle(vk *VerifyingKey, statement any, proof plonk.Proof, instance [][]field.Element) (*Bundle, error) {
	var proofBuf bytes.Buffer
	//
	vkBytes, err := vk.Bytes()
	if err != nil {
		return nil, err
	} else if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("encoding proof: %w", err)
	}
	//
	stmt, err := cbor.Marshal(statement)
	if err != nil {
		return nil, fmt.Errorf("encoding statement: %w", err)
	}
	//
	public := make([][]string, len(instance))
	//
	for i, column := range instance {
		for _, val := range column {
			public[i] = append(public[i], val.String())
		}
	}
	//
	return &Bundle{vkBytes, stmt, proofBuf.Bytes(), public}, nil
}

// ProofBytes returns the encoded proof held in this bundle.
func (b *Bundle) ProofBytes() []byte {
	return b.Proof
}

// DecodeStatement decodes the statement held in this bundle into a given
// value.
func (b *Bundle) DecodeStatement(statement any) error {
	if err := cbor.Unmarshal(b.Statement, statement); err != nil {
		return fmt.Errorf("decoding statement: %w", err)
	}
	//
	return nil
}

// Encode this bundle as CBOR.
func (b *Bundle) Encode() ([]byte, error) {
	return cbor.Marshal(b)
}

// DecodeBundle decodes a CBOR encoded bundle.
func DecodeBundle(data []byte) (*Bundle, error) {
	var bundle Bundle
	//
	if err := cbor.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	//
	return &bundle, nil
}

// Verify checks the proof held in this bundle against a trusted verifying key,
// typically regenerated by the verifier.  A bundle carrying any other key is
// rejected with ErrKeyMismatch.
func (b *Bundle) Verify(vk *VerifyingKey) error {
	expected, err := vk.Bytes()
	if err != nil {
		return err
	} else if !bytes.Equal(expected, b.VerifyingKey) {
		return ErrKeyMismatch
	}
	//
	proof, instance, err := b.open()
	if err != nil {
		return err
	}
	//
	return Verify(vk, proof, instance)
}

// open decodes the proof and instance values held in this bundle.
func (b *Bundle) open() (plonk.Proof, [][]field.Element, error) {
	var (
		proof    = plonk.NewProof(Curve)
		instance = make([][]field.Element, len(b.Public))
	)
	//
	if _, err := proof.ReadFrom(bytes.NewReader(b.Proof)); err != nil {
		return nil, nil, fmt.Errorf("decoding proof: %w", err)
	}
	//
	for i, column := range b.Public {
		for _, text := range column {
			val, err := field.FromString(text)
			if err != nil {
				return nil, nil, err
			}
			//
			instance[i] = append(instance[i], val)
		}
	}
	//
	return proof, instance, nil
}
