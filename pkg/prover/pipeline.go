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
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/plonkish/mock"
	"github.com/consensys/go-maingate/pkg/util"
	"github.com/consensys/go-maingate/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrShapeMismatch is returned when proving a circuit whose shape differs
	// from that of the circuit the proving key was generated for.
	ErrShapeMismatch = errors.New("circuit shape does not match proving key")
	// ErrUnsatisfiable is returned when the constraints of a circuit cannot be
	// satisfied by its witness.
	ErrUnsatisfiable = errors.New("circuit is unsatisfiable")
	// ErrMissingWitness is returned when proving a circuit with unknown values.
	ErrMissingWitness = errors.New("missing witness value")
	// ErrKeyMismatch is returned when a proof bundle was made with a key other
	// than the one it is being verified against.
	ErrKeyMismatch = errors.New("bundle verifying key does not match")
)

// Curve is the curve over whose scalar field all circuits are defined.
const Curve = ecc.BN254

// srsSeed determines the toxic waste of the reference string, such that keys
// for a given circuit can be regenerated by anyone.
const srsSeed = "go-maingate/srs/v1"

// ProvingKey holds everything needed to prove circuits of a given shape.
type ProvingKey struct {
	k           uint
	ccs         constraint.ConstraintSystem
	pk          plonk.ProvingKey
	vk          *VerifyingKey
	fingerprint []byte
}

// K returns log2 of the number of table rows for circuits proved with this key.
func (p *ProvingKey) K() uint { return p.k }

// NumConstraints returns the number of PLONK constraints in the compiled
// circuit.
func (p *ProvingKey) NumConstraints() int { return p.ccs.GetNbConstraints() }

// VerifyingKey returns the key needed to verify proofs made with this key.
func (p *ProvingKey) VerifyingKey() *VerifyingKey { return p.vk }

// VerifyingKey holds everything needed to verify proofs for circuits of a given
// shape.
type VerifyingKey struct {
	vk plonk.VerifyingKey
	// Number of secret variables in the compiled circuit
	numAdvice uint
	// Number of rows of each instance column exposed as public variables
	public []uint
}

// PublicRows returns the number of rows of each instance column which are
// public inputs of the proof.
func (p *VerifyingKey) PublicRows() []uint { return p.public }

// Bytes returns the binary encoding of the underlying PLONK verifying key.
func (p *VerifyingKey) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	//
	if _, err := p.vk.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding verifying key: %w", err)
	}
	//
	return buf.Bytes(), nil
}

// Setup compiles the shape of a given circuit for a table of 2^k rows, and
// generates its keys.  The circuit is synthesised without witnesses.  The
// structured reference string is derived from a fixed public seed, hence is
// only suitable for testing.  Setting up the same circuit twice yields the same
// keys.
func Setup[C any](k uint, circuit plonkish.Circuit[C]) (*ProvingKey, error) {
	stats := util.NewPerfStats()
	//
	_, table, err := plonkish.Synthesize(k, circuit.WithoutWitnesses(), nil)
	if err != nil {
		return nil, err
	}
	//
	lay, err := newLayout(table)
	if err != nil {
		return nil, err
	}
	//
	fingerprint, err := lay.fingerprint()
	if err != nil {
		return nil, err
	}
	//
	ccs, err := frontend.Compile(Curve.ScalarField(), scs.NewBuilder, lay.circuit())
	if err != nil {
		return nil, fmt.Errorf("compiling circuit: %w", err)
	}
	//
	log.Debugf("compiled %d checks and %d copies into %d constraints", len(lay.checks), len(lay.copies),
		ccs.GetNbConstraints())
	//
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs, unsafekzg.WithToxicSeed([]byte(srsSeed)))
	if err != nil {
		return nil, fmt.Errorf("generating reference string: %w", err)
	}
	//
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, fmt.Errorf("generating keys: %w", err)
	}
	//
	stats.Log("setup")
	//
	return &ProvingKey{k, ccs, pk, &VerifyingKey{vk, lay.NumAdvice(), lay.public}, fingerprint}, nil
}

// Prove synthesises a given circuit with its witness and the given instance
// values, and produces a proof.  The circuit must be satisfied, and must have the
// same shape as the circuit the key was generated for.
func Prove[C any](pk *ProvingKey, circuit plonkish.Circuit[C], instance [][]field.Element) (plonk.Proof, error) {
	stats := util.NewPerfStats()
	//
	_, table, err := plonkish.Synthesize(pk.k, circuit, instance)
	if err != nil {
		return nil, err
	}
	//
	if err := mock.NewProver(table).Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsatisfiable, err)
	}
	//
	lay, err := newLayout(table)
	if err != nil {
		return nil, err
	}
	//
	if fingerprint, err := lay.fingerprint(); err != nil {
		return nil, err
	} else if !bytes.Equal(fingerprint, pk.fingerprint) {
		return nil, ErrShapeMismatch
	}
	//
	assignment, err := lay.assignment()
	if err != nil {
		return nil, err
	}
	//
	witness, err := frontend.NewWitness(assignment, Curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("building witness: %w", err)
	}
	//
	proof, err := plonk.Prove(pk.ccs, pk.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("proving: %w", err)
	}
	//
	stats.Log("proving")
	//
	return proof, nil
}

// Verify checks a proof against the given instance values.  Instance columns
// are padded with zeros, exactly as when the proof was made.
func Verify(vk *VerifyingKey, proof plonk.Proof, instance [][]field.Element) error {
	stats := util.NewPerfStats()
	//
	if len(instance) > len(vk.public) && !allZero(instance[len(vk.public):]) {
		return fmt.Errorf("%d instance vectors for %d instance columns", len(instance), len(vk.public))
	}
	//
	assignment := &tableCircuit{Advice: make([]frontend.Variable, vk.numAdvice)}
	//
	for col, rows := range vk.public {
		var values []field.Element
		if col < len(instance) {
			values = instance[col]
		}
		// Values which are never exposed must be zero
		if uint(len(values)) > rows && !allZero([][]field.Element{values[rows:]}) {
			return fmt.Errorf("instance column %d has %d values, of which only %d are public", col, len(values),
				rows)
		}
		//
		for row := uint(0); row < rows; row++ {
			val := field.Zero()
			if row < uint(len(values)) {
				val = values[row]
			}
			//
			assignment.Public = append(assignment.Public, field.ToBigInt(val))
		}
	}
	//
	witness, err := frontend.NewWitness(assignment, Curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("building public witness: %w", err)
	}
	//
	if err := plonk.Verify(proof, vk.vk, witness); err != nil {
		return fmt.Errorf("proof rejected: %w", err)
	}
	//
	stats.Log("verification")
	//
	return nil
}

func allZero(vectors [][]field.Element) bool {
	for _, vector := range vectors {
		for _, val := range vector {
			if !val.IsZero() {
				return false
			}
		}
	}
	//
	return true
}
