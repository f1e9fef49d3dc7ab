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
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-maingate/pkg/chain"
	"github.com/consensys/go-maingate/pkg/prover"
	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCommand constructs a command with fresh copies of the shared flags.
func testCommand(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd.Flags())
	//
	if err := cmd.Flags().Parse(args); err != nil {
		panic(err)
	}
	//
	return cmd
}

func writeFile(t *testing.T, name string, contents string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o644))
	//
	return filename
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(testCommand())
	require.NoError(t, err)
	//
	assert.Equal(t, Config{K: 0, Width: 2, Capacity: 16}, cfg)
}

func TestConfig_Flags(t *testing.T) {
	cfg, err := loadConfig(testCommand("--width", "4", "--k", "5"))
	require.NoError(t, err)
	//
	assert.Equal(t, uint(4), cfg.Width)
	assert.Equal(t, uint(5), cfg.K)
}

func TestConfig_File(t *testing.T) {
	file := writeFile(t, "maingate.yaml", "width: 3\ncapacity: 8\n")
	// Flags take precedence over the file
	cfg, err := loadConfig(testCommand("--config", file, "--capacity", "4"))
	require.NoError(t, err)
	//
	assert.Equal(t, uint(3), cfg.Width)
	assert.Equal(t, uint(4), cfg.Capacity)
}

func TestConfig_InvalidWidth(t *testing.T) {
	_, err := loadConfig(testCommand("--width", "1"))
	assert.Error(t, err)
	//
	_, err = loadConfig(testCommand("--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestConfig_Rows(t *testing.T) {
	k, err := Config{}.rows(5)
	require.NoError(t, err)
	assert.Equal(t, chain.MinK(5), k)
	//
	k, err = Config{K: 6}.rows(5)
	require.NoError(t, err)
	assert.Equal(t, uint(6), k)
	//
	_, err = Config{K: 2}.rows(5)
	assert.Error(t, err)
}

func TestProveRequest(t *testing.T) {
	file := writeFile(t, "req.json", `{"private_input": [1, 2, 3], "public_input": "42"}`)
	//
	req, err := readProveRequest(file)
	require.NoError(t, err)
	//
	assert.Equal(t, []field.Element{field.Uint64(1), field.Uint64(2), field.Uint64(3)}, req.Inputs())
	//
	public, err := req.Public()
	require.NoError(t, err)
	assert.Equal(t, field.Uint64(42), public)
	// Malformed requests
	_, err = readProveRequest(writeFile(t, "bad.json", `{"private_input": [-1]}`))
	assert.Error(t, err)
	_, err = readProveRequest(writeFile(t, "nopub.json", `{"private_input": [1]}`))
	assert.Error(t, err)
	_, err = readProveRequest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseElements(t *testing.T) {
	elements, err := parseElements([]string{"1", "0x10", "-1"})
	require.NoError(t, err)
	assert.Equal(t, []field.Element{field.Uint64(1), field.Uint64(16), field.Int64(-1)}, elements)
	//
	_, err = parseElements([]string{"x"})
	assert.Error(t, err)
}

func TestProve(t *testing.T) {
	cfg := Config{Width: 2, Capacity: 4}
	params, err := cfg.chainParams()
	require.NoError(t, err)
	//
	expected, err := chain.Hash(params, []field.Element{field.Uint64(7), field.Uint64(11)})
	require.NoError(t, err)
	//
	bundle, err := prove(cfg, ProveRequest{[]uint64{7, 11}, expected.String()})
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.ProofBytes())
	//
	data, err := bundle.Encode()
	require.NoError(t, err)
	//
	decoded, err := prover.DecodeBundle(data)
	require.NoError(t, err)
	assert.NoError(t, verify(cfg, decoded))
	//
	var statement chain.Statement
	require.NoError(t, decoded.DecodeStatement(&statement))
	assert.Equal(t, chain.Statement{K: 2, Width: 2, Capacity: 4, Inputs: 2}, statement)
	// A false claim cannot be proved
	_, err = prove(cfg, ProveRequest{[]uint64{7, 11}, "1"})
	assert.ErrorIs(t, err, prover.ErrUnsatisfiable)
}

func TestVerify_Rejects(t *testing.T) {
	cfg := Config{Width: 2, Capacity: 4}
	params, err := cfg.chainParams()
	require.NoError(t, err)
	//
	expected, err := chain.Hash(params, []field.Element{field.Uint64(7), field.Uint64(11)})
	require.NoError(t, err)
	//
	bundle, err := prove(cfg, ProveRequest{[]uint64{7, 11}, expected.String()})
	require.NoError(t, err)
	// A verifier configured for another chain
	assert.ErrorIs(t, verify(Config{Width: 3, Capacity: 4}, bundle), errStatementMismatch)
	assert.ErrorIs(t, verify(Config{Width: 2, Capacity: 8}, bundle), errStatementMismatch)
	assert.ErrorIs(t, verify(Config{K: 3, Width: 2, Capacity: 4}, bundle), errStatementMismatch)
	// A bundle whose statement claims a different number of inputs
	relabel := func(statement chain.Statement) *prover.Bundle {
		forged := *bundle
		forged.Statement, err = cbor.Marshal(statement)
		require.NoError(t, err)
		//
		return &forged
	}
	//
	forged := relabel(chain.Statement{K: 3, Width: 2, Capacity: 4, Inputs: 3})
	assert.ErrorIs(t, verify(cfg, forged), prover.ErrKeyMismatch)
	// More inputs than the configured capacity
	forged = relabel(chain.Statement{K: 3, Width: 2, Capacity: 4, Inputs: 5})
	assert.ErrorIs(t, verify(cfg, forged), chain.ErrTooManyInputs)
	// A tampered public value
	forged = relabel(chain.Statement{K: 2, Width: 2, Capacity: 4, Inputs: 2})
	forged.Public = [][]string{{"1"}}
	assert.Error(t, verify(cfg, forged))
}
