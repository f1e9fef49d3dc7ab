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
	"encoding/base64"
	"fmt"
	"os"

	"github.com/consensys/go-maingate/pkg/chain"
	"github.com/consensys/go-maingate/pkg/prover"
	"github.com/consensys/go-maingate/pkg/util/field"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// proveCmd represents the prove command
var proveCmd = &cobra.Command{
	Use:   "prove [flags]",
	Short: "Prove a chain circuit using the PLONK backend.",
	Long: `Read a request of the form {"private_input": [...], "public_input": "..."},
generate keys for a chain circuit absorbing the private inputs, and prove that it
produces the public input.  The proof is checked before being printed in base64.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd)
		//
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		req, err := readProveRequest(GetString(cmd, "input"))
		exitOnError(err, 2)
		//
		bundle, err := prove(cfg, req)
		exitOnError(err, 1)
		//
		if out := GetString(cmd, "out"); out != "" {
			data, err := bundle.Encode()
			exitOnError(err, 1)
			exitOnError(os.WriteFile(out, data, 0o644), 1)
			log.Infof("wrote bundle to %s", out)
		}
		//
		fmt.Println(base64.StdEncoding.EncodeToString(bundle.ProofBytes()))
	},
}

// prove generates keys for the chain circuit of a given request, proves it, and
// checks the resulting proof.
func prove(cfg Config, req ProveRequest) (*prover.Bundle, error) {
	inputs := req.Inputs()
	//
	public, err := req.Public()
	if err != nil {
		return nil, err
	}
	//
	params, err := cfg.chainParams()
	if err != nil {
		return nil, err
	}
	//
	statement, err := cfg.statement(uint(len(inputs)))
	if err != nil {
		return nil, err
	}
	//
	var (
		circuit  = chain.NewCircuit(params, inputs)
		instance = [][]field.Element{{public}}
	)
	//
	pk, err := prover.Setup(statement.K, circuit)
	if err != nil {
		return nil, err
	}
	//
	proof, err := prover.Prove(pk, circuit, instance)
	if err != nil {
		return nil, err
	}
	//
	if err := prover.Verify(pk.VerifyingKey(), proof, instance); err != nil {
		return nil, err
	}
	//
	return prover.NewBundle(pk.VerifyingKey(), statement, proof, instance)
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().String("input", "", "JSON request file")
	proveCmd.Flags().String("out", "", "write a proof bundle (CBOR) to the given file")
	//
	if err := proveCmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
}
