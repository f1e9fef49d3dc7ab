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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-maingate/pkg/chain"
	"github.com/consensys/go-maingate/pkg/prover"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errStatementMismatch is returned when a bundle claims to prove a chain other
// than the configured one.
var errStatementMismatch = errors.New("bundle statement does not match configuration")

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [flags] bundle",
	Short: "Verify a proof bundle.",
	Long: `Verify a proof bundle, as written by the prove command.  The keys for the chain
circuit named in the bundle are regenerated from the configuration (width,
capacity and k), and the proof is only accepted if it was made with them.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd)
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		data, err := os.ReadFile(args[0])
		exitOnError(err, 2)
		//
		bundle, err := prover.DecodeBundle(data)
		exitOnError(err, 2)
		//
		exitOnError(verify(cfg, bundle), 1)
		fmt.Println("proof accepted")
	},
}

// verify checks a bundle proves a chain circuit of the configured shape, by
// regenerating its keys rather than trusting those in the bundle.
func verify(cfg Config, bundle *prover.Bundle) error {
	var claimed chain.Statement
	//
	if err := bundle.DecodeStatement(&claimed); err != nil {
		return err
	} else if claimed.Inputs > cfg.Capacity {
		return fmt.Errorf("%w: %d inputs, capacity %d", chain.ErrTooManyInputs, claimed.Inputs, cfg.Capacity)
	}
	//
	expected, err := cfg.statement(claimed.Inputs)
	if err != nil {
		return err
	} else if claimed != expected {
		return fmt.Errorf("%w: bundle has %+v, expected %+v", errStatementMismatch, claimed, expected)
	}
	//
	circuit, err := expected.Circuit()
	if err != nil {
		return err
	}
	//
	pk, err := prover.Setup(expected.K, circuit)
	if err != nil {
		return err
	}
	//
	log.Debugf("regenerated keys for %d inputs (k=%d)", expected.Inputs, expected.K)
	//
	return bundle.Verify(pk.VerifyingKey())
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
