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
	"fmt"
	"os"

	"github.com/consensys/go-maingate/pkg/chain"
	"github.com/consensys/go-maingate/pkg/plonkish"
	"github.com/consensys/go-maingate/pkg/plonkish/mock"
	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/consensys/go-maingate/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] input...",
	Short: "Check a chain circuit using the mock prover.",
	Long: `Synthesise a chain circuit absorbing the given inputs, and check every gate and
copy constraint using the mock prover.  By default the public output is computed
natively, but can be overridden to see how a false statement is rejected.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd)
		//
		inputs, err := parseElements(args)
		exitOnError(err, 2)
		//
		public, err := publicOutput(cmd, cfg, inputs)
		exitOnError(err, 2)
		//
		params, err := cfg.chainParams()
		exitOnError(err, 2)
		//
		k, err := cfg.rows(uint(len(inputs)))
		exitOnError(err, 2)
		//
		prover, err := mock.Run(k, chain.NewCircuit(params, inputs), [][]field.Element{{public}})
		exitOnError(err, 2)
		//
		failures := prover.Failures()
		if len(failures) == 0 {
			fmt.Printf("accepted (%d inputs, output %s)\n", len(inputs), public.String())
			return
		}
		//
		reportFailures(prover.Table(), failures, GetUint(cmd, "padding"))
		os.Exit(1)
	},
}

// publicOutput determines the public output to check against, which is either
// given explicitly or computed natively.
func publicOutput(cmd *cobra.Command, cfg Config, inputs []field.Element) (field.Element, error) {
	if text := GetString(cmd, "public"); text != "" {
		return field.FromString(text)
	}
	//
	params, err := cfg.chainParams()
	if err != nil {
		return field.Zero(), err
	}
	//
	return chain.Hash(params, inputs)
}

// reportFailures prints each failure, followed by the table rows it involves
// with the offending cells highlighted.
func reportFailures(table *plonkish.Table, failures []mock.Failure, padding uint) {
	var (
		ansi        = termio.IsTerminal(os.Stdout)
		highlighted = make(map[plonkish.Cell]bool)
	)
	//
	for _, f := range failures {
		fmt.Println(f.Message())
		//
		start, end := ^uint(0), uint(0)
		//
		for _, cell := range f.Cells() {
			highlighted[cell] = true
			start, end = min(start, cell.Row), max(end, cell.Row)
		}
		//
		if start <= end {
			highlight := func(cell plonkish.Cell) bool { return highlighted[cell] }
			plonkish.NewPrinter().Start(start).End(end).Padding(padding).AnsiEscapes(ansi).Highlight(highlight).
				Print(os.Stdout, table)
		}
		//
		clear(highlighted)
	}
	//
	log.Debugf("%d failure(s) reported", len(failures))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("public", "", "public output to check against (defaults to the native computation)")
	checkCmd.Flags().Uint("padding", 0, "additional rows to show either side of a failure")
}
