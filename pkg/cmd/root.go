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
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "maingate",
	Short: "A toolbox for circuits built from a PLONKish main gate.",
	Long: `A toolbox for circuits built from a PLONKish main gate.  Circuits can be
checked with a mock prover, or proved and verified with a PLONK backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("maingate ")
			if Version != "" {
				// Built via "make"
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Printf("%s", info.Main.Version)
			} else {
				// Unknown, perhaps "go run"
				fmt.Printf("(unknown version)")
			}
			fmt.Println()
		} else {
			fmt.Println(cmd.UsageString())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	addConfigFlags(rootCmd.PersistentFlags())
}

// addConfigFlags registers the flags shared by every command, each of which is
// bound to the configuration key of the same name.
func addConfigFlags(flags *pflag.FlagSet) {
	flags.BoolP("verbose", "v", false, "increase logging verbosity")
	flags.String("config", "", "read settings from a configuration file")
	flags.Uint("k", 0, "log2 of the number of table rows (0 selects the smallest which fits)")
	flags.Uint("width", 2, "width of the main gate")
	flags.Uint("capacity", 16, "number of round constants, i.e. the maximum number of inputs a chain can absorb")
}
