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

	"github.com/consensys/gnark/logger"
	"github.com/consensys/go-maingate/pkg/chain"
	"github.com/consensys/go-maingate/pkg/maingate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variables overriding settings, e.g.
// MAINGATE_WIDTH.
const envPrefix = "MAINGATE"

// Config holds the settings shared by all commands.  Settings are read from
// (in decreasing order of precedence) command-line flags, environment variables
// and an optional configuration file.
type Config struct {
	// Log2 of the number of table rows, or 0 to select automatically.
	K uint `mapstructure:"k"`
	// Width of the main gate.
	Width uint `mapstructure:"width"`
	// Number of round constants, hence the maximum number of inputs.
	Capacity uint `mapstructure:"capacity"`
	// Enable debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// loadConfig resolves the settings for a given command, and configures logging
// accordingly.
func loadConfig(cmd *cobra.Command) (Config, error) {
	var (
		cfg Config
		v   = viper.New()
	)
	//
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	//
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return cfg, err
	}
	//
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		//
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading configuration: %w", err)
		}
	}
	//
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	//
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		logger.Disable()
	}
	//
	if cfg.Width < maingate.MinWidth {
		return cfg, fmt.Errorf("invalid width %d (minimum %d)", cfg.Width, maingate.MinWidth)
	}
	//
	log.Debugf("configuration: k=%d, width=%d, capacity=%d", cfg.K, cfg.Width, cfg.Capacity)
	//
	return cfg, nil
}

// chainParams derives the chain parameters for this configuration.
func (c Config) chainParams() (chain.Params, error) {
	return chain.DefaultParams(c.Width, c.Capacity)
}

// rows determines k for a chain with n inputs, either as configured or as the
// smallest which fits.
func (c Config) rows(n uint) (uint, error) {
	if c.K == 0 {
		return chain.MinK(n), nil
	} else if uint(1)<<c.K < chain.Rows(n) {
		return 0, fmt.Errorf("%d inputs need %d rows, but k=%d gives only %d", n, chain.Rows(n), c.K,
			uint(1)<<c.K)
	}
	//
	return c.K, nil
}

// statement describes the chain circuit absorbing n inputs under this
// configuration.
func (c Config) statement(n uint) (chain.Statement, error) {
	k, err := c.rows(n)
	if err != nil {
		return chain.Statement{}, err
	}
	//
	return chain.Statement{K: k, Width: c.Width, Capacity: c.Capacity, Inputs: n}, nil
}

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// mustLoadConfig resolves the settings for a command, exiting on failure.
func mustLoadConfig(cmd *cobra.Command) Config {
	cfg, err := loadConfig(cmd)
	exitOnError(err, 2)
	//
	return cfg
}

// exitOnError reports an error (if any) and terminates with the given exit
// code.
func exitOnError(err error, code int) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
