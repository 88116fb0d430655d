// Copyright the go-eqsat authors.
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
	"time"

	"github.com/eqsat/go-eqsat/pkg/rewrite"
	"github.com/eqsat/go-eqsat/pkg/rules"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer flag, or panic if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected duration flag, or panic if an error arises.
func getDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Parse and compile a rule file into rewrite rules, exiting on malformed
// input before any e-graph work begins.
func readRuleFile(filename string) []rewrite.Rule {
	defs := readRuleDefs(filename)
	//
	compiled, err := rules.Compile(defs, rules.DefaultGuards())
	if err != nil {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(2)
	}
	//
	return compiled
}

// Parse a rule file into its raw definitions.
func readRuleDefs(filename string) []rules.Def {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	defs, err := rules.Parse(string(bytes))
	if err != nil {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(2)
	}
	//
	return defs
}

// isTerminal reports whether standard output is an interactive terminal,
// which determines the table style used for reports.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
