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

	"github.com/eqsat/go-eqsat/pkg/saturate"
	"github.com/eqsat/go-eqsat/pkg/verify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [flags] axiom_file rule_file",
	Short: "Verify candidate rewrite rules against a set of axioms.",
	Long: `Verify whether each candidate rule in the given rule file is implied
	by the axioms in the given axiom file.  All candidates share one e-graph,
	which is saturated under the axioms alone; a candidate is verified when
	its two sides are proven equal.  An exhausted budget means unproven
	candidates are inconclusive, not disproven, and is reflected in the exit
	status.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg := saturate.Config{
			MaxRounds: getUint(cmd, "max-rounds"),
			Timeout:   getDuration(cmd, "timeout"),
		}
		// Parse inputs before any e-graph work begins.
		axioms := readRuleFile(args[0])
		defs := readRuleDefs(args[1])
		//
		candidates := make([]verify.Candidate, len(defs))
		for i, def := range defs {
			candidates[i] = verify.Candidate{Name: def.Name, LHS: def.LHS, RHS: def.RHS}
		}
		//
		result, err := verify.Verify(axioms, candidates, cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		if getFlag(cmd, "json") {
			writeVerifyJson(result)
		} else {
			printVerdicts(result)
		}
		// Exit status reflects whether verification completed within budget,
		// not whether individual rules verified.
		if result.Status == saturate.BudgetExhausted {
			os.Exit(4)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().Uint("max-rounds", 100, "maximum number of saturation rounds (0 for unbounded)")
	verifyCmd.Flags().Duration("timeout", 0, "wall-clock limit for saturation (0 for unbounded)")
	verifyCmd.Flags().Bool("json", false, "report verdicts as JSON")
}
