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

	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/extract"
	"github.com/eqsat/go-eqsat/pkg/op"
	"github.com/eqsat/go-eqsat/pkg/rules"
	"github.com/eqsat/go-eqsat/pkg/saturate"
	"github.com/eqsat/go-eqsat/pkg/shape"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] rule_file model_file",
	Short: "Search for a cheaper equivalent of a given operator graph.",
	Long: `Saturate an e-graph seeded with the given model under the given
	rewrite rules, then extract the representative the cost model considers
	cheapest.  Extraction is greedy, so the result is an approximation of the
	optimum.`,
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
		rewrites := readRuleFile(args[0])
		model := readModelFile(args[1])
		//
		oracle := shape.Model{}
		eg := egraph.NewEGraph(shape.NewAnalysis(oracle))
		//
		root, err := eg.AddTerm(model)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		report, err := saturate.NewRunner(eg, rewrites, cfg).Run()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		best, cost, err := extract.Extract(eg, root, oracle)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		if getFlag(cmd, "json") {
			writeOptimizeJson(best, cost, report)
		} else {
			fmt.Printf("status: %s after %d round(s)\n", report.Status, report.Rounds)
			fmt.Printf("cost:   %.1f\n", cost)
			fmt.Println(best.String())
		}
		//
		if report.Status == saturate.BudgetExhausted {
			os.Exit(4)
		}
	},
}

func readModelFile(filename string) *op.Term {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	term, err := rules.ParseTerm(string(bytes))
	if err != nil {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(2)
	}
	//
	return term
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().Uint("max-rounds", 10, "maximum number of saturation rounds (0 for unbounded)")
	optimizeCmd.Flags().Duration("timeout", 0, "wall-clock limit for saturation (0 for unbounded)")
	optimizeCmd.Flags().Bool("json", false, "report the optimised graph as JSON")
}
