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

	"github.com/eqsat/go-eqsat/pkg/op"
	"github.com/eqsat/go-eqsat/pkg/saturate"
	"github.com/eqsat/go-eqsat/pkg/verify"
	"github.com/markkurossi/tabulate"
	"github.com/segmentio/encoding/json"
)

// printVerdicts renders a per-rule verdict table on standard output.
func printVerdicts(result verify.Result) {
	style := tabulate.ASCII
	if isTerminal() {
		style = tabulate.UnicodeLight
	}
	//
	tab := tabulate.New(style)
	tab.Header("Rule").SetAlign(tabulate.ML)
	tab.Header("Verdict").SetAlign(tabulate.MC)
	//
	for _, outcome := range result.Outcomes {
		row := tab.Row()
		row.Column(outcome.Name)
		row.Column(outcome.Verdict.String())
	}
	//
	tab.Print(os.Stdout)
	//
	note := ""
	if result.Status == saturate.BudgetExhausted {
		note = " (budget exhausted: unverified rules are inconclusive)"
	}
	//
	fmt.Printf("%s after %d round(s)%s\n", result.Status, result.Rounds, note)
}

// jsonVerdict is the JSON rendition of one verification outcome.
type jsonVerdict struct {
	Rule    string `json:"rule"`
	Verdict string `json:"verdict"`
}

// jsonVerifyResult is the JSON rendition of a verification run.
type jsonVerifyResult struct {
	Verdicts []jsonVerdict `json:"verdicts"`
	Status   string        `json:"status"`
	Rounds   uint          `json:"rounds"`
}

// jsonOptimizeResult is the JSON rendition of an optimisation run.
type jsonOptimizeResult struct {
	Graph  string  `json:"graph"`
	Cost   float64 `json:"cost"`
	Status string  `json:"status"`
	Rounds uint    `json:"rounds"`
}

func writeVerifyJson(result verify.Result) {
	verdicts := make([]jsonVerdict, len(result.Outcomes))
	for i, outcome := range result.Outcomes {
		verdicts[i] = jsonVerdict{outcome.Name, outcome.Verdict.String()}
	}
	//
	writeJson(jsonVerifyResult{verdicts, result.Status.String(), result.Rounds})
}

func writeOptimizeJson(best *op.Term, cost float64, report saturate.Report) {
	writeJson(jsonOptimizeResult{best.String(), cost, report.Status.String(), report.Rounds})
}

func writeJson(value any) {
	bytes, err := json.Marshal(value)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	fmt.Println(string(bytes))
}
