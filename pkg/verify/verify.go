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

// Package verify decides which candidate rewrite rules are logically implied
// by a fixed axiom set.  Both sides of every candidate are inserted into one
// e-graph shared across all candidates (equality proofs overlap, so work
// done proving one candidate is reused by the others), the axioms alone are
// run to saturation, and a candidate is verified exactly when its two sides
// end up in the same class.
package verify

import (
	"fmt"

	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/rewrite"
	"github.com/eqsat/go-eqsat/pkg/saturate"
)

// Verdict is the outcome of verification for one candidate rule.
type Verdict uint8

const (
	// Unverified means the candidate could not be proven within the run.
	// When the run exhausted its budget this means "unknown", not
	// "disproven"; check the report status to distinguish the two.
	Unverified Verdict = iota
	// Verified means the candidate is implied by the axioms.
	Verified
)

// String returns a human-readable name for this verdict.
func (v Verdict) String() string {
	if v == Verified {
		return "verified"
	}
	//
	return "unverified"
}

// Candidate is one rule awaiting verification.  Candidates are never
// themselves applied as rewrites, since using an unverified rule to prove
// itself would be circular.
type Candidate struct {
	// Name identifies this candidate in the result.
	Name string
	// LHS and RHS are the two sides of the candidate rule.
	LHS *rewrite.Pattern
	RHS *rewrite.Pattern
}

// Outcome pairs a candidate with its verdict, preserving input order.
type Outcome struct {
	// Name of the candidate rule.
	Name string
	// Verdict for the candidate rule.
	Verdict Verdict
}

// Result reports the outcome of one verification run.
type Result struct {
	// Outcomes holds one verdict per candidate, in input order.
	Outcomes []Outcome
	// Rounds is the saturation round at which the run terminated.
	Rounds uint
	// Status records how saturation terminated, allowing callers to
	// distinguish "unverified because disproven within a saturated graph"
	// from "unverified because the budget ran out".
	Status saturate.Status
}

// Verified checks the verdict recorded for a given candidate name.
func (r *Result) Verified(name string) bool {
	for _, outcome := range r.Outcomes {
		if outcome.Name == name {
			return outcome.Verdict == Verified
		}
	}
	//
	return false
}

// Verify runs the round-by-round verification procedure: insert all sides,
// saturate under the axioms with every candidate as a proof goal, and read
// off per-candidate verdicts.  Pattern variables are inserted as concrete
// symbolic leaves, so no shape metadata is required (the e-graph runs with
// the no-op analysis).
func Verify(axioms []rewrite.Rule, candidates []Candidate, cfg saturate.Config) (Result, error) {
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	runner := saturate.NewRunner(eg, axioms, cfg)
	goals := make([]saturate.Goal, len(candidates))
	//
	for i, candidate := range candidates {
		lhs, err := eg.AddTerm(candidate.LHS.Ground())
		if err != nil {
			return Result{}, fmt.Errorf("candidate %q: %w", candidate.Name, err)
		}
		//
		rhs, err := eg.AddTerm(candidate.RHS.Ground())
		if err != nil {
			return Result{}, fmt.Errorf("candidate %q: %w", candidate.Name, err)
		}
		//
		goals[i] = saturate.Goal{Name: candidate.Name, LHS: lhs, RHS: rhs}
		runner.AddGoal(goals[i])
	}
	//
	report, err := runner.Run()
	if err != nil {
		return Result{}, err
	}
	//
	outcomes := make([]Outcome, len(candidates))
	//
	for i, goal := range goals {
		verdict := Unverified
		if goal.Holds(eg) {
			verdict = Verified
		}
		//
		outcomes[i] = Outcome{goal.Name, verdict}
	}
	//
	return Result{Outcomes: outcomes, Rounds: report.Rounds, Status: report.Status}, nil
}
