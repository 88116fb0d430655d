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
package verify

import (
	"testing"

	"github.com/eqsat/go-eqsat/pkg/op"
	"github.com/eqsat/go-eqsat/pkg/rewrite"
	"github.com/eqsat/go-eqsat/pkg/saturate"
)

func Test_Verify_01(t *testing.T) {
	// Commutativity as candidate is implied by itself as axiom.
	x, y := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y")
	candidate := Candidate{
		Name: "ewadd-comm",
		LHS:  rewrite.NewPattern(op.Ewadd, x, y),
		RHS:  rewrite.NewPattern(op.Ewadd, y, x),
	}
	//
	result, err := Verify(axioms(t), []Candidate{candidate}, saturate.Config{})
	if err != nil {
		t.Fatal(err)
	} else if !result.Verified("ewadd-comm") {
		t.Errorf("commutativity not verified")
	}
}

func Test_Verify_02(t *testing.T) {
	// A consequence of the axioms which is not itself an axiom.
	x, y, z := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y"), rewrite.NewVarPattern("?z")
	candidate := Candidate{
		Name: "reorder",
		LHS: rewrite.NewPattern(op.Ewadd,
			rewrite.NewPattern(op.Ewadd, x, y), z),
		RHS: rewrite.NewPattern(op.Ewadd,
			rewrite.NewPattern(op.Ewadd, z, y), x),
	}
	//
	result, err := Verify(axioms(t), []Candidate{candidate}, saturate.Config{MaxRounds: 3})
	if err != nil {
		t.Fatal(err)
	} else if !result.Verified("reorder") {
		t.Errorf("derivable candidate not verified")
	}
}

func Test_Verify_03(t *testing.T) {
	// Soundness: an unbounded run over a non-theorem must end saturated with
	// the candidate unverified, never verified.
	x, y := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y")
	candidate := Candidate{
		Name: "addition-is-multiplication",
		LHS:  rewrite.NewPattern(op.Ewadd, x, y),
		RHS:  rewrite.NewPattern(op.Ewmul, x, y),
	}
	//
	result, err := Verify(axioms(t), []Candidate{candidate}, saturate.Config{})
	if err != nil {
		t.Fatal(err)
	} else if result.Verified("addition-is-multiplication") {
		t.Fatalf("non-theorem was verified")
	} else if result.Status != saturate.Saturated {
		t.Errorf("expected saturation, got %s", result.Status)
	}
}

func Test_Verify_04(t *testing.T) {
	// Outcomes come back in input order, one per candidate.
	x, y := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y")
	candidates := []Candidate{
		{
			Name: "bogus",
			LHS:  rewrite.NewPattern(op.Ewadd, x, y),
			RHS:  rewrite.NewPattern(op.Ewmul, x, y),
		},
		{
			Name: "ewadd-comm",
			LHS:  rewrite.NewPattern(op.Ewadd, x, y),
			RHS:  rewrite.NewPattern(op.Ewadd, y, x),
		},
	}
	//
	result, err := Verify(axioms(t), candidates, saturate.Config{})
	if err != nil {
		t.Fatal(err)
	} else if len(result.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(result.Outcomes))
	} else if result.Outcomes[0].Name != "bogus" || result.Outcomes[1].Name != "ewadd-comm" {
		t.Errorf("outcomes out of order: %v", result.Outcomes)
	} else if result.Outcomes[0].Verdict != Unverified || result.Outcomes[1].Verdict != Verified {
		t.Errorf("unexpected verdicts: %v", result.Outcomes)
	}
}

func Test_Verify_05(t *testing.T) {
	// A verdict reached in a shared e-graph matches the verdict reached when
	// the candidate is verified alone.
	x, y, z := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y"), rewrite.NewVarPattern("?z")
	reorder := Candidate{
		Name: "reorder",
		LHS: rewrite.NewPattern(op.Ewadd,
			rewrite.NewPattern(op.Ewadd, x, y), z),
		RHS: rewrite.NewPattern(op.Ewadd, x,
			rewrite.NewPattern(op.Ewadd, z, y)),
	}
	bogus := Candidate{
		Name: "bogus",
		LHS:  rewrite.NewPattern(op.Ewadd, x, y),
		RHS:  rewrite.NewPattern(op.Ewmul, x, y),
	}
	//
	alone, err := Verify(axioms(t), []Candidate{reorder}, saturate.Config{})
	if err != nil {
		t.Fatal(err)
	}
	//
	shared, err := Verify(axioms(t), []Candidate{reorder, bogus}, saturate.Config{})
	if err != nil {
		t.Fatal(err)
	}
	//
	if alone.Verified("reorder") != shared.Verified("reorder") {
		t.Errorf("shared e-graph changed the verdict for reorder")
	} else if shared.Verified("bogus") {
		t.Errorf("non-theorem was verified")
	}
}

func Test_Verify_06(t *testing.T) {
	// Budget exhaustion is reported as inconclusive, not as a failure.
	x, y := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y")
	candidate := Candidate{
		Name: "bogus",
		LHS:  rewrite.NewPattern(op.Ewadd, x, y),
		RHS:  rewrite.NewPattern(op.Ewmul, x, y),
	}
	// One round is not enough even to exhaust the axioms.
	result, err := Verify(axioms(t), []Candidate{candidate}, saturate.Config{MaxRounds: 1})
	if err != nil {
		t.Fatal(err)
	} else if result.Status != saturate.BudgetExhausted {
		t.Errorf("expected budget exhaustion, got %s", result.Status)
	} else if result.Verified("bogus") {
		t.Errorf("non-theorem was verified")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// Commutativity and associativity of element-wise addition.
func axioms(t *testing.T) []rewrite.Rule {
	x, y, z := rewrite.NewVarPattern("?x"), rewrite.NewVarPattern("?y"), rewrite.NewVarPattern("?z")
	//
	comm, err := rewrite.NewRule("comm",
		rewrite.NewPattern(op.Ewadd, x, y),
		rewrite.NewPattern(op.Ewadd, y, x), nil)
	if err != nil {
		t.Fatal(err)
	}
	//
	assoc, err := rewrite.NewRule("assoc",
		rewrite.NewPattern(op.Ewadd, rewrite.NewPattern(op.Ewadd, x, y), z),
		rewrite.NewPattern(op.Ewadd, x, rewrite.NewPattern(op.Ewadd, y, z)), nil)
	if err != nil {
		t.Fatal(err)
	}
	//
	return []rewrite.Rule{comm, assoc}
}
