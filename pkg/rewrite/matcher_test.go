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
package rewrite

import (
	"reflect"
	"testing"

	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/op"
)

func Test_Matcher_01(t *testing.T) {
	// A single variable matches every class.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	//
	matches := MatchPattern(eg, NewVarPattern("?x"))
	// Classes: a, b, ewadd(a,b).
	if len(matches) != 3 {
		t.Errorf("expected 3 matches, got %d", len(matches))
	}
}

func Test_Matcher_02(t *testing.T) {
	// Operator patterns match only their operator.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	addTerm(t, eg, op.NewTerm(op.Ewmul, op.NewVar("a"), op.NewVar("b")))
	//
	pattern := NewPattern(op.Ewadd, NewVarPattern("?x"), NewVarPattern("?y"))
	matches := MatchPattern(eg, pattern)
	//
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	//
	subst := matches[0].Subst
	if len(subst) != 2 || subst["?x"] == subst["?y"] {
		t.Errorf("unexpected substitution: %v", subst)
	}
}

func Test_Matcher_03(t *testing.T) {
	// A repeated variable must bind the same class everywhere.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("a")))
	//
	pattern := NewPattern(op.Ewadd, NewVarPattern("?x"), NewVarPattern("?x"))
	matches := MatchPattern(eg, pattern)
	//
	if len(matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(matches))
	}
}

func Test_Matcher_04(t *testing.T) {
	// A repeated variable does match two distinct-but-unioned classes.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	a := addTerm(t, eg, op.NewVar("a"))
	b := addTerm(t, eg, op.NewVar("b"))
	addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	//
	if _, _, err := eg.Union(a, b); err != nil {
		t.Fatal(err)
	} else if err := eg.Rebuild(); err != nil {
		t.Fatal(err)
	}
	//
	pattern := NewPattern(op.Ewadd, NewVarPattern("?x"), NewVarPattern("?x"))
	matches := MatchPattern(eg, pattern)
	//
	if len(matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(matches))
	}
}

func Test_Matcher_05(t *testing.T) {
	// Matching is deterministic for a fixed e-graph state.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	addTerm(t, eg, op.NewTerm(op.Ewadd,
		op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")),
		op.NewVar("c")))
	//
	pattern := NewPattern(op.Ewadd, NewVarPattern("?x"), NewVarPattern("?y"))
	first := MatchPattern(eg, pattern)
	second := MatchPattern(eg, pattern)
	//
	if !reflect.DeepEqual(first, second) {
		t.Errorf("matching was not deterministic")
	}
}

func Test_Matcher_06(t *testing.T) {
	// Distinct e-nodes within one class each yield their own match.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	lhs := addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	rhs := addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("b"), op.NewVar("a")))
	//
	if _, _, err := eg.Union(lhs, rhs); err != nil {
		t.Fatal(err)
	} else if err := eg.Rebuild(); err != nil {
		t.Fatal(err)
	}
	//
	pattern := NewPattern(op.Ewadd, NewVarPattern("?x"), NewVarPattern("?y"))
	matches := MatchPattern(eg, pattern)
	//
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func Test_Rewrite_01(t *testing.T) {
	// Applying commutativity unions the rewritten class with its image.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	root := addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	//
	rule := commutativity(t)
	applied, err := Apply(eg, rule, rule.Matches(eg))
	//
	if err != nil {
		t.Fatal(err)
	} else if applied != 1 {
		t.Fatalf("expected 1 application, got %d", applied)
	} else if err := eg.Rebuild(); err != nil {
		t.Fatal(err)
	}
	// Both orientations must now inhabit the root class.
	if len(eg.Nodes(root)) != 2 {
		t.Errorf("expected 2 nodes in root class, got %d", len(eg.Nodes(root)))
	}
}

func Test_Rewrite_02(t *testing.T) {
	// A guard returning false skips the match without error.
	eg := egraph.NewEGraph(egraph.NopAnalysis{})
	addTerm(t, eg, op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("b")))
	//
	rule := commutativity(t)
	rule.Guard = func(eg *egraph.EGraph, subst Subst) bool { return false }
	//
	applied, err := Apply(eg, rule, rule.Matches(eg))
	if err != nil {
		t.Fatal(err)
	} else if applied != 0 {
		t.Errorf("expected 0 applications, got %d", applied)
	}
}

func Test_Rewrite_03(t *testing.T) {
	// A right-hand variable unbound on the left is rejected up front.
	lhs := NewPattern(op.Relu, NewVarPattern("?x"))
	rhs := NewPattern(op.Relu, NewVarPattern("?y"))
	//
	if _, err := NewRule("bogus", lhs, rhs, nil); err == nil {
		t.Errorf("expected unbound variable to be rejected")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func addTerm(t *testing.T, eg *egraph.EGraph, term *op.Term) egraph.ClassId {
	id, err := eg.AddTerm(term)
	if err != nil {
		t.Fatal(err)
	}
	//
	return id
}

func commutativity(t *testing.T) Rule {
	lhs := NewPattern(op.Ewadd, NewVarPattern("?x"), NewVarPattern("?y"))
	rhs := NewPattern(op.Ewadd, NewVarPattern("?y"), NewVarPattern("?x"))
	//
	rule, err := NewRule("ewadd-comm", lhs, rhs, nil)
	if err != nil {
		t.Fatal(err)
	}
	//
	return rule
}
