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
	"fmt"

	"github.com/eqsat/go-eqsat/pkg/egraph"
)

// Guard is an optional predicate evaluated against the metadata of the
// classes bound by a match.  A guard returning false simply skips the match;
// it is not an error.
type Guard func(eg *egraph.EGraph, subst Subst) bool

// Rule is one directional rewrite: wherever the left-hand pattern matches,
// the right-hand pattern (instantiated under the match's substitution) is
// inserted and unioned with the matched class.
type Rule struct {
	// Name identifies this rule in reports and diagnostics.
	Name string
	// LHS is the pattern being matched.
	LHS *Pattern
	// RHS is the pattern being instantiated.
	RHS *Pattern
	// Guard is an optional applicability predicate.
	Guard Guard
}

// NewRule constructs a rule, checking that every variable of the right-hand
// side is bound by the left-hand side.
func NewRule(name string, lhs *Pattern, rhs *Pattern, guard Guard) (Rule, error) {
	bound := make(map[Var]bool)
	//
	for _, v := range lhs.Vars() {
		bound[v] = true
	}
	//
	for _, v := range rhs.Vars() {
		if !bound[v] {
			return Rule{}, fmt.Errorf("rule %q: variable %s unbound on left-hand side", name, v)
		}
	}
	//
	return Rule{Name: name, LHS: lhs, RHS: rhs, Guard: guard}, nil
}

// Matches finds all matches of this rule's left-hand side against the
// current e-graph state.  No mutation occurs; this is the read phase of a
// saturation round.
func (r Rule) Matches(eg *egraph.EGraph) []Match {
	return MatchPattern(eg, r.LHS)
}

// Apply instantiates and unions this rule's right-hand side for every given
// match, returning the number of unions which actually changed the e-graph.
// Matches must have been collected before any of them is applied (frozen
// snapshot), and the caller runs one Rebuild after the whole round's
// applications.
func Apply(eg *egraph.EGraph, rule Rule, matches []Match) (uint, error) {
	applied := uint(0)
	//
	for _, match := range matches {
		if rule.Guard != nil && !rule.Guard(eg, match.Subst) {
			continue
		}
		//
		id, err := instantiate(eg, rule.RHS, match.Subst)
		if err != nil {
			return applied, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		//
		_, changed, err := eg.Union(match.Class, id)
		if err != nil {
			return applied, fmt.Errorf("rule %q: %w", rule.Name, err)
		} else if changed {
			applied++
		}
	}
	//
	return applied, nil
}

// instantiate inserts a pattern as a term, with variables standing for their
// bound classes.
func instantiate(eg *egraph.EGraph, pattern *Pattern, subst Subst) (egraph.ClassId, error) {
	if pattern.IsVar() {
		// NewRule guarantees the binding exists.
		return eg.Find(subst[pattern.Variable]), nil
	}
	//
	node := egraph.ENode{Tag: pattern.Tag, Value: pattern.Value, Name: pattern.Name}
	if n := len(pattern.Args); n > 0 {
		node.Children = make([]egraph.ClassId, n)
	}
	//
	for i, arg := range pattern.Args {
		child, err := instantiate(eg, arg, subst)
		if err != nil {
			return 0, err
		}
		//
		node.Children[i] = child
	}
	//
	return eg.Add(node)
}
