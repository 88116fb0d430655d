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

import "github.com/eqsat/go-eqsat/pkg/egraph"

// Subst binds pattern variables to e-classes.
type Subst map[Var]egraph.ClassId

// Clone returns an independent copy of this substitution.
func (s Subst) Clone() Subst {
	clone := make(Subst, len(s))
	for k, v := range s {
		clone[k] = v
	}
	//
	return clone
}

// Match records that a pattern matched some e-node within a given class,
// under a given substitution.  Distinct e-nodes in one class can each yield
// separate matches.
type Match struct {
	// Class is the class in which the pattern matched.
	Class egraph.ClassId
	// Subst binds the pattern's variables to classes.
	Subst Subst
}

// MatchPattern finds every substitution under which the given pattern
// matches some e-node of some class.  The result order is deterministic for
// a fixed e-graph state: classes are visited in ascending identifier order,
// and e-nodes within a class in insertion order.  A variable occurring
// multiple times must bind to the same class everywhere; candidates
// violating this are discarded, not errors.
func MatchPattern(eg *egraph.EGraph, pattern *Pattern) []Match {
	var matches []Match
	//
	for _, id := range eg.Classes() {
		for _, subst := range matchClass(eg, pattern, id, Subst{}) {
			matches = append(matches, Match{id, subst})
		}
	}
	//
	return matches
}

// matchClass matches a pattern against the e-nodes of one class, extending a
// given substitution in every way possible.
func matchClass(eg *egraph.EGraph, pattern *Pattern, id egraph.ClassId, subst Subst) []Subst {
	id = eg.Find(id)
	// Variables bind whole classes.
	if pattern.IsVar() {
		if bound, ok := subst.lookup(pattern.Variable, eg); ok {
			if bound != id {
				// Inconsistent repeated binding
				return nil
			}
			//
			return []Subst{subst}
		}
		//
		extended := subst.Clone()
		extended[pattern.Variable] = id
		//
		return []Subst{extended}
	}
	//
	var results []Subst
	//
	for _, node := range eg.Nodes(id) {
		if node.Tag != pattern.Tag || node.Value != pattern.Value || node.Name != pattern.Name {
			continue
		}
		// Descend into operands, threading substitutions left to right.
		partial := []Subst{subst}
		//
		for i, arg := range pattern.Args {
			var next []Subst
			//
			for _, s := range partial {
				next = append(next, matchClass(eg, arg, node.Children[i], s)...)
			}
			//
			if partial = next; len(partial) == 0 {
				break
			}
		}
		//
		results = append(results, partial...)
	}
	//
	return results
}

// lookup resolves a variable binding to its canonical class.
func (s Subst) lookup(v Var, eg *egraph.EGraph) (egraph.ClassId, bool) {
	if id, ok := s[v]; ok {
		return eg.Find(id), true
	}
	//
	return 0, false
}
