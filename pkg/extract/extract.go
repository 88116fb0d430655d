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

// Package extract selects one concrete term from a saturated e-graph, guided
// by the cost oracle.  Selection is greedy and bottom-up: classes resolve
// once all operand classes of one of their e-nodes have resolved, and each
// class picks the e-node minimising local cost plus the already-chosen costs
// of its operands.  This approximates rather than guarantees global
// optimality, which is the intended behaviour.
package extract

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/op"
	"github.com/eqsat/go-eqsat/pkg/shape"
)

// choice records the e-node selected for a resolved class, along with the
// total cost of the subterm rooted there.
type choice struct {
	node egraph.ENode
	cost float64
}

// Extract walks a saturated e-graph from the given root class, returning the
// cheapest representative term and its total predicted cost.  The result is
// deterministic for a fixed e-graph and oracle: classes are resolved in
// ascending identifier order, and cost ties are broken by e-node insertion
// order.  A class which never resolves indicates a cyclic dependency, which
// is a structural error: valid tensor graphs are acyclic.
func Extract(eg *egraph.EGraph, root egraph.ClassId, oracle shape.Oracle) (*op.Term, float64, error) {
	classes := eg.Classes()
	// Identifiers index the bitset directly, so size it by the largest one.
	size := uint(0)
	if n := len(classes); n > 0 {
		size = uint(classes[n-1]) + 1
	}
	//
	var (
		resolved = bitset.New(size)
		choices  = make(map[egraph.ClassId]choice, len(classes))
	)
	// Fixpoint: each pass recomputes the cheapest resolvable e-node of every
	// class, since a class resolved in an earlier pass may gain a cheaper
	// alternative once its remaining operand classes resolve (or once an
	// operand itself becomes cheaper).  Terminates when no cost improves.
	for changed := true; changed; {
		changed = false
		//
		for _, id := range classes {
			best, ok, err := cheapest(eg, id, resolved, choices, oracle)
			if err != nil {
				return nil, 0, fmt.Errorf("class %d: %w", id, err)
			} else if !ok {
				continue
			}
			//
			if !resolved.Test(uint(id)) || best.cost < choices[id].cost {
				resolved.Set(uint(id))
				choices[id] = best
				changed = true
			}
		}
	}
	//
	root = eg.Find(root)
	if !resolved.Test(uint(root)) {
		return nil, 0, fmt.Errorf("class %d cannot be resolved: cyclic dependency in graph", root)
	}
	//
	term := build(eg, root, choices, make(map[egraph.ClassId]*op.Term))
	//
	return term, choices[root].cost, nil
}

// cheapest determines the cheapest resolvable e-node of a class, if any.
// Only e-nodes all of whose operand classes have already resolved are
// considered.
func cheapest(eg *egraph.EGraph, id egraph.ClassId, resolved *bitset.BitSet,
	choices map[egraph.ClassId]choice, oracle shape.Oracle) (choice, bool, error) {
	var (
		best  choice
		found bool
	)
	//
	for _, node := range eg.Nodes(id) {
		children, ok := resolvedChildren(eg, node, resolved)
		if !ok {
			continue
		}
		//
		childMeta := make([]shape.Meta, len(children))
		total := 0.0
		//
		for i, c := range children {
			meta, ok := eg.Data(c).(shape.Meta)
			if !ok {
				return choice{}, false, fmt.Errorf("operand class %d has no shape metadata", c)
			}
			//
			childMeta[i] = meta
			total += choices[c].cost
		}
		//
		local, _, err := oracle.Evaluate(node.Tag, childMeta)
		if err != nil {
			return choice{}, false, fmt.Errorf("node %s: %w", node.String(), err)
		}
		// Strict inequality keeps the earliest node on ties.
		if total += local; !found || total < best.cost {
			best, found = choice{node, total}, true
		}
	}
	//
	return best, found, nil
}

// resolvedChildren returns the canonical operand classes of a node, provided
// every one of them has already resolved.
func resolvedChildren(eg *egraph.EGraph, node egraph.ENode, resolved *bitset.BitSet) ([]egraph.ClassId, bool) {
	children := make([]egraph.ClassId, len(node.Children))
	//
	for i, c := range node.Children {
		c = eg.Find(c)
		//
		if !resolved.Test(uint(c)) {
			return nil, false
		}
		//
		children[i] = c
	}
	//
	return children, true
}

// build reconstructs the chosen term for a class, sharing subterms via the
// given memo.
func build(eg *egraph.EGraph, id egraph.ClassId, choices map[egraph.ClassId]choice,
	memo map[egraph.ClassId]*op.Term) *op.Term {
	if term, ok := memo[id]; ok {
		return term
	}
	//
	var (
		node = choices[id].node
		term *op.Term
	)
	//
	switch node.Tag {
	case op.Num:
		term = op.NewNum(node.Value)
	case op.Var:
		term = op.NewVar(node.Name)
	default:
		args := make([]*op.Term, len(node.Children))
		for i, c := range node.Children {
			args[i] = build(eg, eg.Find(c), choices, memo)
		}
		//
		term = &op.Term{Tag: node.Tag, Args: args}
	}
	//
	memo[id] = term
	//
	return term
}
