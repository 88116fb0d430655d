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

// Package egraph provides a congruence-closed collection of equivalence
// classes of expressions (an e-graph).  Each class holds one or more e-nodes
// known to be equal, and classes are deduplicated through a hash-cons memo
// mapping canonical e-node signatures to classes.  After a batch of unions,
// Rebuild restores the hash-cons and congruence invariants.
package egraph

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/eqsat/go-eqsat/pkg/op"
)

// parentRef records that a given e-node (living in a given class) references
// this class as an operand.  Parent lists drive congruence repair: when two
// classes merge, every parent e-node must be re-canonicalised and re-hashed.
type parentRef struct {
	// node is the referencing e-node, in the canonical form under which it
	// was last hashed.
	node ENode
	// class is the class containing node.
	class ClassId
}

// EClass is one equivalence class: a set of e-nodes known to be equal, the
// list of e-nodes referencing this class, and an analysis payload.
type EClass struct {
	// id is the identifier under which this class was allocated.  Note the
	// canonical identifier of the class may differ after unions.
	id ClassId
	// nodes are the e-nodes of this class, in insertion order.
	nodes []ENode
	// parents are the e-nodes referencing this class.
	parents []parentRef
	// data is the analysis payload of this class.
	data Metadata
}

// Id returns the identifier under which this class was allocated.
func (c *EClass) Id() ClassId {
	return c.id
}

// Nodes returns the e-nodes of this class in insertion order.  The returned
// slice must not be modified.
func (c *EClass) Nodes() []ENode {
	return c.nodes
}

// Data returns the analysis payload of this class.
func (c *EClass) Data() Metadata {
	return c.data
}

// EGraph is the e-graph proper.  All mutation goes through Add / AddTerm /
// Union, with Rebuild run once per saturation round to restore invariants
// after a batch of unions (batching amortises repair cost).
type EGraph struct {
	// uf maps every allocated identifier to its canonical identifier.
	uf UnionFind
	// classes is the class arena, indexed by identifier.  Entries for
	// non-canonical identifiers are stale and never consulted.
	classes []*EClass
	// memo is the hash-cons: canonical e-node signature to class.
	memo map[string]ClassId
	// pending holds classes whose parents await congruence recheck.
	pending []ClassId
	// analysis computes class metadata.
	analysis Analysis
	// unions counts unions performed over the lifetime of this e-graph.
	unions uint
}

// NewEGraph constructs an empty e-graph using the given analysis.
func NewEGraph(analysis Analysis) *EGraph {
	return &EGraph{
		memo:     make(map[string]ClassId),
		analysis: analysis,
	}
}

// Find returns the canonical identifier of a given class.
func (eg *EGraph) Find(id ClassId) ClassId {
	return eg.uf.Find(id)
}

// Add inserts an e-node, returning the class containing it.  If a
// structurally identical e-node already exists, its class is returned
// (hash-consing); otherwise a fresh class is allocated and the node's
// metadata computed via the analysis.
func (eg *EGraph) Add(node ENode) (ClassId, error) {
	node = node.Canonical(&eg.uf)
	// Hash-cons lookup
	if id, ok := eg.memo[node.Key()]; ok {
		return eg.Find(id), nil
	}
	// Compute metadata before allocating, since this can fail.
	data, err := eg.analysis.Make(eg, node)
	if err != nil {
		return 0, fmt.Errorf("node %s: %w", node.String(), err)
	}
	//
	id := eg.uf.Alloc()
	class := &EClass{id: id, nodes: []ENode{node}, data: data}
	eg.classes = append(eg.classes, class)
	// Register as parent of each distinct operand class
	for i, c := range node.Children {
		if !containsChild(node.Children[:i], c) {
			eg.class(c).parents = append(eg.class(c).parents, parentRef{node, id})
		}
	}
	//
	eg.memo[node.Key()] = id
	//
	return id, nil
}

// AddTerm inserts a term, recursively inserting its subterms first, and
// returns the class containing the root.
func (eg *EGraph) AddTerm(term *op.Term) (ClassId, error) {
	var node ENode
	//
	switch term.Tag {
	case op.Num:
		node = NewNumENode(term.Value)
	case op.Var:
		node = NewVarENode(term.Name)
	default:
		children := make([]ClassId, len(term.Args))
		//
		for i, arg := range term.Args {
			child, err := eg.AddTerm(arg)
			if err != nil {
				return 0, err
			}
			//
			children[i] = child
		}
		//
		node = ENode{Tag: term.Tag, Children: children}
	}
	//
	return eg.Add(node)
}

// Union merges two classes, returning the canonical identifier of the merged
// class and a flag indicating whether anything actually changed.  The class
// with more parents is kept canonical, bounding congruence-repair cost.
// Merging fails if the analysis reports incompatible metadata, which
// indicates an unsound or ill-typed rewrite.
func (eg *EGraph) Union(a ClassId, b ClassId) (ClassId, bool, error) {
	a, b = eg.Find(a), eg.Find(b)
	//
	if a == b {
		return a, false, nil
	}
	//
	canon, other := eg.class(a), eg.class(b)
	if len(canon.parents) < len(other.parents) {
		canon, other = other, canon
	}
	// Merge metadata, failing on conflict.
	data, err := eg.analysis.Merge(canon.data, other.data)
	if err != nil {
		return 0, false, fmt.Errorf("merging class %d (%s) with class %d (%s): %w",
			canon.id, canon.nodes[0].String(), other.id, other.nodes[0].String(), err)
	}
	//
	eg.uf.Union(other.id, canon.id)
	canon.nodes = append(canon.nodes, other.nodes...)
	canon.parents = append(canon.parents, other.parents...)
	canon.data = data
	// Parents of both classes need a congruence recheck.
	eg.pending = append(eg.pending, canon.id)
	eg.unions++
	//
	return canon.id, true, nil
}

// Rebuild drains the recheck queue, re-canonicalising and re-hashing every
// parent of every merged class, and unioning classes found to contain
// structurally identical e-nodes.  This restores the hash-cons, congruence
// and canonicalisation invariants, and must run once per saturation round.
// Rebuild is idempotent.
func (eg *EGraph) Rebuild() error {
	for len(eg.pending) > 0 {
		todo := eg.pending
		eg.pending = nil
		//
		done := bitset.New(eg.uf.Size())
		//
		for _, id := range todo {
			id = eg.Find(id)
			//
			if !done.Test(uint(id)) {
				done.Set(uint(id))
				//
				if err := eg.repair(id); err != nil {
					return err
				}
			}
		}
	}
	// Re-canonicalise class contents now the union-find has settled.
	eg.canonicaliseClasses()
	//
	return nil
}

// Unions returns the number of unions performed over the lifetime of this
// e-graph.  The saturation driver compares this across round boundaries to
// detect a fixpoint.
func (eg *EGraph) Unions() uint {
	return eg.unions
}

// Classes returns the canonical class identifiers in ascending order.  This
// ordering is what makes matching and extraction deterministic.
func (eg *EGraph) Classes() []ClassId {
	var ids []ClassId
	//
	for i := range eg.classes {
		if id := ClassId(i); eg.Find(id) == id {
			ids = append(ids, id)
		}
	}
	//
	return ids
}

// Nodes returns the e-nodes of a given class in insertion order.  The
// returned slice must not be modified.
func (eg *EGraph) Nodes(id ClassId) []ENode {
	return eg.class(eg.Find(id)).nodes
}

// Data returns the analysis payload of a given class.
func (eg *EGraph) Data(id ClassId) Metadata {
	return eg.class(eg.Find(id)).data
}

// NumClasses returns the number of canonical classes.
func (eg *EGraph) NumClasses() uint {
	count := uint(0)
	//
	for i := range eg.classes {
		if id := ClassId(i); eg.Find(id) == id {
			count++
		}
	}
	//
	return count
}

// NumNodes returns the total number of e-nodes across canonical classes.
func (eg *EGraph) NumNodes() uint {
	count := uint(0)
	//
	for i := range eg.classes {
		if id := ClassId(i); eg.Find(id) == id {
			count += uint(len(eg.classes[i].nodes))
		}
	}
	//
	return count
}

// class returns the arena entry for a given canonical identifier.
func (eg *EGraph) class(id ClassId) *EClass {
	return eg.classes[eg.Find(id)]
}

// repair re-canonicalises and re-hashes every parent e-node of a merged
// class, unioning any classes discovered to collide in the hash-cons.
func (eg *EGraph) repair(id ClassId) error {
	class := eg.classes[id]
	parents := class.parents
	class.parents = nil
	//
	seen := make(map[string]ClassId, len(parents))
	//
	for _, parent := range parents {
		// Remove the stale hash-cons entry before re-canonicalising.
		delete(eg.memo, parent.node.Key())
		//
		node := parent.node.Canonical(&eg.uf)
		pclass := eg.Find(parent.class)
		key := node.Key()
		// A collision here means two previously distinct e-nodes became
		// structurally identical, so their classes are equal by congruence.
		if existing, ok := eg.memo[key]; ok && eg.Find(existing) != pclass {
			merged, _, err := eg.Union(existing, pclass)
			if err != nil {
				return err
			}
			//
			pclass = merged
		}
		//
		eg.memo[key] = pclass
		// Deduplicate the parent list under the new canonical form.
		if _, ok := seen[key]; !ok {
			seen[key] = pclass
			class.parents = append(class.parents, parentRef{node, pclass})
		}
	}
	//
	return nil
}

// canonicaliseClasses rewrites every class's e-nodes into canonical form and
// drops duplicates, so that invariant checks and matching see canonical
// children only.
func (eg *EGraph) canonicaliseClasses() {
	for i := range eg.classes {
		if id := ClassId(i); eg.Find(id) != id {
			continue
		}
		//
		class := eg.classes[i]
		seen := make(map[string]bool, len(class.nodes))
		nodes := class.nodes[:0]
		//
		for _, node := range class.nodes {
			node = node.Canonical(&eg.uf)
			//
			if key := node.Key(); !seen[key] {
				seen[key] = true
				nodes = append(nodes, node)
			}
		}
		//
		class.nodes = nodes
	}
}

func containsChild(children []ClassId, id ClassId) bool {
	for _, c := range children {
		if c == id {
			return true
		}
	}
	//
	return false
}
