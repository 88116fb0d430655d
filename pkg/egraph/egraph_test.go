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
package egraph

import (
	"testing"

	"github.com/eqsat/go-eqsat/pkg/op"
)

func Test_EGraph_01(t *testing.T) {
	// Hash-cons: adding an identical node twice yields one class.
	eg := NewEGraph(NopAnalysis{})
	a1 := add(t, eg, NewVarENode("a"))
	a2 := add(t, eg, NewVarENode("a"))
	//
	if a1 != a2 {
		t.Errorf("expected one class, got %d and %d", a1, a2)
	}
}

func Test_EGraph_02(t *testing.T) {
	// Distinct leaves get distinct classes.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	//
	if a == b {
		t.Errorf("expected distinct classes, got %d", a)
	}
}

func Test_EGraph_03(t *testing.T) {
	// Find is idempotent, before and after a union.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	//
	if eg.Find(a) != eg.Find(eg.Find(a)) {
		t.Errorf("find not idempotent")
	}
	//
	union(t, eg, a, b)
	//
	if eg.Find(a) != eg.Find(eg.Find(a)) {
		t.Errorf("find not idempotent after union")
	} else if eg.Find(a) != eg.Find(b) {
		t.Errorf("union did not take effect")
	}
}

func Test_EGraph_04(t *testing.T) {
	// Once unioned, classes stay unioned.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	c := add(t, eg, NewVarENode("c"))
	//
	union(t, eg, a, b)
	union(t, eg, b, c)
	rebuild(t, eg)
	//
	if eg.Find(a) != eg.Find(b) || eg.Find(b) != eg.Find(c) {
		t.Errorf("unions were lost")
	}
}

func Test_EGraph_05(t *testing.T) {
	// Congruence closure: relu(a) and relu(b) must merge once a = b.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	fa := add(t, eg, NewENode(op.Relu, a))
	fb := add(t, eg, NewENode(op.Relu, b))
	//
	if eg.Find(fa) == eg.Find(fb) {
		t.Errorf("relu(a) and relu(b) merged prematurely")
	}
	//
	union(t, eg, a, b)
	rebuild(t, eg)
	//
	if eg.Find(fa) != eg.Find(fb) {
		t.Errorf("congruence closure failed")
	}
}

func Test_EGraph_06(t *testing.T) {
	// Congruence propagates upwards through several levels.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	fa := add(t, eg, NewENode(op.Relu, a))
	fb := add(t, eg, NewENode(op.Relu, b))
	ffa := add(t, eg, NewENode(op.Sigmoid, fa))
	ffb := add(t, eg, NewENode(op.Sigmoid, fb))
	//
	union(t, eg, a, b)
	rebuild(t, eg)
	//
	if eg.Find(ffa) != eg.Find(ffb) {
		t.Errorf("congruence closure did not propagate")
	}
}

func Test_EGraph_07(t *testing.T) {
	// Hash-cons invariant holds after rebuilding: no two classes share a
	// structurally identical canonical node.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	add(t, eg, NewENode(op.Ewadd, a, b))
	add(t, eg, NewENode(op.Ewadd, b, a))
	//
	union(t, eg, a, b)
	rebuild(t, eg)
	//
	checkHashCons(t, eg)
}

func Test_EGraph_08(t *testing.T) {
	// Rebuild is idempotent.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	add(t, eg, NewENode(op.Relu, a))
	add(t, eg, NewENode(op.Relu, b))
	//
	union(t, eg, a, b)
	rebuild(t, eg)
	//
	classes, nodes := eg.NumClasses(), eg.NumNodes()
	rebuild(t, eg)
	//
	if eg.NumClasses() != classes || eg.NumNodes() != nodes {
		t.Errorf("rebuild was not idempotent")
	}
}

func Test_EGraph_09(t *testing.T) {
	// AddTerm deduplicates shared subterms.
	eg := NewEGraph(NopAnalysis{})
	lhs := op.NewTerm(op.Ewadd, op.NewVar("a"), op.NewVar("a"))
	//
	root, err := eg.AddTerm(lhs)
	if err != nil {
		t.Fatal(err)
	}
	// Classes: a, and ewadd(a,a).
	if eg.NumClasses() != 2 {
		t.Errorf("expected 2 classes, got %d", eg.NumClasses())
	}
	//
	nodes := eg.Nodes(root)
	if len(nodes) != 1 || nodes[0].Tag != op.Ewadd {
		t.Errorf("unexpected root nodes: %v", nodes)
	}
}

func Test_EGraph_10(t *testing.T) {
	// Canonicalisation invariant: after rebuild, every child reference is
	// canonical.
	eg := NewEGraph(NopAnalysis{})
	a := add(t, eg, NewVarENode("a"))
	b := add(t, eg, NewVarENode("b"))
	c := add(t, eg, NewVarENode("c"))
	add(t, eg, NewENode(op.Ewadd, a, b))
	add(t, eg, NewENode(op.Ewmul, b, c))
	//
	union(t, eg, a, b)
	union(t, eg, b, c)
	rebuild(t, eg)
	//
	for _, id := range eg.Classes() {
		for _, node := range eg.Nodes(id) {
			for _, child := range node.Children {
				if eg.Find(child) != child {
					t.Errorf("class %d holds non-canonical child %d", id, child)
				}
			}
		}
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func add(t *testing.T, eg *EGraph, node ENode) ClassId {
	id, err := eg.Add(node)
	if err != nil {
		t.Fatal(err)
	}
	//
	return id
}

func union(t *testing.T, eg *EGraph, a ClassId, b ClassId) {
	if _, _, err := eg.Union(a, b); err != nil {
		t.Fatal(err)
	}
}

func rebuild(t *testing.T, eg *EGraph) {
	if err := eg.Rebuild(); err != nil {
		t.Fatal(err)
	}
}

func checkHashCons(t *testing.T, eg *EGraph) {
	seen := make(map[string]ClassId)
	//
	for _, id := range eg.Classes() {
		for _, node := range eg.Nodes(id) {
			key := node.Canonical(&eg.uf).Key()
			//
			if other, ok := seen[key]; ok && other != id {
				t.Errorf("node %s lives in classes %d and %d", key, other, id)
			}
			//
			seen[key] = id
		}
	}
}
