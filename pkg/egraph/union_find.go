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

// ClassId identifies an equivalence class within an e-graph.  Identifiers are
// allocated densely from zero, and hence can directly index the class arena.
type ClassId uint

// UnionFind maps every class identifier ever allocated to its current
// canonical identifier.  Identifiers are never deallocated; merging classes
// simply redirects one identifier to another.
type UnionFind struct {
	// parents maps each identifier to its parent identifier, where roots are
	// their own parent.
	parents []ClassId
}

// Alloc allocates a fresh identifier, which is initially its own canonical
// representative.
func (uf *UnionFind) Alloc() ClassId {
	id := ClassId(len(uf.parents))
	uf.parents = append(uf.parents, id)
	//
	return id
}

// Size returns the number of identifiers allocated so far.
func (uf *UnionFind) Size() uint {
	return uint(len(uf.parents))
}

// Find returns the canonical identifier for a given class, compressing the
// path traversed as it goes.  Find is idempotent.
func (uf *UnionFind) Find(id ClassId) ClassId {
	root := id
	// Locate root
	for uf.parents[root] != root {
		root = uf.parents[root]
	}
	// Compress path
	for uf.parents[id] != root {
		id, uf.parents[id] = uf.parents[id], root
	}
	//
	return root
}

// Union redirects the canonical identifier child to the canonical identifier
// parent, making the latter canonical for both.  The caller chooses the
// orientation (e.g. preferring the class with more parents as canonical).
func (uf *UnionFind) Union(child ClassId, parent ClassId) {
	uf.parents[child] = parent
}
