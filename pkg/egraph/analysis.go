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

// Metadata is the analysis payload carried by every e-class (e.g. shape and
// stride information for tensor classes).  Its concrete type is determined by
// the Analysis in use.
type Metadata any

// Analysis determines the metadata attached to e-classes.  Make computes the
// metadata of a freshly added e-node from its operand classes, whilst Merge
// combines the metadata of two classes being unioned.  Both must be pure and
// deterministic; Merge must never silently drop information (conflicting
// metadata is an error, not a preference).
type Analysis interface {
	// Make computes metadata for a new e-node whose operand classes (and
	// their metadata) are already present in the given e-graph.
	Make(eg *EGraph, node ENode) (Metadata, error)
	// Merge combines the metadata of two classes being unioned, returning an
	// error if they are incompatible (which indicates an unsound rewrite).
	Merge(to Metadata, from Metadata) (Metadata, error)
}

// NopAnalysis attaches no metadata to any class.  This is what the verifier
// uses, since proving two terms equal requires no shape information.
type NopAnalysis struct{}

// Make returns empty metadata.
func (a NopAnalysis) Make(eg *EGraph, node ENode) (Metadata, error) {
	return nil, nil
}

// Merge returns empty metadata.
func (a NopAnalysis) Merge(to Metadata, from Metadata) (Metadata, error) {
	return nil, nil
}
