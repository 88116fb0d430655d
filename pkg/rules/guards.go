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
package rules

import (
	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/rewrite"
	"github.com/eqsat/go-eqsat/pkg/shape"
)

// GuardSet maps guard names (as written after :when in rule files) to their
// predicates.
type GuardSet map[string]rewrite.Guard

// DefaultGuards returns the built-in guard predicates.  Guards only make
// sense during optimisation, where classes carry shape metadata; under the
// no-op analysis every guard passes, since there is no metadata to
// contradict.
func DefaultGuards() GuardSet {
	return GuardSet{
		"tensors":    tensorsGuard,
		"same-shape": sameShapeGuard,
	}
}

// tensorsGuard requires every bound class to denote a tensor.
func tensorsGuard(eg *egraph.EGraph, subst rewrite.Subst) bool {
	for _, id := range subst {
		if meta, ok := eg.Data(id).(shape.Meta); ok && meta.Kind != shape.Tensor {
			return false
		}
	}
	//
	return true
}

// sameShapeGuard requires every bound tensor class to have the same shape.
func sameShapeGuard(eg *egraph.EGraph, subst rewrite.Subst) bool {
	var (
		dims  []int
		first = true
	)
	//
	for _, id := range subst {
		meta, ok := eg.Data(id).(shape.Meta)
		if !ok || meta.Kind != shape.Tensor {
			continue
		}
		//
		if first {
			dims, first = meta.Dims, false
		} else if len(dims) != len(meta.Dims) {
			return false
		} else {
			for i := range dims {
				if dims[i] != meta.Dims[i] {
					return false
				}
			}
		}
	}
	//
	return true
}
