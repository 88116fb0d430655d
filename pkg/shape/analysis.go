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
package shape

import (
	"fmt"

	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/op"
)

// Analysis attaches shape metadata to every e-class by consulting the cost
// oracle as e-nodes are added.  Since all members of a class denote equal
// tensors, their metadata must agree; a disagreement on merge indicates an
// unsound rewrite and is reported as a hard error.
type Analysis struct {
	oracle Oracle
}

var _ egraph.Analysis = &Analysis{}

// NewAnalysis constructs a shape analysis backed by the given oracle.
func NewAnalysis(oracle Oracle) *Analysis {
	return &Analysis{oracle}
}

// Make computes the metadata of a freshly added e-node from the metadata of
// its operand classes.
func (a *Analysis) Make(eg *egraph.EGraph, node egraph.ENode) (egraph.Metadata, error) {
	switch node.Tag {
	case op.Num:
		return ScalarMeta(node.Value), nil
	case op.Var:
		return NameMeta(node.Name), nil
	}
	//
	children := make([]Meta, len(node.Children))
	//
	for i, c := range node.Children {
		meta, ok := eg.Data(c).(Meta)
		if !ok {
			return nil, fmt.Errorf("class %d has no shape metadata", c)
		}
		//
		children[i] = meta
	}
	//
	_, meta, err := a.oracle.Evaluate(node.Tag, children)
	if err != nil {
		return nil, err
	}
	//
	return meta, nil
}

// Merge checks that the metadata of two merging classes agrees.
func (a *Analysis) Merge(to egraph.Metadata, from egraph.Metadata) (egraph.Metadata, error) {
	lhs, lok := to.(Meta)
	rhs, rok := from.(Meta)
	//
	if !lok || !rok {
		return nil, fmt.Errorf("class missing shape metadata")
	} else if !lhs.Equals(rhs) {
		return nil, fmt.Errorf("conflicting shape metadata: %s versus %s", lhs, rhs)
	}
	//
	return lhs, nil
}
