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
	"fmt"
	"strings"

	"github.com/eqsat/go-eqsat/pkg/op"
)

// ENode is one concrete operator application whose operands are equivalence
// classes.  Two e-nodes with the same signature (tag, payload and canonical
// children) denote the same expression, and the hash-cons invariant
// guarantees at most one class contains any given signature.
type ENode struct {
	// Tag identifies the operator being applied.
	Tag op.Tag
	// Children are the operand classes, in order.
	Children []ClassId
	// Value is the payload of a num leaf.
	Value int
	// Name is the payload of a var leaf.
	Name string
}

// NewENode constructs an e-node applying a given operator to the given
// operand classes.
func NewENode(tag op.Tag, children ...ClassId) ENode {
	if uint(len(children)) != tag.Arity() {
		panic(fmt.Sprintf("operator %s expects %d operand(s), got %d", tag, tag.Arity(), len(children)))
	}
	//
	return ENode{Tag: tag, Children: children}
}

// NewNumENode constructs a scalar literal e-node.
func NewNumENode(value int) ENode {
	return ENode{Tag: op.Num, Value: value}
}

// NewVarENode constructs a symbolic name e-node.
func NewVarENode(name string) ENode {
	return ENode{Tag: op.Var, Name: name}
}

// Key returns the canonical signature of this e-node, used as its hash-cons
// key.  Two e-nodes have equal keys exactly when they have the same tag,
// payload and children.
func (n ENode) Key() string {
	var builder strings.Builder
	//
	builder.WriteString(n.Tag.String())
	//
	switch n.Tag {
	case op.Num:
		fmt.Fprintf(&builder, " %d", n.Value)
	case op.Var:
		builder.WriteString(" ")
		builder.WriteString(n.Name)
	default:
		for _, c := range n.Children {
			fmt.Fprintf(&builder, " %d", c)
		}
	}
	//
	return builder.String()
}

// Canonical returns a copy of this e-node whose children are all canonical
// identifiers under the given union-find.
func (n ENode) Canonical(uf *UnionFind) ENode {
	var children []ClassId
	//
	for i, c := range n.Children {
		if children != nil {
			children[i] = uf.Find(c)
		} else if cc := uf.Find(c); cc != c {
			// First changed child; copy prefix
			children = make([]ClassId, len(n.Children))
			copy(children, n.Children[:i])
			children[i] = cc
		}
	}
	//
	if children != nil {
		n.Children = children
	}
	//
	return n
}

// String returns a human-readable rendition of this e-node, with operand
// classes shown as $n.
func (n ENode) String() string {
	switch n.Tag {
	case op.Num:
		return fmt.Sprintf("%d", n.Value)
	case op.Var:
		return n.Name
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(n.Tag.String())
	//
	for _, c := range n.Children {
		fmt.Fprintf(&builder, " $%d", c)
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
