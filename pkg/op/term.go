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
package op

import (
	"fmt"
	"strings"
)

// Term is one operator application given as a tree.  Leaf terms (num / var)
// carry a payload instead of operands.  Terms are how expressions enter and
// leave the engine; inside the engine, operands are equivalence classes
// rather than subterms.
type Term struct {
	// Tag identifies the operator being applied.
	Tag Tag
	// Args are the operand subterms, whose length always matches Tag.Arity().
	Args []*Term
	// Value is the payload of a num leaf.
	Value int
	// Name is the payload of a var leaf.
	Name string
}

// NewTerm constructs a term applying a given operator to the given operands.
// The number of operands must match the operator's arity.
func NewTerm(tag Tag, args ...*Term) *Term {
	if uint(len(args)) != tag.Arity() {
		panic(fmt.Sprintf("operator %s expects %d operand(s), got %d", tag, tag.Arity(), len(args)))
	}
	//
	return &Term{Tag: tag, Args: args}
}

// NewNum constructs a scalar literal term.
func NewNum(value int) *Term {
	return &Term{Tag: Num, Value: value}
}

// NewVar constructs a symbolic name term.
func NewVar(name string) *Term {
	return &Term{Tag: Var, Name: name}
}

// IsLeaf determines whether this term is a leaf (num / var).
func (t *Term) IsLeaf() bool {
	return t.Tag.IsLeaf()
}

// Equals checks whether two terms are structurally identical.
func (t *Term) Equals(other *Term) bool {
	if t.Tag != other.Tag || t.Value != other.Value || t.Name != other.Name {
		return false
	} else if len(t.Args) != len(other.Args) {
		return false
	}
	//
	for i := range t.Args {
		if !t.Args[i].Equals(other.Args[i]) {
			return false
		}
	}
	//
	return true
}

// String returns this term in concrete (s-expression) syntax.
func (t *Term) String() string {
	switch t.Tag {
	case Num:
		return fmt.Sprintf("%d", t.Value)
	case Var:
		return t.Name
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(t.Tag.String())
	//
	for _, arg := range t.Args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
