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

// Package rewrite provides rewrite rules over e-graphs: patterns whose leaves
// may be variables, a deterministic pattern matcher, and the rule applier
// which inserts instantiated right-hand sides and unions them with their
// matched classes.
package rewrite

import (
	"sort"
	"strings"

	"github.com/eqsat/go-eqsat/pkg/op"
)

// Var is a pattern variable (e.g. "?x").  A variable binds to an entire
// e-class, so two structurally different but equal operands are
// interchangeable under the same binding.
type Var string

// Pattern is a term whose leaves may additionally be pattern variables.
type Pattern struct {
	// Variable is non-empty when this pattern is a variable leaf.
	Variable Var
	// Tag identifies the operator applied by a non-variable pattern.
	Tag op.Tag
	// Args are the operand subpatterns.
	Args []*Pattern
	// Value is the payload of a num leaf.
	Value int
	// Name is the payload of a (concrete) var leaf.
	Name string
}

// NewVarPattern constructs a variable leaf pattern.
func NewVarPattern(v Var) *Pattern {
	return &Pattern{Variable: v}
}

// NewPattern constructs a pattern applying a given operator to the given
// operand subpatterns.
func NewPattern(tag op.Tag, args ...*Pattern) *Pattern {
	return &Pattern{Tag: tag, Args: args}
}

// PatternOf lifts a term into a pattern, turning every var leaf whose name
// starts with '?' into a pattern variable.
func PatternOf(term *op.Term) *Pattern {
	if term.Tag == op.Var && strings.HasPrefix(term.Name, "?") {
		return NewVarPattern(Var(term.Name))
	}
	//
	args := make([]*Pattern, len(term.Args))
	for i, arg := range term.Args {
		args[i] = PatternOf(arg)
	}
	//
	return &Pattern{Tag: term.Tag, Args: args, Value: term.Value, Name: term.Name}
}

// IsVar determines whether this pattern is a variable leaf.
func (p *Pattern) IsVar() bool {
	return p.Variable != ""
}

// Vars returns the variables occurring in this pattern, sorted and without
// duplicates.
func (p *Pattern) Vars() []Var {
	seen := make(map[Var]bool)
	p.vars(seen)
	//
	vars := make([]Var, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	//
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	//
	return vars
}

// Ground converts this pattern into a term by treating every variable as a
// concrete symbolic leaf.  This is how the verifier inserts a candidate
// rule's sides as proof goals.
func (p *Pattern) Ground() *op.Term {
	if p.IsVar() {
		return op.NewVar(string(p.Variable))
	} else if p.Tag.IsLeaf() {
		return &op.Term{Tag: p.Tag, Value: p.Value, Name: p.Name}
	}
	//
	args := make([]*op.Term, len(p.Args))
	for i, arg := range p.Args {
		args[i] = arg.Ground()
	}
	//
	return &op.Term{Tag: p.Tag, Args: args}
}

// String returns this pattern in concrete (s-expression) syntax.
func (p *Pattern) String() string {
	return p.Ground().String()
}

func (p *Pattern) vars(seen map[Var]bool) {
	if p.IsVar() {
		seen[p.Variable] = true
		return
	}
	//
	for _, arg := range p.Args {
		arg.vars(seen)
	}
}
