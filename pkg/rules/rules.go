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

// Package rules parses rule and model files.  A rule file is a sequence of
// definitions of the form
//
//	(rule <name> <lhs> <rhs> [:bidirectional] [:when <guard>])
//
// where patterns are operator applications in s-expression syntax, symbols
// beginning with '?' are pattern variables, and integers are scalar
// literals.  A model file contains a single (variable-free) term.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eqsat/go-eqsat/pkg/op"
	"github.com/eqsat/go-eqsat/pkg/rewrite"
	"github.com/eqsat/go-eqsat/pkg/sexp"
)

// Def is one parsed rule definition, before guard names are resolved and
// bidirectional rules are expanded.
type Def struct {
	// Name identifies this rule.
	Name string
	// LHS and RHS are the two sides of the rule.
	LHS *rewrite.Pattern
	RHS *rewrite.Pattern
	// Bidirectional indicates both orientations should be registered.
	Bidirectional bool
	// When optionally names a guard predicate.
	When string
}

// Parse parses a rule file into its definitions, reporting the first
// malformed definition encountered.
func Parse(src string) ([]Def, error) {
	exprs, err := sexp.ParseAll(src)
	if err != nil {
		return nil, err
	}
	//
	defs := make([]Def, 0, len(exprs))
	names := make(map[string]bool)
	//
	for _, expr := range exprs {
		def, err := parseDef(expr)
		if err != nil {
			return nil, err
		} else if names[def.Name] {
			return nil, syntaxError(expr, fmt.Sprintf("duplicate rule name %q", def.Name))
		}
		//
		names[def.Name] = true
		defs = append(defs, def)
	}
	//
	return defs, nil
}

// ParseTerm parses a model file into a single variable-free term.
func ParseTerm(src string) (*op.Term, error) {
	exprs, err := sexp.ParseAll(src)
	if err != nil {
		return nil, err
	} else if len(exprs) == 0 {
		return nil, fmt.Errorf("empty model file")
	} else if len(exprs) > 1 {
		return nil, syntaxError(exprs[1], "expected a single term")
	}
	//
	pattern, err := translate(exprs[0], false)
	if err != nil {
		return nil, err
	}
	//
	return pattern.Ground(), nil
}

// Compile resolves guard names and expands bidirectional definitions,
// yielding the rewrite rules to register with the saturation driver.  The
// reverse orientation of a bidirectional rule is named after the original
// with a "-rev" suffix.
func Compile(defs []Def, guards GuardSet) ([]rewrite.Rule, error) {
	var compiled []rewrite.Rule
	//
	for _, def := range defs {
		var guard rewrite.Guard
		//
		if def.When != "" {
			var ok bool
			//
			if guard, ok = guards[def.When]; !ok {
				return nil, fmt.Errorf("rule %q: unknown guard %q", def.Name, def.When)
			}
		}
		//
		rule, err := rewrite.NewRule(def.Name, def.LHS, def.RHS, guard)
		if err != nil {
			return nil, err
		}
		//
		compiled = append(compiled, rule)
		//
		if def.Bidirectional {
			rev, err := rewrite.NewRule(def.Name+"-rev", def.RHS, def.LHS, guard)
			if err != nil {
				return nil, err
			}
			//
			compiled = append(compiled, rev)
		}
	}
	//
	return compiled, nil
}

func parseDef(expr sexp.SExp) (Def, error) {
	list, ok := expr.(*sexp.List)
	//
	if !ok || !list.MatchSymbols(1, "rule") || list.Len() < 4 {
		return Def{}, syntaxError(expr, "expected (rule <name> <lhs> <rhs> ...)")
	}
	//
	name, ok := list.Elements[1].(*sexp.Symbol)
	if !ok {
		return Def{}, syntaxError(list.Elements[1], "expected rule name")
	}
	//
	lhs, err := translate(list.Elements[2], true)
	if err != nil {
		return Def{}, err
	}
	//
	rhs, err := translate(list.Elements[3], true)
	if err != nil {
		return Def{}, err
	}
	//
	def := Def{Name: name.Value, LHS: lhs, RHS: rhs}
	// Remaining elements are attributes
	for i := 4; i < list.Len(); i++ {
		attr, ok := list.Elements[i].(*sexp.Symbol)
		//
		switch {
		case ok && attr.Value == ":bidirectional":
			def.Bidirectional = true
		case ok && attr.Value == ":when":
			if i++; i >= list.Len() {
				return Def{}, syntaxError(attr, ":when expects a guard name")
			}
			//
			guard, ok := list.Elements[i].(*sexp.Symbol)
			if !ok {
				return Def{}, syntaxError(list.Elements[i], "expected guard name")
			}
			//
			def.When = guard.Value
		default:
			return Def{}, syntaxError(list.Elements[i], "unknown rule attribute")
		}
	}
	//
	return def, nil
}

// translate an s-expression into a pattern, optionally permitting pattern
// variables.
func translate(expr sexp.SExp, vars bool) (*rewrite.Pattern, error) {
	switch expr := expr.(type) {
	case *sexp.Symbol:
		return translateSymbol(expr, vars)
	case *sexp.List:
		return translateList(expr, vars)
	}
	//
	return nil, syntaxError(expr, "malformed expression")
}

func translateSymbol(symbol *sexp.Symbol, vars bool) (*rewrite.Pattern, error) {
	if strings.HasPrefix(symbol.Value, "?") {
		if !vars {
			return nil, syntaxError(symbol, "pattern variable not permitted here")
		} else if len(symbol.Value) == 1 {
			return nil, syntaxError(symbol, "malformed pattern variable")
		}
		//
		return rewrite.NewVarPattern(rewrite.Var(symbol.Value)), nil
	} else if value, err := strconv.Atoi(symbol.Value); err == nil {
		return &rewrite.Pattern{Tag: op.Num, Value: value}, nil
	}
	// Anything else is a concrete name.
	return &rewrite.Pattern{Tag: op.Var, Name: symbol.Value}, nil
}

func translateList(list *sexp.List, vars bool) (*rewrite.Pattern, error) {
	if list.Len() == 0 {
		return nil, syntaxError(list, "empty application")
	}
	//
	head, ok := list.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, syntaxError(list.Elements[0], "expected operator name")
	}
	//
	tag, ok := op.Lookup(head.Value)
	if !ok || tag.IsLeaf() {
		return nil, syntaxError(head, fmt.Sprintf("unknown operator %q", head.Value))
	} else if uint(list.Len()-1) != tag.Arity() {
		return nil, syntaxError(list,
			fmt.Sprintf("operator %s expects %d operand(s), got %d", tag, tag.Arity(), list.Len()-1))
	}
	//
	args := make([]*rewrite.Pattern, list.Len()-1)
	//
	for i := 1; i < list.Len(); i++ {
		arg, err := translate(list.Elements[i], vars)
		if err != nil {
			return nil, err
		}
		//
		args[i-1] = arg
	}
	//
	return rewrite.NewPattern(tag, args...), nil
}

func syntaxError(expr sexp.SExp, msg string) error {
	return sexp.NewSyntaxError(expr.Span(), msg)
}
