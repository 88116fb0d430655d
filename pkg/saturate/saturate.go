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

// Package saturate provides the saturation driver: the round-based loop
// which applies every registered rewrite rule until the e-graph reaches a
// fixpoint, every proof goal holds, or a budget is exhausted.  Each round
// strictly separates a read phase (matching against the frozen pre-round
// state) from a write phase (batch application of all matches followed by a
// single rebuild), which keeps results independent of rule order.
package saturate

import (
	"fmt"
	"time"

	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/rewrite"
	"github.com/eqsat/go-eqsat/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Status describes how a saturation run terminated.
type Status uint8

const (
	// Running indicates the run has not yet terminated.
	Running Status = iota
	// Saturated indicates a fixpoint: no rewrite can change the e-graph.
	Saturated
	// GoalsReached indicates every proof goal held at a round boundary,
	// allowing the run to stop without saturating.
	GoalsReached
	// BudgetExhausted indicates the round or time budget ran out first.
	// This is an inconclusive outcome, not a failure: goals which did not
	// hold are unknown, not disproven.
	BudgetExhausted
)

// String returns a human-readable name for this status.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Saturated:
		return "saturated"
	case GoalsReached:
		return "goals reached"
	case BudgetExhausted:
		return "budget exhausted"
	}
	//
	return "unknown"
}

// Goal is one proof obligation: two classes which the run hopes to show
// equal.
type Goal struct {
	// Name identifies this goal in reports.
	Name string
	// LHS and RHS are the classes to be proven equal.
	LHS egraph.ClassId
	RHS egraph.ClassId
}

// Holds checks whether this goal's classes have been unioned.
func (g Goal) Holds(eg *egraph.EGraph) bool {
	return eg.Find(g.LHS) == eg.Find(g.RHS)
}

// Config bounds a saturation run.  Budgets are checked at round boundaries
// only, so that a run never stops with the e-graph invariants mid-repair.
type Config struct {
	// MaxRounds bounds the number of rounds run (zero means unbounded).
	MaxRounds uint
	// Timeout bounds the wall-clock time spent (zero means unbounded).
	Timeout time.Duration
}

// Report summarises a terminated saturation run.
type Report struct {
	// Status records how the run terminated.
	Status Status
	// Rounds is the number of completed rounds.
	Rounds uint
	// Unions is the total number of unions performed.
	Unions uint
	// Classes and Nodes describe the final e-graph size.
	Classes uint
	Nodes   uint
}

// Runner drives an e-graph to saturation under a fixed rule set.
type Runner struct {
	eg    *egraph.EGraph
	rules []rewrite.Rule
	goals []Goal
	cfg   Config
}

// NewRunner constructs a saturation runner over the given e-graph and rules.
func NewRunner(eg *egraph.EGraph, rules []rewrite.Rule, cfg Config) *Runner {
	return &Runner{eg: eg, rules: rules, cfg: cfg}
}

// AddGoal registers a proof goal checked after every round.  With one or
// more goals registered, the run stops early once all of them hold.
func (r *Runner) AddGoal(goal Goal) {
	r.goals = append(r.goals, goal)
}

// Run executes saturation rounds until a terminal state is reached,
// returning a report of the outcome.  An error indicates the run itself
// failed (e.g. a metadata conflict), not that goals went unproven.
func (r *Runner) Run() (Report, error) {
	stats := util.NewPerfStats()
	rounds := uint(0)
	status := Running
	//
	for status == Running {
		// Budget check happens strictly at round boundaries.
		if r.budgetExhausted(rounds, stats.Elapsed()) {
			status = BudgetExhausted
			break
		}
		//
		merged, err := r.round(rounds + 1)
		if err != nil {
			return Report{}, err
		}
		//
		rounds++
		//
		if len(r.goals) > 0 && r.goalsHold() {
			status = GoalsReached
		} else if merged == 0 {
			status = Saturated
		}
	}
	//
	stats.Log("saturation")
	//
	report := Report{
		Status:  status,
		Rounds:  rounds,
		Unions:  r.eg.Unions(),
		Classes: r.eg.NumClasses(),
		Nodes:   r.eg.NumNodes(),
	}
	//
	log.Debugf("saturation %s after %d round(s): %d classes / %d nodes / %d unions",
		report.Status, report.Rounds, report.Classes, report.Nodes, report.Unions)
	//
	return report, nil
}

// round runs one complete saturation round: match everything against the
// frozen pre-round state, then apply everything, then rebuild once.
func (r *Runner) round(round uint) (uint, error) {
	stats := util.NewPerfStats()
	// Read phase: collect all matches before any union is performed.
	matches := make([][]rewrite.Match, len(r.rules))
	total := 0
	//
	for i, rule := range r.rules {
		matches[i] = rule.Matches(r.eg)
		total += len(matches[i])
	}
	// Write phase: apply all matches, then repair invariants in one batch.
	merged := uint(0)
	//
	for i, rule := range r.rules {
		applied, err := rewrite.Apply(r.eg, rule, matches[i])
		if err != nil {
			return 0, fmt.Errorf("round %d: %w", round, err)
		}
		//
		merged += applied
	}
	//
	if err := r.eg.Rebuild(); err != nil {
		return 0, fmt.Errorf("round %d: %w", round, err)
	}
	//
	log.Debugf("round %d: %d match(es), %d union(s), %d classes, %d nodes",
		round, total, merged, r.eg.NumClasses(), r.eg.NumNodes())
	stats.Log(fmt.Sprintf("round %d", round))
	//
	return merged, nil
}

func (r *Runner) budgetExhausted(rounds uint, elapsed time.Duration) bool {
	if r.cfg.MaxRounds != 0 && rounds >= r.cfg.MaxRounds {
		return true
	}
	//
	return r.cfg.Timeout != 0 && elapsed >= r.cfg.Timeout
}

func (r *Runner) goalsHold() bool {
	for _, goal := range r.goals {
		if !goal.Holds(r.eg) {
			return false
		}
	}
	//
	return true
}
