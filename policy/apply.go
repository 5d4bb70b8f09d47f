// SPDX-License-Identifier: MIT
//
// File: apply.go
// Role: the policy transform applyPolicy(graph, actions) -> graph'.

package policy

import (
	"fmt"

	"github.com/katalvlaran/citytwin/core"
)

// Apply returns a new snapshot with actions applied in order to every
// matched edge. g is never modified.
//
// Steps:
//  1. Validate g and every action (ErrNilGraph, ErrNilAction) before any work.
//  2. Clone g.
//  3. For each action, for each edge in construction order: if the target
//     matches, apply the effect; UpdateEdges restores edge invariants.
//
// Deterministic: no randomness, same inputs ⇒ Equal outputs.
// Complexity: O(A·E) for A actions and E edges.
func Apply(g *core.Graph, actions ...Action) (*core.Graph, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	for i, a := range actions {
		if a == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilAction, i)
		}
	}

	next := g.Clone()
	for _, a := range actions {
		target := a.Selector()
		next.UpdateEdges(func(e *core.Edge) {
			if target.Matches(e) {
				a.apply(e)
			}
		})
	}

	return next, nil
}

// ApplyRecords decodes records and applies the recognized ones. Records of
// unknown type are returned in skipped; they are no-ops, not failures.
func ApplyRecords(g *core.Graph, records ...Record) (next *core.Graph, skipped []Record, err error) {
	actions, skipped := DecodeAll(records)
	next, err = Apply(g, actions...)
	if err != nil {
		return nil, nil, err
	}
	return next, skipped, nil
}

// Matching returns the IDs of the edges of g selected by t, in edge order.
func Matching(g *core.Graph, t Target) []string {
	var ids []string
	for _, e := range g.Edges() {
		if t.Matches(&e) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
