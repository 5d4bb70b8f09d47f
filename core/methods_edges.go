// SPDX-License-Identifier: MIT
//
// File: methods_edges.go
// Role: In-place edge mutation for graphs owned by the caller (fresh clones).

package core

import "fmt"

// UpdateEdge applies fn to the edge with the given ID and restores the edge
// invariants afterwards (see Edge.Normalize).
//
// Identity fields (ID, Source, Target, Tags) are restored after fn returns;
// fn may only change capacity, flow, weights, speed and the closed flag.
//
// UpdateEdge mutates g. Call it only on a Graph you own, typically the
// result of Clone; never on a snapshot handed out to readers.
//
// Errors: ErrEdgeNotFound.
// Complexity: O(1) + cost of fn.
func (g *Graph) UpdateEdge(id string, fn func(e *Edge)) error {
	i, ok := g.edgeIndex[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	e := &g.edges[i]
	eid, src, dst, tags := e.ID, e.Source, e.Target, e.Tags
	fn(e)
	e.ID, e.Source, e.Target, e.Tags = eid, src, dst, tags
	e.Normalize()

	return nil
}

// UpdateEdges applies fn to every edge in construction order, normalizing
// each one. Same ownership rule as UpdateEdge.
// Complexity: O(E) + E × cost of fn.
func (g *Graph) UpdateEdges(fn func(e *Edge)) {
	for i := range g.edges {
		e := &g.edges[i]
		eid, src, dst, tags := e.ID, e.Source, e.Target, e.Tags
		fn(e)
		e.ID, e.Source, e.Target, e.Tags = eid, src, dst, tags
		e.Normalize()
	}
}
