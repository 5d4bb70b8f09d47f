// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Graph constructor, validation and read-only getters.
// Determinism:
//   - Nodes() and Edges() preserve construction order.
//   - Outgoing() returns edges sorted by Edge.ID asc.

package core

import (
	"fmt"
	"math"
	"sort"
)

// NewGraph validates nodes and edges and builds an indexed Graph.
//
// Steps:
//  1. Index nodes; reject empty or duplicate IDs.
//  2. For each edge: derive ID via EdgeID when empty, reject duplicates and
//     dangling endpoints, validate capacity/weight/speed.
//  3. Merge endpoint zones into the edge tags, sort and dedupe tags.
//  4. Normalize the edge and link it into outgoing adjacency.
//
// The input slices are copied; the caller may reuse them.
//
// Errors: ErrEmptyNodeID, ErrDuplicateNode, ErrDuplicateEdge, ErrDanglingEdge,
// ErrBadCapacity, ErrBadWeight, ErrBadSpeed, each wrapped with the offending ID.
//
// Complexity: O(V + E log E).
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes:     make([]Node, 0, len(nodes)),
		edges:     make([]Edge, 0, len(edges)),
		nodeIndex: make(map[string]int, len(nodes)),
		edgeIndex: make(map[string]int, len(edges)),
		outgoing:  make(map[string][]int, len(nodes)),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, ErrEmptyNodeID
		}
		if _, dup := g.nodeIndex[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		g.nodeIndex[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	for _, e := range edges {
		if e.ID == "" {
			e.ID = EdgeID(e.Source, e.Target)
		}
		if _, dup := g.edgeIndex[e.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, e.ID)
		}
		if err := g.validateEdge(&e); err != nil {
			return nil, err
		}
		e.Tags = mergeTags(e.Tags, g.zoneOf(e.Source), g.zoneOf(e.Target))
		e.Normalize()

		g.edgeIndex[e.ID] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	for i := range g.edges {
		src := g.edges[i].Source
		g.outgoing[src] = append(g.outgoing[src], i)
	}
	for id, out := range g.outgoing {
		sort.Slice(out, func(a, b int) bool { return g.edges[out[a]].ID < g.edges[out[b]].ID })
		g.outgoing[id] = out
	}

	return g, nil
}

// validateEdge checks endpoint references and numeric fields of e.
func (g *Graph) validateEdge(e *Edge) error {
	if _, ok := g.nodeIndex[e.Source]; !ok {
		return fmt.Errorf("%w: edge %s source %q", ErrDanglingEdge, e.ID, e.Source)
	}
	if _, ok := g.nodeIndex[e.Target]; !ok {
		return fmt.Errorf("%w: edge %s target %q", ErrDanglingEdge, e.ID, e.Target)
	}
	if math.IsNaN(e.Capacity) || e.Capacity < 0 {
		return fmt.Errorf("%w: edge %s capacity=%v", ErrBadCapacity, e.ID, e.Capacity)
	}
	if !(e.BaseWeight > 0) || math.IsInf(e.BaseWeight, 0) {
		return fmt.Errorf("%w: edge %s base=%v", ErrBadWeight, e.ID, e.BaseWeight)
	}
	if !(e.SpeedLimit > 0) || math.IsInf(e.SpeedLimit, 0) {
		return fmt.Errorf("%w: edge %s speed=%v", ErrBadSpeed, e.ID, e.SpeedLimit)
	}
	return nil
}

func (g *Graph) zoneOf(id string) string {
	return g.nodes[g.nodeIndex[id]].Zone
}

// mergeTags returns the sorted, deduplicated union of tags and extra,
// ignoring empty strings. Returns nil for an empty result.
func mergeTags(tags []string, extra ...string) []string {
	set := make(map[string]struct{}, len(tags)+len(extra))
	for _, t := range tags {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	for _, t := range extra {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns |V|.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns |E|.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id is a node of g. Complexity: O(1).
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// Node returns a copy of the node with the given ID. Complexity: O(1).
func (g *Graph) Node(id string) (Node, error) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return g.nodes[i], nil
}

// Edge returns a copy of the edge with the given ID. Complexity: O(1).
func (g *Graph) Edge(id string) (Edge, error) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	return cloneEdge(g.edges[i]), nil
}

// Nodes returns a copy of all nodes in construction order. Complexity: O(V).
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of all edges in construction order. Complexity: O(E).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i := range g.edges {
		out[i] = cloneEdge(g.edges[i])
	}
	return out
}

// Outgoing returns the open edges leaving node id, sorted by Edge.ID.
// Closed edges are excluded; capacity and weight are not inspected.
//
// Errors: ErrNodeNotFound.
// Complexity: O(deg(id)).
func (g *Graph) Outgoing(id string) ([]Edge, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	out := make([]Edge, 0, len(g.outgoing[id]))
	for _, i := range g.outgoing[id] {
		if g.edges[i].Closed {
			continue
		}
		out = append(out, cloneEdge(g.edges[i]))
	}
	return out, nil
}

// EachOutgoing calls fn for every open edge leaving id in Edge.ID order,
// without copying. fn must not retain or modify the pointer.
// Unknown ids yield no calls.
func (g *Graph) EachOutgoing(id string, fn func(e *Edge)) {
	for _, i := range g.outgoing[id] {
		if g.edges[i].Closed {
			continue
		}
		fn(&g.edges[i])
	}
}
