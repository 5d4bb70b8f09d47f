// File: methods_clone.go
// Role: Deep copies and structural equality of graph snapshots.

package core

import "reflect"

// Clone returns a deep copy of g: nodes, edges (including their tag sets)
// and indexes. Mutating the clone never affects g.
//
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		nodes:     make([]Node, len(g.nodes)),
		edges:     make([]Edge, len(g.edges)),
		nodeIndex: make(map[string]int, len(g.nodeIndex)),
		edgeIndex: make(map[string]int, len(g.edgeIndex)),
		outgoing:  make(map[string][]int, len(g.outgoing)),
	}
	copy(clone.nodes, g.nodes)
	for i := range g.edges {
		clone.edges[i] = cloneEdge(g.edges[i])
	}
	for id, i := range g.nodeIndex {
		clone.nodeIndex[id] = i
	}
	for id, i := range g.edgeIndex {
		clone.edgeIndex[id] = i
	}
	for id, out := range g.outgoing {
		clone.outgoing[id] = append([]int(nil), out...)
	}

	return clone
}

// Equal reports whether g and other hold the same nodes and edges in the
// same order (structural equality, not identity).
// Complexity: O(V + E).
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	return reflect.DeepEqual(g.nodes, other.nodes) && reflect.DeepEqual(g.edges, other.edges)
}

func cloneEdge(e Edge) Edge {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}
