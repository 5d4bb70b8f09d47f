package dijkstra

import (
	"fmt"
	"math"

	"github.com/katalvlaran/citytwin/core"
)

// ShortestPath returns the ordered edge IDs of a least-cost route from
// `from` to `to` over passable edges.
//
// The path is empty (never nil) when to is unreachable or equals from.
// Unknown node IDs are reported with ErrVertexNotFound; routing never
// fails for graphs that merely have closed roads.
//
// Complexity: O((V + E) log V) plus O(path length) reconstruction.
func ShortestPath(g *core.Graph, from, to string) ([]string, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if from == "" {
		return nil, ErrEmptySource
	}
	if !g.HasNode(to) {
		return nil, fmt.Errorf("%w: target %q", ErrVertexNotFound, to)
	}

	dist, prev, err := Dijkstra(g, Source(from), WithTarget(to), WithReturnPath())
	if err != nil {
		return nil, err
	}
	if from == to || math.IsInf(dist[to], 1) {
		return []string{}, nil
	}

	// Walk entering edges back from the target. A valid predecessor chain
	// has at most V-1 edges.
	path := make([]string, 0, 8)
	limit := g.NodeCount()
	for curr := to; curr != from; {
		eid := prev[curr]
		if eid == "" || len(path) >= limit {
			return []string{}, nil
		}
		e, err := g.Edge(eid)
		if err != nil {
			return nil, err
		}
		path = append(path, eid)
		curr = e.Source
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// PathCost sums CurrentWeight over the edges of path.
// Unknown edge IDs yield core.ErrEdgeNotFound.
func PathCost(g *core.Graph, path []string) (float64, error) {
	var total float64
	for _, id := range path {
		e, err := g.Edge(id)
		if err != nil {
			return 0, err
		}
		total += e.CurrentWeight
	}
	return total, nil
}
