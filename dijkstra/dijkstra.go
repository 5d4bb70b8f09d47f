// Package dijkstra implements Dijkstra's shortest-path algorithm on road
// networks.
//
// Notes on implementation choices:
//
//   - Impassable edges (closed, zero capacity, +Inf weight) are skipped.
//   - We stop once the target (if any) is finalized, or when the minimum
//     distance in the heap exceeds MaxDistance.
//   - We use a “lazy” decrease-key strategy: pushing duplicates into the heap
//     and ignoring stale entries.
package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/citytwin/core"
)

// Dijkstra computes shortest distances from Options.Source to every vertex
// of g, using CurrentWeight as edge cost.
//
// Returns:
//
//   - dist: vertex ID → minimum distance (+Inf if unreachable or not
//     finalized before the target stop).
//   - prev: vertex ID → ID of the edge entering it on a shortest path, ""
//     for the source and unreachable vertices. Nil unless WithReturnPath.
//   - err:  validation error, see below.
//
// Preconditions and validation (in order):
//  1. Source must be non-empty (ErrEmptySource).
//  2. g must be non-nil (ErrNilGraph).
//  3. g must contain Source, and Target when set (ErrVertexNotFound).
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func Dijkstra(g *core.Graph, opts ...Option) (map[string]float64, map[string]string, error) {
	cfg := DefaultOptions("")
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Source == "" {
		return nil, nil, ErrEmptySource
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasNode(cfg.Source) {
		return nil, nil, fmt.Errorf("%w: source %q", ErrVertexNotFound, cfg.Source)
	}
	if cfg.Target != "" && !g.HasNode(cfg.Target) {
		return nil, nil, fmt.Errorf("%w: target %q", ErrVertexNotFound, cfg.Target)
	}

	V := g.NodeCount()
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make(map[string]float64, V),
		prev:    make(map[string]string, V),
		visited: make(map[string]bool, V),
		pq:      make(nodePQ, 0, V),
	}

	r.init()
	if err := r.process(); err != nil {
		return nil, nil, err
	}

	if !cfg.ReturnPath {
		return r.dist, nil, nil
	}

	return r.dist, r.prev, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *core.Graph        // read-only within Dijkstra
	options Options            // Source, Target, thresholds
	dist    map[string]float64 // vertex ID → current best distance
	prev    map[string]string  // vertex ID → entering edge ID
	visited map[string]bool    // finalized vertices
	pq      nodePQ             // lazy min-heap
}

// init sets dist[v] = +Inf for every vertex, dist[Source] = 0 and seeds the heap.
func (r *runner) init() {
	for _, n := range r.g.Nodes() {
		r.dist[n.ID] = math.Inf(1)
		r.prev[n.ID] = ""
	}
	r.dist[r.options.Source] = 0

	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.options.Source, dist: 0})
}

// process repeatedly finalizes the closest vertex and relaxes its edges.
//
// Loop termination conditions:
//
//   - The heap becomes empty (all reachable vertices processed).
//   - The target vertex is finalized.
//   - The minimum distance in the heap exceeds MaxDistance.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u, d := item.id, item.dist

		// Stale entry from lazy decrease-key.
		if r.visited[u] {
			continue
		}
		if d > r.options.MaxDistance {
			break
		}
		r.visited[u] = true

		if u == r.options.Target {
			break
		}
		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax improves distances of the heads of u's passable outgoing edges.
// Edges arrive in ascending ID order; ties keep the earlier (lower) edge.
func (r *runner) relax(u string) error {
	var err error
	r.g.EachOutgoing(u, func(e *core.Edge) {
		if err != nil || !e.Passable() {
			return
		}
		w := e.CurrentWeight
		if w < 0 {
			err = fmt.Errorf("%w: edge %s weight=%v", ErrNegativeWeight, e.ID, w)
			return
		}
		v := e.Target
		if r.visited[v] {
			return
		}
		newDist := r.dist[u] + w
		if newDist > r.options.MaxDistance || newDist >= r.dist[v] {
			return
		}
		r.dist[v] = newDist
		r.prev[v] = e.ID
		heap.Push(&r.pq, &nodeItem{id: v, dist: newDist})
	})

	return err
}

// nodeItem represents a vertex and its tentative distance from the source.
type nodeItem struct {
	id   string
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by (dist, id).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
