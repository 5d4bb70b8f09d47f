// Package dijkstra routes traffic over a citytwin road network with
// Dijkstra's shortest-path algorithm.
//
// Overview:
//
//   - Edge cost is core.Edge.CurrentWeight, so routing is congestion-aware:
//     the simulator raises weights of loaded roads and later routes avoid them.
//   - Edges that are closed, have zero capacity or weigh +Inf are impassable
//     (core.Edge.Passable).
//   - A min-heap with lazy decrease-key gives O((V + E) log V) time and
//     O(V + E) space. The reference grid has fewer than a hundred edges; no
//     further tuning is attempted.
//
// Determinism:
//
//   - The heap orders entries by (distance, node ID).
//   - Outgoing edges are relaxed in ascending edge ID order and only a
//     strictly shorter distance replaces a predecessor, so an equal-cost
//     alternative never displaces the first one found. Same graph ⇒ same path.
//
// API:
//
//	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source("n_0_0"), dijkstra.WithReturnPath())
//	path, err := dijkstra.ShortestPath(g, "n_0_0", "n_4_4")
//
// dist[v] is +Inf for unreachable v. prev[v] is the ID of the edge through
// which v was reached ("" for the source and unreachable nodes).
// ShortestPath returns the ordered edge IDs, or an empty path when the
// target is unreachable or equals the source.
//
// Error handling (sentinel errors):
//
//   - ErrEmptySource:    Source not set.
//   - ErrNilGraph:       nil *core.Graph.
//   - ErrVertexNotFound: source or target is not a node of the graph.
//   - ErrNegativeWeight: a negative edge weight was met during relaxation.
//   - ErrBadMaxDistance: (panic in WithMaxDistance) negative cap.
package dijkstra
