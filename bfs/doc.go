// Package bfs answers reachability questions about a citytwin road network
// with breadth-first search: which intersections can still be reached from a
// node, in how many road segments, and which ones a policy has cut off.
//
// What
//
//   - Explores nodes in non-decreasing hop count (edges, not weight) from a
//     start node, following only passable roads (core.Edge.Passable) unless
//     WithFilterEdge says otherwise.
//   - Returns a Result containing:
//   - Order: visit sequence
//   - Depth: node → hop count from the start
//   - Parent: node → ID of the edge it was first reached through
//   - Unreached lists the nodes of a graph the search never visited.
//
// Why
//
//   - A closure is only worth simulating if it leaves the network connected;
//     the server and CLI report isolated intersections after every batch.
//   - Hop depth is independent of congestion, so it is a stable measure of
//     how far a closure pushes traffic around.
//
// Determinism
//
//	core.Graph.EachOutgoing yields edges in ascending Edge.ID order and BFS
//	enqueues neighbors in that order, so the visit sequence is reproducible.
//
// Complexity (V = nodes, E = edges)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Usage
//
//	res, err := bfs.BFS(g, "n_0_0")
//	if err != nil {
//		// ErrGraphNil, ErrStartNodeNotFound, ErrOptionViolation,
//		// context errors or a wrapped OnVisit error
//	}
//	cut := res.Unreached(g)
//
//	res, err = bfs.BFS(g, "n_2_2",
//		bfs.WithContext(ctx),
//		bfs.WithMaxDepth(2),
//		bfs.WithFilterEdge(func(e *core.Edge) bool { return !e.Closed }),
//		bfs.WithOnVisit(func(id string, depth int) error { return nil }),
//	)
package bfs
