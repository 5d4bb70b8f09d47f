// Package core defines the road-network data model used by every other
// citytwin package: Node (intersection, point of interest or sensor),
// Edge (a directed road segment with capacity, flow and weight state) and
// Graph, an indexed, validated collection of both.
//
// A road network G = (V,E) is stored as:
//
//   - ordered node and edge slices (construction order, used for display);
//   - nodeIndex / edgeIndex maps for O(1) lookup by ID;
//   - outgoing[nodeID], the indices of edges leaving a node, sorted by Edge.ID.
//
// Snapshot discipline:
//
//	Engine operations (policy.Apply, flow.Simulator.Step) never mutate the
//	Graph they receive. They Clone it, mutate the private clone through
//	UpdateEdge, and hand the clone back. A Graph returned by such an
//	operation is a snapshot: renderers and HTTP handlers may hold it for as
//	long as they like and will never observe a partial update. Graph itself
//	carries no locks; the single-writer rule lives with the caller (see
//	package twin).
//
// Edge invariants (restored by Edge.Normalize after every mutation):
//
//	– CurrentWeight >= BaseWeight, never NaN.
//	– Closed ⇒ CurrentWeight = +Inf (the edge is excluded from routing).
//	– Capacity >= 0.
//
// Construction:
//
//	g, err := core.NewGraph(nodes, edges)
//
// fails fast on dangling references, duplicate IDs and non-positive
// weights/speeds, so routing can assume a valid graph.
//
// Errors:
//
//	ErrEmptyNodeID     - node ID is the empty string.
//	ErrDuplicateNode   - two nodes share an ID.
//	ErrDuplicateEdge   - two edges share an ID.
//	ErrDanglingEdge    - edge source or target does not resolve to a node.
//	ErrNodeNotFound    - requested node does not exist.
//	ErrEdgeNotFound    - requested edge does not exist.
//	ErrBadCapacity     - negative or NaN capacity.
//	ErrBadWeight       - non-positive or non-finite base weight.
//	ErrBadSpeed        - non-positive or non-finite speed limit.
package core
