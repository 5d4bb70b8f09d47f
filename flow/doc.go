// Package flow assigns demand to a road network and produces the per-tick
// traffic state and KPIs.
//
// One tick (Simulator.Step / Simulator.Run) on a snapshot g:
//
//  1. Clone g. Every edge gets a fresh ambient flow floor(U[0,1) × BaselineMax)
//     and its current weight is re-derived from that flow
//     (BaseWeight + Penalty(utilization); closed edges stay +Inf).
//  2. For each demand route, in order: route it with dijkstra.ShortestPath;
//     if a path exists, add the route volume to every open edge on it and
//     recompute that edge's weight. Later routes see the weights raised by
//     earlier ones, so route order is part of the model.
//  3. Travel time of a route is the sum of the updated weights along it.
//  4. metrics.Aggregate reduces the clone; the clone and the Snapshot are
//     returned. g itself is never modified.
//
// Congestion penalty:
//
//	Penalty(u) = 0            if u ≤ 0.8
//	Penalty(u) = u² × 10      otherwise
//
// Randomness is injected with WithSeed / WithRand; without either option a
// time-seeded source is used. A Simulator is not safe for concurrent use.
//
// A route without a path is skipped silently and excluded from the
// averages: policies only ever degrade reachability. A route naming a node
// that is not in the graph is a configuration error (ErrUnknownEndpoint).
package flow
