// Package citytwin is a road-network traffic twin: a small city grid whose
// roads carry flow, a tick-based simulator that routes demand over it, and
// policy actions (closures, speed limits, capacity changes) whose effect on
// congestion, travel time and emissions can be compared tick by tick.
//
// Subpackages:
//
//	core/      — Graph, Node, Edge: immutable-by-convention snapshots with copy-on-write updates
//	builder/   — reference 5×5 city and composable grid/zone/highway constructors
//	dijkstra/  — congestion-aware least-cost routing over passable roads
//	bfs/       — hop-count reachability, isolated intersections after closures
//	flow/      — one simulation tick: ambient load, demand routing, congestion penalty
//	metrics/   — KPI aggregation and Prometheus export
//	policy/    — policy actions, their wire records and application to a snapshot
//	interpret/ — natural-language policy interpretation (LLM with keyword fallback)
//	twin/      — a session: current snapshot, active policies, bounded history, tick loop
//	config/    — YAML + environment configuration
//
// The citytwin command (cmd/citytwin) runs the simulation from the terminal
// or serves it over HTTP.
//
// Quick start:
//
//	g, _ := builder.ReferenceCity(builder.WithSeed(1))
//	g, _ = policy.Apply(g, policy.CloseRoad{Target: policy.Target{Tag: builder.DowntownZone}})
//	sim, _ := flow.New(flow.WithSeed(1))
//	next, m, _ := sim.Step(g)
package citytwin
