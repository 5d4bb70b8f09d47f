// SPDX-License-Identifier: MIT
//
// File: simulator.go
// Role: one simulation tick: ambient flow, demand assignment, KPI aggregation.

package flow

import (
	"fmt"
	"math"

	"github.com/katalvlaran/citytwin/core"
	"github.com/katalvlaran/citytwin/dijkstra"
	"github.com/katalvlaran/citytwin/metrics"
)

// RouteOutcome is what happened to one demand route during a tick.
// Path is empty when the route could not be served.
type RouteOutcome struct {
	Route      DemandRoute `json:"route"`
	Path       []string    `json:"path"`
	TravelTime float64     `json:"travelTime"`
}

// Reached reports whether the route found a path.
func (o RouteOutcome) Reached() bool { return len(o.Path) > 0 }

// Result is the full output of one tick.
type Result struct {
	Graph   *core.Graph
	Metrics metrics.Snapshot
	Routes  []RouteOutcome
}

// Unreached counts the routes of r that found no path.
func (r Result) Unreached() int {
	n := 0
	for _, o := range r.Routes {
		if !o.Reached() {
			n++
		}
	}
	return n
}

// Simulator runs simulation ticks over graph snapshots.
type Simulator struct {
	opts Options
}

// New builds a Simulator from DefaultOptions overridden by opts.
//
// Errors: ErrBadVolume for a negative or non-finite route volume.
func New(opts ...Option) (*Simulator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	for _, r := range o.Routes {
		if !(r.Volume >= 0) || math.IsInf(r.Volume, 1) {
			return nil, fmt.Errorf("%w: %s→%s volume=%v", ErrBadVolume, r.Origin, r.Destination, r.Volume)
		}
	}

	return &Simulator{opts: o}, nil
}

// Routes returns a copy of the configured demand routes.
func (s *Simulator) Routes() []DemandRoute {
	return append([]DemandRoute(nil), s.opts.Routes...)
}

// Step runs one tick on g and returns the new snapshot and its metrics.
// The metrics carry an empty ActivePolicies list.
func (s *Simulator) Step(g *core.Graph) (*core.Graph, metrics.Snapshot, error) {
	res, err := s.Run(g)
	if err != nil {
		return nil, metrics.Snapshot{}, err
	}
	return res.Graph, res.Metrics, nil
}

// Run is Step with per-route detail.
//
// Complexity: O(E + R·(V + E) log V) for R demand routes.
func (s *Simulator) Run(g *core.Graph) (Result, error) {
	if g == nil {
		return Result{}, ErrNilGraph
	}
	for _, r := range s.opts.Routes {
		if !g.HasNode(r.Origin) || !g.HasNode(r.Destination) {
			return Result{}, fmt.Errorf("%w: %s→%s", ErrUnknownEndpoint, r.Origin, r.Destination)
		}
	}

	next := g.Clone()

	// 1) Ambient traffic.
	next.UpdateEdges(func(e *core.Edge) {
		e.CurrentFlow = math.Floor(s.opts.Rand.Float64() * s.opts.BaselineMax)
		if !e.Closed {
			e.CurrentWeight = e.BaseWeight + Penalty(e.Utilization())
		}
	})

	// 2) Demand assignment with incremental congestion feedback.
	var (
		total    float64
		trips    int
		outcomes = make([]RouteOutcome, 0, len(s.opts.Routes))
	)
	for _, r := range s.opts.Routes {
		path, err := dijkstra.ShortestPath(next, r.Origin, r.Destination)
		if err != nil {
			return Result{}, fmt.Errorf("flow: route %s→%s: %w", r.Origin, r.Destination, err)
		}
		out := RouteOutcome{Route: r, Path: path}
		if !out.Reached() {
			outcomes = append(outcomes, out)
			continue
		}

		for _, eid := range path {
			err = next.UpdateEdge(eid, func(e *core.Edge) {
				if e.Closed {
					return
				}
				e.CurrentFlow += r.Volume
				e.CurrentWeight = e.BaseWeight + Penalty(e.Utilization())
				out.TravelTime += e.CurrentWeight
			})
			if err != nil {
				return Result{}, fmt.Errorf("flow: route %s→%s: %w", r.Origin, r.Destination, err)
			}
		}

		// 3) Totals over successful routes.
		total += out.TravelTime
		trips++
		outcomes = append(outcomes, out)
	}

	// 4) Metrics from the post-update snapshot.
	return Result{
		Graph:   next,
		Metrics: metrics.Aggregate(next, total, trips),
		Routes:  outcomes,
	}, nil
}
