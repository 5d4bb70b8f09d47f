// SPDX-License-Identifier: MIT
// Package: citytwin/builder
//
// api.go — public entry-points for the builder package.
//
// Design contract:
//   - One orchestrator: BuildCity(bopts, cons...). Resolves cfg, runs cons in
//     order on a draft, seeds initial flow, then validates via core.NewGraph.
//   - Constructors are implemented in impl_*.go.
//   - Same inputs/options/seed and constructor order ⇒ identical graphs.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/citytwin/core"
)

// Reference topology constants.
const (
	// ReferenceGridSize is the side of the reference Manhattan grid.
	ReferenceGridSize = 5
	// DowntownZone is the zone name of the three central nodes.
	DowntownZone = "downtown"
)

// Constructor applies a deterministic mutation to the draft network.
// Constructors validate their parameters and return sentinel errors.
type Constructor func(d *draft, cfg builderConfig) error

// draft accumulates nodes and edges before validation.
type draft struct {
	nodes  []core.Node
	edges  []core.Edge
	nodeAt map[string]int
	edgeAt map[string]int
}

func newDraft() *draft {
	return &draft{nodeAt: make(map[string]int), edgeAt: make(map[string]int)}
}

func (d *draft) addNode(n core.Node) {
	if i, ok := d.nodeAt[n.ID]; ok {
		d.nodes[i] = n
		return
	}
	d.nodeAt[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, n)
}

func (d *draft) node(id string) (*core.Node, error) {
	i, ok := d.nodeAt[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return &d.nodes[i], nil
}

// addRoad appends source→target with the given road class. Re-adding an
// existing edge ID replaces its attributes.
func (d *draft) addRoad(source, target string, spec RoadSpec) error {
	if _, err := d.node(source); err != nil {
		return err
	}
	if _, err := d.node(target); err != nil {
		return err
	}
	e := core.Edge{
		ID:            core.EdgeID(source, target),
		Source:        source,
		Target:        target,
		Capacity:      spec.Capacity,
		BaseWeight:    spec.BaseWeight,
		CurrentWeight: spec.BaseWeight,
		SpeedLimit:    spec.SpeedLimit,
	}
	if spec.Tag != "" {
		e.Tags = []string{spec.Tag}
	}
	if i, ok := d.edgeAt[e.ID]; ok {
		d.edges[i] = e
		return nil
	}
	d.edgeAt[e.ID] = len(d.edges)
	d.edges = append(d.edges, e)

	return nil
}

// BuildCity resolves bopts, applies every constructor in order and
// validates the result. When an RNG is configured, each edge receives an
// initial flow floor(U[0,1) × initialFlowMax) in edge order.
//
// Errors: constructor sentinels wrapped with "BuildCity: %w"; validation
// failures wrap both ErrConstructFailed and the core sentinel.
func BuildCity(bopts []BuilderOption, cons ...Constructor) (*core.Graph, error) {
	cfg := newBuilderConfig(bopts...)
	d := newDraft()

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildCity: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(d, cfg); err != nil {
			return nil, fmt.Errorf("BuildCity: %w", err)
		}
	}

	if cfg.rng != nil && cfg.initialFlowMax > 0 {
		for i := range d.edges {
			d.edges[i].CurrentFlow = math.Floor(cfg.rng.Float64() * float64(cfg.initialFlowMax))
		}
	}

	g, err := core.NewGraph(d.nodes, d.edges)
	if err != nil {
		return nil, fmt.Errorf("BuildCity: %w: %w", ErrConstructFailed, err)
	}

	return g, nil
}

// ReferenceCity builds the reference topology: a 5×5 grid, the hospital
// (n_0_0), city center (n_2_2) and industrial zone (n_4_4) POIs, the
// downtown zone {n_2_2, n_1_2, n_2_1} and the highway n_0_0→n_1_1→n_2_2.
func ReferenceCity(opts ...BuilderOption) (*core.Graph, error) {
	return BuildCity(opts,
		Grid(ReferenceGridSize),
		Landmark(NodeID(2, 2), "City Center (POI)"),
		Landmark(NodeID(0, 0), "Hospital (Emergency)"),
		Landmark(NodeID(4, 4), "Industrial Zone"),
		Zone(DowntownZone, NodeID(2, 2), NodeID(1, 2), NodeID(2, 1)),
		Highway(NodeID(0, 0), NodeID(1, 1), NodeID(2, 2)),
	)
}
