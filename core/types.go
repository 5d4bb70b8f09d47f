// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Node, Edge and Graph declarations, sentinel errors, edge-level invariants.

package core

import (
	"errors"
	"math"
	"sort"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyNodeID indicates that a Node was supplied with an empty ID.
	ErrEmptyNodeID = errors.New("core: node ID is empty")

	// ErrDuplicateNode indicates that two nodes share the same ID.
	ErrDuplicateNode = errors.New("core: duplicate node ID")

	// ErrDuplicateEdge indicates that two edges share the same ID.
	ErrDuplicateEdge = errors.New("core: duplicate edge ID")

	// ErrDanglingEdge indicates an edge whose source or target is not a node of the graph.
	ErrDanglingEdge = errors.New("core: edge references unknown node")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadCapacity indicates a negative or NaN capacity.
	ErrBadCapacity = errors.New("core: capacity must be a non-negative number")

	// ErrBadWeight indicates a non-positive or non-finite base weight.
	ErrBadWeight = errors.New("core: base weight must be positive and finite")

	// ErrBadSpeed indicates a non-positive or non-finite speed limit.
	ErrBadSpeed = errors.New("core: speed limit must be positive and finite")
)

// NodeKind classifies a Node.
type NodeKind string

const (
	// Intersection is a plain road junction.
	Intersection NodeKind = "INTERSECTION"
	// POI is a point of interest (hospital, city center, industrial zone).
	POI NodeKind = "POI"
	// Sensor is a traffic counting station.
	Sensor NodeKind = "SENSOR"
)

// Node is an intersection or point of interest.
//
// X and Y are layout coordinates for renderers; routing never reads them.
// Zone is a coarse area selector ("downtown", ...); edges touching a node
// inherit its zone as a tag at graph construction time.
type Node struct {
	ID    string   `json:"id" yaml:"id"`
	Kind  NodeKind `json:"type" yaml:"type"`
	Label string   `json:"label" yaml:"label"`
	X     float64  `json:"x" yaml:"x"`
	Y     float64  `json:"y" yaml:"y"`
	Zone  string   `json:"zone,omitempty" yaml:"zone,omitempty"`
}

// Edge is a directed road segment. Two opposite edges model a two-way street;
// they carry independent flow and weight.
type Edge struct {
	// ID is derived from the endpoints, see EdgeID.
	ID string `json:"id" yaml:"id"`

	// Source and Target are node IDs.
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// Capacity in vehicles per hour.
	Capacity float64 `json:"capacity" yaml:"capacity"`

	// CurrentFlow is reset and re-accumulated every simulation tick.
	CurrentFlow float64 `json:"currentFlow" yaml:"current_flow"`

	// BaseWeight is the static traversal cost; CurrentWeight adds the congestion penalty.
	BaseWeight    float64 `json:"baseWeight" yaml:"base_weight"`
	CurrentWeight float64 `json:"currentWeight" yaml:"current_weight"`

	Closed     bool    `json:"isClosed" yaml:"closed"`
	SpeedLimit float64 `json:"speedLimit" yaml:"speed_limit"`

	// Tags is a sorted set of selectors used by policy targeting
	// (endpoint zones, road class such as "highway").
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// SpeedWeightScale converts a speed limit into a base weight: BaseWeight = SpeedWeightScale / SpeedLimit.
const SpeedWeightScale = 1000.0

// WeightForSpeed returns the base traversal cost of a road with the given
// speed limit. Higher speed ⇒ lower cost.
func WeightForSpeed(speed float64) float64 {
	return SpeedWeightScale / speed
}

// EdgeID returns the canonical identifier of the edge source→target.
func EdgeID(source, target string) string {
	return "e_" + source + "_" + target
}

// HasTag reports whether tag is in e.Tags.
// Complexity: O(log |Tags|).
func (e *Edge) HasTag(tag string) bool {
	i := sort.SearchStrings(e.Tags, tag)
	return i < len(e.Tags) && e.Tags[i] == tag
}

// Utilization returns CurrentFlow / Capacity.
// A zero-capacity edge is 0 when empty and +Inf as soon as it carries flow;
// the result is never NaN.
func (e *Edge) Utilization() float64 {
	if e.Capacity <= 0 {
		if e.CurrentFlow > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return e.CurrentFlow / e.Capacity
}

// Passable reports whether routing may use e: open, with capacity left to
// carry traffic and a finite weight.
func (e *Edge) Passable() bool {
	return !e.Closed && e.Capacity > 0 && !math.IsInf(e.CurrentWeight, 1)
}

// Normalize restores the edge invariants after a mutation:
//
//   - Capacity and CurrentFlow are clamped at 0 (NaN becomes 0).
//   - A closed edge weighs +Inf.
//   - An open edge never weighs less than BaseWeight (NaN becomes BaseWeight).
//
// Complexity: O(1).
func (e *Edge) Normalize() {
	if math.IsNaN(e.Capacity) || e.Capacity < 0 {
		e.Capacity = 0
	}
	if math.IsNaN(e.CurrentFlow) || e.CurrentFlow < 0 {
		e.CurrentFlow = 0
	}
	if e.Closed {
		e.CurrentWeight = math.Inf(1)
		return
	}
	if math.IsNaN(e.CurrentWeight) || e.CurrentWeight < e.BaseWeight {
		e.CurrentWeight = e.BaseWeight
	}
}

// Graph is the road network: ordered nodes and edges plus lookup indexes.
//
// A Graph built by NewGraph always satisfies:
//   - unique node and edge IDs;
//   - every edge endpoint resolves to a node;
//   - every edge satisfies the Normalize invariants.
type Graph struct {
	nodes []Node
	edges []Edge

	nodeIndex map[string]int // node ID → position in nodes
	edgeIndex map[string]int // edge ID → position in edges

	// outgoing[nodeID] lists positions in edges, sorted by Edge.ID.
	outgoing map[string][]int
}
