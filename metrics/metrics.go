// Package metrics reduces a road-network snapshot into the scalar KPIs
// reported every simulation tick, and exports them to Prometheus.
//
//	congestion index   mean(flow/capacity) × 100, clamped to [0, 100]
//	avg travel time    Σ traversed weights / successful routes (0 if none)
//	emergency response avg travel time × 0.8
//	emissions          floor(Σ flow × 0.05)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/citytwin/core"
	"github.com/katalvlaran/citytwin/policy"
)

const (
	// EmissionFactor converts vehicle flow into emission mass units.
	EmissionFactor = 0.05
	// EmergencyFactor models priority routing of emergency vehicles.
	EmergencyFactor = 0.8
	// MaxCongestion is the upper clamp of the congestion index.
	MaxCongestion = 100.0
)

// Snapshot is the KPI set of one tick. It is created fresh and never
// mutated after being returned. ActivePolicies is left empty by the
// engine; callers merge their authoritative list with WithPolicies.
type Snapshot struct {
	CongestionIndex       float64         `json:"congestionIndex" yaml:"congestion_index"`
	AvgTravelTime         float64         `json:"avgTravelTime" yaml:"avg_travel_time"`
	EmergencyResponseTime float64         `json:"emergencyResponseTime" yaml:"emergency_response_time"`
	Emissions             int64           `json:"emissions" yaml:"emissions"`
	ActivePolicies        []policy.Record `json:"activePolicies" yaml:"active_policies"`
}

// Aggregate computes the Snapshot of g, given the travel time accumulated
// by the successful routes of the tick and their count.
//
// No field is ever NaN: an empty graph has congestion 0, zero trips give
// an average travel time of 0.
//
// Complexity: O(E).
func Aggregate(g *core.Graph, totalTravelTime float64, trips int) Snapshot {
	edges := g.Edges()
	util := make([]float64, len(edges))
	flow := make([]float64, len(edges))
	for i := range edges {
		util[i] = edges[i].Utilization()
		flow[i] = edges[i].CurrentFlow
	}

	var congestion float64
	if len(util) > 0 {
		congestion = clamp(stat.Mean(util, nil)*100, 0, MaxCongestion)
	}

	var avg float64
	if trips > 0 {
		avg = totalTravelTime / float64(trips)
	}

	return Snapshot{
		CongestionIndex:       congestion,
		AvgTravelTime:         avg,
		EmergencyResponseTime: avg * EmergencyFactor,
		Emissions:             int64(math.Floor(floats.Sum(flow) * EmissionFactor)),
		ActivePolicies:        []policy.Record{},
	}
}

// WithPolicies returns a copy of s carrying records as its active policies.
func (s Snapshot) WithPolicies(records []policy.Record) Snapshot {
	s.ActivePolicies = append(make([]policy.Record, 0, len(records)), records...)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
