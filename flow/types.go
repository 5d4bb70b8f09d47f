package flow

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

var (
	// ErrNilGraph is returned when Step is called with a nil graph.
	ErrNilGraph = errors.New("flow: graph is nil")

	// ErrUnknownEndpoint is returned when a demand route names a missing node.
	ErrUnknownEndpoint = errors.New("flow: demand route endpoint not found")

	// ErrBadVolume is returned by New for a negative or non-finite route volume.
	ErrBadVolume = errors.New("flow: demand volume must be a non-negative finite number")
)

const (
	// DefaultBaselineMax is the exclusive upper bound of ambient per-edge flow.
	DefaultBaselineMax = 100.0
	// CongestionThreshold is the utilization above which a penalty applies.
	CongestionThreshold = 0.8
	// PenaltyFactor scales the squared utilization into added weight.
	PenaltyFactor = 10.0
)

// DemandRoute is aggregate trip demand between two nodes.
type DemandRoute struct {
	Origin      string  `json:"origin" yaml:"origin"`
	Destination string  `json:"destination" yaml:"destination"`
	Volume      float64 `json:"volume" yaml:"volume"`
}

// DefaultRoutes returns the reference demand: hospital to industrial zone,
// a cross-city diagonal and the vertical trunk through downtown.
func DefaultRoutes() []DemandRoute {
	return []DemandRoute{
		{Origin: "n_0_0", Destination: "n_4_4", Volume: 500},
		{Origin: "n_4_0", Destination: "n_0_4", Volume: 300},
		{Origin: "n_2_0", Destination: "n_2_4", Volume: 400},
	}
}

// Penalty returns the additive congestion weight for utilization u.
func Penalty(u float64) float64 {
	if !(u > CongestionThreshold) {
		return 0
	}
	return u * u * PenaltyFactor
}

// Options configures a Simulator.
//   - Routes:      demand processed each tick, in order (default DefaultRoutes).
//   - BaselineMax: ambient flow bound (default DefaultBaselineMax; 0 disables).
//   - Rand:        random source (default time-seeded).
type Options struct {
	Routes      []DemandRoute
	BaselineMax float64
	Rand        *rand.Rand
}

// Option represents a functional option for configuring a Simulator.
type Option func(*Options)

// WithRoutes replaces the demand routes. The slice is copied.
func WithRoutes(routes []DemandRoute) Option {
	return func(o *Options) { o.Routes = append([]DemandRoute(nil), routes...) }
}

// WithBaselineMax sets the ambient flow bound. Panics if max is negative or NaN.
func WithBaselineMax(max float64) Option {
	if !(max >= 0) || math.IsInf(max, 1) {
		panic("flow: WithBaselineMax(max<0)")
	}
	return func(o *Options) { o.BaselineMax = max }
}

// WithRand sets the random source. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("flow: WithRand(nil)")
	}
	return func(o *Options) { o.Rand = r }
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Rand = rand.New(rand.NewSource(seed)) }
}

// DefaultOptions returns the reference configuration with a time-seeded source.
func DefaultOptions() Options {
	return Options{
		Routes:      DefaultRoutes(),
		BaselineMax: DefaultBaselineMax,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
