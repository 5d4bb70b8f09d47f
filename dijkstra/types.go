// Package dijkstra defines the configuration options and sentinel errors
// of the router.
package dijkstra

import (
	"errors"
	"math"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrEmptySource indicates that the provided source vertex ID is empty.
	ErrEmptySource = errors.New("dijkstra: source vertex ID is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that the source or target vertex does not
	// exist in the provided graph.
	ErrVertexNotFound = errors.New("dijkstra: vertex not found in graph")

	// ErrNegativeWeight indicates that a negative edge weight was detected.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")
)

// Options configures the behavior of the Dijkstra algorithm.
//
// Source      – starting vertex ID (required).
// Target      – optional; the search stops once Target is finalized.
// ReturnPath  – if true, the predecessor-edge map is returned.
// MaxDistance – vertices farther than this are not explored. Default +Inf.
type Options struct {
	Source      string
	Target      string
	ReturnPath  bool
	MaxDistance float64
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting vertex ID.
func Source(id string) Option {
	return func(o *Options) { o.Source = id }
}

// WithTarget stops the search as soon as id is popped with its final distance.
// Distances of vertices not yet finalized at that point stay provisional.
func WithTarget(id string) Option {
	return func(o *Options) { o.Target = id }
}

// WithReturnPath enables the predecessor-edge map in the result.
func WithReturnPath() Option {
	return func(o *Options) { o.ReturnPath = true }
}

// WithMaxDistance caps exploration. Panics on negative or NaN values.
func WithMaxDistance(max float64) Option {
	if !(max >= 0) {
		panic(ErrBadMaxDistance.Error())
	}
	return func(o *Options) { o.MaxDistance = max }
}

// DefaultOptions returns Options for source with no target, no path and
// no distance cap.
func DefaultOptions(source string) Options {
	return Options{
		Source:      source,
		MaxDistance: math.Inf(1),
	}
}
