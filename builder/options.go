// SPDX-License-Identifier: MIT
// Package: citytwin/builder
//
// options.go — functional options for the builder package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Seeding is explicit: WithSeed or WithRand.

package builder

import "math/rand"

// BuilderOption customizes the builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for the initial edge flow.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a seeded *rand.Rand for the initial edge flow.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithBlockSize sets the layout distance between neighboring intersections.
// Panics if size <= 0.
func WithBlockSize(size float64) BuilderOption {
	if size <= 0 {
		panic("builder: WithBlockSize(size<=0)")
	}
	return func(c *builderConfig) { c.blockSize = size }
}

// WithInitialFlowMax sets the exclusive upper bound of the random initial
// flow. 0 disables initial flow even with an RNG. Panics if max < 0.
func WithInitialFlowMax(max int) BuilderOption {
	if max < 0 {
		panic("builder: WithInitialFlowMax(max<0)")
	}
	return func(c *builderConfig) { c.initialFlowMax = max }
}

// WithStreet overrides the road class used by Grid.
// Panics on non-positive capacity, speed or weight.
func WithStreet(spec RoadSpec) BuilderOption {
	mustValidRoad("WithStreet", spec)
	return func(c *builderConfig) { c.street = spec }
}

// WithHighway overrides the road class used by Highway.
// Panics on non-positive capacity, speed or weight.
func WithHighway(spec RoadSpec) BuilderOption {
	mustValidRoad("WithHighway", spec)
	return func(c *builderConfig) { c.highway = spec }
}

func mustValidRoad(method string, spec RoadSpec) {
	if spec.Capacity <= 0 || spec.SpeedLimit <= 0 || spec.BaseWeight <= 0 {
		panic("builder: " + method + "(non-positive road attribute)")
	}
}
