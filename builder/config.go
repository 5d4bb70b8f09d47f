// SPDX-License-Identifier: MIT
// Package: citytwin/builder
//
// config.go — internal configuration and deterministic defaults.
//
// Defaults (reference city):
//   • blockSize      = 100   layout units between intersections
//   • road           = capacity 800, speed 40, base weight 10
//   • highway        = capacity 2000, speed 80, base weight 1000/80
//   • initialFlowMax = 400   (used only when rng != nil)
//   • rng            = nil   (no randomness unless seeded)

package builder

import (
	"math/rand"

	"github.com/katalvlaran/citytwin/core"
)

// RoadSpec describes the static attributes of a road class.
type RoadSpec struct {
	Capacity   float64
	SpeedLimit float64
	BaseWeight float64
	Tag        string
}

// Reference road classes.
var (
	// StreetRoad is an ordinary grid street. Its base weight is a fixed
	// distance cost rather than derived from speed.
	StreetRoad = RoadSpec{Capacity: 800, SpeedLimit: 40, BaseWeight: 10}

	// HighwayRoad is the diagonal shortcut class.
	HighwayRoad = RoadSpec{Capacity: 2000, SpeedLimit: 80, BaseWeight: core.WeightForSpeed(80), Tag: "highway"}
)

const (
	defaultBlockSize      = 100.0
	defaultInitialFlowMax = 400
	layoutOffset          = 50.0
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by value to constructors.
type builderConfig struct {
	rng            *rand.Rand
	blockSize      float64
	initialFlowMax int
	street         RoadSpec
	highway        RoadSpec
}

// newBuilderConfig applies opts over the defaults, last-wins.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		blockSize:      defaultBlockSize,
		initialFlowMax: defaultInitialFlowMax,
		street:         StreetRoad,
		highway:        HighwayRoad,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
