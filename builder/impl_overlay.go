// SPDX-License-Identifier: MIT
// Package: citytwin/builder
//
// impl_overlay.go — constructors that decorate an existing draft:
// Landmark, SensorAt, Zone and Highway. Each one fails with ErrUnknownNode
// when applied before the nodes it references exist.

package builder

import (
	"fmt"

	"github.com/katalvlaran/citytwin/core"
)

const (
	methodLandmark = "Landmark"
	methodSensor   = "SensorAt"
	methodZone     = "Zone"
	methodHighway  = "Highway"
	minHighwayLen  = 2
)

// Landmark marks node id as a point of interest with the given label.
func Landmark(id, label string) Constructor {
	return func(d *draft, _ builderConfig) error {
		n, err := d.node(id)
		if err != nil {
			return fmt.Errorf("%s: %w", methodLandmark, err)
		}
		n.Kind = core.POI
		n.Label = label
		return nil
	}
}

// SensorAt marks node id as a traffic counting station.
func SensorAt(id string) Constructor {
	return func(d *draft, _ builderConfig) error {
		n, err := d.node(id)
		if err != nil {
			return fmt.Errorf("%s: %w", methodSensor, err)
		}
		n.Kind = core.Sensor
		return nil
	}
}

// Zone assigns every listed node to zone name. Edges touching those nodes
// receive the zone as a tag when the graph is validated.
func Zone(name string, ids ...string) Constructor {
	return func(d *draft, _ builderConfig) error {
		if name == "" {
			return fmt.Errorf("%s: empty zone name: %w", methodZone, ErrTooSmall)
		}
		for _, id := range ids {
			n, err := d.node(id)
			if err != nil {
				return fmt.Errorf("%s(%s): %w", methodZone, name, err)
			}
			n.Zone = name
		}
		return nil
	}
}

// Highway links consecutive nodes of path with one-way highway segments
// (path[0]→path[1]→…), using the configured highway class.
func Highway(path ...string) Constructor {
	return func(d *draft, cfg builderConfig) error {
		if len(path) < minHighwayLen {
			return fmt.Errorf("%s: %d nodes (must be ≥ %d): %w", methodHighway, len(path), minHighwayLen, ErrTooSmall)
		}
		for i := 0; i+1 < len(path); i++ {
			if err := d.addRoad(path[i], path[i+1], cfg.highway); err != nil {
				return fmt.Errorf("%s: %w", methodHighway, err)
			}
		}
		return nil
	}
}
