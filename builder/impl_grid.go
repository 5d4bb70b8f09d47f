// SPDX-License-Identifier: MIT
// Package: citytwin/builder
//
// impl_grid.go — Grid(size) constructor.
//
// Canonical model:
//   • size×size Manhattan grid; node IDs "n_x_y" (see NodeID).
//   • Every orthogonal neighbor pair is linked in both directions with the
//     configured street class.
//   • Layout coordinates: (x·blockSize + 50, y·blockSize + 50).
//
// Determinism:
//   • Nodes row-major (y asc, x asc).
//   • Edges: all horizontal pairs (y asc, x asc, forward then reverse), then
//     all vertical pairs (x asc, y asc, forward then reverse).
//
// Complexity: O(size²) time and space.

package builder

import (
	"fmt"

	"github.com/katalvlaran/citytwin/core"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
	nodeIDFmt  = "n_%d_%d"
)

// NodeID returns the ID of the grid intersection at column x, row y.
func NodeID(x, y int) string {
	return fmt.Sprintf(nodeIDFmt, x, y)
}

// Grid returns a Constructor that lays out a size×size street grid.
func Grid(size int) Constructor {
	return func(d *draft, cfg builderConfig) error {
		if size < minGridDim {
			return fmt.Errorf("%s: size=%d (must be ≥ %d): %w", methodGrid, size, minGridDim, ErrTooSmall)
		}

		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d.addNode(core.Node{
					ID:    NodeID(x, y),
					Kind:  core.Intersection,
					Label: fmt.Sprintf("Intersection %d-%d", x, y),
					X:     float64(x)*cfg.blockSize + layoutOffset,
					Y:     float64(y)*cfg.blockSize + layoutOffset,
				})
			}
		}

		// Horizontal streets.
		for y := 0; y < size; y++ {
			for x := 0; x+1 < size; x++ {
				if err := twoWay(d, NodeID(x, y), NodeID(x+1, y), cfg.street); err != nil {
					return fmt.Errorf("%s: %w", methodGrid, err)
				}
			}
		}
		// Vertical streets.
		for x := 0; x < size; x++ {
			for y := 0; y+1 < size; y++ {
				if err := twoWay(d, NodeID(x, y), NodeID(x, y+1), cfg.street); err != nil {
					return fmt.Errorf("%s: %w", methodGrid, err)
				}
			}
		}

		return nil
	}
}

func twoWay(d *draft, u, v string, spec RoadSpec) error {
	if err := d.addRoad(u, v, spec); err != nil {
		return err
	}
	return d.addRoad(v, u, spec)
}
