// SPDX-License-Identifier: MIT
// Package: citytwin/builder
//
// errors.go — sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w.
//   • Constructors never panic; option constructors may (programmer error).

package builder

import "errors"

// ErrTooSmall indicates a grid dimension below the allowed minimum.
var ErrTooSmall = errors.New("builder: parameter too small")

// ErrUnknownNode indicates a constructor referenced a node ID absent from the draft.
var ErrUnknownNode = errors.New("builder: unknown node")

// ErrConstructFailed indicates the draft could not be turned into a valid graph.
var ErrConstructFailed = errors.New("builder: construction failed")
