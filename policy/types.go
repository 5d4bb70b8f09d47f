// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Action sum type, targeting, sentinel errors and documented defaults.

package policy

import (
	"errors"
	"math"

	"github.com/katalvlaran/citytwin/core"
)

// Sentinel errors returned by the policy package.
var (
	// ErrNilGraph indicates Apply was called with a nil graph.
	ErrNilGraph = errors.New("policy: graph is nil")

	// ErrNilAction indicates a nil Action inside a batch.
	ErrNilAction = errors.New("policy: action is nil")

	// ErrUnknownAction indicates a Record whose type is not one of the four kinds.
	ErrUnknownAction = errors.New("policy: unknown action type")
)

// Kind tags an Action.
type Kind string

const (
	KindCloseRoad      Kind = "close_road"
	KindModifySpeed    Kind = "modify_speed"
	KindAdjustCapacity Kind = "adjust_capacity"
	KindOptimizeSignal Kind = "optimize_signal"
)

// Defaults applied to malformed values.
const (
	// DefaultSpeed replaces an absent, non-positive or non-finite speed.
	DefaultSpeed = 30.0
	// DefaultMultiplier replaces an absent or non-finite capacity multiplier.
	DefaultMultiplier = 1.0
	// TagAll selects every edge.
	TagAll = "all"
)

// Target selects edges. The zero Target selects nothing.
type Target struct {
	// ID selects the edge with exactly this ID.
	ID string
	// Tag selects every edge when TagAll, otherwise edges carrying the tag.
	Tag string
}

// Matches reports whether e is selected by t.
func (t Target) Matches(e *core.Edge) bool {
	if t.ID != "" && e.ID == t.ID {
		return true
	}
	switch t.Tag {
	case "":
		return false
	case TagAll:
		return true
	default:
		return e.HasTag(t.Tag)
	}
}

// Action is a structured policy intervention. The interface is sealed.
type Action interface {
	// Kind returns the action tag.
	Kind() Kind
	// Selector returns the edges targeted by the action.
	Selector() Target
	// Record returns the wire/display form.
	Record() Record

	apply(e *core.Edge)
}

// CloseRoad closes every matched edge.
type CloseRoad struct {
	Target
	Description string
}

// ModifySpeed sets the speed limit of every matched edge and recomputes its
// base weight. Speed <= 0 (or non-finite) means DefaultSpeed.
type ModifySpeed struct {
	Target
	Speed       float64
	Description string
}

// AdjustCapacity multiplies the capacity of every matched edge.
// Multiplier is taken as given (0 empties the road); non-finite values
// fall back to DefaultMultiplier and results below zero clamp to 0.
// Use Decode to get the "absent ⇒ 1" default of the wire form.
type AdjustCapacity struct {
	Target
	Multiplier  float64
	Description string
}

// OptimizeSignal records a signal-timing intervention. It has no edge effect.
type OptimizeSignal struct {
	Target
	Description string
}

var (
	_ Action = CloseRoad{}
	_ Action = ModifySpeed{}
	_ Action = AdjustCapacity{}
	_ Action = OptimizeSignal{}
)

func (a CloseRoad) Kind() Kind      { return KindCloseRoad }
func (a ModifySpeed) Kind() Kind    { return KindModifySpeed }
func (a AdjustCapacity) Kind() Kind { return KindAdjustCapacity }
func (a OptimizeSignal) Kind() Kind { return KindOptimizeSignal }

func (a CloseRoad) Selector() Target      { return a.Target }
func (a ModifySpeed) Selector() Target    { return a.Target }
func (a AdjustCapacity) Selector() Target { return a.Target }
func (a OptimizeSignal) Selector() Target { return a.Target }

func (a CloseRoad) apply(e *core.Edge) {
	e.Closed = true
	e.CurrentWeight = math.Inf(1)
}

// apply resets an open edge's current weight to the new base weight; the
// next simulation tick re-derives its congestion penalty.
func (a ModifySpeed) apply(e *core.Edge) {
	speed := a.Speed
	if !(speed > 0) || math.IsInf(speed, 1) {
		speed = DefaultSpeed
	}
	e.SpeedLimit = speed
	e.BaseWeight = core.WeightForSpeed(speed)
	if !e.Closed {
		e.CurrentWeight = e.BaseWeight
	}
}

func (a AdjustCapacity) apply(e *core.Edge) {
	m := a.Multiplier
	if math.IsNaN(m) || math.IsInf(m, 0) {
		m = DefaultMultiplier
	}
	c := e.Capacity * m
	if math.IsNaN(c) || c < 0 {
		c = 0
	}
	e.Capacity = c
}

func (a OptimizeSignal) apply(*core.Edge) {}
