// Package policy turns structured interventions into new road-network
// snapshots.
//
// An Action is a sealed sum type over four kinds:
//
//	CloseRoad       close_road       edge closed, weight +Inf
//	ModifySpeed     modify_speed     speed limit set, base weight = 1000/speed
//	AdjustCapacity  adjust_capacity  capacity scaled, clamped at 0
//	OptimizeSignal  optimize_signal  no edge effect, recorded for display
//
// Only this package can implement Action, so Decode and every switch over
// Kind are exhaustive by construction.
//
// Targeting (Target.Matches):
//
//	Tag == "all"        every edge
//	Tag == <other>      edges whose Tags contain it (zones, road class)
//	ID  != ""           additionally the edge with exactly that ID
//
// Apply never mutates its input: it clones the graph, applies the actions
// in order (last write wins per field) and returns the clone. An empty
// batch yields a graph Equal to the input.
//
// Record is the wire/display form produced by the policy interpreter and
// kept by callers in their active-policy list; Decode converts it to an
// Action, ApplyRecords does both steps and reports unknown kinds as no-ops.
package policy
