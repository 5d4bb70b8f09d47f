// Package twin runs a living city: one Session holds the current road
// network snapshot, the active policies and a bounded metrics history, and
// advances the simulation on demand (Tick) or on a timer (Run).
//
// The session is the only writer of its snapshot. Engine packages stay
// pure; the session publishes each new snapshot atomically so readers such
// as HTTP handlers never observe a half-applied tick or policy.
package twin
