// SPDX-License-Identifier: MIT
//
// File: session.go
// Role: single-writer simulation session around immutable graph snapshots.

package twin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/citytwin/core"
	"github.com/katalvlaran/citytwin/flow"
	"github.com/katalvlaran/citytwin/interpret"
	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
)

var (
	// ErrNilGraph is returned by New without an initial graph.
	ErrNilGraph = errors.New("twin: initial graph is nil")

	// ErrNilSimulator is returned by New without a simulator.
	ErrNilSimulator = errors.New("twin: simulator is nil")

	// ErrAlreadyRunning is returned by Run while another loop is active.
	ErrAlreadyRunning = errors.New("twin: tick loop already running")

	// ErrBadInterval is returned by Run for a non-positive interval.
	ErrBadInterval = errors.New("twin: tick interval must be positive")
)

// State is the session lifecycle.
type State string

const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
)

// Batch describes one accepted policy submission.
type Batch struct {
	ID      string          `json:"id"`
	Applied []policy.Record `json:"applied"`
	Skipped []policy.Record `json:"skipped"`
}

// Session owns the current snapshot of one city. Tick, ApplyPolicy and
// Reset are serialized; Graph, Latest, ActivePolicies and History never
// wait for them and always see a complete snapshot.
type Session struct {
	id      string
	initial *core.Graph
	sim     *flow.Simulator
	advisor interpret.InterpreterAdvisor
	rec     *metrics.Recorder
	logger  *log.Logger
	timeout time.Duration
	history *History

	mu       sync.Mutex // writers
	graph    atomic.Pointer[core.Graph]
	latest   atomic.Pointer[metrics.Snapshot]
	policies atomic.Pointer[[]policy.Record]
	tick     atomic.Uint64
	running  atomic.Bool
}

// New starts a session on g. The simulator must not be shared with
// another session.
func New(g *core.Graph, sim *flow.Simulator, opts ...Option) (*Session, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if sim == nil {
		return nil, ErrNilSimulator
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:      uuid.NewString(),
		initial: g,
		sim:     sim,
		advisor: o.advisor,
		rec:     o.recorder,
		logger:  o.logger,
		timeout: o.timeout,
		history: NewHistory(o.historyLimit),
	}
	s.resetLocked()

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Graph returns the current snapshot.
func (s *Session) Graph() *core.Graph { return s.graph.Load() }

// Latest returns the most recent metrics, with the active policies.
func (s *Session) Latest() metrics.Snapshot { return *s.latest.Load() }

// ActivePolicies returns a copy of the applied policy records, oldest first.
func (s *Session) ActivePolicies() []policy.Record {
	return append([]policy.Record{}, *s.policies.Load()...)
}

// History returns the retained metric points in tick order.
func (s *Session) History() []Point { return s.history.Points() }

// Ticks returns the number of ticks since the last reset.
func (s *Session) Ticks() uint64 { return s.tick.Load() }

// State reports whether a tick loop is active.
func (s *Session) State() State {
	if s.running.Load() {
		return StateRunning
	}
	return StateIdle
}

// Tick advances the simulation by one step and publishes the result.
func (s *Session) Tick() (metrics.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.sim.Run(s.graph.Load())
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("twin: tick: %w", err)
	}

	snap := res.Metrics.WithPolicies(*s.policies.Load())
	n := s.tick.Add(1)
	s.graph.Store(res.Graph)
	s.latest.Store(&snap)
	s.history.Add(Point{Tick: n, Time: time.Now(), Metrics: snap})

	if s.rec != nil {
		s.rec.Observe(snap)
		if u := res.Unreached(); u > 0 {
			s.rec.Unrouted(u)
		}
	}

	return snap, nil
}

// ApplyPolicy applies records to the current snapshot and appends them to
// the active list. Records of unknown type are listed as active but change
// no edge; they are reported in Batch.Skipped.
func (s *Session) ApplyPolicy(records ...policy.Record) (Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, skipped, err := policy.ApplyRecords(s.graph.Load(), records...)
	if err != nil {
		return Batch{}, fmt.Errorf("twin: apply policy: %w", err)
	}

	active := append(append([]policy.Record{}, *s.policies.Load()...), records...)
	snap := s.latest.Load().WithPolicies(active)

	s.graph.Store(next)
	s.policies.Store(&active)
	s.latest.Store(&snap)

	if s.rec != nil {
		s.rec.PolicyApplied(records...)
	}

	b := Batch{
		ID:      uuid.NewString(),
		Applied: append([]policy.Record{}, records...),
		Skipped: append([]policy.Record{}, skipped...),
	}
	s.logger.Printf("twin: session %s: batch %s applied %d record(s), %d skipped", s.id, b.ID, len(records), len(skipped))

	return b, nil
}

// Submit interprets text and applies the resulting records. The
// interpretation is returned even when it carries no actions.
func (s *Session) Submit(ctx context.Context, text string) (interpret.Interpretation, Batch, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	in, err := s.advisor.Interpret(ctx, text)
	if err != nil {
		return interpret.Interpretation{}, Batch{}, fmt.Errorf("twin: interpret: %w", err)
	}
	if in.Degraded {
		s.logger.Printf("twin: session %s: degraded interpretation: %v", s.id, in.Cause)
	}

	b, err := s.ApplyPolicy(in.Actions...)
	if err != nil {
		return in, Batch{}, err
	}
	return in, b, nil
}

// Recommend asks the advisor about the latest metrics.
func (s *Session) Recommend(ctx context.Context) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.advisor.Recommend(ctx, s.Latest())
	if err != nil {
		return "", fmt.Errorf("twin: recommend: %w", err)
	}
	return text, nil
}

// Reset restores the initial graph and clears policies and history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.logger.Printf("twin: session %s reset", s.id)
}

func (s *Session) resetLocked() {
	empty := []policy.Record{}
	snap := metrics.Aggregate(s.initial, 0, 0)

	s.graph.Store(s.initial)
	s.policies.Store(&empty)
	s.latest.Store(&snap)
	s.tick.Store(0)
	s.history.Clear()
}

// Run ticks every interval until ctx is done. Only one loop may run at a
// time. It returns nil on cancellation and the tick error otherwise.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrBadInterval
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	s.logger.Printf("twin: session %s running every %s", s.id, interval)
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("twin: session %s stopped after %d tick(s)", s.id, s.Ticks())
			return nil
		case <-t.C:
			if _, err := s.Tick(); err != nil {
				s.logger.Printf("twin: session %s: %v", s.id, err)
				return err
			}
		}
	}
}

func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
