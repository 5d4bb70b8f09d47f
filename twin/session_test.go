package twin_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/core"
	"github.com/katalvlaran/citytwin/flow"
	"github.com/katalvlaran/citytwin/interpret"
	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
	"github.com/katalvlaran/citytwin/twin"
)

type SessionSuite struct {
	suite.Suite
	g   *core.Graph
	reg *prometheus.Registry
	s   *twin.Session
}

func (s *SessionSuite) SetupTest() {
	g, err := builder.ReferenceCity(builder.WithSeed(5))
	s.Require().NoError(err)
	sim, err := flow.New(flow.WithSeed(5))
	s.Require().NoError(err)

	s.g = g
	s.reg = prometheus.NewRegistry()
	s.s, err = twin.New(g, sim, twin.WithHistoryLimit(3), twin.WithRecorder(metrics.NewRecorder(s.reg)))
	s.Require().NoError(err)
}

func (s *SessionSuite) TestInitialState() {
	s.NotEmpty(s.s.ID())
	s.Same(s.g, s.s.Graph())
	s.Equal(twin.StateIdle, s.s.State())
	s.Empty(s.s.ActivePolicies())
	s.Empty(s.s.History())
	s.Zero(s.s.Ticks())
}

func (s *SessionSuite) TestTickPublishesSnapshot() {
	m, err := s.s.Tick()
	s.Require().NoError(err)
	s.NotSame(s.g, s.s.Graph())
	s.Equal(m, s.s.Latest())
	s.Equal(uint64(1), s.s.Ticks())

	h := s.s.History()
	s.Require().Len(h, 1)
	s.Equal(uint64(1), h[0].Tick)
	s.Equal(m, h[0].Metrics)

	s.NoError(testutil.GatherAndCompare(s.reg, strings.NewReader(`
# HELP citytwin_ticks_total Total number of simulation ticks
# TYPE citytwin_ticks_total counter
citytwin_ticks_total 1
`), "citytwin_ticks_total"))
}

func (s *SessionSuite) TestHistoryIsBounded() {
	for i := 0; i < 5; i++ {
		_, err := s.s.Tick()
		s.Require().NoError(err)
	}
	h := s.s.History()
	s.Require().Len(h, 3)
	s.Equal([]uint64{3, 4, 5}, []uint64{h[0].Tick, h[1].Tick, h[2].Tick})
}

func (s *SessionSuite) TestApplyPolicyTracksActiveList() {
	b, err := s.s.ApplyPolicy(
		policy.Record{Type: policy.KindCloseRoad, TargetTag: builder.DowntownZone, Description: "close center"},
		policy.Record{Type: "ban_cars", TargetTag: policy.TagAll},
	)
	s.Require().NoError(err)
	s.NotEmpty(b.ID)
	s.Len(b.Applied, 2)
	s.Require().Len(b.Skipped, 1)

	active := s.s.ActivePolicies()
	s.Len(active, 2, "unknown records stay listed")
	s.Len(s.s.Latest().ActivePolicies, 2)

	e, err := s.s.Graph().Edge("e_n_2_1_n_2_2")
	s.Require().NoError(err)
	s.True(e.Closed)

	orig, _ := s.g.Edge("e_n_2_1_n_2_2")
	s.False(orig.Closed, "initial graph untouched")

	m, err := s.s.Tick()
	s.Require().NoError(err)
	s.Len(m.ActivePolicies, 2, "ticks carry the active list")
	e, _ = s.s.Graph().Edge("e_n_2_1_n_2_2")
	s.True(e.Closed, "closure survives ticks")

	// Returned slices are copies.
	active[0].Description = "mutated"
	s.Equal("close center", s.s.ActivePolicies()[0].Description)
}

func (s *SessionSuite) TestSubmitUsesInterpreter() {
	in, b, err := s.s.Submit(context.Background(), "close downtown now")
	s.Require().NoError(err)
	s.Equal(interpret.MockReasoning, in.Reasoning)
	s.Require().Len(b.Applied, 1)
	s.Equal(policy.KindCloseRoad, b.Applied[0].Type)
	s.Len(s.s.ActivePolicies(), 1)

	_, _, err = s.s.Submit(context.Background(), "  ")
	s.ErrorIs(err, interpret.ErrEmptyInput)
	s.Len(s.s.ActivePolicies(), 1)
}

func (s *SessionSuite) TestRecommend() {
	text, err := s.s.Recommend(context.Background())
	s.Require().NoError(err)
	s.Equal(interpret.RecommendationFallback, text)
}

func (s *SessionSuite) TestReset() {
	_, err := s.s.ApplyPolicy(policy.Record{Type: policy.KindCloseRoad, TargetTag: policy.TagAll})
	s.Require().NoError(err)
	_, err = s.s.Tick()
	s.Require().NoError(err)

	s.s.Reset()
	s.Same(s.g, s.s.Graph())
	s.Empty(s.s.ActivePolicies())
	s.Empty(s.s.History())
	s.Zero(s.s.Ticks())
}

func (s *SessionSuite) TestRunUntilCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.s.Run(ctx, time.Millisecond) }()

	s.Eventually(func() bool { return s.s.Ticks() >= 3 }, 2*time.Second, time.Millisecond)
	s.Equal(twin.StateRunning, s.s.State())
	s.ErrorIs(s.s.Run(ctx, time.Millisecond), twin.ErrAlreadyRunning)

	cancel()
	s.NoError(<-done)
	s.Equal(twin.StateIdle, s.s.State())

	s.ErrorIs(s.s.Run(context.Background(), 0), twin.ErrBadInterval)
}

func (s *SessionSuite) TestConcurrentReadersSeeWholeSnapshots() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := s.s.Tick(); err != nil {
				return
			}
			if i%10 == 0 {
				_, _ = s.s.ApplyPolicy(policy.Record{Type: policy.KindOptimizeSignal, TargetTag: policy.TagAll})
			}
		}
		cancel()
	}()

	for ctx.Err() == nil {
		g := s.s.Graph()
		s.Equal(82, g.EdgeCount())
		for _, e := range g.Edges() {
			s.GreaterOrEqual(e.CurrentWeight, e.BaseWeight)
		}
		m := s.s.Latest()
		s.GreaterOrEqual(m.CongestionIndex, 0.0)
		s.LessOrEqual(m.CongestionIndex, 100.0)
	}
	wg.Wait()
	s.Len(s.s.ActivePolicies(), 5)
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func TestNew_Errors(t *testing.T) {
	sim, err := flow.New()
	require.NoError(t, err)
	g, err := builder.ReferenceCity()
	require.NoError(t, err)

	_, err = twin.New(nil, sim)
	require.ErrorIs(t, err, twin.ErrNilGraph)
	_, err = twin.New(g, nil)
	require.ErrorIs(t, err, twin.ErrNilSimulator)

	assert.Panics(t, func() { twin.WithInterpreter(nil) })
	assert.Panics(t, func() { twin.WithHistoryLimit(0) })
}

// brokenAdvisor fails every call.
type brokenAdvisor struct{}

var errBroken = errors.New("advisor offline")

func (brokenAdvisor) Interpret(context.Context, string) (interpret.Interpretation, error) {
	return interpret.Interpretation{}, errBroken
}

func (brokenAdvisor) Recommend(context.Context, metrics.Snapshot) (string, error) {
	return "", errBroken
}

func TestSubmit_InterpreterFailureLeavesStateUntouched(t *testing.T) {
	sim, err := flow.New(flow.WithSeed(1))
	require.NoError(t, err)
	g, err := builder.ReferenceCity()
	require.NoError(t, err)
	s, err := twin.New(g, sim, twin.WithInterpreter(brokenAdvisor{}), twin.WithTimeout(time.Second))
	require.NoError(t, err)

	_, _, err = s.Submit(context.Background(), "close downtown")
	require.ErrorIs(t, err, errBroken)
	assert.Same(t, g, s.Graph())
	assert.Empty(t, s.ActivePolicies())

	_, err = s.Recommend(context.Background())
	require.ErrorIs(t, err, errBroken)
}

func TestHistory(t *testing.T) {
	h := twin.NewHistory(2)
	_, ok := h.Last()
	assert.False(t, ok)

	h.Add(twin.Point{Tick: 2})
	h.Add(twin.Point{Tick: 1})
	h.Add(twin.Point{Tick: 3})
	assert.Equal(t, 2, h.Len())

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(3), last.Tick)

	since := h.Since(3)
	require.Len(t, since, 1)
	assert.Equal(t, uint64(3), since[0].Tick)

	h.Clear()
	assert.Zero(t, h.Len())
}
