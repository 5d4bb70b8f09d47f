package builder_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/core"
)

// ReferenceCitySuite checks the reference topology.
type ReferenceCitySuite struct {
	suite.Suite
	g *core.Graph
}

func (s *ReferenceCitySuite) SetupTest() {
	g, err := builder.ReferenceCity(builder.WithSeed(7))
	s.Require().NoError(err)
	s.g = g
}

func (s *ReferenceCitySuite) TestCounts() {
	s.Equal(25, s.g.NodeCount())
	// 2 × (20 horizontal + 20 vertical) streets plus two highway segments.
	s.Equal(82, s.g.EdgeCount())
}

func (s *ReferenceCitySuite) TestLandmarks() {
	want := map[string]string{
		"n_2_2": "City Center (POI)",
		"n_0_0": "Hospital (Emergency)",
		"n_4_4": "Industrial Zone",
	}
	for id, label := range want {
		n, err := s.g.Node(id)
		s.Require().NoError(err)
		s.Equal(core.POI, n.Kind, id)
		s.Equal(label, n.Label, id)
	}

	n, err := s.g.Node("n_3_1")
	s.Require().NoError(err)
	s.Equal(core.Intersection, n.Kind)
	s.Equal(350.0, n.X)
	s.Equal(150.0, n.Y)
}

func (s *ReferenceCitySuite) TestStreetAttributes() {
	e, err := s.g.Edge("e_n_0_0_n_1_0")
	s.Require().NoError(err)
	s.Equal(800.0, e.Capacity)
	s.Equal(40.0, e.SpeedLimit)
	s.Equal(10.0, e.BaseWeight)
	s.GreaterOrEqual(e.CurrentFlow, 0.0)
	s.Less(e.CurrentFlow, 400.0)
	s.False(e.Closed)
}

func (s *ReferenceCitySuite) TestHighway() {
	for _, id := range []string{"e_n_0_0_n_1_1", "e_n_1_1_n_2_2"} {
		e, err := s.g.Edge(id)
		s.Require().NoError(err, id)
		s.Equal(2000.0, e.Capacity)
		s.Equal(80.0, e.SpeedLimit)
		s.Equal(12.5, e.BaseWeight)
		s.True(e.HasTag("highway"), id)
	}
	_, err := s.g.Edge("e_n_1_1_n_0_0")
	s.ErrorIs(err, core.ErrEdgeNotFound, "highway is one-way")
}

func (s *ReferenceCitySuite) TestDowntownTags() {
	downtown := map[string]bool{"n_2_2": true, "n_1_2": true, "n_2_1": true}
	count := 0
	for _, e := range s.g.Edges() {
		touches := downtown[e.Source] || downtown[e.Target]
		s.Equal(touches, e.HasTag(builder.DowntownZone), e.ID)
		if touches {
			count++
		}
	}
	s.Equal(21, count)
}

func TestReferenceCitySuite(t *testing.T) {
	suite.Run(t, new(ReferenceCitySuite))
}

func TestReferenceCity_Deterministic(t *testing.T) {
	a, err := builder.ReferenceCity(builder.WithSeed(42))
	require.NoError(t, err)
	b, err := builder.ReferenceCity(builder.WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := builder.ReferenceCity(builder.WithSeed(43))
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestReferenceCity_NoRandNoFlow(t *testing.T) {
	g, err := builder.ReferenceCity()
	require.NoError(t, err)
	for _, e := range g.Edges() {
		assert.Zero(t, e.CurrentFlow, e.ID)
		assert.Equal(t, e.BaseWeight, e.CurrentWeight, e.ID)
	}
}

func TestBuildCity_Errors(t *testing.T) {
	_, err := builder.BuildCity(nil, builder.Grid(0))
	require.ErrorIs(t, err, builder.ErrTooSmall)

	_, err = builder.BuildCity(nil, builder.Grid(2), builder.Landmark("n_9_9", "x"))
	require.ErrorIs(t, err, builder.ErrUnknownNode)

	_, err = builder.BuildCity(nil, builder.Grid(2), builder.Highway("n_0_0"))
	require.ErrorIs(t, err, builder.ErrTooSmall)

	_, err = builder.BuildCity(nil, builder.Grid(2), nil)
	require.ErrorIs(t, err, builder.ErrConstructFailed)
}

func TestBuildCity_CustomGrid(t *testing.T) {
	g, err := builder.BuildCity(
		[]builder.BuilderOption{builder.WithBlockSize(10), builder.WithStreet(builder.RoadSpec{Capacity: 100, SpeedLimit: 50, BaseWeight: 20})},
		builder.Grid(3),
		builder.SensorAt("n_1_1"),
	)
	require.NoError(t, err)
	assert.Equal(t, 9, g.NodeCount())
	assert.Equal(t, 24, g.EdgeCount())

	n, _ := g.Node("n_1_1")
	assert.Equal(t, core.Sensor, n.Kind)
	assert.Equal(t, 60.0, n.X)

	e, _ := g.Edge("e_n_1_1_n_1_2")
	assert.Equal(t, 100.0, e.Capacity)
	assert.Equal(t, 20.0, e.BaseWeight)
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithBlockSize(0) })
	assert.Panics(t, func() { builder.WithInitialFlowMax(-1) })
	assert.Panics(t, func() { builder.WithHighway(builder.RoadSpec{}) })
}
