package pstn_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/pstn/distribution"
)

type PSTNSuite struct {
	suite.Suite
	p *pstn.PSTN
}

func (s *PSTNSuite) SetupTest() {
	s.p = pstn.New()
}

func (s *PSTNSuite) TestZeroTimepointPresent() {
	require := require.New(s.T())
	z, ok := s.p.Vertex(pstn.ZeroTimepoint)
	require.True(ok, "Z must exist at construction")
	require.Nil(z.Owner, "Z must be owner-less")
	require.NoError(s.p.Validate())
}

func (s *PSTNSuite) TestAddVertexIdempotent() {
	require := require.New(s.T())
	agent := 1
	v1 := s.p.AddVertex(5, &agent)
	v2 := s.p.AddVertex(5, nil)
	require.Same(v1, v2, "re-adding an existing id is a no-op")
}

func (s *PSTNSuite) TestRequirementVsInteragentClassification() {
	require := require.New(s.T())
	a1, a2 := 1, 2
	s.p.AddVertex(1, &a1)
	s.p.AddVertex(2, &a1)
	s.p.AddVertex(3, &a2)

	s.p.AddEdge(1, 2, 0, 10, nil)
	kind, ok := s.p.Kind(1, 2)
	require.True(ok)
	require.Equal(pstn.KindRequirement, kind)

	s.p.AddEdge(2, 3, 0, 0, nil)
	kind, ok = s.p.Kind(2, 3)
	require.True(ok)
	require.Equal(pstn.KindInteragent, kind)

	inter := s.p.InteragentEdges()
	require.Equal(map[[2]int]struct{}{{2, 3}: {}}, inter,
		"interagent_edges must hold only the creation direction, not both (2,3) and (3,2)")
}

func (s *PSTNSuite) TestContingentEdgeHasSingleParent() {
	require := require.New(s.T())
	a1 := 1
	s.p.AddVertex(1, &a1)
	s.p.AddVertex(2, &a1)
	g := distribution.NewGaussian(5, 1)
	s.p.AddEdge(1, 2, -pstn.Infinity, pstn.Infinity, &g)

	parent, ok := s.p.Parent(2)
	require.True(ok)
	require.Equal(1, parent)
	require.NoError(s.p.Validate())

	pairs := s.p.ContingentEdges()
	require.Len(pairs, 1)
	require.Equal([2]int{1, 2}, pairs[0])
}

func (s *PSTNSuite) TestIncomingEdgesOnlyForwardDirection() {
	require := require.New(s.T())
	a1 := 1
	s.p.AddVertex(1, &a1)
	s.p.AddVertex(2, &a1)
	s.p.AddEdge(1, 2, 0, 10, nil)

	incoming := s.p.IncomingEdges(2)
	require.Len(incoming, 1, "vertex 2 has exactly one genuine predecessor")
	require.Equal(1, incoming[0].From)

	// Vertex 1 must NOT see vertex 2 as a predecessor: a requirement edge
	// only constrains 1->2, it never makes 2 a predecessor of 1 too.
	require.Empty(s.p.IncomingEdges(1))
}

func (s *PSTNSuite) TestAssignIsMonotonicAndIdempotent() {
	require := require.New(s.T())
	a1 := 1
	s.p.AddVertex(1, &a1)
	s.p.AddEdge(pstn.ZeroTimepoint, 1, 0, pstn.Infinity, nil)

	s.p.Assign(1, 50)
	require.True(s.p.IsExecuted(1))
	t, ok := s.p.AssignedTime(1)
	require.True(ok)
	require.EqualValues(50, t)

	require.NotPanics(func() { s.p.Assign(1, 50) }, "re-assigning the same time is a no-op")
	require.Panics(func() { s.p.Assign(1, 51) }, "re-assigning a different time is an invariant violation")
}

func (s *PSTNSuite) TestFloydWarshallDetectsNegativeCycle() {
	require := require.New(s.T())
	a1 := 1
	s.p.AddVertex(1, &a1)
	s.p.AddVertex(2, &a1)
	// 1 -> 2 with ub=5, and 2 -> 1 with ub=-10 (lb effectively +10 > ub):
	// an infeasible requirement pair.
	s.p.AddEdge(1, 2, 0, 5, nil)
	s.p.UpdateEdge(2, 1, -10, false, true, true)

	require.False(s.p.FloydWarshall(true))
}

func (s *PSTNSuite) TestFloydWarshallIdempotent() {
	require := require.New(s.T())
	a1 := 1
	s.p.AddVertex(1, &a1)
	s.p.AddVertex(2, &a1)
	s.p.AddEdge(pstn.ZeroTimepoint, 1, 0, 100, nil)
	s.p.AddEdge(1, 2, 5, 20, nil)

	ok1 := s.p.FloydWarshall(true)
	require.True(ok1)
	before := s.p.GetEdgeWeight(pstn.ZeroTimepoint, 2)

	ok2 := s.p.FloydWarshall(true)
	require.True(ok2)
	after := s.p.GetEdgeWeight(pstn.ZeroTimepoint, 2)
	require.Equal(before, after, "propagating an already-tight STN again must not change weights")
}

func (s *PSTNSuite) TestCopyIsIndependent() {
	require := require.New(s.T())
	a1 := 1
	s.p.AddVertex(1, &a1)
	s.p.AddEdge(pstn.ZeroTimepoint, 1, 0, 100, nil)

	cp := s.p.Copy()
	cp.Assign(1, 10)

	require.True(cp.IsExecuted(1))
	require.False(s.p.IsExecuted(1), "mutating the copy must not affect the original")
}

func (s *PSTNSuite) TestGetAgentSubSTNFiltersByOwner() {
	require := require.New(s.T())
	a1, a2 := 1, 2
	s.p.AddVertex(1, &a1)
	s.p.AddVertex(2, &a2)
	s.p.AddEdge(pstn.ZeroTimepoint, 1, 0, 100, nil)
	s.p.AddEdge(pstn.ZeroTimepoint, 2, 0, 100, nil)

	sub := s.p.GetAgentSubSTN(a1, true)
	_, hasOwn := sub.Vertex(1)
	_, hasOther := sub.Vertex(2)
	_, hasZ := sub.Vertex(pstn.ZeroTimepoint)
	require.True(hasOwn)
	require.False(hasOther)
	require.True(hasZ)
}

func TestPSTNSuite(t *testing.T) {
	suite.Run(t, new(PSTNSuite))
}
