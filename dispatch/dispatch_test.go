package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/dispatch"
	"github.com/katalvlaran/pstnexec/internal/pgen"
	"github.com/katalvlaran/pstnexec/pstn"
)

type DispatchSuite struct {
	suite.Suite
}

// TestSelectNextTimepointRespectsPredecessors: with a requirement edge
// 1->2, vertex 2 must never be selected before vertex 1 is executed.
func (s *DispatchSuite) TestSelectNextTimepointRespectsPredecessors() {
	require := require.New(s.T())
	p := pstn.New()
	a1 := 1
	p.AddVertex(1, &a1)
	p.AddVertex(2, &a1)
	p.AddEdge(pstn.ZeroTimepoint, 1, 0, 100, nil)
	p.AddEdge(1, 2, 5, 20, nil)
	require.True(p.FloydWarshall(true))
	// Z is an ordinary unexecuted timepoint after pstn.New; execute it first.
	p.Assign(pstn.ZeroTimepoint, 0)

	v, _, hadContingent, ok := dispatch.SelectNextTimepoint(p, 0)
	require.True(ok)
	require.Equal(1, v, "vertex 2 is not enabled until 1 executes")
	require.False(hadContingent)

	p.Assign(1, 10)
	v2, t2, _, ok2 := dispatch.SelectNextTimepoint(p, 10)
	require.True(ok2)
	require.Equal(2, v2)
	require.GreaterOrEqual(t2, int64(15))
}

// TestSelectNextTimepointNoEligibleVertex: once every vertex is executed,
// ok is false.
func (s *DispatchSuite) TestSelectNextTimepointNoEligibleVertex() {
	require := require.New(s.T())
	p := pstn.New()
	a1 := 1
	p.AddVertex(1, &a1)
	p.AddEdge(pstn.ZeroTimepoint, 1, 0, 100, nil)
	p.Assign(pstn.ZeroTimepoint, 0)
	p.Assign(1, 5)

	_, _, _, ok := dispatch.SelectNextTimepoint(p, 5)
	require.False(ok)
}

func (s *DispatchSuite) runVariant(variant dispatch.Variant) dispatch.Result {
	stn := pgen.TwoAgentSync(5000, 1000)
	sim := dispatch.New(variant, 0.0, 0.0, 42, nil)
	return sim.Simulate(stn)
}

// TestEarlyNeverReschedules: the "early" strategy never runs SREA, so
// both counters stay at zero, and it still returns an assignment trace.
func (s *DispatchSuite) TestEarlyNeverReschedules() {
	require := require.New(s.T())
	result := s.runVariant(dispatch.Early)
	require.Equal(0, result.NumReschedules, "early never reschedules")
	require.Equal(0, result.NumSentSchedules)
	require.NotNil(result.Assignment)
}

// TestSREARescheduleOnlyOnFirstRun: the srea variant sends exactly one
// schedule (spec §4.5 "srea": reschedule only on the first run).
func (s *DispatchSuite) TestSREARescheduleOnlyOnFirstRun() {
	require := require.New(s.T())
	result := s.runVariant(dispatch.SREA)
	require.Equal(1, result.NumReschedules)
	require.LessOrEqual(result.NumSentSchedules, 1)
}

// TestDREARescheduleCountersAreConsistent: drea reschedules at
// least once (the mandatory first run) and never sends more schedules
// than attempts.
func (s *DispatchSuite) TestDREARescheduleCountersAreConsistent() {
	require := require.New(s.T())
	result := s.runVariant(dispatch.DREA)
	require.GreaterOrEqual(result.NumReschedules, 1)
	require.LessOrEqual(result.NumSentSchedules, result.NumReschedules)
}

// TestSimulateDoesNotMutateInput: Simulate must operate on internal
// copies of its input STN.
func (s *DispatchSuite) TestSimulateDoesNotMutateInput() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)
	before := stn.GetEdgeWeight(pstn.ZeroTimepoint, 1)

	sim := dispatch.New(dispatch.Early, 0.0, 0.0, 7, nil)
	sim.Simulate(stn)

	after := stn.GetEdgeWeight(pstn.ZeroTimepoint, 1)
	require.Equal(before, after)
	require.False(stn.IsExecuted(1), "the caller's original STN must never be assigned into")
}

func TestDispatchSuite(t *testing.T) {
	suite.Run(t, new(DispatchSuite))
}
