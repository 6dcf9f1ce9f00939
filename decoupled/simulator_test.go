package decoupled_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/decoupled"
	"github.com/katalvlaran/pstnexec/internal/pgen"
	"github.com/katalvlaran/pstnexec/pstn"
)

type DecoupledSuite struct {
	suite.Suite
}

func (s *DecoupledSuite) TestOptSplitSucceedsOnFeasibleNetwork() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)

	sim := decoupled.New(decoupled.Opt, 0.0, 0.999, 11, nil)
	result := sim.Simulate(stn)

	require.NotNil(result.Assignment)
	require.GreaterOrEqual(result.NumReschedules, 2, "each of the two agents reschedules at least once")
}

func (s *DecoupledSuite) TestSREASplitSucceedsOnFeasibleNetwork() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)

	sim := decoupled.New(decoupled.SREA, 0.0, 0.999, 99, nil)
	result := sim.Simulate(stn)

	require.NotNil(result.Assignment)
	require.LessOrEqual(result.NumSentSchedules, result.NumReschedules)
}

func (s *DecoupledSuite) TestSimulateDoesNotMutateInput() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)
	before := stn.GetEdgeWeight(pstn.ZeroTimepoint, 1)

	sim := decoupled.New(decoupled.Opt, 0.0, 0.999, 3, nil)
	sim.Simulate(stn)

	after := stn.GetEdgeWeight(pstn.ZeroTimepoint, 1)
	require.Equal(before, after)
	require.False(stn.IsExecuted(1))
}

func TestDecoupledSuite(t *testing.T) {
	suite.Run(t, new(DecoupledSuite))
}
