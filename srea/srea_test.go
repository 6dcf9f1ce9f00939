package srea_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/internal/pgen"
	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/srea"
)

type SREASuite struct {
	suite.Suite
}

// TestTwoAgentSyncAlphaRange matches spec §8.1: SREA at default bounds
// yields alpha* in (0.504, 0.508) for two_agent_sync.
func (s *SREASuite) TestTwoAgentSyncAlphaRange() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)

	alpha, envelope, ok := srea.Run(stn)
	require.True(ok, "two_agent_sync must be SREA-feasible")
	require.NotNil(envelope)
	require.Greater(alpha, 0.504)
	require.Less(alpha, 0.508)
}

// TestTwoContingentAlpha matches spec §8.2: SREA yields alpha = 0.481
// and guide.assigned_time(1) = 0 for two_contingent.
func (s *SREASuite) TestTwoContingentAlpha() {
	require := require.New(s.T())
	stn := pgen.TwoContingent(5000, 1000, 5000, 1000)

	alpha, envelope, ok := srea.Run(stn)
	require.True(ok)
	require.InDelta(0.481, alpha, 0.02)
	hi := envelope.GetEdgeWeight(pstn.ZeroTimepoint, 1)
	require.InDelta(0, hi, 1)
}

// TestRunIsDeterministic: the same input and options must always yield
// the same alpha, since the binary search and LP are both deterministic
// given a fixed input (no RNG is consulted inside Run).
func (s *SREASuite) TestRunIsDeterministic() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)

	a1, _, ok1 := srea.Run(stn)
	a2, _, ok2 := srea.Run(stn)
	require.True(ok1)
	require.True(ok2)
	require.Equal(a1, a2)
}

// TestRunDoesNotMutateInput: Run must operate on an internal copy.
func (s *SREASuite) TestRunDoesNotMutateInput() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)
	before := stn.GetEdgeWeight(pstn.ZeroTimepoint, 1)

	_, _, ok := srea.Run(stn)
	require.True(ok)
	after := stn.GetEdgeWeight(pstn.ZeroTimepoint, 1)
	require.Equal(before, after, "Run must not mutate its input PSTN")
}

func TestSREASuite(t *testing.T) {
	suite.Run(t, new(SREASuite))
}
