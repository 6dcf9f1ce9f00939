package runner_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/decouple"
	"github.com/katalvlaran/pstnexec/internal/pgen"
	"github.com/katalvlaran/pstnexec/srea"
)

// ScenariosSuite pins the concrete end-to-end scenarios against SREA and
// decoupling, which are deterministic (no RNG involved) and so safe to
// assert tightly. Dispatch-robustness figures tied to a specific seed are
// exercised only loosely elsewhere, since the seeded stream here is not
// bit-identical to any other implementation's RNG.
type ScenariosSuite struct {
	suite.Suite
}

// two_agent_sync: SREA default bounds -> alpha in (0.504, 0.508); Optimal
// decoupling at fidelity 0.001 -> alpha close to 0.505, two sub-STNs each
// rooted at Z.
func (s *ScenariosSuite) TestTwoAgentSync() {
	require := require.New(s.T())
	stn := pgen.TwoAgentSync(5000, 1000)

	alpha, _, ok := srea.Run(stn)
	require.True(ok)
	require.Greater(alpha, 0.504)
	require.Less(alpha, 0.508)

	dAlpha, subs, dok := decouple.Optimal(stn, 0.0, 0.999)
	require.True(dok)
	require.InDelta(0.505, dAlpha, 0.01)
	require.Len(subs, 2)
	for _, sub := range subs {
		t, hasZ := sub.AssignedTime(0)
		require.True(hasZ)
		require.Zero(t)
	}
}

// two_agent_sync_uniform_1: uniform contingents with slack -> SREA yields
// alpha within one milli-step of 0 and guide.assigned_time(1) == 0 if set.
func (s *ScenariosSuite) TestTwoAgentSyncUniformWithSlack() {
	require := require.New(s.T())
	// Two agents with wide uniform windows and generous sync slack: no
	// risk component needs to be absorbed, so every alpha the search tries
	// is feasible and it settles one milli-step above the lower bound.
	stn := pgen.TwoAgentSyncUniform(1000, 9000, 1000, 9000)
	// pgen's synchrony edge is [0, 0]; widen it to +/-10s, more than the
	// two 8s contingent windows need together.
	stn.UpdateEdge(2, 4, 10000, false, true, true)
	stn.UpdateEdge(4, 2, 10000, false, true, true)

	alpha, guide, ok := srea.Run(stn)
	require.True(ok)
	require.LessOrEqual(alpha, 0.01)
	t, assigned := guide.AssignedTime(1)
	if assigned {
		require.Zero(t)
	}
}

// two_agent_sync_uniform_2: an interagent synchrony window tighter than
// the combined uniform spread is infeasible at every alpha.
func (s *ScenariosSuite) TestTwoAgentSyncUniformInfeasible() {
	require := require.New(s.T())
	p := pgen.TwoAgentSyncUniform(0, 100, 9000, 11000)
	// Force an impossibly tight synchrony window directly: the two heads
	// must land within 1ms of each other in every outcome, but even at the
	// highest alpha searched the two contingent windows together still
	// span more than 2ms.
	p.UpdateEdge(2, 4, 1, false, true, true)
	p.UpdateEdge(4, 2, 1, false, true, true)

	_, _, ok := srea.Run(p)
	require.False(ok)
}

func TestScenariosSuite(t *testing.T) {
	suite.Run(t, new(ScenariosSuite))
}
