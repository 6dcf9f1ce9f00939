package loader_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/loader"
	"github.com/katalvlaran/pstnexec/pstn"
)

type LoaderSuite struct {
	suite.Suite
}

func (s *LoaderSuite) TestLoadControllableEdge() {
	require := require.New(s.T())
	data := []byte(`{
		"instances": [
			{"net1": [
				{"type": "controllable", "start_event_name": "A", "end_event_name": "B",
				 "properties": {"lb": 1, "ub": 5}}
			]}
		]
	}`)

	stns, err := loader.Load(data)
	require.NoError(err)
	require.Len(stns, 1)

	stn := stns[0]
	ids := stn.Vertices()
	require.Len(ids, 3, "Z plus the two interned events A and B")

	var a, b int = -1, -1
	for _, id := range ids {
		if id == pstn.ZeroTimepoint {
			continue
		}
		if a == -1 {
			a = id
		} else {
			b = id
		}
	}
	kind, ok := stn.Kind(a, b)
	require.True(ok)
	require.Equal(pstn.KindRequirement, kind)
	require.EqualValues(1000, -stn.GetEdgeWeight(b, a))
	require.EqualValues(5000, stn.GetEdgeWeight(a, b))
}

func (s *LoaderSuite) TestLoadGaussianContingentEdge() {
	require := require.New(s.T())
	data := []byte(`{
		"instances": [
			{"net1": [
				{"type": "uncontrollable_probabilistic", "start_event_name": "A", "end_event_name": "B",
				 "properties": {"distribution": {"type": "gaussian", "mean": 5, "variance": 1}}}
			]}
		]
	}`)

	stns, err := loader.Load(data)
	require.NoError(err)
	require.Len(stns, 1)

	pairs := stns[0].ContingentEdges()
	require.Len(pairs, 1)
}

func (s *LoaderSuite) TestLoadUncontrollableBoundedCoercesToUniform() {
	require := require.New(s.T())
	data := []byte(`{
		"instances": [
			{"net1": [
				{"type": "uncontrollable_bounded", "start_event_name": "A", "end_event_name": "B",
				 "properties": {"lb": 2, "ub": 4}}
			]}
		]
	}`)

	stns, err := loader.Load(data)
	require.NoError(err)
	pairs := stns[0].ContingentEdges()
	require.Len(pairs, 1, "uncontrollable_bounded must be treated as contingent, not requirement")
}

func (s *LoaderSuite) TestLoadRejectsUnknownEdgeType() {
	require := require.New(s.T())
	data := []byte(`{
		"instances": [
			{"net1": [
				{"type": "bogus", "start_event_name": "A", "end_event_name": "B", "properties": {}}
			]}
		]
	}`)

	_, err := loader.Load(data)
	require.Error(err)
}

func (s *LoaderSuite) TestLoadInternsEventNamesConsistently() {
	require := require.New(s.T())
	data := []byte(`{
		"instances": [
			{"net1": [
				{"type": "controllable", "start_event_name": "A", "end_event_name": "B",
				 "properties": {"lb": 0, "ub": 1}},
				{"type": "controllable", "start_event_name": "B", "end_event_name": "A",
				 "properties": {"lb": 0, "ub": 1}}
			]}
		]
	}`)

	stns, err := loader.Load(data)
	require.NoError(err)
	require.Len(stns[0].Vertices(), 3, "A and B must intern to the same ids across both edges")
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}
