// Package pgen builds small synthetic PSTNs for tests and benchmarks,
// adapted from lvlath's builder/impl_path.go and builder/impl_star.go:
// deterministic vertex ids in ascending order, deterministic edge
// emission order, no reliance on map iteration for structure. Unlike the
// teacher's Constructor-closure chaining (this package has no option
// plumbing to reuse — these are leaf generators, not a composable DSL),
// each function here returns a ready *pstn.PSTN directly.
package pgen

import (
	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/pstn/distribution"
)

// TwoAgentSync builds the two_agent_sync scenario (spec §8.1): two
// agents, each with one Gaussian contingent edge from its own release
// timepoint, joined by one interagent requirement edge synchronizing
// their contingent heads.
//
// Vertex layout: Z=0, agent 1's release=1, agent 1's contingent head=2,
// agent 2's release=3, agent 2's contingent head=4. Edge (2,4) is the
// sole interagent edge (spec §8.6 "interagent_edges.keys() == {(2, 4)}").
func TwoAgentSync(meanMs, sigmaMs float64) *pstn.PSTN {
	p := pstn.New()
	a1, a2 := 1, 2
	addVertices(p, a1, a2)

	gauss := distribution.NewGaussian(meanMs/1000, (sigmaMs/1000)*(sigmaMs/1000))
	p.AddEdge(pstn.ZeroTimepoint, 1, 0, pstn.Infinity, nil)
	p.AddEdge(1, 2, -pstn.Infinity, pstn.Infinity, &gauss)
	p.AddEdge(pstn.ZeroTimepoint, 3, 0, pstn.Infinity, nil)
	p.AddEdge(3, 4, -pstn.Infinity, pstn.Infinity, &gauss)
	p.AddEdge(2, 4, 0, 0, nil)
	return p
}

// TwoContingent builds the two_contingent scenario (spec §8.2): a single
// agent, two sequential Gaussian contingent edges.
func TwoContingent(mean1Ms, sigma1Ms, mean2Ms, sigma2Ms float64) *pstn.PSTN {
	p := pstn.New()
	a1 := 1
	p.AddVertex(1, &a1)
	p.AddVertex(2, &a1)
	p.AddVertex(3, &a1)

	g1 := distribution.NewGaussian(mean1Ms/1000, (sigma1Ms/1000)*(sigma1Ms/1000))
	g2 := distribution.NewGaussian(mean2Ms/1000, (sigma2Ms/1000)*(sigma2Ms/1000))
	p.AddEdge(pstn.ZeroTimepoint, 1, 0, pstn.Infinity, nil)
	p.AddEdge(1, 2, -pstn.Infinity, pstn.Infinity, &g1)
	p.AddEdge(2, 3, -pstn.Infinity, pstn.Infinity, &g2)
	return p
}

// TwoAgentSyncUniform builds a two-agent synchrony scenario using Uniform
// contingents instead of Gaussian, covering two_agent_sync_uniform_1/2
// (spec §8.3/§8.4).
func TwoAgentSyncUniform(lb1, ub1, lb2, ub2 float64) *pstn.PSTN {
	p := pstn.New()
	a1, a2 := 1, 2
	addVertices(p, a1, a2)

	u1 := distribution.NewUniform(lb1/1000, ub1/1000)
	u2 := distribution.NewUniform(lb2/1000, ub2/1000)
	p.AddEdge(pstn.ZeroTimepoint, 1, 0, pstn.Infinity, nil)
	p.AddEdge(1, 2, -pstn.Infinity, pstn.Infinity, &u1)
	p.AddEdge(pstn.ZeroTimepoint, 3, 0, pstn.Infinity, nil)
	p.AddEdge(3, 4, -pstn.Infinity, pstn.Infinity, &u2)
	p.AddEdge(2, 4, 0, 0, nil)
	return p
}

// Star builds a single-agent star PSTN: one release vertex with n
// Gaussian contingent edges radiating from it in parallel, generalizing
// lvlath's builder.Star(n) to contingent edges instead of plain weighted
// ones. Vertex 1 is the hub; vertices 2..n+1 are the contingent heads.
func Star(n int, meanMs, sigmaMs float64) *pstn.PSTN {
	p := pstn.New()
	a1 := 1
	p.AddVertex(1, &a1)
	p.AddEdge(pstn.ZeroTimepoint, 1, 0, pstn.Infinity, nil)

	g := distribution.NewGaussian(meanMs/1000, (sigmaMs/1000)*(sigmaMs/1000))
	for i := 0; i < n; i++ {
		head := 2 + i
		p.AddVertex(head, &a1)
		p.AddEdge(1, head, -pstn.Infinity, pstn.Infinity, &g)
	}
	return p
}

// addVertices lays out the canonical two-agent synchrony skeleton: 1 and
// 2 owned by agent a1, 3 and 4 owned by agent a2.
func addVertices(p *pstn.PSTN, a1, a2 int) {
	p.AddVertex(1, &a1)
	p.AddVertex(2, &a1)
	p.AddVertex(3, &a2)
	p.AddVertex(4, &a2)
}
