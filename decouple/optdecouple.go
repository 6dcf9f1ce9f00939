// Package decouple implements the two multi-agent PSTN decoupling
// strategies (spec §4.3): optimal inter-agent decoupling (a Wilson
// synchrony-maximization LP) and SREA decoupling (reuse SREA's own
// envelope). Both partition a centrally-held PSTN into per-agent
// sub-STNs whose interagent boundary times are pre-committed windows.
package decouple

import (
	"math"

	"github.com/katalvlaran/pstnexec/internal/lpmodel"
	"github.com/katalvlaran/pstnexec/pstn"
)

const clampInf = 1e40

func clamp(w int64) float64 {
	f := float64(w)
	if f > clampInf {
		return clampInf
	}
	if f < -clampInf {
		return -clampInf
	}
	return f
}

type vars struct{ plus, minus int }

// Optimal runs the Wilson synchrony-maximization LP (spec §4.3 "Optimal
// inter-agent decoupling"): binary search over alpha exactly like SREA,
// but without delta slacks (contingent edges become equality constraints
// on t_j - t_i) and maximizing the spread at interagent synchrony points
// instead of the sum of contingent slacks. On success it tightens every
// synchrony endpoint's Z-bounds and splits the result by agent.
func Optimal(p *pstn.PSTN, lowerAlpha, upperAlpha float64) (alpha float64, subs map[int]*pstn.PSTN, ok bool) {
	work := p.Copy()
	if !work.FloydWarshall(true) {
		return 0, nil, false
	}

	synchrony := synchronyPoints(work)

	lo := int(math.Round(lowerAlpha * 1000))
	hi := int(math.Round(upperAlpha * 1000))

	bestM := -1
	var bestVals map[int]vars
	var bestX []float64

	test := func(m int) bool {
		a := float64(m) / 1000
		model, idx := buildWilsonLP(work, a, synchrony)
		x, solved := model.Solve(1e-7)
		if solved {
			bestM, bestVals, bestX = m, idx, x
		}
		return solved
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if test(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	if bestM == -1 {
		test(hi)
	}
	if bestM == -1 {
		return 0, nil, false
	}

	for id := range synchrony {
		v := bestVals[id]
		work.UpdateEdge(pstn.ZeroTimepoint, id, int64(math.Ceil(bestX[v.plus])), false, true, true)
		work.UpdateEdge(id, pstn.ZeroTimepoint, int64(math.Ceil(-bestX[v.minus])), false, true, true)
	}

	subs = make(map[int]*pstn.PSTN)
	for _, agent := range work.Agents() {
		subs[agent] = work.GetAgentSubSTN(agent, true)
	}
	return float64(bestM) / 1000, subs, true
}

// synchronyPoints returns the set of vertices that are an endpoint of
// some interagent edge (spec glossary: "Synchrony point").
func synchronyPoints(p *pstn.PSTN) map[int]struct{} {
	out := make(map[int]struct{})
	for k := range p.InteragentEdges() {
		out[k[0]] = struct{}{}
		out[k[1]] = struct{}{}
	}
	return out
}

// buildWilsonLP builds the Wilson LP: same variable structure as SREA's
// (§4.2) but with contingent edges contributing equality constraints on
// t_j - t_i directly (no slack), and the objective maximizing the spread
// of every synchrony point instead of the sum of contingent slacks.
func buildWilsonLP(p *pstn.PSTN, alpha float64, synchrony map[int]struct{}) (*lpmodel.Model, map[int]vars) {
	ids := p.Vertices()
	idx := make(map[int]vars, len(ids))

	m := lpmodel.NewModel(2 * len(ids))
	for n, id := range ids {
		v := vars{plus: 2 * n, minus: 2*n + 1}
		idx[id] = v

		lo := -clamp(p.GetEdgeWeight(id, pstn.ZeroTimepoint))
		hi := clamp(p.GetEdgeWeight(pstn.ZeroTimepoint, id))
		m.SetBounds(v.plus, lo, hi)
		m.SetBounds(v.minus, lo, hi)
		m.AddRow(map[int]float64{v.plus: 1, v.minus: -1}, lpmodel.GE, 0)

		if _, sync := synchrony[id]; sync {
			m.SetObjective(v.plus, 1)
			m.SetObjective(v.minus, -1)
		}
	}

	for _, ii := range ids {
		if ii == pstn.ZeroTimepoint {
			continue
		}
		for _, jj := range ids {
			if jj == ii {
				continue
			}
			kind, ok := p.Kind(ii, jj)
			if !ok || kind == pstn.KindContingent {
				continue
			}
			w := p.GetEdgeWeight(ii, jj)
			vi, vj := idx[ii], idx[jj]
			m.AddRow(map[int]float64{vj.plus: 1, vi.minus: -1}, lpmodel.LE, clamp(w))
		}
	}

	for _, pair := range p.ContingentEdges() {
		i, j := pair[0], pair[1]
		e, ok := p.Edge(i, j)
		if !ok || e.Dist == nil {
			continue
		}
		vi, vj := idx[i], idx[j]

		pIJ := e.Dist.Quantile(1 - alpha/2)
		pJI := -e.Dist.Quantile(alpha / 2)

		// t_j^+ - t_i^+ = p_ij
		m.AddRow(map[int]float64{vj.plus: 1, vi.plus: -1}, lpmodel.EQ, pIJ)
		// t_j^- - t_i^- = -p_ji
		m.AddRow(map[int]float64{vj.minus: 1, vi.minus: -1}, lpmodel.EQ, -pJI)
	}

	return m, idx
}
