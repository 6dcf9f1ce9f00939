package srea

import (
	"math"

	"github.com/katalvlaran/pstnexec/internal/lpmodel"
	"github.com/katalvlaran/pstnexec/pstn"
)

// clampInf is the ±10^40 weight clamp spec §4.1 requires before feeding
// edge weights to the LP, so that effective-infinity arithmetic never
// manufactures a spurious infeasibility.
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

// vars holds the two LP-variable indices (t^+, t^-) assigned to a vertex.
type vars struct{ plus, minus int }

// buildLP constructs the Lund et al. robust-execution LP (spec §4.2) for
// the given PSTN at risk level alpha. When decouple is true, requirement-
// and interagent-edge constraints are omitted — the decoupling caller
// supplies its own tightened bounds externally.
func buildLP(p *pstn.PSTN, alpha float64, decouple bool) (*lpmodel.Model, map[int]vars) {
	ids := p.Vertices()
	idx := make(map[int]vars, len(ids))

	m := lpmodel.NewModel(2 * len(ids))
	for n, id := range ids {
		v := vars{plus: 2 * n, minus: 2*n + 1}
		idx[id] = v

		lo := -clamp(p.GetEdgeWeight(id, pstn.ZeroTimepoint)) // -w(v,Z)
		hi := clamp(p.GetEdgeWeight(pstn.ZeroTimepoint, id))  // w(Z,v)
		m.SetBounds(v.plus, lo, hi)
		m.SetBounds(v.minus, lo, hi)
		// t_i^+ >= t_i^-
		m.AddRow(map[int]float64{v.plus: 1, v.minus: -1}, lpmodel.GE, 0)
	}

	if !decouple {
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
				// t_j^+ - t_i^- <= w(i,j)
				m.AddRow(map[int]float64{vj.plus: 1, vi.minus: -1}, lpmodel.LE, clamp(w))
			}
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
		lIJ := e.Dist.Quantile(0.997)
		lJI := -e.Dist.Quantile(0.003)

		capIJ := math.Max(0, lIJ-pIJ)
		capJI := math.Max(0, lJI-pJI)

		dIJ := m.AddVar(0, capIJ)
		dJI := m.AddVar(0, capJI)
		m.SetObjective(dIJ, 1)
		m.SetObjective(dJI, 1)

		// t_j^+ - t_i^+ = p_ij + delta_ij
		m.AddRow(map[int]float64{vj.plus: 1, vi.plus: -1, dIJ: -1}, lpmodel.EQ, pIJ)
		// t_j^- - t_i^- = -p_ji - delta_ji
		m.AddRow(map[int]float64{vj.minus: 1, vi.minus: -1, dJI: 1}, lpmodel.EQ, -pJI)
	}

	return m, idx
}
