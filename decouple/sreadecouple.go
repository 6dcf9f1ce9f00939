package decouple

import (
	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/srea"
)

// SREA runs SREA once and, on success, applies its envelope's Z-bounds to
// every interagent synchrony endpoint before splitting by agent (spec
// §4.3 "SREA decoupling"). On SREA failure it returns (0, nil, false) —
// spec calls this "(None, None)".
func SREA(p *pstn.PSTN, lowerAlpha, upperAlpha float64) (alpha float64, subs map[int]*pstn.PSTN, ok bool) {
	a, envelope, solved := srea.Run(p, srea.WithAlphaBounds(lowerAlpha, upperAlpha))
	if !solved {
		return 0, nil, false
	}

	synchrony := synchronyPoints(p)
	work := p.Copy()
	for id := range synchrony {
		hi := envelope.GetEdgeWeight(pstn.ZeroTimepoint, id)
		lo := envelope.GetEdgeWeight(id, pstn.ZeroTimepoint)
		work.UpdateEdge(pstn.ZeroTimepoint, id, hi, false, true, true)
		work.UpdateEdge(id, pstn.ZeroTimepoint, lo, false, true, true)
	}

	subs = make(map[int]*pstn.PSTN)
	for _, agent := range work.Agents() {
		subs[agent] = work.GetAgentSubSTN(agent, true)
	}
	return a, subs, true
}
