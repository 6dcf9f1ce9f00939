package dispatch

import (
	"math"

	"github.com/katalvlaran/pstnexec/pstn"
)

// SelectNextTimepoint picks the earliest-feasible unexecuted vertex in
// guide (spec §4.4 "select_next_timepoint"). A vertex is eligible once
// every vertex at the source of a Forward edge into it is executed — the
// edge a caller actually named as a precedence direction, not the derived
// converse bound stored alongside it (see pstn.Edge.Forward: treating both
// directions as "predecessors" would make every constrained pair deadlock
// each other). Ties go to the lowest vertex id, since ids are scanned in
// ascending order and only a strictly earlier time replaces the current
// best. ok is false if no vertex is eligible at all.
//
// Exported for reuse by the decoupled simulator (spec §4.6), which scans
// several per-agent guides and keeps the globally-earliest candidate.
func SelectNextTimepoint(guide *pstn.PSTN, currentTime int64) (v int, t int64, hadIncomingContingent bool, ok bool) {
	bestTime := int64(math.MaxInt64)
	bestV := -1
	bestContingent := false

	for _, id := range guide.Vertices() {
		vv, found := guide.Vertex(id)
		if !found || vv.Executed {
			continue
		}

		incoming := guide.IncomingEdges(id)
		enabled := true
		for _, e := range incoming {
			if !guide.IsExecuted(e.From) {
				enabled = false
				break
			}
		}
		if !enabled {
			continue
		}

		var earliest int64
		var contingent bool

		if parent, hasParent := guide.Parent(id); hasParent {
			contingent = true
			if assigned, ok := guide.AssignedTime(parent); ok {
				sampled, _ := guide.SampledTime(parent, id)
				earliest = assigned + sampled
			} else {
				// Pathological SREA output (spec §4.4 note): the
				// contingent predecessor was never assigned; fall back to
				// its upper Z-bound w(Z, parent) in this guide.
				earliest = guide.GetEdgeWeight(pstn.ZeroTimepoint, parent)
			}
		} else if len(incoming) == 0 {
			earliest = 0
		} else {
			max := int64(math.MinInt64)
			for _, e := range incoming {
				assigned, ok := guide.AssignedTime(e.From)
				if !ok {
					continue
				}
				// e.From -> id's lower bound is the negated weight of the
				// converse entry (id, e.From), since the Forward entry
				// itself only carries the upper bound.
				lb := -guide.GetEdgeWeight(id, e.From)
				if cand := lb + assigned; cand > max {
					max = cand
				}
			}
			if max == int64(math.MinInt64) {
				continue
			}
			earliest = max
		}

		if earliest < bestTime {
			bestTime = earliest
			bestV = id
			bestContingent = contingent
		}
	}

	if bestV == -1 {
		return 0, 0, false, false
	}
	return bestV, bestTime, bestContingent, true
}
