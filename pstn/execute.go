package pstn

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
)

// Assign forces w(Z,v) = t and w(v,Z) = -t and marks v executed (spec §4.1
// "assign(v, t)"). Calling Assign twice on the same vertex with the same t
// is a harmless no-op; calling it with a different t is an internal
// invariant violation (spec §7.4: "assigned time disagreement ... abort
// with diagnostic") and panics, since it can only happen from a
// programming error in the caller (the dispatch loop should never revisit
// an already-assigned timepoint).
func (p *PSTN) Assign(v int, t int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vv, ok := p.vertices[v]; ok && vv.Executed {
		if cur, ok := p.edges[edgeKey{ZeroTimepoint, v}]; ok && cur.Weight != t {
			panic(fmt.Sprintf("pstn: Assign(%d, %d): already executed at %d", v, t, cur.Weight))
		}
		return
	}

	p.updateEdgeLocked(ZeroTimepoint, v, t, false, true, true)
	p.updateEdgeLocked(v, ZeroTimepoint, -t, false, true, true)
	p.markExecuted(v)
}

// AssignedTime returns the time a vertex was assigned (w(Z,v)), and
// whether it has been assigned at all.
func (p *PSTN) AssignedTime(v int) (int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if vv, ok := p.vertices[v]; !ok || !vv.Executed {
		return 0, false
	}
	e, ok := p.edges[edgeKey{ZeroTimepoint, v}]
	if !ok {
		return 0, false
	}
	return e.Weight, true
}

// Resample draws a fresh duration for every contingent edge using rng,
// clamping Gaussian samples at 0 (spec §4.1 "resample(rng)"). It does not
// alter the STN's propagated bounds, only the recorded last-sample value
// SampledTime returns. Edges are drawn in ascending head-id order, so a
// given rng state always yields the same sample on the same edge.
func (p *PSTN) Resample(rng rand.Source) {
	p.mu.Lock()
	defer p.mu.Unlock()

	heads := make([]int, 0, len(p.parent))
	for head := range p.parent {
		heads = append(heads, head)
	}
	sort.Ints(heads)
	for _, head := range heads {
		src := p.parent[head]
		e, ok := p.edges[edgeKey{src, head}]
		if !ok || e.Dist == nil {
			continue
		}
		p.sampledTime[edgeKey{src, head}] = int64(e.Dist.Rand(rng))
	}
}

// SampledTime returns the last resample drawn for the contingent edge
// (i, j), or (0, false) if it was never resampled.
func (p *PSTN) SampledTime(i, j int) (int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.sampledTime[edgeKey{i, j}]
	return v, ok
}
