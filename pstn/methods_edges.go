package pstn

import "github.com/katalvlaran/pstnexec/pstn/distribution"

// AddEdge adds a constraint between i and j with bound [lb, ub] (duration
// i->j), optionally an uncontrollable-duration distribution. It classifies
// the pair (spec §3) from the distribution's presence and the two
// endpoints' owners, decomposes [lb, ub] into the two directed weights
// (Cij = ub, Cji = -lb), and re-adding an existing pair overwrites it
// (spec §4.1 "Re-adding an existing edge overwrites").
func (p *PSTN) AddEdge(i, j int, lb, ub int64, dist *distribution.Distribution) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kind := p.classifyLocked(i, j, dist != nil)

	fwd := edgeKey{i, j}
	rev := edgeKey{j, i}
	p.edges[fwd] = &Edge{From: i, To: j, Weight: ub, Dist: dist, Forward: true}
	p.edges[rev] = &Edge{From: j, To: i, Weight: -lb, Forward: false}

	p.setClassLocked(fwd, kind)
	p.setClassLocked(rev, kind)

	if dist != nil {
		p.parent[j] = i
		p.receivedTimepoints[j] = struct{}{}
	} else if src, ok := p.parent[j]; ok && src == i {
		delete(p.parent, j)
		delete(p.receivedTimepoints, j)
	}
}

// classifyLocked derives an (i,j) pair's Kind per spec §3: contingent if a
// distribution is present; otherwise interagent if the two owners differ
// (Z counts as no owner and never forces interagent); otherwise requirement.
func (p *PSTN) classifyLocked(i, j int, hasDist bool) Kind {
	if hasDist {
		return KindContingent
	}
	vi, iok := p.vertices[i]
	vj, jok := p.vertices[j]
	var oi, oj *int
	if iok {
		oi = vi.Owner
	}
	if jok {
		oj = vj.Owner
	}
	if oi == nil || oj == nil {
		return KindRequirement
	}
	if *oi != *oj {
		return KindInteragent
	}
	return KindRequirement
}

func (p *PSTN) setClassLocked(k edgeKey, kind Kind) {
	delete(p.contingentEdges, k)
	delete(p.interagentEdges, k)
	delete(p.requirementEdges, k)
	switch kind {
	case KindContingent:
		p.contingentEdges[k] = kind
	case KindInteragent:
		p.interagentEdges[k] = kind
	default:
		p.requirementEdges[k] = kind
	}
}

// GetEdgeWeight returns the directed upper bound Cij: 0 if i == j (and i is
// a known vertex), Infinity if the (i,j) pair is absent, else the stored
// weight.
func (p *PSTN) GetEdgeWeight(i, j int) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.getEdgeWeightLocked(i, j)
}

func (p *PSTN) getEdgeWeightLocked(i, j int) int64 {
	if i == j {
		if _, ok := p.vertices[i]; ok {
			return 0
		}
		return Infinity
	}
	if e, ok := p.edges[edgeKey{i, j}]; ok {
		return e.Weight
	}
	return Infinity
}

// Edge returns the raw Edge record for (i,j), or (nil, false).
func (p *PSTN) Edge(i, j int) (*Edge, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.edges[edgeKey{i, j}]
	return e, ok
}

// UpdateEdge tightens the directed weight of (i,j) to w. Without force it
// never loosens: it writes and returns true only if w < current (or,
// with equality, also when w == current). With force it always writes and
// returns true. With create it materializes an absent edge (classified the
// same way AddEdge would) rather than refusing the update.
func (p *PSTN) UpdateEdge(i, j int, w int64, equality, force, create bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateEdgeLocked(i, j, w, equality, force, create)
}

func (p *PSTN) updateEdgeLocked(i, j int, w int64, equality, force, create bool) bool {
	k := edgeKey{i, j}
	e, ok := p.edges[k]
	if !ok {
		if !create {
			return false
		}
		kind := p.classifyLocked(i, j, false)
		// If the converse entry was already created, this one is its
		// derived reverse, not a new precedence direction (mirrors the
		// reference's arbitrary-but-deterministic first-writer-wins rule
		// for propagation-synthesized pairs).
		_, revExists := p.edges[edgeKey{j, i}]
		e = &Edge{From: i, To: j, Weight: Infinity, Forward: !revExists}
		p.edges[k] = e
		p.setClassLocked(k, kind)
	}

	switch {
	case force:
		e.Weight = w
		return true
	case equality && w == e.Weight:
		return true
	case w < e.Weight:
		e.Weight = w
		return true
	default:
		return false
	}
}

// Kind reports the classification of the (i,j) pair, and whether it is
// known at all.
func (p *PSTN) Kind(i, j int) (Kind, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	k := edgeKey{i, j}
	if _, ok := p.contingentEdges[k]; ok {
		return KindContingent, true
	}
	if _, ok := p.interagentEdges[k]; ok {
		return KindInteragent, true
	}
	if _, ok := p.requirementEdges[k]; ok {
		return KindRequirement, true
	}
	return 0, false
}

// ContingentEdges returns the (source, head) pairs of every contingent
// edge, i.e. the forward direction the distribution is attached to.
func (p *PSTN) ContingentEdges() [][2]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([][2]int, 0, len(p.receivedTimepoints))
	for head, src := range p.parent {
		out = append(out, [2]int{src, head})
	}
	return out
}

// InteragentEdges returns the (i, j) keys classified interagent — one
// entry per constrained pair, the Forward direction only (spec §8.6:
// "interagent_edges.keys() == {(2, 4)}", not both (2,4) and (4,2); the
// reference stores exactly one Edge per pair, so its interagent_edges
// dict naturally holds only the creation direction).
func (p *PSTN) InteragentEdges() map[[2]int]struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[[2]int]struct{}, len(p.interagentEdges))
	for k := range p.interagentEdges {
		if e, ok := p.edges[k]; ok && e.Forward {
			out[[2]int{k.From, k.To}] = struct{}{}
		}
	}
	return out
}

// RequirementEdges returns every (i, j) key classified requirement, the
// Forward direction only (see InteragentEdges).
func (p *PSTN) RequirementEdges() map[[2]int]struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[[2]int]struct{}, len(p.requirementEdges))
	for k := range p.requirementEdges {
		if e, ok := p.edges[k]; ok && e.Forward {
			out[[2]int{k.From, k.To}] = struct{}{}
		}
	}
	return out
}

// Parent returns the single contingent parent of j, if any.
func (p *PSTN) Parent(j int) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.parent[j]
	return i, ok
}

// IncomingEdges returns every Forward edge whose To == v — the
// precedence direction a caller actually named at creation, not the
// derived converse bound stored alongside it — scanning linearly, the
// same tradeoff the reference STN makes (spec §9 "the reference uses
// linear scans and this is acceptable at the target size").
func (p *PSTN) IncomingEdges(v int) []*Edge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*Edge
	for k, e := range p.edges {
		if k.To == v && e.Forward {
			out = append(out, e)
		}
	}
	return out
}
