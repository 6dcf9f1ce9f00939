package pstn

// Copy returns a deep, independently-mutable snapshot of p, required
// before any destructive propagation check (spec §3). Grounded on lvlath's
// core/methods_clone.go Clone(): copy configuration-equivalent state first
// (here, just the id counter), then vertices, then edges.
func (p *PSTN) Copy() *PSTN {
	p.mu.RLock()
	defer p.mu.RUnlock()

	np := &PSTN{
		vertices:           make(map[int]*Vertex, len(p.vertices)),
		edges:              make(map[edgeKey]*Edge, len(p.edges)),
		parent:             make(map[int]int, len(p.parent)),
		receivedTimepoints: make(map[int]struct{}, len(p.receivedTimepoints)),
		contingentEdges:    make(map[edgeKey]Kind, len(p.contingentEdges)),
		interagentEdges:    make(map[edgeKey]Kind, len(p.interagentEdges)),
		requirementEdges:   make(map[edgeKey]Kind, len(p.requirementEdges)),
		sampledTime:        make(map[edgeKey]int64, len(p.sampledTime)),
		agents:             append([]int(nil), p.agents...),
		nextVertexID:       p.nextVertexID,
	}
	for id, v := range p.vertices {
		np.vertices[id] = v.Clone()
	}
	for k, e := range p.edges {
		ne := &Edge{From: e.From, To: e.To, Weight: e.Weight, Forward: e.Forward}
		if e.Dist != nil {
			d := *e.Dist
			ne.Dist = &d
		}
		np.edges[k] = ne
	}
	for j, i := range p.parent {
		np.parent[j] = i
	}
	for j := range p.receivedTimepoints {
		np.receivedTimepoints[j] = struct{}{}
	}
	for k, kind := range p.contingentEdges {
		np.contingentEdges[k] = kind
	}
	for k, kind := range p.interagentEdges {
		np.interagentEdges[k] = kind
	}
	for k, kind := range p.requirementEdges {
		np.requirementEdges[k] = kind
	}
	for k, v := range p.sampledTime {
		np.sampledTime[k] = v
	}

	return np
}
