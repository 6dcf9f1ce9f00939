package pstn

import "sort"

// AddVertex registers a timepoint with the given id and owning agent
// (nil for none/Z). Re-adding an existing id is a no-op that leaves the
// existing vertex untouched, mirroring the teacher's idempotent-by-id
// construction style (core/methods_vertices.go).
func (p *PSTN) AddVertex(id int, owner *int) *Vertex {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.vertices[id]; ok {
		return v
	}
	var ownerCopy *int
	if owner != nil {
		o := *owner
		ownerCopy = &o
		if !containsInt(p.agents, o) {
			p.agents = append(p.agents, o)
		}
	}
	v := &Vertex{ID: id, Owner: ownerCopy}
	p.vertices[id] = v
	if id >= p.nextVertexID {
		p.nextVertexID = id + 1
	}
	return v
}

// NextVertexID allocates the next unused integer id, used by loaders that
// intern event names in first-seen order.
func (p *PSTN) NextVertexID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextVertexID
	p.nextVertexID++
	return id
}

// Vertex returns the vertex for id, or (nil, false).
func (p *PSTN) Vertex(id int) (*Vertex, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.vertices[id]
	return v, ok
}

// Vertices returns a snapshot slice of every vertex id, sorted ascending
// for deterministic iteration (matching lvlath's convention of returning
// sorted id slices from Graph.Vertices()).
func (p *PSTN) Vertices() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]int, 0, len(p.vertices))
	for id := range p.vertices {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Agents returns the list of distinct agent ids that own at least one
// vertex, in first-seen order.
func (p *PSTN) Agents() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]int, len(p.agents))
	copy(out, p.agents)
	return out
}

// markExecuted marks id as executed. It is idempotent when called with the same
// vertex; per §3 "Executed monotonicity", a vertex may only transition
// unexecuted -> executed, never the reverse.
func (p *PSTN) markExecuted(id int) {
	if v, ok := p.vertices[id]; ok {
		v.Executed = true
	}
}

// IsExecuted reports whether id has been marked executed.
func (p *PSTN) IsExecuted(id int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.vertices[id]
	return ok && v.Executed
}

// OutgoingExecuted reports whether v is executed and every vertex at the
// far end of an edge entry stored from v (of any kind, including derived
// converse entries) is also executed
// (spec §4.1: used for old-point garbage collection). Per §9's design note,
// this is a deliberate linear scan rather than a precomputed adjacency
// index — acceptable at PSTN scale.
func (p *PSTN) OutgoingExecuted(v int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outgoingExecutedLocked(v)
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
