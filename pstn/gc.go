package pstn

// PruneExecuted removes every non-Z vertex whose outgoing edges are all
// executed — garbage collection for timepoints that add no further
// information to the working STN (spec §4.4 step f, grounded on the
// reference's remove_old_timepoints / remove_vertex).
func (p *PSTN) PruneExecuted() {
	p.mu.Lock()
	defer p.mu.Unlock()

	var toRemove []int
	for id, v := range p.vertices {
		if id == ZeroTimepoint || !v.Executed {
			continue
		}
		if p.outgoingExecutedLocked(id) {
			toRemove = append(toRemove, id)
		}
	}

	for _, id := range toRemove {
		delete(p.vertices, id)
		delete(p.receivedTimepoints, id)
		delete(p.parent, id)
		for k := range p.edges {
			if k.From == id || k.To == id {
				delete(p.edges, k)
				delete(p.contingentEdges, k)
				delete(p.interagentEdges, k)
				delete(p.requirementEdges, k)
				delete(p.sampledTime, k)
			}
		}
	}
}

func (p *PSTN) outgoingExecutedLocked(v int) bool {
	vv, ok := p.vertices[v]
	if !ok || !vv.Executed {
		return false
	}
	for k := range p.edges {
		if k.From != v {
			continue
		}
		succ, ok := p.vertices[k.To]
		if !ok || !succ.Executed {
			return false
		}
	}
	return true
}
