package pstn

import "sort"

// FloydWarshall computes all-pairs shortest paths over the directed weight
// matrix and tightens every pair accordingly, exactly mirroring lvlath's
// matrix/impl_floydwarshall.go kernel (same triple-nested relax loop, same
// "+Inf sentinel, 0 diagonal" contract) but operating directly on a PSTN's
// edge map instead of a generic matrix.Matrix.
//
// With create=false, only edges already present are tightened (no new
// edges materialize from a propagation that merely goes through Z or other
// intermediate hops); with create=true, every discovered pair becomes an
// edge (used by SREA before it hands the STN to the LP, and by the
// dispatch loop after every assignment). It returns false — "inconsistent"
// — if any vertex's effective self-distance becomes negative, i.e. a
// negative cycle was discovered (spec §4.1, §8).
func (p *PSTN) FloydWarshall(create bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := p.vertexIDsLocked()
	n := len(ids)
	idx := make(map[int]int, n)
	for i, id := range ids {
		idx[id] = i
	}

	dist := make([][]int64, n)
	for i := range dist {
		dist[i] = make([]int64, n)
		for j := range dist[i] {
			if i == j {
				dist[i][j] = 0
			} else {
				dist[i][j] = p.getEdgeWeightLocked(ids[i], ids[j])
			}
		}
	}

	var dik, dkj, dij int64
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			dik = dist[i][k]
			if dik >= Infinity {
				continue
			}
			for j := 0; j < n; j++ {
				dkj = dist[k][j]
				dij = dist[i][j]
				if dkj < Infinity && dik+dkj < dij {
					dist[i][j] = dik + dkj
				}
			}
		}
	}

	consistent := true
	for i := 0; i < n; i++ {
		if dist[i][i] < 0 {
			consistent = false
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			p.updateEdgeLocked(ids[i], ids[j], dist[i][j], false, true, create)
		}
	}

	return consistent
}

func (p *PSTN) vertexIDsLocked() []int {
	ids := make([]int, 0, len(p.vertices))
	for id := range p.vertices {
		ids = append(ids, id)
	}
	// Deterministic order matters: Floyd–Warshall's result doesn't depend
	// on vertex order, but the edges materialized by a create=true run
	// (and therefore test fixtures comparing against it) should be
	// reproducible run to run.
	sort.Ints(ids)
	return ids
}

// Consistent reports whether, after the last propagation, every pair
// satisfies weight_min <= weight_max (spec §8: "w(e.i,e.j) + w(e.j,e.i) >=
// 0, else the STN is inconsistent"), without mutating any edge.
func (p *PSTN) Consistent() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for k, e := range p.edges {
		rev, ok := p.edges[edgeKey{k.To, k.From}]
		if !ok {
			continue
		}
		if e.Weight+rev.Weight < 0 {
			return false
		}
	}
	return true
}
