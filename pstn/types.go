// Package pstn implements the Probabilistic Simple Temporal Network graph
// model: timepoints (vertices), directed requirement/interagent/contingent
// edges, and the all-pairs propagation that keeps them consistent.
//
// The struct shapes and locking discipline are grounded on lvlath's
// core/types.go and core/api.go (Vertex/Edge/Graph + RWMutex-protected thin
// facade), generalized from lvlath's string-keyed undirected multigraph to
// the directed, integer-keyed, signed-weight graph a PSTN requires.
package pstn

import (
	"errors"
	"sync"

	"github.com/katalvlaran/pstnexec/pstn/distribution"
)

// Sentinel errors for PSTN operations, following the teacher's
// package-level sentinel + errors.Is convention (lvlath builder/errors.go).
var (
	// ErrVertexNotFound indicates an operation referenced a non-existent timepoint.
	ErrVertexNotFound = errors.New("pstn: vertex not found")

	// ErrVertexExists indicates add_vertex was called with a duplicate id.
	ErrVertexExists = errors.New("pstn: vertex already exists")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("pstn: edge not found")

	// ErrMultipleContingentParents is an internal invariant violation: a
	// contingent head may have at most one incoming contingent edge (§3).
	ErrMultipleContingentParents = errors.New("pstn: vertex has more than one contingent parent")

	// ErrAlreadyExecuted signals a programmer error: Vertex.Executed is
	// monotonic (§3 "Executed monotonicity"), re-assigning with a different
	// time is never valid.
	ErrAlreadyExecuted = errors.New("pstn: vertex already executed with a different time")
)

// Infinity is the sentinel used for "no constraint" directed weights. It is
// large enough that three additions (as Floyd–Warshall performs) never
// overflow int64, and small enough that comparisons against real assigned
// times (bounded by the problem's actual horizon) are unambiguous.
const Infinity int64 = 1 << 52

// ZeroTimepoint is the id of Z, the always-present reference origin.
const ZeroTimepoint int = 0

// Vertex is a timepoint: a stable integer id, an optional owning agent, and
// an executed mark. Per the Open Question decision in DESIGN.md, Vertex
// carries no local-id field (the reference's Vertex.copy references one
// that was never defined).
type Vertex struct {
	ID       int
	Owner    *int // nil means no owner (Z, or a requirement-only anchor)
	Executed bool
}

// Clone returns an independent copy of v.
func (v *Vertex) Clone() *Vertex {
	nv := &Vertex{ID: v.ID, Executed: v.Executed}
	if v.Owner != nil {
		owner := *v.Owner
		nv.Owner = &owner
	}
	return nv
}

// edgeKey is the directed (From, To) key edges are stored under.
type edgeKey struct {
	From, To int
}

// Edge is a single directed weight entry Cij (spec §3: "the weight between
// i and j"). Dist is non-nil only on the edge running from a contingent
// edge's source to its head (the direction the duration distribution
// actually describes); the converse direction carries only the derived
// hard bound.
//
// Forward marks which of a constrained pair's two stored entries is the
// genuine precedence direction (the (i,j) an AddEdge/UpdateEdge caller
// actually named) versus the converse bound derived alongside it; only
// the Forward entry counts as "incoming" for dispatch ordering (see
// IncomingEdges) — without this, a single requirement pair would make
// each endpoint a "predecessor" of the other and every dispatch would
// deadlock immediately.
type Edge struct {
	From, To int
	Weight   int64
	Dist     *distribution.Distribution
	Forward  bool
}

// Kind classifies an (i,j) pair per spec §3.
type Kind int

const (
	KindRequirement Kind = iota
	KindInteragent
	KindContingent
)

// PSTN is the graph: a vertex map, a directed edge map keyed by (i,j), the
// contingent parent map, and agent/edge-class bookkeeping (spec §3 "Data
// model"). PSTN values are meant to be used through *PSTN; Copy() produces
// an independently-mutable deep snapshot (§3 "PSTNs are value types").
type PSTN struct {
	mu sync.RWMutex

	vertices map[int]*Vertex
	edges    map[edgeKey]*Edge

	parent             map[int]int // contingent head -> its single parent
	receivedTimepoints map[int]struct{}

	contingentEdges  map[edgeKey]Kind // edgeKey -> KindContingent, for both directions of the pair
	interagentEdges  map[edgeKey]Kind
	requirementEdges map[edgeKey]Kind

	agents []int

	sampledTime map[edgeKey]int64 // last contingent-edge resample, ms

	nextVertexID int
}

// New creates an empty PSTN with Z (id 0, no owner) already present.
func New() *PSTN {
	p := &PSTN{
		vertices:         make(map[int]*Vertex),
		edges:            make(map[edgeKey]*Edge),
		parent:           make(map[int]int),
		receivedTimepoints: make(map[int]struct{}),
		contingentEdges:  make(map[edgeKey]Kind),
		interagentEdges:  make(map[edgeKey]Kind),
		requirementEdges: make(map[edgeKey]Kind),
		sampledTime:      make(map[edgeKey]int64),
		nextVertexID:     1,
	}
	p.vertices[ZeroTimepoint] = &Vertex{ID: ZeroTimepoint}
	return p
}
