// Package decoupled implements the Decoupled Monte-Carlo simulator (spec
// §4.6): identical control flow to dispatch.Simulator, except the guide is
// a list — one sub-STN per agent — and at each step the globally-earliest
// candidate across every sub-guide wins. Grounded on the reference's
// dmontsim.py, which subclasses its single-guide Simulator and overrides
// get_guide to always run the DREA policy (reschedule on first_run or on
// any contingent observation) against each sub-STN independently.
package decoupled

import (
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/katalvlaran/pstnexec/decouple"
	"github.com/katalvlaran/pstnexec/dispatch"
	"github.com/katalvlaran/pstnexec/internal/plog"
	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/srea"
)

// Strategy names the decoupling strategy used to seed the per-agent
// sub-STNs (spec §4.3 / §6 CLI "da" variant).
type Strategy string

const (
	Opt  Strategy = "opt_inter"
	SREA Strategy = "srea"
)

// Simulator runs the decoupled dispatch loop with one seeded RNG, owned
// privately per spec §5 exactly like dispatch.Simulator.
type Simulator struct {
	strategy    Strategy
	lowerAlpha  float64
	upperAlpha  float64
	rng         rand.Source
	logger      *slog.Logger
	numReschedules   int
	numSentSchedules int
}

// New constructs a decoupled Simulator for one sample. A nil logger
// defaults to plog.Silent().
func New(strategy Strategy, lowerAlpha, upperAlpha float64, seed uint64, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = plog.Silent()
	}
	return &Simulator{
		strategy:   strategy,
		lowerAlpha: lowerAlpha,
		upperAlpha: upperAlpha,
		rng:        rand.NewSource(seed),
		logger:     logger,
	}
}

// Result mirrors dispatch.Result.
type Result struct {
	Success          bool
	NumReschedules   int
	NumSentSchedules int
	Assignment       *pstn.PSTN
}

type agentState struct {
	firstRun           bool
	executedContingent bool
	executedTime       int64
}

// Simulate runs one full decoupled dispatch of input (spec §4.6). input is
// never mutated.
func (s *Simulator) Simulate(input *pstn.PSTN) Result {
	working := input.Copy()
	assignment := input.Copy()
	working.Resample(s.rng)

	agents := working.Agents()
	subs := s.instantiateSubproblems(working)
	if subs != nil {
		// Every sub-STN holds Z already executed at time 0, so no guide
		// ever offers Z as a candidate; record the same on the whole STN.
		working.Assign(pstn.ZeroTimepoint, 0)
		assignment.Assign(pstn.ZeroTimepoint, 0)
	}

	states := make([]agentState, len(agents))
	guides := make([]*pstn.PSTN, len(agents))
	for i := range agents {
		states[i] = agentState{firstRun: true}
		if subs != nil {
			guides[i] = subs[agents[i]]
		} else {
			guides[i] = working
		}
	}
	prevAlpha := 0.0
	currentTime := int64(0)

	for !allAssigned(assignment) {
		if subs != nil {
			for i, agent := range agents {
				sub := subs[agent]
				var g *pstn.PSTN
				prevAlpha, g = s.getGuide(sub, prevAlpha, guides[i], states[i])
				guides[i] = g
				states[i].firstRun = false
			}
		} else {
			// Decoupling failed up front: spec §4.6's final paragraph —
			// every agent falls back to "early", the original STN.
			for i := range agents {
				guides[i] = working
				states[i].firstRun = false
			}
		}

		v, t, hadContingent, ok := earliestAcrossGuides(guides, currentTime)
		if !ok {
			s.logger.Debug("decoupled: no eligible timepoint across any guide", "strategy", s.strategy)
			return Result{Success: false, NumReschedules: s.numReschedules, NumSentSchedules: s.numSentSchedules, Assignment: assignment}
		}
		for i := range agents {
			states[i].executedContingent = hadContingent
			states[i].executedTime = t
		}

		for _, g := range guides {
			if _, found := g.Vertex(v); found {
				g.Assign(v, t)
			}
		}
		if subs != nil {
			for _, sub := range subs {
				if _, found := sub.Vertex(v); found {
					sub.Assign(v, t)
				}
			}
		}
		working.Assign(v, t)
		assignment.Assign(v, t)

		propagatedWhole := working.Copy()
		if !propagatedWhole.FloydWarshall(true) {
			return Result{Success: false, NumReschedules: s.numReschedules, NumSentSchedules: s.numSentSchedules, Assignment: assignment}
		}
		working = propagatedWhole

		if subs != nil {
			for agent, sub := range subs {
				propagatedSub := sub.Copy()
				if !propagatedSub.FloydWarshall(true) {
					// The whole STN is consistent but this sub-STN is not:
					// fail fast rather than keep following a decoupling
					// whose local commitments we just violated.
					return Result{Success: false, NumReschedules: s.numReschedules, NumSentSchedules: s.numSentSchedules, Assignment: assignment}
				}
				subs[agent] = propagatedSub
			}
		}

		working.PruneExecuted()
		if subs != nil {
			for _, sub := range subs {
				sub.PruneExecuted()
			}
		}

		currentTime = t
	}

	assignment.FloydWarshall(true)
	return Result{
		Success:          assignment.Consistent(),
		NumReschedules:   s.numReschedules,
		NumSentSchedules: s.numSentSchedules,
		Assignment:       assignment,
	}
}

// instantiateSubproblems runs the configured decoupling strategy, returning
// nil if it fails (the caller falls back to "early" for every agent).
func (s *Simulator) instantiateSubproblems(stn *pstn.PSTN) map[int]*pstn.PSTN {
	var subs map[int]*pstn.PSTN
	var ok bool
	switch s.strategy {
	case SREA:
		_, subs, ok = decouple.SREA(stn, s.lowerAlpha, s.upperAlpha)
	default:
		_, subs, ok = decouple.Optimal(stn, s.lowerAlpha, s.upperAlpha)
	}
	if !ok {
		s.logger.Debug("decoupled: decoupling failed, falling back to early for every agent", "strategy", s.strategy)
		return nil
	}
	return subs
}

// getGuide is the DREA policy, fixed per the reference's
// DecoupledSimulator.get_guide override (always _drea_algorithm,
// irrespective of any single-agent execution strategy).
func (s *Simulator) getGuide(sub *pstn.PSTN, prevAlpha float64, prevGuide *pstn.PSTN, st agentState) (float64, *pstn.PSTN) {
	if !st.firstRun && !st.executedContingent {
		return prevAlpha, prevGuide
	}
	s.numReschedules++
	a, g, ok := srea.Run(sub, srea.WithAlphaBounds(s.lowerAlpha, s.upperAlpha), srea.WithLogger(s.logger))
	if !ok {
		return prevAlpha, prevGuide
	}
	s.numSentSchedules++
	return a, g
}

// earliestAcrossGuides scans every per-agent guide via
// dispatch.SelectNextTimepoint and keeps the globally-earliest candidate
// (spec §4.6 point 2).
func earliestAcrossGuides(guides []*pstn.PSTN, currentTime int64) (v int, t int64, hadContingent bool, ok bool) {
	bestV := -1
	var bestT int64
	var bestContingent bool
	for _, g := range guides {
		cv, ct, cc, cok := dispatch.SelectNextTimepoint(g, currentTime)
		if !cok {
			continue
		}
		if bestV == -1 || ct < bestT {
			bestV, bestT, bestContingent = cv, ct, cc
		}
	}
	if bestV == -1 {
		return 0, 0, false, false
	}
	return bestV, bestT, bestContingent, true
}

func allAssigned(stn *pstn.PSTN) bool {
	for _, id := range stn.Vertices() {
		if !stn.IsExecuted(id) {
			return false
		}
	}
	return true
}
