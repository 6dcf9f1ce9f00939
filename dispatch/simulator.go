// Package dispatch implements the Monte-Carlo dispatch simulator (spec
// §4.4): per sample, resample contingent edges, repeatedly ask the
// configured reschedule policy for a guide, select and assign the
// earliest-feasible timepoint, and propagate — reporting success iff
// every timepoint was assigned without the STN ever going inconsistent.
package dispatch

import (
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/katalvlaran/pstnexec/internal/plog"
	"github.com/katalvlaran/pstnexec/pstn"
)

// Simulator runs one execution strategy against one seeded RNG. Per spec
// §5 "Shared resources", a Simulator owns its RNG and counters privately
// and is never shared across concurrent samples — callers construct one
// Simulator per sample.
type Simulator struct {
	variant Variant

	arThreshold float64
	siThreshold float64

	rng rand.Source

	logger *slog.Logger

	numReschedules   int
	numSentSchedules int

	arCounter int
	araFactor float64
}

// New constructs a Simulator for one sample, seeded deterministically by
// the caller (spec §9 "Resampling reproducibility": the outer driver
// derives per-sample seeds from a base seed). A nil logger defaults to
// plog.Silent().
func New(variant Variant, arThreshold, siThreshold float64, seed uint64, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = plog.Silent()
	}
	return &Simulator{
		variant:     variant,
		arThreshold: arThreshold,
		siThreshold: siThreshold,
		rng:         rand.NewSource(seed),
		logger:      logger,
		araFactor:   1,
	}
}

// loopState mirrors the reference's per-iteration "options" dict (spec
// §4.4 step 3).
type loopState struct {
	firstRun           bool
	executedContingent bool
	executedTime       int64
	guideMin, guideMax int64
}

// Result reports one simulation's outcome along with the reschedule/send
// counters the caller aggregates into reschedule_freq / send_freq (spec
// §6 CSV columns).
type Result struct {
	Success          bool
	NumReschedules   int
	NumSentSchedules int
	Assignment       *pstn.PSTN
}

// Simulate runs one full dispatch of input (spec §4.4). input is never
// mutated; Simulate copies it internally.
func (s *Simulator) Simulate(input *pstn.PSTN) Result {
	working := input.Copy()
	assignment := input.Copy()
	working.Resample(s.rng)

	ls := loopState{firstRun: true}
	prevAlpha := 0.0
	var prevGuide *pstn.PSTN = working
	currentTime := int64(0)

	for !allAssigned(assignment) {
		alpha, guide := s.getGuide(working, prevAlpha, prevGuide, ls)
		ls.firstRun = false

		v, t, hadContingent, ok := SelectNextTimepoint(guide, currentTime)
		if !ok {
			s.logger.Debug("dispatch: no eligible timepoint", "variant", s.variant)
			return Result{Success: false, NumReschedules: s.numReschedules, NumSentSchedules: s.numSentSchedules, Assignment: assignment}
		}

		ls.executedContingent = hadContingent
		ls.executedTime = t
		ls.guideMax = guide.GetEdgeWeight(pstn.ZeroTimepoint, v)
		ls.guideMin = -guide.GetEdgeWeight(v, pstn.ZeroTimepoint)

		guide.Assign(v, t)
		working.Assign(v, t)
		assignment.Assign(v, t)

		propagated := working.Copy()
		if !propagated.FloydWarshall(true) {
			s.logger.Debug("dispatch: propagation went inconsistent", "variant", s.variant, "vertex", v)
			return Result{Success: false, NumReschedules: s.numReschedules, NumSentSchedules: s.numSentSchedules, Assignment: assignment}
		}
		propagated.PruneExecuted()
		working = propagated

		prevAlpha, prevGuide = alpha, guide
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

func allAssigned(stn *pstn.PSTN) bool {
	for _, id := range stn.Vertices() {
		if !stn.IsExecuted(id) {
			return false
		}
	}
	return true
}
