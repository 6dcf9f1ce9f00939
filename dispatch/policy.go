package dispatch

import (
	"math"

	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/srea"
)

// Variant names one of the ten reschedule-policy strategies (spec §4.5).
// Kept as a tagged variant with per-strategy dispatch rather than ad-hoc
// flags, per spec §9's explicit design note.
type Variant string

const (
	Early    Variant = "early"
	SREA     Variant = "srea"
	DREA     Variant = "drea"
	DREAS    Variant = "drea-s"
	DREASI   Variant = "drea-si"
	DREAALP  Variant = "drea-alp"
	DREAAR   Variant = "drea-ar"
	DREAARA  Variant = "drea-ara"
	ARSI     Variant = "arsi"
	ARSC     Variant = "arsc"
)

// getGuide implements spec §4.5's get_guide for the simulator's configured
// strategy, mutating s's reschedule/send counters and per-strategy state
// (arCounter, araFactor) as it goes.
func (s *Simulator) getGuide(working *pstn.PSTN, prevAlpha float64, prevGuide *pstn.PSTN, ls loopState) (float64, *pstn.PSTN) {
	switch s.variant {
	case Early:
		return 1.0, working

	case SREA:
		if ls.firstRun {
			return s.firstRunReschedule(working, prevAlpha, prevGuide)
		}
		return prevAlpha, prevGuide

	case DREA:
		if ls.firstRun {
			return s.firstRunReschedule(working, prevAlpha, prevGuide)
		}
		if ls.executedContingent {
			if a, g, ok := s.rescheduleAndSend(working); ok {
				return a, g
			}
		}
		return prevAlpha, prevGuide

	case DREAS:
		if ls.firstRun {
			return s.firstRunReschedule(working, prevAlpha, prevGuide)
		}
		if ls.executedContingent && (ls.executedTime < ls.guideMin || ls.executedTime > ls.guideMax) {
			if a, g, ok := s.rescheduleAndSend(working); ok {
				return a, g
			}
		}
		return prevAlpha, prevGuide

	case DREASI:
		return s.dreaSIorALP(working, prevAlpha, prevGuide, ls, s.siThreshold, func(a, prevA float64, n int) float64 {
			p0 := math.Pow(1-prevA, float64(n))
			p1 := math.Pow(1-a, float64(n))
			return p1 - p0
		})

	case DREAALP:
		return s.dreaSIorALP(working, prevAlpha, prevGuide, ls, s.siThreshold, func(a, prevA float64, n int) float64 {
			return math.Abs(a - prevA)
		})

	case DREAAR:
		if ls.executedContingent {
			s.arCounter++
		}
		if ls.firstRun {
			return s.firstRunReschedule(working, prevAlpha, prevGuide)
		}
		if !ls.executedContingent {
			return prevAlpha, prevGuide
		}
		n := arWindow(prevAlpha, s.arThreshold)
		if s.arCounter >= n {
			if a, g, ok := s.rescheduleAndSend(working); ok {
				s.arCounter = 0
				return a, g
			}
		}
		return prevAlpha, prevGuide

	case DREAARA:
		if ls.firstRun {
			s.araFactor = 1
			return s.firstRunReschedule(working, prevAlpha, prevGuide)
		}
		if !ls.executedContingent {
			return prevAlpha, prevGuide
		}
		inBounds := ls.executedTime >= ls.guideMin && ls.executedTime <= ls.guideMax
		if inBounds {
			s.araFactor *= 1 - prevAlpha
		} else {
			s.araFactor = math.Min(1-prevAlpha, prevAlpha/2)
		}
		if s.araFactor <= s.arThreshold {
			if a, g, ok := s.rescheduleAndSend(working); ok {
				s.araFactor = 1
				return a, g
			}
		}
		return prevAlpha, prevGuide

	case ARSI, ARSC:
		if ls.executedContingent {
			s.arCounter++
		}
		if ls.firstRun {
			return s.firstRunReschedule(working, prevAlpha, prevGuide)
		}
		if !ls.executedContingent {
			return prevAlpha, prevGuide
		}
		n := arWindow(prevAlpha, s.arThreshold)
		if s.arCounter < n {
			return prevAlpha, prevGuide
		}
		a, g, ok := s.runSREA(working)
		if !ok {
			return prevAlpha, prevGuide
		}
		if math.Abs(a-prevAlpha) >= s.siThreshold {
			s.numSentSchedules++
			s.arCounter = 0
			return a, g
		}
		return prevAlpha, prevGuide
	}

	return prevAlpha, prevGuide
}

// dreaSIorALP is the shared skeleton for DREA-SI and DREA-ALP (spec §4.5):
// both reschedule internally on a contingent observation to get a
// candidate, then gate sending it on a metric computed from the candidate
// versus the previous alpha.
func (s *Simulator) dreaSIorALP(working *pstn.PSTN, prevAlpha float64, prevGuide *pstn.PSTN, ls loopState, threshold float64, metric func(newAlpha, prevAlpha float64, remaining int) float64) (float64, *pstn.PSTN) {
	if ls.firstRun {
		return s.firstRunReschedule(working, prevAlpha, prevGuide)
	}
	if !ls.executedContingent {
		return prevAlpha, prevGuide
	}
	a, g, ok := s.runSREA(working)
	if !ok {
		return prevAlpha, prevGuide
	}
	n := remainingContingentCount(g)
	if metric(a, prevAlpha, n) > threshold {
		s.numSentSchedules++
		return a, g
	}
	return prevAlpha, prevGuide
}

// arWindow computes n = max k such that (1-prevAlpha)^(k+1) > threshold
// (spec §4.5 DREA-AR), treating threshold == 0 as n = infinity and
// capping the search at 100 steps.
func arWindow(prevAlpha, threshold float64) int {
	if threshold == 0 {
		return math.MaxInt32
	}
	n := 0
	for attempts := 0; math.Pow(1-prevAlpha, float64(n+1)) > threshold && attempts < 100; attempts++ {
		n++
	}
	return n
}

// remainingContingentCount counts the contingent heads not yet executed
// in stn (spec §4.5 "n = remaining unexecuted contingent vertices").
func remainingContingentCount(stn *pstn.PSTN) int {
	n := 0
	for _, pair := range stn.ContingentEdges() {
		head := pair[1]
		if !stn.IsExecuted(head) {
			n++
		}
	}
	return n
}

// rescheduleAndSend runs SREA, always counting the attempt as a
// reschedule, and counts it as sent only when SREA succeeds (spec §4.5
// "srea_reschedule"): used by drea, drea-s, drea-ar and drea-ara after
// their first run.
func (s *Simulator) rescheduleAndSend(working *pstn.PSTN) (alpha float64, guide *pstn.PSTN, ok bool) {
	s.numReschedules++
	a, g, solved := srea.Run(working, srea.WithLogger(s.logger))
	if !solved {
		return 0, nil, false
	}
	s.numSentSchedules++
	return a, g, true
}

// firstRunReschedule is srea_reschedule specialized for a policy's first
// run: per the DESIGN.md Open-Question decision, the first guide always
// counts as sent, even if SREA itself fails (in which case the caller's
// previous alpha/guide are returned unchanged as the emitted guide).
func (s *Simulator) firstRunReschedule(working *pstn.PSTN, prevAlpha float64, prevGuide *pstn.PSTN) (float64, *pstn.PSTN) {
	s.numReschedules++
	s.numSentSchedules++
	a, g, ok := srea.Run(working, srea.WithLogger(s.logger))
	if !ok {
		return prevAlpha, prevGuide
	}
	return a, g
}

// runSREA runs SREA, counting only the reschedule attempt — used by
// policies (DREA-SI, DREA-ALP, ARSI/ARSC) whose send decision is gated
// separately from the reschedule itself.
func (s *Simulator) runSREA(working *pstn.PSTN) (float64, *pstn.PSTN, bool) {
	s.numReschedules++
	return srea.Run(working, srea.WithLogger(s.logger))
}
