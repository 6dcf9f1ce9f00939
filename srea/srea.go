// Package srea implements the Static Robust Execution Algorithm: a
// binary search over risk level alpha wrapping the Lund et al. LP,
// returning the tightest feasible alpha and its schedule envelope
// (spec §4.2).
package srea

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/pstnexec/internal/plog"
	"github.com/katalvlaran/pstnexec/pstn"
)

// Option configures a SREA run, following lvlath's functional-options
// idiom (dijkstra/types.go: Option func(*Options) + DefaultOptions).
type Option func(*Options)

// Options bounds the alpha binary search and controls whether SREA is
// being invoked as the inner step of a decoupling strategy.
type Options struct {
	AlphaLowerBound float64
	AlphaUpperBound float64
	Decouple        bool
	Logger          *slog.Logger
}

// DefaultOptions mirrors spec §4.2's stated defaults.
func DefaultOptions() Options {
	return Options{AlphaLowerBound: 0.0, AlphaUpperBound: 0.999, Logger: plog.Silent()}
}

// WithLogger injects a logger for this SREA run's binary-search trace,
// defaulting to plog.Silent() when not set.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithAlphaBounds overrides the binary search's [lb, ub] range.
func WithAlphaBounds(lb, ub float64) Option {
	return func(o *Options) {
		o.AlphaLowerBound = lb
		o.AlphaUpperBound = ub
	}
}

// WithDecouple marks this SREA run as an inner step of a decoupling
// strategy: propagation and requirement-edge LP rows are skipped, since
// the decoupling caller is responsible for supplying its own tightened
// bounds (spec §4.2 "decouple" flag).
func WithDecouple() Option {
	return func(o *Options) {
		o.Decouple = true
	}
}

// Run executes SREA against p (spec §4.2). It returns the smallest
// feasible alpha at milli-precision and the propagated envelope STN
// reflecting that alpha's bound solution, or ok=false if no feasible
// alpha <= upper bound exists. The lower bound itself is never tried:
// when it is feasible, the returned alpha is one milli-step above it.
func Run(p *pstn.PSTN, opts ...Option) (alpha float64, envelope *pstn.PSTN, ok bool) {
	o := DefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	work := p.Copy()
	if !o.Decouple {
		if !work.FloydWarshall(true) {
			o.Logger.Debug("srea: input inconsistent before binary search")
			return 0, nil, false
		}
	}

	lo := int(math.Round(o.AlphaLowerBound * 1000))
	hi := int(math.Round(o.AlphaUpperBound * 1000))

	bestM := -1
	var bestVals map[int]vars
	var bestX []float64

	// test tries alpha = m/1000 and, if feasible, records it as the best
	// (smallest) feasible alpha seen so far — correct because hi only ever
	// moves down to a feasible mid, so each newly recorded bestM is
	// smaller than every one recorded before it.
	test := func(m int) bool {
		a := float64(m) / 1000
		model, idx := buildLP(work, a, o.Decouple)
		x, solved := model.Solve(1e-7)
		if solved {
			bestM, bestVals, bestX = m, idx, x
		}
		return solved
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if test(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	if bestM == -1 {
		test(hi)
	}
	if bestM == -1 {
		o.Logger.Debug("srea: no feasible alpha in search range", "lower", o.AlphaLowerBound, "upper", o.AlphaUpperBound)
		return 0, nil, false
	}
	o.Logger.Debug("srea: feasible alpha found", "alpha", float64(bestM)/1000)

	out := work.Copy()
	for id, v := range bestVals {
		hiBound := bestX[v.plus]
		loBound := bestX[v.minus]
		out.UpdateEdge(pstn.ZeroTimepoint, id, int64(math.Ceil(hiBound)), false, true, true)
		out.UpdateEdge(id, pstn.ZeroTimepoint, int64(math.Ceil(-loBound)), false, true, true)
	}

	return float64(bestM) / 1000, out, true
}
