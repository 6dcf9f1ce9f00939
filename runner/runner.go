// Package runner fans N independent samples of one PSTN out over a worker
// pool and aggregates the resulting robustness/reschedule/send statistics
// (spec §6 CSV columns), grounded on the reference's run_simulator.py
// "multiple_simulations"/"across_paths". Workers run on
// golang.org/x/sync/errgroup rather than Python's multiprocessing.Pool.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pstnexec/decoupled"
	"github.com/katalvlaran/pstnexec/dispatch"
	"github.com/katalvlaran/pstnexec/internal/plog"
	"github.com/katalvlaran/pstnexec/pstn"
)

// maxPoolAttempts and poolRetryBackoff bound the worker-pool retry (spec
// §5/§7 "transient worker I/O failure... retried a bounded number of
// times with small backoff; final failure surfaces to the driver"),
// grounded on run_simulator.py's "try_count <= 3" loop around
// multiprocessing.Pool creation, which retries the whole pool after a
// fixed sleep rather than the individual failing task.
const (
	maxPoolAttempts  = 4
	poolRetryBackoff = 50 * time.Millisecond
)

// Options configures one sample-set run (spec §6 CLI surface).
type Options struct {
	Execution   dispatch.Variant
	Decoupled   bool
	DecoupleStrategy decoupled.Strategy
	Threads     int
	Samples     int
	BaseSeed    uint64
	ARThreshold float64
	SIThreshold float64
	LowerAlpha  float64
	UpperAlpha  float64
	Logger      *slog.Logger
}

// Stats is one sample-set's aggregate result, matching the CSV columns
// that depend on the simulation run itself rather than the source STN's
// static shape (spec §6).
type Stats struct {
	Robustness     float64
	RescheduleFreq float64
	SendFreq       float64
	RuntimeSeconds float64
}

// Run executes opts.Samples independent simulations of stn concurrently
// (bounded by opts.Threads) and returns the aggregate statistics. The
// worker pool is re-created with a short backoff on failure, up to
// maxPoolAttempts times, before the last error surfaces to the caller.
func Run(stn *pstn.PSTN, opts Options) (Stats, error) {
	start := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = plog.Silent()
	}

	seeds := deriveSeeds(opts.BaseSeed, opts.Samples)

	successes := make([]bool, opts.Samples)
	reschedules := make([]int, opts.Samples)
	sent := make([]int, opts.Samples)

	var runErr error
	for attempt := 1; attempt <= maxPoolAttempts; attempt++ {
		runErr = runPool(stn, opts, seeds, successes, reschedules, sent, logger)
		if runErr == nil {
			break
		}
		if attempt < maxPoolAttempts {
			logger.Warn("runner: worker pool failed, retrying", "attempt", attempt, "error", runErr)
			time.Sleep(poolRetryBackoff * time.Duration(attempt))
		}
	}
	if runErr != nil {
		return Stats{}, fmt.Errorf("runner: worker pool failed after %d attempts: %w", maxPoolAttempts, runErr)
	}

	return Stats{
		Robustness:     average(boolsToFloats(successes)),
		RescheduleFreq: averageInts(reschedules),
		SendFreq:       averageInts(sent),
		RuntimeSeconds: time.Since(start).Seconds(),
	}, nil
}

// runPool runs one attempt of the sample fan-out: opts.Samples
// simulations bounded to opts.Threads concurrent workers via a semaphore
// channel. Its error is the transient-failure signal Run retries on.
func runPool(stn *pstn.PSTN, opts Options, seeds []uint64, successes []bool, reschedules, sent []int, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, maxInt(1, opts.Threads))

	for i := 0; i < opts.Samples; i++ {
		i := i
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			if opts.Decoupled {
				sim := decoupled.New(opts.DecoupleStrategy, opts.LowerAlpha, opts.UpperAlpha, seeds[i], logger)
				res := sim.Simulate(stn)
				successes[i] = res.Success
				reschedules[i] = res.NumReschedules
				sent[i] = res.NumSentSchedules
				return nil
			}

			sim := dispatch.New(opts.Execution, opts.ARThreshold, opts.SIThreshold, seeds[i], logger)
			res := sim.Simulate(stn)
			successes[i] = res.Success
			reschedules[i] = res.NumReschedules
			sent[i] = res.NumSentSchedules
			return nil
		})
	}
	return g.Wait()
}

// deriveSeeds expands one base seed into count per-sample seeds (spec
// §5/§9 "resampling reproducibility": every worker gets an independent,
// deterministically-derived seed), mirroring the reference's
// np.random.RandomState(seed).randint per-sample stream.
func deriveSeeds(base uint64, count int) []uint64 {
	src := rand.NewSource(base)
	seeds := make([]uint64, count)
	for i := range seeds {
		seeds[i] = src.Uint64()
	}
	return seeds
}

func boolsToFloats(bs []bool) []float64 {
	out := make([]float64, len(bs))
	for i, b := range bs {
		if b {
			out[i] = 1
		}
	}
	return out
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func averageInts(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// STNShapeStats computes the static, structural CSV columns that depend
// only on the source STN's shape, not on any simulation run (spec §6:
// synchronous_density, sd_avg, vert_count, contingent_density), grounded
// on run_simulator.py's "across_paths".
type STNShapeStats struct {
	VertCount          int
	ContingentDensity  float64
	SynchronousDensity float64
	SDAvg              float64
}

// ComputeShapeStats derives STNShapeStats from stn.
func ComputeShapeStats(stn *pstn.PSTN) STNShapeStats {
	vertCount := len(stn.Vertices())
	contingent := stn.ContingentEdges()
	interagent := stn.InteragentEdges()
	totalEdges := countTotalEdges(stn)

	var contDens, syncDens float64
	if totalEdges > 0 {
		contDens = float64(len(contingent)) / float64(totalEdges)
		syncDens = float64(len(interagent)) / float64(totalEdges)
	}

	var totalSigma float64
	for _, pair := range contingent {
		if e, ok := stn.Edge(pair[0], pair[1]); ok && e.Dist != nil {
			totalSigma += e.Dist.Sigma
		}
	}
	var sdAvg float64
	if len(contingent) > 0 {
		sdAvg = totalSigma / float64(len(contingent))
	}

	return STNShapeStats{
		VertCount:          vertCount,
		ContingentDensity:  contDens,
		SynchronousDensity: syncDens,
		SDAvg:              sdAvg,
	}
}

// countTotalEdges counts constrained pairs, not stored (i,j)+(j,i)
// entries — each pair is one logical edge in the reference's stn.edges.
func countTotalEdges(stn *pstn.PSTN) int {
	seen := make(map[[2]int]struct{})
	for _, id := range stn.Vertices() {
		for _, e := range stn.IncomingEdges(id) {
			pair := [2]int{e.From, e.To}
			seen[pair] = struct{}{}
		}
	}
	return len(seen)
}
