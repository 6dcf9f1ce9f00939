// Package resultio writes the simulator driver's sample-set result rows
// (spec §6 "CSV output row"). No CSV writer library appears anywhere in
// the retrieval pack, so this package is built on stdlib encoding/csv —
// see DESIGN.md for the justification.
package resultio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// header names every column in the order spec §6 lists them.
var header = []string{
	"execution", "robustness", "threads", "random_seed", "runtime",
	"samples", "timestamp", "stn_path", "ar_threshold", "si_threshold",
	"synchronous_density", "sd_avg", "vert_count", "contingent_density",
	"reschedule_freq", "send_freq",
}

// Row is one sample-set's summary statistics, ready to append (spec §6).
type Row struct {
	Execution           string
	Robustness           float64
	Threads              int
	RandomSeed           uint64
	RuntimeSeconds       float64
	Samples              int
	Timestamp            string
	STNPath              string
	ARThreshold          float64
	SIThreshold          float64
	SynchronousDensity   float64
	SDAvg                float64
	VertCount            int
	ContingentDensity    float64
	RescheduleFreq       float64
	SendFreq             float64
}

func (r Row) record() []string {
	return []string{
		r.Execution,
		strconv.FormatFloat(r.Robustness, 'g', -1, 64),
		strconv.Itoa(r.Threads),
		strconv.FormatUint(r.RandomSeed, 10),
		strconv.FormatFloat(r.RuntimeSeconds, 'g', -1, 64),
		strconv.Itoa(r.Samples),
		r.Timestamp,
		r.STNPath,
		strconv.FormatFloat(r.ARThreshold, 'g', -1, 64),
		strconv.FormatFloat(r.SIThreshold, 'g', -1, 64),
		strconv.FormatFloat(r.SynchronousDensity, 'g', -1, 64),
		strconv.FormatFloat(r.SDAvg, 'g', -1, 64),
		strconv.Itoa(r.VertCount),
		strconv.FormatFloat(r.ContingentDensity, 'g', -1, 64),
		strconv.FormatFloat(r.RescheduleFreq, 'g', -1, 64),
		strconv.FormatFloat(r.SendFreq, 'g', -1, 64),
	}
}

// Append opens path in append mode (creating it if absent), writes the
// header only if the file was just created, and writes one record for
// row (spec §6: "append-mode with a header written only when absent").
func Append(path string, row Row) error {
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("resultio: opening %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("resultio: writing header: %w", err)
		}
	}
	if err := w.Write(row.record()); err != nil {
		return fmt.Errorf("resultio: writing row: %w", err)
	}
	w.Flush()
	return w.Error()
}
