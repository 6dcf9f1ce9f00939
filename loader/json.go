// Package loader parses the PSTN JSON input format (spec §6 "PSTN JSON
// input"), grounded on the reference's libheat/stntools/mitparser.py. No
// JSON library appears anywhere in the retrieval pack beyond stdlib
// encoding/json (see DESIGN.md), so this package is stdlib by necessity,
// not preference.
package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/katalvlaran/pstnexec/pstn"
	"github.com/katalvlaran/pstnexec/pstn/distribution"
)

// edgeType names the three wire edge kinds (spec §6).
type edgeType string

const (
	typeControllable            edgeType = "controllable"
	typeUncontrollableProb      edgeType = "uncontrollable_probabilistic"
	typeUncontrollableBounded   edgeType = "uncontrollable_bounded"
)

type wireDistribution struct {
	Type     string  `json:"type"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Lb       float64 `json:"lb"`
	Ub       float64 `json:"ub"`
}

type wireProperties struct {
	Lb           float64           `json:"lb"`
	Ub           float64           `json:"ub"`
	Distribution *wireDistribution `json:"distribution"`
}

type wireEdge struct {
	Type           edgeType       `json:"type"`
	StartEventName string         `json:"start_event_name"`
	EndEventName   string         `json:"end_event_name"`
	Properties     wireProperties `json:"properties"`
}

type document struct {
	Instances []map[string][]wireEdge `json:"instances"`
}

// LoadFile reads path and parses every named instance in its "instances"
// array into an independent *pstn.PSTN, in array order; several names
// inside one array element come out in no fixed order.
func LoadFile(path string) ([]*pstn.PSTN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	return Load(data)
}

// Load parses a PSTN JSON document's bytes (spec §6).
func Load(data []byte) ([]*pstn.PSTN, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: malformed PSTN JSON: %w", err)
	}

	var out []*pstn.PSTN
	for _, inst := range doc.Instances {
		for _, edges := range inst {
			stn, err := buildSTN(edges)
			if err != nil {
				return nil, err
			}
			out = append(out, stn)
		}
	}
	return out, nil
}

// buildSTN interns event names to integer vertex ids in first-seen order
// and adds one edge per wire record (spec §6). Z (id 0) is already present
// per pstn.New(); since ids are then allocated starting at 1, a loaded
// network's own first event never collides with it regardless of whether
// a caller would have wanted a "synthetic Z" inserted explicitly.
func buildSTN(edges []wireEdge) (*pstn.PSTN, error) {
	stn := pstn.New()
	nameToID := make(map[string]int)

	intern := func(name string) int {
		if id, ok := nameToID[name]; ok {
			return id
		}
		id := stn.NextVertexID()
		nameToID[name] = id
		stn.AddVertex(id, nil)
		return id
	}

	for _, e := range edges {
		i := intern(e.StartEventName)
		j := intern(e.EndEventName)

		dist, err := parseDistribution(e)
		if err != nil {
			return nil, err
		}
		if dist == nil {
			lb := seconds(e.Properties.Lb)
			ub := seconds(e.Properties.Ub)
			stn.AddEdge(i, j, lb, ub, nil)
			continue
		}
		stn.AddEdge(i, j, -pstn.Infinity, pstn.Infinity, dist)
	}
	if err := stn.Validate(); err != nil {
		return nil, err
	}
	return stn, nil
}

// parseDistribution extracts the contingent distribution an edge carries,
// or (nil, nil) for a plain controllable edge (spec §6 / mitparser.py's
// _get_dist). uncontrollable_bounded is coerced to uniform[lb, ub].
func parseDistribution(e wireEdge) (*distribution.Distribution, error) {
	switch e.Type {
	case typeControllable:
		return nil, nil

	case typeUncontrollableBounded:
		d := distribution.NewUniform(e.Properties.Lb, e.Properties.Ub)
		return &d, nil

	case typeUncontrollableProb:
		if e.Properties.Distribution == nil {
			return nil, fmt.Errorf("loader: edge %s->%s: uncontrollable_probabilistic missing distribution", e.StartEventName, e.EndEventName)
		}
		switch e.Properties.Distribution.Type {
		case "gaussian":
			d := distribution.NewGaussian(e.Properties.Distribution.Mean, e.Properties.Distribution.Variance)
			return &d, nil
		case "uniform":
			d := distribution.NewUniform(e.Properties.Distribution.Lb, e.Properties.Distribution.Ub)
			return &d, nil
		default:
			return nil, fmt.Errorf("loader: edge %s->%s: unknown distribution type %q", e.StartEventName, e.EndEventName, e.Properties.Distribution.Type)
		}

	default:
		return nil, fmt.Errorf("loader: edge %s->%s: unknown edge type %q", e.StartEventName, e.EndEventName, e.Type)
	}
}

// seconds converts a JSON wire-format bound (seconds) to the PSTN's
// internal integer-millisecond scale (spec §3 "internally scaled x1000").
func seconds(v float64) int64 {
	return int64(math.Round(v * 1000))
}
