// Package distribution implements the contingent duration distributions a
// PSTN's uncontrollable edges are drawn from: Gaussian and Uniform.
//
// Sampling and inverse-CDF (quantile) evaluation are delegated to
// gonum.org/v1/gonum/stat/distuv, the way samuelfneumann-GoLearn wires its
// environment starters and policies to distuv.Normal / distuv.Uniform with
// an injected rand.Source rather than a package-global RNG.
package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kind tags which family a Distribution belongs to.
type Kind int

const (
	// KindGaussian is a normal distribution, parameterized by mean and
	// standard deviation (both in milliseconds once constructed).
	KindGaussian Kind = iota
	// KindUniform is a uniform distribution over [Lb, Ub] milliseconds.
	KindUniform
)

// Distribution is the tagged sum contingent edges carry: a Gaussian or a
// Uniform, never both. All fields are stored already scaled to
// milliseconds, as float64 (spec §3: "internally scaled ×1000").
type Distribution struct {
	Kind Kind
	Mu   float64 // Gaussian mean, ms
	Sigma float64 // Gaussian std-dev, ms
	Lb   float64 // Uniform lower bound, ms
	Ub   float64 // Uniform upper bound, ms
}

// NewGaussian builds a Gaussian distribution from mean/variance given in
// seconds (the JSON wire units, §6), scaling to milliseconds internally.
func NewGaussian(meanSeconds, varianceSeconds float64) Distribution {
	sigmaSeconds := math.Sqrt(varianceSeconds)
	return Distribution{
		Kind:  KindGaussian,
		Mu:    meanSeconds * 1000,
		Sigma: sigmaSeconds * 1000,
	}
}

// NewUniform builds a Uniform distribution from bounds given in seconds.
func NewUniform(lbSeconds, ubSeconds float64) Distribution {
	return Distribution{
		Kind: KindUniform,
		Lb:   lbSeconds * 1000,
		Ub:   ubSeconds * 1000,
	}
}

// Tag reproduces the reference's distribution naming scheme, "N_<mu>_<sigma>"
// or "U_<lb>_<ub>" (values in milliseconds), for diagnostics; nothing in
// this module parses a tag back into a Distribution.
func (d Distribution) Tag() string {
	switch d.Kind {
	case KindGaussian:
		return fmt.Sprintf("N_%g_%g", d.Mu, d.Sigma)
	case KindUniform:
		return fmt.Sprintf("U_%g_%g", d.Lb, d.Ub)
	default:
		return "unknown"
	}
}

// rander adapts a Distribution to the underlying distuv type for a given
// random source, constructed fresh per call since distuv distributions are
// cheap value types and the Src may change between samples.
func (d Distribution) rander(src rand.Source) distuv.Rander {
	switch d.Kind {
	case KindGaussian:
		return distuv.Normal{Mu: d.Mu, Sigma: d.Sigma, Src: src}
	case KindUniform:
		return distuv.Uniform{Min: d.Lb, Max: d.Ub, Src: src}
	default:
		panic(fmt.Sprintf("distribution: unknown kind %d", d.Kind))
	}
}

// Rand draws a single sample in milliseconds, using rng as the entropy
// source. Gaussian samples are clamped at 0 (spec §4.1: "Gaussian samples
// are clamped at 0").
func (d Distribution) Rand(rng rand.Source) float64 {
	v := d.rander(rng).Rand()
	if d.Kind == KindGaussian && v < 0 {
		return 0
	}
	return v
}

// Quantile evaluates the inverse CDF F⁻¹(p) in milliseconds, used by the LP
// builder to compute the p_ij/p_ji/L_ij/L_ji cut-points of §4.2.
func (d Distribution) Quantile(p float64) float64 {
	switch d.Kind {
	case KindGaussian:
		return distuv.Normal{Mu: d.Mu, Sigma: d.Sigma}.Quantile(p)
	case KindUniform:
		return distuv.Uniform{Min: d.Lb, Max: d.Ub}.Quantile(p)
	default:
		panic(fmt.Sprintf("distribution: unknown kind %d", d.Kind))
	}
}

// CDF evaluates F(x), primarily used by tests and diagnostics.
func (d Distribution) CDF(x float64) float64 {
	switch d.Kind {
	case KindGaussian:
		return distuv.Normal{Mu: d.Mu, Sigma: d.Sigma}.CDF(x)
	case KindUniform:
		return distuv.Uniform{Min: d.Lb, Max: d.Ub}.CDF(x)
	default:
		panic(fmt.Sprintf("distribution: unknown kind %d", d.Kind))
	}
}
