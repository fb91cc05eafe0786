package stimgen

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Band-limited noise generators.
//
// Reproducibility contract: identical parameters, including the explicit
// integer seed, yield bit-identical output on every invocation and in
// every process. The sample stream comes from math/rand's fixed
// algorithm seeded directly with the seed parameter; no global RNG state
// is involved.

// generateBinaryNoise emits segment-quantized two-level noise: the active
// segment is divided into runs of segmentTime ms, each held at
// mean ± amplitude with equal probability.
func generateBinaryNoise(p Params) ([]float64, float64, error) {
	t, err := timing(p)
	if err != nil {
		return nil, 0, err
	}
	amplitude, err := p.RequireFloat("amplitude")
	if err != nil {
		return nil, 0, err
	}
	seed, err := p.RequireSeed()
	if err != nil {
		return nil, 0, err
	}
	mean := p.Float("mean", 0)
	segPts := MsToPts(p.Float("segmentTime", 0), t.Rate)
	if segPts < 1 {
		segPts = 1
	}

	rng := rand.New(rand.NewSource(seed))
	out := baseline(t.Total(), mean)
	for i := 0; i < t.StimPts; i += segPts {
		level := amplitude
		if rng.Float64() < 0.5 {
			level = -amplitude
		}
		for j := i; j < i+segPts && j < t.StimPts; j++ {
			out[t.PrePts+j] = mean + level
		}
	}
	return out, t.Rate, nil
}

// generateGaussianNoise emits band-limited Gaussian noise filtered at the
// exact active length, renormalized by the filter's energy so that the
// delivered standard deviation matches stDev regardless of bandwidth.
func generateGaussianNoise(p Params) ([]float64, float64, error) {
	return gaussianNoise(p, false)
}

// generateGaussianNoisePadded is the historical variant: the raw noise is
// zero-padded to the next power of two before filtering and no
// filter-energy renormalization is applied. Narrow bands therefore carry
// less power than requested, exactly as the original instruments did.
func generateGaussianNoisePadded(p Params) ([]float64, float64, error) {
	return gaussianNoise(p, true)
}

func gaussianNoise(p Params, padded bool) ([]float64, float64, error) {
	t, err := timing(p)
	if err != nil {
		return nil, 0, err
	}
	if t.StimPts == 0 {
		return baseline(t.Total(), p.Float("mean", 0)), t.Rate, nil
	}
	stDev, err := p.RequireFloat("stDev")
	if err != nil {
		return nil, 0, err
	}
	seed, err := p.RequireSeed()
	if err != nil {
		return nil, 0, err
	}
	mean := p.Float("mean", 0)
	lowFreq := p.Float("lowFreq", 0)
	highFreq := p.Float("highFreq", t.Rate/2)
	if highFreq < lowFreq {
		return nil, 0, fmt.Errorf("invalid band: lowFreq %v exceeds highFreq %v", lowFreq, highFreq)
	}

	n := t.StimPts
	if padded {
		n = nextPow2(t.StimPts)
	}

	rng := rand.New(rand.NewSource(seed))
	raw := make([]float64, n)
	for i := 0; i < t.StimPts; i++ {
		raw[i] = rng.NormFloat64()
	}
	// In the padded variant samples beyond stimPts stay zero.

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, raw)
	kept := 0
	for k := range coeff {
		freq := float64(k) * t.Rate / float64(n)
		if freq < lowFreq || freq > highFreq {
			coeff[k] = 0
		} else {
			kept++
		}
	}
	filtered := fft.Sequence(nil, coeff)
	// gonum's inverse transform is unnormalized.
	inv := 1.0 / float64(n)
	for i := range filtered {
		filtered[i] *= inv
	}

	scale := stDev
	if !padded {
		// Compensate for the variance removed by the band-pass so the
		// output standard deviation matches the request.
		frac := float64(kept) / float64(len(coeff))
		if frac > 0 {
			scale = stDev / math.Sqrt(frac)
		}
	}

	out := baseline(t.Total(), mean)
	for i := 0; i < t.StimPts; i++ {
		out[t.PrePts+i] = mean + scale*filtered[i]
	}
	return out, t.Rate, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
