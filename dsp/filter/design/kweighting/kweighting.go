package kweighting

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-loudness/dsp/filter/biquad"
)

// MinSampleRate is the lowest sample rate (Hz) for which the bilinear
// pre-warp of the shelf stage remains well conditioned.
const MinSampleRate = 8000.0

// BS.1770 analog prototype parameters.
const (
	shelfFreq   = 1681.974450955533
	shelfGainDB = 3.999843853973347
	shelfQ      = 0.7071752369554196

	// Exponent relating the shelf band gain to the plateau gain in the
	// BS.1770 prototype.
	shelfBandExp = 0.4996667741545416

	highpassFreq = 38.13547087602444
	highpassQ    = 0.5003270373238773
)

// ErrSampleRate indicates a sample rate below MinSampleRate.
var ErrSampleRate = errors.New("kweighting: sample rate below minimum")

// Shelf computes the stage-1 high-shelf coefficients for the given
// sample rate using the bilinear transform with pre-warping.
func Shelf(sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * shelfFreq / sampleRate)
	k2 := k * k

	vh := math.Pow(10, shelfGainDB/20)
	vb := math.Pow(vh, shelfBandExp)

	d := 1 + k/shelfQ + k2

	return biquad.Coefficients{
		B0: (vh + vb*k/shelfQ + k2) / d,
		B1: 2 * (k2 - vh) / d,
		B2: (vh - vb*k/shelfQ + k2) / d,
		A1: 2 * (k2 - 1) / d,
		A2: (1 - k/shelfQ + k2) / d,
	}
}

// Highpass computes the stage-2 RLB high-pass coefficients for the
// given sample rate.
//
// The prototype numerator is exactly {1, -2, 1}; only the denominator
// is derived from the warped pole. This keeps the slight above-unity
// high-frequency gain that the 0.691 LUFS offset calibrates against.
func Highpass(sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * highpassFreq / sampleRate)
	k2 := k * k

	d := 1 + k/highpassQ + k2

	return biquad.Coefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k2 - 1) / d,
		A2: (1 - k/highpassQ + k2) / d,
	}
}

// Design returns the two-section K-weighting cascade coefficients for
// the given sample rate, shelf first.
func Design(sampleRate float64) ([]biquad.Coefficients, error) {
	if sampleRate < MinSampleRate {
		return nil, ErrSampleRate
	}

	return []biquad.Coefficients{
		Shelf(sampleRate),
		Highpass(sampleRate),
	}, nil
}

// New returns a ready-to-run K-weighting [biquad.Chain] for the given
// sample rate.
func New(sampleRate float64) (*biquad.Chain, error) {
	coeffs, err := Design(sampleRate)
	if err != nil {
		return nil, err
	}

	return biquad.NewChain(coeffs), nil
}
