package design

import (
	"math"

	"github.com/cwbudde/algo-acid/dsp/filter/biquad"
)

// Bandreject designs a notch biquad whose width is given in octaves between
// the -3 dB edges. The bilinear warping of the bandwidth is compensated.
func Bandreject(freq, bandwidthOct, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok || !(bandwidthOct > 0) || math.IsInf(bandwidthOct, 0) {
		return biquad.Coefficients{}
	}

	sw := math.Sin(w0)
	alpha := sw * math.Sinh(math.Ln2/2*bandwidthOct*w0/sw)

	return notchAlpha(w0, alpha)
}

func notchAlpha(w0, alpha float64) biquad.Coefficients {
	cw := math.Cos(w0)
	return normalizeBiquad(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
