package pass

import (
	"math"

	"github.com/cwbudde/algo-acid/dsp/filter/biquad"
)

// pole is one analog prototype pole -Sigma + j*Omega normalized to a 1 rad/s
// cutoff. Omega == 0 marks the real pole of an odd order.
type pole struct {
	Sigma, Omega float64
}

// ButterworthLP designs a lowpass Butterworth cascade with -3 dB at freq.
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return nil
	}

	poles := make([]pole, 0, (order+1)/2)
	for i := 1; i <= order/2; i++ {
		theta := math.Pi * float64(2*i-1) / (2 * float64(order))
		poles = append(poles, pole{Sigma: math.Sin(theta), Omega: math.Cos(theta)})
	}

	if order%2 != 0 {
		poles = append(poles, pole{Sigma: 1})
	}

	return sectionsFromPoles(poles, k)
}

// Chebyshev1LP designs a lowpass Chebyshev type I cascade. The passband
// ripples between 0 and -rippleDB up to freq, the ripple band edge.
// A non-positive ripple defaults to 1 dB.
func Chebyshev1LP(freq float64, order int, rippleDB, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return nil
	}

	if !(rippleDB > 0) || math.IsInf(rippleDB, 0) {
		rippleDB = 1
	}

	eps := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	v := math.Asinh(1/eps) / float64(order)
	sh, ch := math.Sinh(v), math.Cosh(v)

	poles := make([]pole, 0, (order+1)/2)
	for i := 1; i <= order/2; i++ {
		theta := math.Pi * float64(2*i-1) / (2 * float64(order))
		poles = append(poles, pole{Sigma: sh * math.Sin(theta), Omega: ch * math.Cos(theta)})
	}

	if order%2 != 0 {
		poles = append(poles, pole{Sigma: sh})
	}

	sections := sectionsFromPoles(poles, k)

	// Even orders have unity gain at DC from each section; the ripple
	// maximum must sit at 0 dB instead.
	if order%2 == 0 {
		g := math.Pow(10, -rippleDB/20)
		sections[0].B0 *= g
		sections[0].B1 *= g
		sections[0].B2 *= g
	}

	return sections
}

func sectionsFromPoles(poles []pole, k float64) []biquad.Coefficients {
	sections := make([]biquad.Coefficients, 0, len(poles))
	for _, p := range poles {
		if p.Omega == 0 {
			sections = append(sections, firstOrderLP(p.Sigma, k))
			continue
		}

		w := math.Hypot(p.Sigma, p.Omega)
		q := w / (2 * p.Sigma)
		sections = append(sections, secondOrderLP(w, q, k))
	}

	return sections
}

// secondOrderLP maps w^2 / (s^2 + (w/q)s + w^2) through the bilinear
// transform with warping factor k.
func secondOrderLP(w, q, k float64) biquad.Coefficients {
	wk := w * k
	wk2 := wk * wk
	a0 := 1 + wk/q + wk2
	inv := 1 / a0

	return biquad.Coefficients{
		B0: wk2 * inv,
		B1: 2 * wk2 * inv,
		B2: wk2 * inv,
		A1: (2*wk2 - 2) * inv,
		A2: (1 - wk/q + wk2) * inv,
	}
}

// firstOrderLP maps w / (s + w) through the bilinear transform.
func firstOrderLP(w, k float64) biquad.Coefficients {
	wk := w * k
	inv := 1 / (1 + wk)

	return biquad.Coefficients{
		B0: wk * inv,
		B1: wk * inv,
		A1: (wk - 1) * inv,
	}
}

// bilinearK returns tan(pi*freq/sampleRate), or false when freq is not
// strictly inside (0, Nyquist).
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if !(sampleRate > 0) || !(freq > 0) || freq >= sampleRate/2 ||
		math.IsInf(sampleRate, 0) || math.IsInf(freq, 0) {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}
