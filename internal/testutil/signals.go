// Package testutil holds deterministic signals and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates amplitude*sin(2*pi*freqHz*n/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at pos. Out-of-range positions yield
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// ControlSweep returns per-sample cutoff and resonance streams: cutoff
// rises exponentially from loHz to hiHz, resonance cycles three times
// through [0, 1].
func ControlSweep(length int, loHz, hiHz float64) (cutoff, resonance []float64) {
	cutoff = make([]float64, length)
	resonance = make([]float64, length)

	for i := range length {
		phase := float64(i) / float64(max(1, length))
		cutoff[i] = loHz * math.Pow(hiHz/loHz, phase)
		resonance[i] = 0.5 - 0.5*math.Cos(2*math.Pi*3*phase)
	}

	return cutoff, resonance
}

// Energy returns the sum of squares of data.
func Energy(data []float64) float64 {
	var e float64
	for _, v := range data {
		e += v * v
	}

	return e
}
