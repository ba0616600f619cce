package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-acid/dsp/core"
)

// DecayEnvelope generates an exponential decay retriggered every stepSec
// seconds: 1 at each trigger, falling by 1/e every decaySec seconds.
func (g *Generator) DecayEnvelope(stepSec, decaySec float64, samples int) ([]float64, error) {
	if err := g.check("envelope", samples); err != nil {
		return nil, err
	}

	if !(stepSec > 0) || !(decaySec > 0) {
		return nil, fmt.Errorf("envelope step and decay must be > 0: %f, %f", stepSec, decaySec)
	}

	out := make([]float64, samples)

	stepLen := max(1, int(math.Round(stepSec*g.cfg.SampleRate)))
	mul := math.Exp(-1 / (decaySec * g.cfg.SampleRate))

	env := 1.0
	for i := range out {
		if i%stepLen == 0 {
			env = 1
		}

		out[i] = env
		env *= mul
	}

	return out, nil
}

// LFO generates center + depth*sin(2*pi*freqHz*t).
func (g *Generator) LFO(freqHz, center, depth float64, samples int) ([]float64, error) {
	s, err := g.Sine(freqHz, depth, samples)
	if err != nil {
		return nil, err
	}

	for i := range s {
		s[i] += center
	}

	return s, nil
}

// Sequence generates a saw that steps through notesHz, one note every
// stepSec seconds, wrapping around. The phase runs on across note changes.
func (g *Generator) Sequence(notesHz []float64, stepSec, amplitude float64, samples int) ([]float64, error) {
	if err := g.check("sequence", samples); err != nil {
		return nil, err
	}

	if len(notesHz) == 0 {
		return nil, fmt.Errorf("sequence needs at least one note")
	}

	if !(stepSec > 0) {
		return nil, fmt.Errorf("sequence step must be > 0: %f", stepSec)
	}

	out := make([]float64, samples)

	stepLen := max(1, int(math.Round(stepSec*g.cfg.SampleRate)))
	phase := 0.0

	for i := range out {
		out[i] = amplitude * (2*phase - 1)

		phase += notesHz[(i/stepLen)%len(notesHz)] / g.cfg.SampleRate
		phase -= math.Floor(phase)
	}

	return out, nil
}

// ExpSweep maps an envelope in [0, 1] to baseHz * 2^(octaves*env).
func ExpSweep(env []float64, baseHz, octaves float64) []float64 {
	out := make([]float64, len(env))
	for i, e := range env {
		out[i] = baseHz * math.Exp2(octaves*e)
	}

	return out
}

// Clamp limits every value of data to [lo, hi] in place.
func Clamp(data []float64, lo, hi float64) {
	for i, v := range data {
		data[i] = core.Clamp(v, lo, hi)
	}
}

// Fill returns a slice of n copies of value.
func Fill(value float64, n int) []float64 {
	out := make([]float64, n)
	core.Fill(out, value)

	return out
}
