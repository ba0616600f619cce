package level

import (
	"math"

	"github.com/cwbudde/algo-acid/dsp/core"
)

// Stats holds time-domain level statistics. Non-finite samples are counted
// in NonFinite and excluded from every other field.
//
//nolint:revive
type Stats struct {
	Length         int
	NonFinite      int
	DC             float64 // mean
	DC_dB          float64
	RMS            float64
	RMS_dB         float64
	Peak           float64
	PeakPos        int
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS
	CrestFactor_dB float64
	Energy         float64 // sum of squares
	Variance       float64
	ZeroCrossings  int
	MaxStep        float64 // largest |x[n] - x[n-1]|
}

// Finite reports whether no NaN or Inf sample was seen.
func (s Stats) Finite() bool { return s.NonFinite == 0 }

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	var m Meter
	m.Update(signal)

	return m.Result()
}

// Meter accumulates level statistics across blocks. The zero value is
// ready to use.
type Meter struct {
	n         int // finite samples
	nonFinite int
	mean      float64
	m2        float64
	sumSq     float64
	peak      float64
	peakPos   int
	crossings int
	maxStep   float64
	pos       int
	last      float64
	hasLast   bool
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		pos := m.pos
		m.pos++

		if !core.IsFinite(x) {
			m.nonFinite++
			continue
		}

		// Welford.
		m.n++
		delta := x - m.mean
		m.mean += delta / float64(m.n)
		m.m2 += delta * (x - m.mean)

		m.sumSq += x * x

		if a := math.Abs(x); a > m.peak {
			m.peak = a
			m.peakPos = pos
		}

		if m.hasLast {
			if m.last*x < 0 {
				m.crossings++
			}

			if step := math.Abs(x - m.last); step > m.maxStep {
				m.maxStep = step
			}
		}

		m.last = x
		m.hasLast = true
	}
}

// Reset clears all accumulated data.
func (m *Meter) Reset() { *m = Meter{} }

// Result returns the statistics of everything seen since the last Reset.
func (m *Meter) Result() Stats {
	s := Stats{
		Length:         m.pos,
		NonFinite:      m.nonFinite,
		DC_dB:          math.Inf(-1),
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
	if m.n == 0 {
		return s
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	s.DC = m.mean
	s.DC_dB = core.LinearToDB(math.Abs(m.mean))
	s.RMS = rms
	s.RMS_dB = core.LinearToDB(rms)
	s.Peak = m.peak
	s.PeakPos = m.peakPos
	s.Peak_dB = core.LinearToDB(m.peak)
	s.Energy = m.sumSq
	s.Variance = m.m2 / nf
	s.ZeroCrossings = m.crossings
	s.MaxStep = m.maxStep

	if rms > 0 {
		s.CrestFactor = m.peak / rms
		s.CrestFactor_dB = core.LinearToDB(s.CrestFactor)
	}

	return s
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// SettleIndex returns the first index from which every sample stays within
// ±threshold. A signal that never settles returns len(signal).
func SettleIndex(signal []float64, threshold float64) int {
	for i := len(signal) - 1; i >= 0; i-- {
		if !(math.Abs(signal[i]) <= threshold) {
			return i + 1
		}
	}

	return 0
}

// TailEnergyRatio returns the energy of the final tailFraction of signal
// divided by the total energy. It is 0 for silence and grows towards
// tailFraction for signals that do not decay.
func TailEnergyRatio(signal []float64, tailFraction float64) float64 {
	tailFraction = core.Clamp(tailFraction, 0, 1)
	start := len(signal) - int(math.Round(tailFraction*float64(len(signal))))

	var total, tail float64
	for i, x := range signal {
		e := x * x
		total += e

		if i >= start {
			tail += e
		}
	}

	if total == 0 {
		return 0
	}

	return tail / total
}
