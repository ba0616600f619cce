// Package onepole provides first-order IIR filters: lowpass, highpass and
// allpass in a single recursive structure.
//
// The lowpass and highpass place the pole by impulse invariance
// (p = exp(-2*pi*fc/fs)); the allpass uses the bilinear coefficient
// (tan(pi*fc/fs) - 1) / (tan(pi*fc/fs) + 1). All modes evaluate
//
//	y[n] = b0*x[n] + b1*x[n-1] + a1*y[n-1]
package onepole

import (
	"fmt"
	"math"
)

const (
	defaultCutoffHz = 1000.0
	// Allpass coefficients use tan(pi*fc/fs); keep fc a hair below Nyquist.
	maxCutoffRatio = 0.4999
)

// Mode selects the transfer function.
type Mode int

const (
	// ModeBypass passes input through unchanged.
	ModeBypass Mode = iota
	// ModeLowpass is a 6 dB/oct lowpass with unity DC gain.
	ModeLowpass
	// ModeHighpass is a 6 dB/oct highpass with unity Nyquist gain.
	ModeHighpass
	// ModeAllpass is a first-order allpass with -90 degrees at the cutoff.
	ModeAllpass
)

func (m Mode) String() string {
	switch m {
	case ModeBypass:
		return "bypass"
	case ModeLowpass:
		return "lowpass"
	case ModeHighpass:
		return "highpass"
	case ModeAllpass:
		return "allpass"
	default:
		return "unknown"
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	mode     Mode
	cutoffHz float64
}

func defaultConfig() config {
	return config{
		mode:     ModeLowpass,
		cutoffHz: defaultCutoffHz,
	}
}

// WithMode selects the filter mode.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if !validMode(mode) {
			return fmt.Errorf("onepole: invalid mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithCutoffHz sets the corner frequency. Must be finite and > 0.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if !isFinite(cutoffHz) || cutoffHz <= 0 {
			return fmt.Errorf("onepole: cutoff must be > 0 and finite: %f", cutoffHz)
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// State is the filter memory for save/restore workflows.
type State struct {
	X1, Y1 float64
}

// Filter is a first-order IIR filter.
type Filter struct {
	sampleRate float64
	mode       Mode
	cutoffHz   float64

	b0, b1, a1 float64

	state State
}

// New constructs a one-pole filter at sampleRate.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("onepole: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		sampleRate: sampleRate,
		mode:       cfg.mode,
		cutoffHz:   cfg.cutoffHz,
	}
	f.calcCoeffs()

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Mode returns the filter mode.
func (f *Filter) Mode() Mode { return f.mode }

// CutoffHz returns the corner frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Coefficients returns b0, b1 and a1.
func (f *Filter) Coefficients() (b0, b1, a1 float64) { return f.b0, f.b1, f.a1 }

// SetSampleRate recomputes the coefficients for a new rate. The filter
// memory is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("onepole: sample rate must be > 0 and finite: %f", sampleRate)
	}

	f.sampleRate = sampleRate
	f.calcCoeffs()

	return nil
}

// SetMode switches the transfer function.
func (f *Filter) SetMode(mode Mode) error {
	if !validMode(mode) {
		return fmt.Errorf("onepole: invalid mode: %d", mode)
	}

	f.mode = mode
	f.calcCoeffs()

	return nil
}

// SetCutoffHz moves the corner frequency. Values above Nyquist are limited
// when the coefficients are computed.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	if !isFinite(cutoffHz) || cutoffHz <= 0 {
		return fmt.Errorf("onepole: cutoff must be > 0 and finite: %f", cutoffHz)
	}

	f.cutoffHz = cutoffHz
	f.calcCoeffs()

	return nil
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	y := f.b0*x + f.b1*f.state.X1 + f.a1*f.state.Y1
	f.state.X1 = x
	f.state.Y1 = y

	return y
}

// Reset clears the filter memory. Coefficients are kept.
func (f *Filter) Reset() {
	f.state = State{}
}

// State returns a copy of the filter memory.
func (f *Filter) State() State { return f.state }

// SetState restores a previously saved filter memory.
func (f *Filter) SetState(state State) {
	f.state = state
}

// MagnitudeDB returns the magnitude response at freqHz in dB.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	w := 2 * math.Pi * freqHz / f.sampleRate
	cw, sw := math.Cos(w), math.Sin(w)

	// H(z) = (b0 + b1 z^-1) / (1 - a1 z^-1)
	nr, ni := f.b0+f.b1*cw, -f.b1*sw
	dr, di := 1-f.a1*cw, f.a1*sw

	return 10 * math.Log10((nr*nr+ni*ni)/(dr*dr+di*di))
}

func (f *Filter) calcCoeffs() {
	fc := math.Min(f.cutoffHz, maxCutoffRatio*f.sampleRate)

	switch f.mode {
	case ModeLowpass:
		x := math.Exp(-2 * math.Pi * fc / f.sampleRate)
		f.b0, f.b1, f.a1 = 1-x, 0, x
	case ModeHighpass:
		x := math.Exp(-2 * math.Pi * fc / f.sampleRate)
		f.b0, f.b1, f.a1 = 0.5*(1+x), -0.5*(1+x), x
	case ModeAllpass:
		t := math.Tan(math.Pi * fc / f.sampleRate)
		x := (t - 1) / (t + 1)
		f.b0, f.b1, f.a1 = x, 1, -x
	default:
		f.b0, f.b1, f.a1 = 1, 0, 0
	}
}

func validMode(mode Mode) bool {
	return mode >= ModeBypass && mode <= ModeAllpass
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
