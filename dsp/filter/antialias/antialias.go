// Package antialias provides the steep lowpass that band-limits an
// oversampled signal before it is decimated back to the base rate.
//
// The filter runs at the oversampled rate and places its edge relative to
// the base-rate Nyquist frequency: edge * oversampledRate / (2 * factor).
package antialias

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-acid/dsp/filter/biquad"
	"github.com/cwbudde/algo-acid/dsp/filter/design/pass"
)

const (
	defaultOrder    = 8
	defaultRippleDB = 0.1
	defaultEdge     = 0.9

	maxOrder  = 16
	maxFactor = 16
)

// Design selects the lowpass prototype.
type Design int

const (
	// DesignChebyshev1 is an equiripple-passband Chebyshev type I cascade.
	DesignChebyshev1 Design = iota
	// DesignButterworth is a maximally flat Butterworth cascade.
	DesignButterworth
)

func (d Design) String() string {
	switch d {
	case DesignChebyshev1:
		return "chebyshev1"
	case DesignButterworth:
		return "butterworth"
	default:
		return "unknown"
	}
}

// ParseDesign maps a design name to a Design.
func ParseDesign(name string) (Design, error) {
	switch name {
	case "chebyshev1", "cheby1":
		return DesignChebyshev1, nil
	case "butterworth", "butter":
		return DesignButterworth, nil
	default:
		return 0, fmt.Errorf("antialias: unknown design %q", name)
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	design   Design
	order    int
	rippleDB float64
	edge     float64
}

func defaultConfig() config {
	return config{
		design:   DesignChebyshev1,
		order:    defaultOrder,
		rippleDB: defaultRippleDB,
		edge:     defaultEdge,
	}
}

// WithDesign selects the prototype.
func WithDesign(design Design) Option {
	return func(cfg *config) error {
		if design != DesignChebyshev1 && design != DesignButterworth {
			return fmt.Errorf("antialias: invalid design: %d", design)
		}

		cfg.design = design

		return nil
	}
}

// WithOrder sets the filter order in [1, 16].
func WithOrder(order int) Option {
	return func(cfg *config) error {
		if order < 1 || order > maxOrder {
			return fmt.Errorf("antialias: order must be in [1, %d]: %d", maxOrder, order)
		}

		cfg.order = order

		return nil
	}
}

// WithRippleDB sets the Chebyshev passband ripple in (0, 3] dB.
func WithRippleDB(rippleDB float64) Option {
	return func(cfg *config) error {
		if !isFinite(rippleDB) || rippleDB <= 0 || rippleDB > 3 {
			return fmt.Errorf("antialias: ripple must be in (0, 3] dB: %f", rippleDB)
		}

		cfg.rippleDB = rippleDB

		return nil
	}
}

// WithEdge places the passband edge as a fraction of the base-rate Nyquist
// frequency, in (0, 1).
func WithEdge(edge float64) Option {
	return func(cfg *config) error {
		if !isFinite(edge) || edge <= 0 || edge >= 1 {
			return fmt.Errorf("antialias: edge must be in (0, 1): %f", edge)
		}

		cfg.edge = edge

		return nil
	}
}

// Filter is a biquad-cascade lowpass running at the oversampled rate.
type Filter struct {
	cfg        config
	factor     int
	sampleRate float64
	cutoffHz   float64

	chain *biquad.Chain
}

// New constructs an anti-alias filter for a signal at oversampledRate that
// is oversampled by factor.
func New(oversampledRate float64, factor int, opts ...Option) (*Filter, error) {
	if factor < 1 || factor > maxFactor {
		return nil, fmt.Errorf("antialias: factor must be in [1, %d]: %d", maxFactor, factor)
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

	f := &Filter{cfg: cfg, factor: factor}
	if err := f.SetSampleRate(oversampledRate); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleRate returns the oversampled rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Factor returns the oversampling factor.
func (f *Filter) Factor() int { return f.factor }

// CutoffHz returns the passband edge in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Design returns the prototype.
func (f *Filter) Design() Design { return f.cfg.design }

// Order returns the filter order.
func (f *Filter) Order() int { return f.cfg.order }

// SetSampleRate redesigns the cascade for a new oversampled rate. Section
// state is kept.
func (f *Filter) SetSampleRate(oversampledRate float64) error {
	if !isFinite(oversampledRate) || oversampledRate <= 0 {
		return fmt.Errorf("antialias: sample rate must be > 0 and finite: %f", oversampledRate)
	}

	cutoff := f.cfg.edge * oversampledRate / (2 * float64(f.factor))

	var coeffs []biquad.Coefficients

	switch f.cfg.design {
	case DesignButterworth:
		coeffs = pass.ButterworthLP(cutoff, f.cfg.order, oversampledRate)
	default:
		coeffs = pass.Chebyshev1LP(cutoff, f.cfg.order, f.cfg.rippleDB, oversampledRate)
	}

	if len(coeffs) == 0 {
		return fmt.Errorf("antialias: cannot design %s lowpass at %f Hz for rate %f", f.cfg.design, cutoff, oversampledRate)
	}

	if f.chain == nil {
		f.chain = biquad.NewChain(coeffs)
	} else {
		f.chain.UpdateCoefficients(coeffs, 1)
	}

	f.sampleRate = oversampledRate
	f.cutoffHz = cutoff

	return nil
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	return f.chain.ProcessSample(x)
}

// ProcessInPlace filters buf in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	f.chain.ProcessBlock(buf)
}

// Reset clears all section state.
func (f *Filter) Reset() { f.chain.Reset() }

// State returns a snapshot of every section's delay line.
func (f *Filter) State() [][2]float64 { return f.chain.State() }

// SetState restores a snapshot taken with State.
func (f *Filter) SetState(state [][2]float64) error {
	if len(state) != f.chain.NumSections() {
		return fmt.Errorf("antialias: state has %d sections, want %d", len(state), f.chain.NumSections())
	}

	f.chain.SetState(state)

	return nil
}

// MagnitudeDB returns the cascade magnitude response at freqHz in dB.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return f.chain.MagnitudeDB(freqHz, f.sampleRate)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
