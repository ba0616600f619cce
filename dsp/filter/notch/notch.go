// Package notch provides a band-reject biquad parameterized by center
// frequency and bandwidth in octaves.
package notch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-acid/dsp/filter/biquad"
	"github.com/cwbudde/algo-acid/dsp/filter/design"
)

const (
	defaultFrequencyHz  = 1000.0
	defaultBandwidthOct = 1.0
	maxBandwidthOct     = 10.0
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	frequencyHz  float64
	bandwidthOct float64
}

func defaultConfig() config {
	return config{
		frequencyHz:  defaultFrequencyHz,
		bandwidthOct: defaultBandwidthOct,
	}
}

// WithFrequencyHz sets the rejection center. Must be finite and > 0.
func WithFrequencyHz(hz float64) Option {
	return func(cfg *config) error {
		if err := validateFrequency(hz); err != nil {
			return err
		}

		cfg.frequencyHz = hz

		return nil
	}
}

// WithBandwidthOct sets the -3 dB width in octaves, in (0, 10].
func WithBandwidthOct(octaves float64) Option {
	return func(cfg *config) error {
		if err := validateBandwidth(octaves); err != nil {
			return err
		}

		cfg.bandwidthOct = octaves

		return nil
	}
}

// Filter is a band-reject biquad.
type Filter struct {
	sampleRate   float64
	frequencyHz  float64
	bandwidthOct float64

	section biquad.Section
}

// New constructs a band-reject filter at sampleRate. The center must lie
// below Nyquist.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
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
		frequencyHz:  cfg.frequencyHz,
		bandwidthOct: cfg.bandwidthOct,
	}

	if err := f.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// FrequencyHz returns the rejection center in Hz.
func (f *Filter) FrequencyHz() float64 { return f.frequencyHz }

// BandwidthOct returns the rejection width in octaves.
func (f *Filter) BandwidthOct() float64 { return f.bandwidthOct }

// Coefficients returns the current biquad coefficients.
func (f *Filter) Coefficients() biquad.Coefficients { return f.section.Coefficients }

// SetSampleRate recomputes the coefficients. The delay line is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("notch: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if f.frequencyHz >= sampleRate/2 {
		return fmt.Errorf("notch: frequency must be < Nyquist (%f Hz): %f", sampleRate/2, f.frequencyHz)
	}

	f.sampleRate = sampleRate
	f.update()

	return nil
}

// SetFrequencyHz moves the rejection center.
func (f *Filter) SetFrequencyHz(hz float64) error {
	if err := validateFrequency(hz); err != nil {
		return err
	}

	if hz >= f.sampleRate/2 {
		return fmt.Errorf("notch: frequency must be < Nyquist (%f Hz): %f", f.sampleRate/2, hz)
	}

	f.frequencyHz = hz
	f.update()

	return nil
}

// SetBandwidthOct changes the rejection width.
func (f *Filter) SetBandwidthOct(octaves float64) error {
	if err := validateBandwidth(octaves); err != nil {
		return err
	}

	f.bandwidthOct = octaves
	f.update()

	return nil
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	return f.section.ProcessSample(x)
}

// ProcessInPlace filters buf in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	f.section.ProcessBlock(buf)
}

// Reset clears the delay line.
func (f *Filter) Reset() { f.section.Reset() }

// State returns the biquad delay line.
func (f *Filter) State() [2]float64 { return f.section.State() }

// SetState restores a saved delay line.
func (f *Filter) SetState(state [2]float64) { f.section.SetState(state) }

// MagnitudeDB returns the magnitude response at freqHz in dB.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return f.section.MagnitudeDB(freqHz, f.sampleRate)
}

func (f *Filter) update() {
	f.section.SetCoefficients(design.Bandreject(f.frequencyHz, f.bandwidthOct, f.sampleRate))
}

func validateFrequency(hz float64) error {
	if !isFinite(hz) || hz <= 0 {
		return fmt.Errorf("notch: frequency must be > 0 and finite: %f", hz)
	}

	return nil
}

func validateBandwidth(octaves float64) error {
	if !isFinite(octaves) || octaves <= 0 || octaves > maxBandwidthOct {
		return fmt.Errorf("notch: bandwidth must be in (0, %g] octaves: %f", maxBandwidthOct, octaves)
	}

	return nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
